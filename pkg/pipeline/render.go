package pipeline

import (
	"bytes"

	"github.com/scipopt/stairheur/pkg/detection"
	"github.com/scipopt/stairheur/pkg/errors"
	stairio "github.com/scipopt/stairheur/pkg/io"
	"github.com/scipopt/stairheur/pkg/model"
	"github.com/scipopt/stairheur/pkg/render"
)

// renderArtifacts produces every requested format for one detection result.
// The JSON format reports any outcome; all other formats need at least one
// decomposition and render the first (primary) one.
func renderArtifacts(p *model.Problem, res *detection.Result, opts Options) (map[string][]byte, error) {
	var primary *detection.Decomposition
	if len(res.Decompositions) > 0 {
		primary = res.Decompositions[0]
	}

	artifacts := make(map[string][]byte, len(opts.Formats))

	// The PNG and PDF conversions share one matrix SVG.
	var matrixSVG []byte
	matrix := func() ([]byte, error) {
		if matrixSVG != nil {
			return matrixSVG, nil
		}
		mopts := render.DefaultMatrixOptions()
		mopts.CellSize = opts.CellSize
		svg, err := render.MatrixSVG(p, primary, mopts)
		if err != nil {
			return nil, err
		}
		matrixSVG = svg
		return svg, nil
	}

	for _, format := range opts.Formats {
		if format != FormatJSON && primary == nil {
			return nil, errors.New(errors.ErrCodeNotFound,
				"no decomposition available to render %s output (status %s)", format, res.Status)
		}

		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			if err := stairio.WriteJSON(res, &buf); err != nil {
				return nil, err
			}
			artifacts[format] = buf.Bytes()

		case FormatDec:
			var buf bytes.Buffer
			if err := stairio.WriteDec(p, primary, &buf); err != nil {
				return nil, err
			}
			artifacts[format] = buf.Bytes()

		case FormatSVG:
			svg, err := matrix()
			if err != nil {
				return nil, err
			}
			artifacts[format] = svg

		case FormatPNG:
			svg, err := matrix()
			if err != nil {
				return nil, err
			}
			png, err := render.ToPNG(svg, DefaultPNGScale)
			if err != nil {
				return nil, err
			}
			artifacts[format] = png

		case FormatPDF:
			svg, err := matrix()
			if err != nil {
				return nil, err
			}
			pdf, err := render.ToPDF(svg)
			if err != nil {
				return nil, err
			}
			artifacts[format] = pdf

		case FormatDOT:
			dot := render.ToDOT(p, primary, render.BlockGraphOptions{Detailed: opts.Detailed})
			artifacts[format] = []byte(dot)

		case FormatGraph:
			dot := render.ToDOT(p, primary, render.BlockGraphOptions{Detailed: opts.Detailed})
			svg, err := render.RenderSVG(dot)
			if err != nil {
				return nil, err
			}
			artifacts[format] = svg

		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
		}
	}

	return artifacts, nil
}
