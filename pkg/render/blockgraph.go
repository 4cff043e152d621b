package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/scipopt/stairheur/pkg/detection"
	"github.com/scipopt/stairheur/pkg/model"
)

// BlockGraphOptions configures block-graph rendering.
type BlockGraphOptions struct {
	// Detailed labels each coupling edge with the linking variable names.
	// When false, edges carry only the count.
	Detailed bool
}

// ToDOT converts a decomposition to Graphviz DOT format: one node per
// block labeled with its size, and one edge per pair of blocks that share
// at least one linking variable. The resulting DOT string can be rendered
// using [RenderSVG] or [RenderPNG].
func ToDOT(p *model.Problem, dec *detection.Decomposition, opts BlockGraphOptions) string {
	var buf bytes.Buffer
	buf.WriteString("graph blocks {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for k, block := range dec.Blocks {
		label := fmt.Sprintf("block %d\n%d conss, %d vars", k+1, len(block.Conss), len(block.Vars))
		fmt.Fprintf(&buf, "  b%d [label=%q];\n", k+1, label)
	}

	buf.WriteString("\n")
	for _, c := range couplings(p, dec) {
		attr := fmt.Sprintf("label=%q", strconv.Itoa(len(c.vars)))
		if opts.Detailed {
			attr = fmt.Sprintf("label=%q", strings.Join(c.vars, "\n"))
		}
		fmt.Fprintf(&buf, "  b%d -- b%d [%s];\n", c.a+1, c.b+1, attr)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type coupling struct {
	a, b int
	vars []string
}

// couplings lists the block pairs connected by linking variables, with the
// variable names that couple them, in ascending block order.
func couplings(p *model.Problem, dec *detection.Decomposition) []coupling {
	blockOf := make(map[int]int)
	for k, block := range dec.Blocks {
		for _, h := range block.Conss {
			blockOf[h] = k
		}
	}

	// Variable handle -> blocks whose constraints reference it.
	byPair := make(map[[2]int][]string)
	for _, varH := range dec.LinkingVars {
		var blocks []int
		for consH := 0; consH < p.NumConss(); consH++ {
			k, ok := blockOf[consH]
			if !ok || !slices.Contains(p.ConsVars(consH), varH) {
				continue
			}
			if !slices.Contains(blocks, k) {
				blocks = append(blocks, k)
			}
		}
		slices.Sort(blocks)
		name, err := p.VarName(varH)
		if err != nil {
			continue
		}
		for i := 0; i < len(blocks); i++ {
			for j := i + 1; j < len(blocks); j++ {
				pair := [2]int{blocks[i], blocks[j]}
				byPair[pair] = append(byPair[pair], name)
			}
		}
	}

	pairs := make([][2]int, 0, len(byPair))
	for pair := range byPair {
		pairs = append(pairs, pair)
	}
	slices.SortFunc(pairs, func(x, y [2]int) int {
		if x[0] != y[0] {
			return x[0] - y[0]
		}
		return x[1] - y[1]
	})

	out := make([]coupling, 0, len(pairs))
	for _, pair := range pairs {
		vars := byPair[pair]
		slices.Sort(vars)
		out = append(out, coupling{a: pair[0], b: pair[1], vars: vars})
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [ToPDF] or [ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return ToPNG(svg, scale)
}
