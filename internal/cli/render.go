package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scipopt/stairheur/pkg/detection"
	"github.com/scipopt/stairheur/pkg/pipeline"
)

// renderCommand creates the render command for producing decomposition artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		configPath string
		noCache    bool
	)
	opts := pipeline.Options{Detect: detection.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "render [file.mps]",
		Short: "Render a detected decomposition to SVG, DEC, and friends",
		Long: `Render a detected decomposition.

The render command runs the full read → detect → render pipeline and writes
the requested artifact formats:

  svg    permuted nonzero pattern with block outlines (also: png, pdf)
  dot    block coupling graph as Graphviz source
  graph  block coupling graph rendered to SVG
  dec    GCG-compatible decomposition file
  json   full detection result

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := applyConfig(cmd, configPath, &opts); err != nil {
				return err
			}
			opts.Input = args[0]
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, graph, dec, json (comma-separated)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML parameter file (flags override file values)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")
	cmd.Flags().IntVar(&opts.CellSize, "cell-size", opts.CellSize, "matrix plot cell size in pixels (0 = default)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", opts.Detailed, "label coupling edges with variable names")
	registerDetectFlags(cmd, &opts.Detect)

	return cmd
}

// runRender executes the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinner(ctx, "Rendering decomposition...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Rendering complete")
	if err := writeArtifacts(result.Artifacts, opts.Formats, opts.Input, output); err != nil {
		return err
	}
	printStats(result.Stats.NConss, result.Stats.NVars, result.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes each rendered format to its own file. With a single
// format the output path is used as-is; with several, format extensions are
// appended to the base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	if len(formats) == 1 {
		path := output
		if path == "" {
			path = basePath("", input) + "." + formats[0]
		}
		if err := writeFile(path, artifacts[formats[0]]); err != nil {
			return err
		}
		printFile(path)
		return nil
	}

	base := basePath(output, input)
	for _, format := range formats {
		path := base + "." + format
		if err := writeFile(path, artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output ends in a
// known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is "-", it returns os.Stdout wrapped in nopCloser.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return fmt.Errorf("open output %s: %w", path, err)
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
