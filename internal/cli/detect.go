package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scipopt/stairheur/pkg/detection"
	stairio "github.com/scipopt/stairheur/pkg/io"
	"github.com/scipopt/stairheur/pkg/pipeline"
)

// detectCommand creates the detect command for running staircase detection.
func (c *CLI) detectCommand() *cobra.Command {
	var (
		output      string
		decOutput   string
		configPath  string
		noCache     bool
		interactive bool
	)
	opts := pipeline.Options{Detect: detection.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "detect [file.mps]",
		Short: "Detect staircase structure in an MPS constraint matrix",
		Long: `Detect staircase structure in an MPS constraint matrix.

The detect command reads the constraint matrix of an MPS file, searches for
a row/column permutation exposing a staircase shape, and derives block
decompositions using the enabled blocking strategies.

Results are cached locally for faster subsequent runs.

Use 'render' to turn a detected decomposition into visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, configPath, &opts); err != nil {
				return err
			}
			opts.Input = args[0]
			return c.runDetect(cmd.Context(), opts, output, decOutput, noCache, interactive)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the full detection result as JSON")
	cmd.Flags().StringVar(&decOutput, "dec", "", "write the primary decomposition as a GCG .dec file")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML parameter file (flags override file values)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse decompositions interactively")
	registerDetectFlags(cmd, &opts.Detect)

	return cmd
}

// registerDetectFlags binds the detector parameter table to cobra flags.
// The flag names match the TOML parameter file keys.
func registerDetectFlags(cmd *cobra.Command, opts *detection.Options) {
	cmd.Flags().IntVar(&opts.MaxBlocks, "maxblocks", opts.MaxBlocks, "maximum number of blocks")
	cmd.Flags().IntVar(&opts.MinBlocks, "minblocks", opts.MinBlocks, "minimum number of blocks (multiple sweep)")
	cmd.Flags().IntVar(&opts.DesiredBlocks, "desiredblocks", opts.DesiredBlocks, "desired number of blocks (0 = derive from tau)")
	cmd.Flags().IntVar(&opts.MaxIterations, "maxiterations", opts.MaxIterations, "ROC iteration cap (-1 = unbounded)")
	cmd.Flags().BoolVar(&opts.Dynamic, "dynamic", opts.Dynamic, "enable the dynamic (constriction-based) strategy")
	cmd.Flags().BoolVar(&opts.Static, "static", opts.Static, "enable the static (even split) strategy")
	cmd.Flags().BoolVar(&opts.ASAP, "asap", opts.ASAP, "enable the as-soon-as-possible placeholder strategy")
	cmd.Flags().BoolVar(&opts.Multiple, "multiple", opts.Multiple, "sweep block counts from minblocks to maxblocks")
}

// runDetect reads the problem, runs detection, and reports the outcome.
func (c *CLI) runDetect(ctx context.Context, opts pipeline.Options, output, decOutput string, noCache, interactive bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	p, readHit, err := runner.ReadWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.Input, err)
	}

	spinner := newSpinner(ctx, "Detecting staircase structure...")
	spinner.Start()

	res, detectHit, err := runner.DetectWithCacheInfo(ctx, p, opts)
	if err != nil {
		spinner.StopWithError("Detection failed")
		return fmt.Errorf("detect: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printDetectionSummary(p, res)
	printStats(p.NumConss(), p.NumVars(), readHit && detectHit)

	if output != "" {
		if err := stairio.ExportJSON(res, output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printFile(output)
	}
	if decOutput != "" {
		if len(res.Decompositions) == 0 {
			return fmt.Errorf("no decomposition to write to %s", decOutput)
		}
		if err := stairio.ExportDec(p, res.Decompositions[0], decOutput); err != nil {
			return fmt.Errorf("write dec %s: %w", decOutput, err)
		}
		printFile(decOutput)
	}

	if interactive && len(res.Decompositions) > 0 {
		return browseDecompositions(p, res)
	}

	if res.Status == detection.StatusSuccess && output == "" && decOutput == "" {
		printNewline()
		printNextStep("Render", appName+" render "+opts.Input)
	}
	return nil
}
