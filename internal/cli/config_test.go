package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/scipopt/stairheur/pkg/detection"
	"github.com/scipopt/stairheur/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stairheur.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func configCommand(t *testing.T, opts *pipeline.Options, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	registerDetectFlags(cmd, &opts.Detect)
	cmd.Flags().IntVar(&opts.CellSize, "cell-size", 0, "")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "")
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	return cmd
}

func TestApplyConfig(t *testing.T) {
	path := writeConfig(t, "maxblocks = 10\nstatic = true\nmultiple = true\ncellsize = 12\n")

	opts := pipeline.Options{Detect: detection.DefaultOptions()}
	cmd := configCommand(t, &opts)

	if err := applyConfig(cmd, path, &opts); err != nil {
		t.Fatalf("applyConfig() error = %v", err)
	}

	if opts.Detect.MaxBlocks != 10 {
		t.Errorf("MaxBlocks = %d, want 10", opts.Detect.MaxBlocks)
	}
	if !opts.Detect.Static || !opts.Detect.Multiple {
		t.Error("static and multiple should be enabled by the file")
	}
	if opts.CellSize != 12 {
		t.Errorf("CellSize = %d, want 12", opts.CellSize)
	}
	// Untouched fields keep their defaults.
	if !opts.Detect.Dynamic {
		t.Error("Dynamic should stay at its default")
	}
}

func TestApplyConfigFlagsWin(t *testing.T) {
	path := writeConfig(t, "maxblocks = 10\ndynamic = false\n")

	opts := pipeline.Options{Detect: detection.DefaultOptions()}
	cmd := configCommand(t, &opts, "--maxblocks", "6")

	if err := applyConfig(cmd, path, &opts); err != nil {
		t.Fatalf("applyConfig() error = %v", err)
	}

	if opts.Detect.MaxBlocks != 6 {
		t.Errorf("MaxBlocks = %d, explicit flag should win over the file", opts.Detect.MaxBlocks)
	}
	if opts.Detect.Dynamic {
		t.Error("Dynamic should be disabled by the file when the flag is unset")
	}
}

func TestApplyConfigMissingPathIsNoop(t *testing.T) {
	opts := pipeline.Options{Detect: detection.DefaultOptions()}
	cmd := configCommand(t, &opts)

	if err := applyConfig(cmd, "", &opts); err != nil {
		t.Errorf("applyConfig with empty path should be a no-op, got %v", err)
	}
}

func TestApplyConfigBadFile(t *testing.T) {
	path := writeConfig(t, "maxblocks = [not an int\n")

	opts := pipeline.Options{Detect: detection.DefaultOptions()}
	cmd := configCommand(t, &opts)

	if err := applyConfig(cmd, path, &opts); err == nil {
		t.Error("malformed TOML should fail")
	}
}
