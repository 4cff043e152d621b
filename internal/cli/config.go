package cli

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/scipopt/stairheur/pkg/errors"
	"github.com/scipopt/stairheur/pkg/pipeline"
)

// fileConfig mirrors the detector parameter table plus render settings in
// TOML form. Pointer fields distinguish "absent" from an explicit zero.
//
// Example file:
//
//	maxblocks = 10
//	static = true
//	multiple = true
//	cellsize = 12
type fileConfig struct {
	MaxBlocks     *int  `toml:"maxblocks"`
	MinBlocks     *int  `toml:"minblocks"`
	DesiredBlocks *int  `toml:"desiredblocks"`
	MaxIterations *int  `toml:"maxiterations"`
	Dynamic       *bool `toml:"dynamic"`
	Static        *bool `toml:"static"`
	ASAP          *bool `toml:"asap"`
	Multiple      *bool `toml:"multiple"`

	CellSize *int  `toml:"cellsize"`
	Detailed *bool `toml:"detailed"`
}

// loadConfig reads a TOML parameter file.
func loadConfig(path string) (*fileConfig, error) {
	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "load config %s", path)
	}
	return &cfg, nil
}

// applyConfig layers a parameter file under the command-line flags: file
// values fill in options whose flag the user did not set explicitly.
// A missing path is a no-op.
func applyConfig(cmd *cobra.Command, path string, opts *pipeline.Options) error {
	if path == "" {
		return nil
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	setInt := func(flag string, dst *int, src *int) {
		if src != nil && !flags.Changed(flag) {
			*dst = *src
		}
	}
	setBool := func(flag string, dst *bool, src *bool) {
		if src != nil && !flags.Changed(flag) {
			*dst = *src
		}
	}

	setInt("maxblocks", &opts.Detect.MaxBlocks, cfg.MaxBlocks)
	setInt("minblocks", &opts.Detect.MinBlocks, cfg.MinBlocks)
	setInt("desiredblocks", &opts.Detect.DesiredBlocks, cfg.DesiredBlocks)
	setInt("maxiterations", &opts.Detect.MaxIterations, cfg.MaxIterations)
	setBool("dynamic", &opts.Detect.Dynamic, cfg.Dynamic)
	setBool("static", &opts.Detect.Static, cfg.Static)
	setBool("asap", &opts.Detect.ASAP, cfg.ASAP)
	setBool("multiple", &opts.Detect.Multiple, cfg.Multiple)

	setInt("cell-size", &opts.CellSize, cfg.CellSize)
	setBool("detailed", &opts.Detailed, cfg.Detailed)

	return nil
}
