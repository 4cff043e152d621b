// Package pipeline provides the core detection pipeline for stairheur.
//
// This package implements the complete read → detect → render pipeline
// shared by the CLI and the HTTP server. Centralizing it keeps caching
// and option handling identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: Parse a constraint matrix from an MPS file or raw bytes
//  2. Detect: Search for a staircase structure and derive decompositions
//  3. Render: Generate output in various formats (SVG, DEC, JSON, ...)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "model.mps",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Read only
//	p, err := runner.Read(ctx, opts)
//
//	// Detect with an existing problem
//	res, err := runner.Detect(ctx, p, opts)
//
//	// Render with an existing result
//	artifacts, err := runner.Render(ctx, p, res, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/scipopt/stairheur/pkg/cache"
	"github.com/scipopt/stairheur/pkg/detection"
	"github.com/scipopt/stairheur/pkg/model"
	"github.com/scipopt/stairheur/pkg/render"
)

// DefaultPNGScale is the raster scale factor applied when converting the
// matrix SVG to PNG.
const DefaultPNGScale = 2.0

// Format constants for output formats.
const (
	FormatSVG   = "svg"   // matrix plot as SVG
	FormatPNG   = "png"   // matrix plot rasterized
	FormatPDF   = "pdf"   // matrix plot as PDF
	FormatDOT   = "dot"   // block coupling graph as Graphviz source
	FormatGraph = "graph" // block coupling graph rendered to SVG
	FormatDec   = "dec"   // GCG-style decomposition file
	FormatJSON  = "json"  // full detection result as JSON
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatDOT:   true,
	FormatGraph: true,
	FormatDec:   true,
	FormatJSON:  true,
}

// Options contains all configuration for the detection pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Read options. Input names an MPS file on disk; Source carries the
	// MPS content directly. Exactly one of the two feeds the pipeline,
	// with Source taking precedence.
	Input   string `json:"input,omitempty"`
	Source  []byte `json:"-"`
	Refresh bool   `json:"refresh,omitempty"`

	// Detect options. A zero value is replaced by detection.DefaultOptions.
	Detect detection.Options `json:"detect"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	CellSize int      `json:"cell_size,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // label coupling edges with variable names

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Problem is the parsed constraint matrix.
	Problem *model.Problem

	// ProblemHash is the content hash of the problem fingerprint.
	ProblemHash string

	// Detection holds the detector outcome and its decompositions.
	Detection *detection.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NConss     int
	NVars      int
	ReadTime   time.Duration
	DetectTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ReadHit   bool // Whether the parsed problem came from cache
	DetectHit bool // Whether the detection result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, graph, dec, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRead(); err != nil {
		return err
	}
	o.SetDetectDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForRead checks required fields for the read stage.
func (o *Options) ValidateForRead() error {
	if o.Input == "" && len(o.Source) == 0 {
		return fmt.Errorf("input path or source bytes are required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetDetectDefaults replaces a zero detection configuration with the
// package defaults. Explicitly configured options are left alone so that
// detection.Run can reject genuinely invalid values.
func (o *Options) SetDetectDefaults() {
	if o.Detect.MaxBlocks == 0 && o.Detect.MinBlocks == 0 && o.Detect.MaxIterations == 0 {
		logger := o.Detect.Logger
		o.Detect = detection.DefaultOptions()
		o.Detect.Logger = logger
	}
	if o.Detect.Logger == nil {
		o.Detect.Logger = o.Logger
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.CellSize == 0 {
		o.CellSize = render.DefaultMatrixOptions().CellSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// DetectKeyOpts returns cache key options for the detection stage.
func (o *Options) DetectKeyOpts() cache.DetectKeyOpts {
	return cache.DetectKeyOpts{
		MaxBlocks:     o.Detect.MaxBlocks,
		MinBlocks:     o.Detect.MinBlocks,
		DesiredBlocks: o.Detect.DesiredBlocks,
		MaxIterations: o.Detect.MaxIterations,
		Dynamic:       o.Detect.Dynamic,
		Static:        o.Detect.Static,
		ASAP:          o.Detect.ASAP,
		Multiple:      o.Detect.Multiple,
	}
}

// RenderKeyOpts returns cache key options for one artifact format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format:   format,
		CellSize: o.CellSize,
		Detailed: o.Detailed,
	}
}

// sourceLabel names the input for logs and hooks.
func (o *Options) sourceLabel() string {
	if o.Input != "" {
		return o.Input
	}
	return "inline"
}
