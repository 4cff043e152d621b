package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/scipopt/stairheur/pkg/cache"
	"github.com/scipopt/stairheur/pkg/detection"
	"github.com/scipopt/stairheur/pkg/errors"
)

// stairMPS is a 10x8 instance with a clear two-staircase shape.
const stairMPS = `NAME          STAIR
ROWS
 N  COST
 L  C1
 L  C2
 L  C3
 L  C4
 L  C5
 L  C6
 L  C7
 L  C8
 L  C9
 L  C10
COLUMNS
    X1        COST      1.0   C1        1.0
    X1        C2        1.0
    X2        C1        1.0   C2        1.0
    X2        C3        1.0   C4        1.0
    X3        C1        1.0   C2        1.0
    X3        C3        1.0   C5        1.0
    X4        C2        1.0   C3        1.0
    X4        C4        1.0   C5        1.0
    X4        C6        1.0
    X5        C6        1.0   C7        1.0
    X6        C6        1.0   C7        1.0
    X6        C8        1.0   C9        1.0
    X7        C7        1.0   C8        1.0
    X7        C10       1.0
    X8        C8        1.0   C9        1.0
    X8        C10       1.0
RHS
    RHS       C1        4.0   C2        4.0
ENDATA
`

// denseMPS has every variable in every row, so no staircase exists.
const denseMPS = `NAME          DENSE
ROWS
 L  C1
 L  C2
 L  C3
COLUMNS
    Y1        C1        1.0   C2        1.0
    Y1        C3        1.0
    Y2        C1        1.0   C2        1.0
    Y2        C3        1.0
    Y3        C1        1.0   C2        1.0
    Y3        C3        1.0
    Y4        C1        1.0   C2        1.0
    Y4        C3        1.0
ENDATA
`

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func stairOptions(formats ...string) Options {
	return Options{
		Source:  []byte(stairMPS),
		Formats: formats,
		Logger:  quietLogger(),
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"graph", false},
		{"dec", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dec"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := stairOptions()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should default to [svg], got %v", opts.Formats)
	}
	if opts.CellSize == 0 {
		t.Error("CellSize should have a nonzero default")
	}
	if opts.Detect.MaxBlocks != detection.DefaultOptions().MaxBlocks {
		t.Errorf("Detect.MaxBlocks should default to %d, got %d",
			detection.DefaultOptions().MaxBlocks, opts.Detect.MaxBlocks)
	}
	if !opts.Detect.Dynamic {
		t.Error("Detect should default to the dynamic strategy")
	}
}

func TestOptionsRequireInput(t *testing.T) {
	opts := Options{Logger: quietLogger()}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("Missing input should fail")
	}
}

func TestOptionsRejectUnknownFormat(t *testing.T) {
	opts := stairOptions("svg", "bogus")
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("Unknown format should fail")
	}
}

func TestRunnerExecute(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	opts := stairOptions(FormatSVG, FormatDOT, FormatDec, FormatJSON)
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Detection.Status != detection.StatusSuccess {
		t.Fatalf("Status = %v, want success", result.Detection.Status)
	}
	if result.Stats.NConss != 10 || result.Stats.NVars != 8 {
		t.Errorf("Stats = %d conss, %d vars, want 10 and 8", result.Stats.NConss, result.Stats.NVars)
	}
	if len(result.ProblemHash) != 64 {
		t.Errorf("ProblemHash length = %d, want 64", len(result.ProblemHash))
	}

	for _, format := range opts.Formats {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("Artifacts[%q] is empty", format)
		}
	}

	if !bytes.HasPrefix(result.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("SVG artifact should start with <svg")
	}
	if !strings.Contains(string(result.Artifacts[FormatDOT]), "graph blocks") {
		t.Error("DOT artifact should contain the block graph header")
	}
	if !strings.Contains(string(result.Artifacts[FormatDec]), "NBLOCKS") {
		t.Error("DEC artifact should contain an NBLOCKS section")
	}

	var roundTrip detection.Result
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &roundTrip); err != nil {
		t.Errorf("JSON artifact should decode: %v", err)
	}
}

func TestRunnerCacheHits(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	runner := NewRunner(c, nil, quietLogger())
	defer runner.Close()

	opts := stairOptions(FormatSVG, FormatJSON)

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheInfo.ReadHit || first.CacheInfo.DetectHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss everywhere, got %+v", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.ReadHit || !second.CacheInfo.DetectHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit everywhere, got %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached SVG should match the freshly rendered one")
	}

	refresh := stairOptions(FormatSVG, FormatJSON)
	refresh.Refresh = true
	third, err := runner.Execute(context.Background(), refresh)
	if err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}
	if third.CacheInfo.ReadHit || third.CacheInfo.DetectHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run should bypass the cache, got %+v", third.CacheInfo)
	}
}

func TestRunnerReadRejectsMalformedInput(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	opts := Options{Source: []byte("GIBBERISH\n x y z\n"), Logger: quietLogger()}
	if _, err := runner.Execute(context.Background(), opts); err == nil {
		t.Error("Malformed MPS input should fail")
	}
}

func TestRunnerReadMissingFile(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	opts := Options{Input: "/0/does/not/exist.mps", Logger: quietLogger()}
	if _, err := runner.Execute(context.Background(), opts); err == nil {
		t.Error("Missing input file should fail")
	}
}

func TestRenderRequiresDecomposition(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	opts := Options{Source: []byte(denseMPS), Formats: []string{FormatSVG}, Logger: quietLogger()}
	_, err := runner.Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("SVG without a decomposition should fail with not-found, got %v", err)
	}

	// JSON still reports the outcome.
	opts = Options{Source: []byte(denseMPS), Formats: []string{FormatJSON}, Logger: quietLogger()}
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Detection.Status != detection.StatusDidNotFind {
		t.Errorf("Status = %v, want did-not-find", result.Detection.Status)
	}
	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("JSON artifact should be present even without a decomposition")
	}
}

func TestRunnerStages(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	opts := stairOptions(FormatDec)
	ctx := context.Background()

	p, err := runner.Read(ctx, opts)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if p.Name() != "STAIR" {
		t.Errorf("Name = %q, want STAIR", p.Name())
	}

	res, err := runner.Detect(ctx, p, opts)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if res.Status != detection.StatusSuccess {
		t.Fatalf("Status = %v, want success", res.Status)
	}

	artifacts, err := runner.Render(ctx, p, res, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(artifacts[FormatDec]) == 0 {
		t.Error("DEC artifact is empty")
	}
}
