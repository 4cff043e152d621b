package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scipopt/stairheur/pkg/detection"
)

const stairMPS = `NAME          STAIR
ROWS
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
    X1        C1        1.0   C2        1.0
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
ENDATA
`

// writeStairMPS writes the sample instance into a temp dir and isolates the
// cache there as well.
func writeStairMPS(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	path := filepath.Join(dir, "stair.mps")
	if err := os.WriteFile(path, []byte(stairMPS), 0o644); err != nil {
		t.Fatalf("write mps: %v", err)
	}
	return path
}

func TestDetectCommand(t *testing.T) {
	input := writeStairMPS(t)
	output := filepath.Join(filepath.Dir(input), "result.json")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"detect", input, "-o", output})

	if err := root.Execute(); err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	var res detection.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Status != detection.StatusSuccess {
		t.Errorf("Status = %v, want success", res.Status)
	}
	if len(res.Decompositions) == 0 {
		t.Error("expected at least one decomposition")
	}
}

func TestDetectCommandDecOutput(t *testing.T) {
	input := writeStairMPS(t)
	output := filepath.Join(filepath.Dir(input), "stair.dec")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"detect", input, "--dec", output})

	if err := root.Execute(); err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read dec: %v", err)
	}
	if !strings.Contains(string(data), "NBLOCKS") {
		t.Errorf("dec output missing NBLOCKS section:\n%s", data)
	}
}

func TestRenderCommand(t *testing.T) {
	input := writeStairMPS(t)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"render", input, "-f", "svg,dec,json"})

	if err := root.Execute(); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	base := strings.TrimSuffix(input, ".mps")
	for _, format := range []string{"svg", "dec", "json"} {
		if _, err := os.Stat(base + "." + format); err != nil {
			t.Errorf("missing %s artifact: %v", format, err)
		}
	}
}

func TestDetectCommandMissingInput(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"detect", "/0/does/not/exist.mps"})
	root.SetErr(io.Discard)
	root.SetOut(io.Discard)

	if err := root.Execute(); err == nil {
		t.Error("missing input should fail")
	}
}
