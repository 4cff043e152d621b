package mps

import (
	"slices"
	"strings"
	"testing"

	"github.com/scipopt/stairheur/pkg/errors"
)

const sampleMPS = `* staircase example
NAME          STAIR
ROWS
 N  COST
 L  C1
 G  C2
 E  C3
COLUMNS
    X1  COST  1.0   C1  2.0
    X1  C2    1.0
    X2  C1    3.0   C2  -1.0
    MARKER1   'MARKER'   'INTORG'
    X3  C2    1.0   C3  4.0
    MARKER2   'MARKER'   'INTEND'
    X4  C3    0.0
RHS
    RHS1  C1  10.0  C2  2.0
BOUNDS
 UP BND1  X1  4.0
ENDATA
`

func TestParse(t *testing.T) {
	p, err := Parse(strings.NewReader(sampleMPS))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if p.Name() != "STAIR" {
		t.Errorf("Name() = %q, want %q", p.Name(), "STAIR")
	}
	// The objective row is not a constraint.
	if p.NumConss() != 3 {
		t.Fatalf("NumConss() = %d, want 3", p.NumConss())
	}
	if p.NumVars() != 4 {
		t.Fatalf("NumVars() = %d, want 4", p.NumVars())
	}

	wantVars := map[string][]string{
		"C1": {"X1", "X2"},
		"C2": {"X1", "X2", "X3"},
		"C3": {"X3"}, // X4's explicit zero adds no nonzero
	}
	for cons, want := range wantVars {
		h, ok := p.ConsByName(cons)
		if !ok {
			t.Fatalf("constraint %q missing", cons)
		}
		var got []string
		for _, v := range p.ConsVars(h) {
			name, err := p.VarName(v)
			if err != nil {
				t.Fatalf("VarName(%d) error: %v", v, err)
			}
			got = append(got, name)
		}
		slices.Sort(got)
		if !slices.Equal(got, want) {
			t.Errorf("constraint %q vars = %v, want %v", cons, got, want)
		}
	}

	if _, ok := p.ConsByName("COST"); ok {
		t.Error("objective row leaked into the constraints")
	}
	if _, ok := p.VarByName("X4"); !ok {
		t.Error("X4 should exist as a variable even without nonzeros")
	}
}

func TestParseToleratesMissingEndata(t *testing.T) {
	src := "NAME T\nROWS\n L R1\nCOLUMNS\n X R1 1.0\n"
	p, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.NumConss() != 1 || p.NumVars() != 1 {
		t.Errorf("got %d conss and %d vars, want 1 and 1", p.NumConss(), p.NumVars())
	}
}

func TestParseEmptyRowHasNoVariables(t *testing.T) {
	src := "ROWS\n L R1\n L R2\nCOLUMNS\n X R1 1.0\nENDATA\n"
	p, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	h, ok := p.ConsByName("R2")
	if !ok {
		t.Fatal("constraint R2 missing")
	}
	if vars := p.ConsVars(h); len(vars) != 0 {
		t.Errorf("R2 vars = %v, want none", vars)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{
			"unknown section",
			"WHAT\n",
			errors.ErrCodeInvalidFormat,
		},
		{
			"data before section",
			" X R1 1.0\n",
			errors.ErrCodeInvalidFormat,
		},
		{
			"unknown row type",
			"ROWS\n Q R1\n",
			errors.ErrCodeInvalidFormat,
		},
		{
			"duplicate row",
			"ROWS\n L R1\n L R1\n",
			errors.ErrCodeInvalidFormat,
		},
		{
			"unknown row in columns",
			"ROWS\n L R1\nCOLUMNS\n X R2 1.0\n",
			errors.ErrCodeInvalidFormat,
		},
		{
			"bad coefficient",
			"ROWS\n L R1\nCOLUMNS\n X R1 abc\n",
			errors.ErrCodeParse,
		},
		{
			"odd column fields",
			"ROWS\n L R1\nCOLUMNS\n X R1\n",
			errors.ErrCodeInvalidFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestReadFileNotFound(t *testing.T) {
	_, err := ReadFile("does/not/exist.mps")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error %v, want code %s", err, errors.ErrCodeFileNotFound)
	}
}
