// Package mps reads the fixed sections of an MPS file into a model.Problem.
//
// Only the incidence structure matters for staircase detection, so the
// reader keeps row and column names and the nonzero pattern and discards
// coefficient values, right-hand sides, ranges, and bounds. Free rows
// (type N) carry the objective and are not constraints; they are dropped
// together with their column entries.
package mps

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/scipopt/stairheur/pkg/errors"
	"github.com/scipopt/stairheur/pkg/model"
)

type section int

const (
	secNone section = iota
	secRows
	secColumns
	secSkipped // RHS, RANGES, BOUNDS, OBJSENSE, SOS
)

// parser accumulates entities in file order and materializes the Problem
// once the whole file is read, because model.Problem takes each
// constraint's variable list in one piece.
type parser struct {
	name     string
	rowOrder []string
	rowType  map[string]string
	rowVars  map[string][]int
	varIndex map[string]int
	varOrder []string
}

// ReadFile reads an MPS file from disk.
func ReadFile(path string) (*model.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "mps file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads MPS data from r. Reaching EOF without an ENDATA marker is
// tolerated; everything read so far forms the problem.
func Parse(r io.Reader) (*model.Problem, error) {
	p := &parser{
		rowType:  make(map[string]string),
		rowVars:  make(map[string][]int),
		varIndex: make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	state := secNone
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" || line[0] == '*' {
			continue
		}

		// Section headers start in the first column; data lines are
		// indented.
		if line[0] != ' ' && line[0] != '\t' {
			fields := strings.Fields(line)
			switch strings.ToUpper(fields[0]) {
			case "NAME":
				if len(fields) > 1 {
					p.name = fields[1]
				}
				state = secNone
			case "ROWS":
				state = secRows
			case "COLUMNS":
				state = secColumns
			case "RHS", "RANGES", "BOUNDS", "OBJSENSE", "SOS":
				state = secSkipped
			case "ENDATA":
				return p.build()
			default:
				return nil, errors.New(errors.ErrCodeInvalidFormat,
					"line %d: unknown section %q", lineNum, fields[0])
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch state {
		case secRows:
			if err := p.addRow(fields, lineNum); err != nil {
				return nil, err
			}
		case secColumns:
			if len(fields) > 2 && fields[1] == "'MARKER'" {
				// Integrality markers; integrality does not affect the
				// nonzero pattern.
				continue
			}
			if err := p.addEntries(fields, lineNum); err != nil {
				return nil, err
			}
		case secSkipped:
			// Values irrelevant to the incidence structure.
		case secNone:
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"line %d: data before any section header", lineNum)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read mps data")
	}
	return p.build()
}

func (p *parser) addRow(fields []string, lineNum int) error {
	if len(fields) != 2 {
		return errors.New(errors.ErrCodeInvalidFormat,
			"line %d: ROWS entries need a type and a name", lineNum)
	}
	typ := strings.ToUpper(fields[0])
	switch typ {
	case "N", "L", "G", "E":
	default:
		return errors.New(errors.ErrCodeInvalidFormat,
			"line %d: unknown row type %q", lineNum, fields[0])
	}
	name := fields[1]
	if _, exists := p.rowType[name]; exists {
		return errors.New(errors.ErrCodeInvalidFormat,
			"line %d: duplicate row %q", lineNum, name)
	}
	p.rowType[name] = typ
	if typ != "N" {
		p.rowOrder = append(p.rowOrder, name)
	}
	return nil
}

// addEntries handles one COLUMNS line: a column name followed by one or two
// row/value pairs.
func (p *parser) addEntries(fields []string, lineNum int) error {
	if len(fields) != 3 && len(fields) != 5 {
		return errors.New(errors.ErrCodeInvalidFormat,
			"line %d: COLUMNS entries need one or two row/value pairs", lineNum)
	}

	col := fields[0]
	v, ok := p.varIndex[col]
	if !ok {
		v = len(p.varOrder)
		p.varIndex[col] = v
		p.varOrder = append(p.varOrder, col)
	}

	for i := 1; i < len(fields); i += 2 {
		row := fields[i]
		typ, ok := p.rowType[row]
		if !ok {
			return errors.New(errors.ErrCodeInvalidFormat,
				"line %d: entry references unknown row %q", lineNum, row)
		}
		value, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeParse, err,
				"line %d: coefficient for row %q", lineNum, row)
		}
		// Explicit zeros carry no nonzero; free rows are not constraints.
		if value == 0 || typ == "N" {
			continue
		}
		p.rowVars[row] = append(p.rowVars[row], v)
	}
	return nil
}

func (p *parser) build() (*model.Problem, error) {
	name := p.name
	if name == "" {
		name = "unnamed"
	}
	problem := model.New(name)
	for _, col := range p.varOrder {
		if _, err := problem.AddVariable(col); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "variable %q", col)
		}
	}
	for _, row := range p.rowOrder {
		if _, err := problem.AddConstraint(row, p.rowVars[row]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "constraint %q", row)
		}
	}
	return problem, nil
}
