// Package model holds the read-only view of a mathematical-programming
// problem that structure detection operates on.
//
// A Problem is a collection of named constraints and variables together with
// the 0/1 incidence between them: which variables appear with a nonzero
// coefficient in which constraint. Coefficient values are irrelevant to
// structure detection and are not stored.
//
// Constraints and variables are addressed through stable dense integer
// handles assigned at insertion time. Handles are the index domain for all
// detection bookkeeping (permutations, index lists, block assignments), so
// they never change once assigned.
package model

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrEmptyName is returned when a constraint or variable name is empty.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrDuplicateName is returned when a constraint or variable with the
	// same name already exists in the problem.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrUnknownVariable is returned by AddConstraint when a referenced
	// variable handle is out of range.
	ErrUnknownVariable = errors.New("unknown variable handle")

	// ErrUnknownHandle is returned by accessor methods when a handle is
	// out of range.
	ErrUnknownHandle = errors.New("unknown handle")
)

// Problem is an immutable-after-construction incidence structure.
//
// The zero value is not usable - use New to create a valid Problem.
// Problem is not safe for concurrent mutation; read access is safe to share
// once construction is complete.
type Problem struct {
	name      string
	consNames []string
	varNames  []string
	consVars  [][]int // per constraint handle, ascending variable handles
	consIndex map[string]int
	varIndex  map[string]int
	nonzeros  int
}

// New creates an empty problem with the given display name.
func New(name string) *Problem {
	return &Problem{
		name:      name,
		consIndex: make(map[string]int),
		varIndex:  make(map[string]int),
	}
}

// Name returns the problem's display name.
func (p *Problem) Name() string { return p.name }

// AddVariable registers a variable and returns its dense handle.
// Returns ErrEmptyName or ErrDuplicateName on invalid input.
func (p *Problem) AddVariable(name string) (int, error) {
	if name == "" {
		return 0, ErrEmptyName
	}
	if _, exists := p.varIndex[name]; exists {
		return 0, fmt.Errorf("variable %q: %w", name, ErrDuplicateName)
	}
	h := len(p.varNames)
	p.varNames = append(p.varNames, name)
	p.varIndex[name] = h
	return h, nil
}

// AddConstraint registers a constraint referencing the given variable
// handles and returns its dense handle. The variable list is copied,
// deduplicated, and stored in ascending handle order. Constraints
// referencing zero variables are legal here; detection filters them out
// as irrelevant.
func (p *Problem) AddConstraint(name string, vars []int) (int, error) {
	if name == "" {
		return 0, ErrEmptyName
	}
	if _, exists := p.consIndex[name]; exists {
		return 0, fmt.Errorf("constraint %q: %w", name, ErrDuplicateName)
	}
	for _, v := range vars {
		if v < 0 || v >= len(p.varNames) {
			return 0, fmt.Errorf("constraint %q references %d: %w", name, v, ErrUnknownVariable)
		}
	}

	sorted := slices.Clone(vars)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	h := len(p.consNames)
	p.consNames = append(p.consNames, name)
	p.consIndex[name] = h
	p.consVars = append(p.consVars, sorted)
	p.nonzeros += len(sorted)
	return h, nil
}

// NumConss returns the number of constraints.
func (p *Problem) NumConss() int { return len(p.consNames) }

// NumVars returns the number of variables.
func (p *Problem) NumVars() int { return len(p.varNames) }

// NumNonzeros returns the total number of nonzero incidence entries.
func (p *Problem) NumNonzeros() int { return p.nonzeros }

// ConsName returns the name of the constraint with the given handle.
func (p *Problem) ConsName(h int) (string, error) {
	if h < 0 || h >= len(p.consNames) {
		return "", fmt.Errorf("constraint %d: %w", h, ErrUnknownHandle)
	}
	return p.consNames[h], nil
}

// VarName returns the name of the variable with the given handle.
func (p *Problem) VarName(h int) (string, error) {
	if h < 0 || h >= len(p.varNames) {
		return "", fmt.Errorf("variable %d: %w", h, ErrUnknownHandle)
	}
	return p.varNames[h], nil
}

// ConsVars returns the ascending variable handles referenced by the
// constraint. The returned slice is a read-only view and must not be
// modified. Returns nil for out-of-range handles.
func (p *Problem) ConsVars(h int) []int {
	if h < 0 || h >= len(p.consVars) {
		return nil
	}
	return p.consVars[h]
}

// ConsByName resolves a constraint handle by name.
func (p *Problem) ConsByName(name string) (int, bool) {
	h, ok := p.consIndex[name]
	return h, ok
}

// VarByName resolves a variable handle by name.
func (p *Problem) VarByName(name string) (int, bool) {
	h, ok := p.varIndex[name]
	return h, ok
}

// Fingerprint returns a deterministic byte serialization of the incidence
// structure, suitable for content-addressed cache keys. Two problems with
// the same constraints, variables, and incidence produce identical output.
func (p *Problem) Fingerprint() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "problem %s %d %d\n", p.name, len(p.consNames), len(p.varNames))
	for _, name := range p.varNames {
		fmt.Fprintf(&buf, "v %s\n", name)
	}
	for h, name := range p.consNames {
		fmt.Fprintf(&buf, "c %s %v\n", name, p.consVars[h])
	}
	return buf.Bytes()
}
