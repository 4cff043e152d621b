package detection

import (
	"context"
	"slices"
)

// Envelope holds the first/last nonzero position per row and per column of
// the permuted matrix. All four arrays are derived from the nonzero index
// lists and recomputed after every permutation change; they are never
// mutated independently.
type Envelope struct {
	IBegin []int // first nonzero column position per row position
	IEnd   []int // last nonzero column position per row position
	JBegin []int // first nonzero row position per column position
	JEnd   []int // last nonzero row position per column position
}

func newEnvelope(nRows, nCols int) *Envelope {
	return &Envelope{
		IBegin: make([]int, nRows),
		IEnd:   make([]int, nRows),
		JBegin: make([]int, nCols),
		JEnd:   make([]int, nCols),
	}
}

// compute fills the envelope from ascending row and column index lists.
// Every row and column is relevant (holds at least one nonzero), so the
// lists are never empty.
func (e *Envelope) compute(rowLists, colLists [][]int) {
	for i, list := range rowLists {
		e.IBegin[i] = list[0]
		e.IEnd[i] = list[len(list)-1]
	}
	for j, list := range colLists {
		e.JBegin[j] = list[0]
		e.JEnd[j] = list[len(list)-1]
	}
}

// equal reports whether two envelopes are pointwise identical.
func (e *Envelope) equal(o *Envelope) bool {
	return slices.Equal(e.IBegin, o.IBegin) &&
		slices.Equal(e.IEnd, o.IEnd) &&
		slices.Equal(e.JBegin, o.JBegin) &&
		slices.Equal(e.JEnd, o.JEnd)
}

// rocState is the outcome of the ROC2 fixed-point search: the final row
// and column permutations, the envelope of the permuted matrix, and how
// the iteration ended.
type rocState struct {
	rows       *Permutation
	cols       *Permutation
	env        *Envelope
	iterations int
	converged  bool
}

// runROC2 alternately rank-orders rows and columns until the envelope
// reaches a fixed point or maxIterations is hit (-1 means unbounded).
//
// When the loop stops on a true fixed point, IBegin is non-decreasing in
// row position and JBegin is non-decreasing in column position. Neither
// holds when the iteration cap fires first; callers must not assume
// monotonicity in that case.
func runROC2(ctx context.Context, inc [][]int, nCols, maxIterations int) (*rocState, error) {
	nRows := len(inc)
	rowPerm := NewPermutation(nRows)
	colPerm := NewPermutation(nCols)

	rowLists := rowIndexLists(inc, rowPerm, colPerm)
	colLists := colIndexLists(rowLists, nCols)

	env := newEnvelope(nRows, nCols)
	env.compute(rowLists, colLists)
	scratch := newEnvelope(nRows, nCols)

	state := &rocState{rows: rowPerm, cols: colPerm}
	for maxIterations < 0 || state.iterations < maxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Rank-order rows by column incidence, then columns by the
		// incidence of the freshly re-sorted rows.
		rowOrder := reorder(nRows, colLists)
		reordered := make([][]int, nRows)
		for newPos, oldPos := range rowOrder {
			reordered[newPos] = rowLists[oldPos]
		}
		colOrder := reorder(nCols, reordered)

		// Translate both orders through the current maps to recover the
		// original identities, then commit.
		rowAssign := make([]int, nRows)
		for newPos, oldPos := range rowOrder {
			rowAssign[rowPerm.IdentityAt(oldPos)] = newPos
		}
		colAssign := make([]int, nCols)
		for newPos, oldPos := range colOrder {
			colAssign[colPerm.IdentityAt(oldPos)] = newPos
		}
		if err := rowPerm.Commit(rowAssign); err != nil {
			return nil, err
		}
		if err := colPerm.Commit(colAssign); err != nil {
			return nil, err
		}

		rowLists = rowIndexLists(inc, rowPerm, colPerm)
		colLists = colIndexLists(rowLists, nCols)
		scratch.compute(rowLists, colLists)
		state.iterations++

		fixed := scratch.equal(env)
		env, scratch = scratch, env // double-buffer swap, no copy
		if fixed {
			state.converged = true
			break
		}
	}

	state.env = env
	return state, nil
}
