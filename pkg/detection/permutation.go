package detection

import (
	"errors"
	"fmt"
)

// ErrInconsistentPermutation is returned by [Permutation.Commit] when the
// supplied position assignment is not a bijection onto {0..N-1}.
var ErrInconsistentPermutation = errors.New("assignment is not a bijection")

// Permutation is a bidirectional, bijective association between identities
// and positions on one matrix axis. Identities are the stable dense
// handles assigned at setup; positions are the current 0-based ordering.
//
// Composing IdentityAt and PositionOf in either direction is the identity
// function at all times. Readers never observe a partial update: Commit
// builds the replacement arrays first and swaps them in atomically.
type Permutation struct {
	idAt  []int // position -> identity
	posOf []int // identity -> position
}

// NewPermutation creates the identity permutation over n elements.
func NewPermutation(n int) *Permutation {
	idAt := make([]int, n)
	posOf := make([]int, n)
	for i := range idAt {
		idAt[i] = i
		posOf[i] = i
	}
	return &Permutation{idAt: idAt, posOf: posOf}
}

// Len returns the number of elements on the axis.
func (p *Permutation) Len() int { return len(p.idAt) }

// IdentityAt returns the identity currently placed at the given position.
func (p *Permutation) IdentityAt(pos int) int { return p.idAt[pos] }

// PositionOf returns the current position of the given identity.
func (p *Permutation) PositionOf(id int) int { return p.posOf[id] }

// Commit atomically replaces the bijection with the caller-supplied total
// assignment posOf, where posOf[identity] is the new position. Returns
// ErrInconsistentPermutation if the assignment does not map the identities
// bijectively onto {0..N-1}; in that case the permutation is unchanged.
func (p *Permutation) Commit(posOf []int) error {
	n := len(p.idAt)
	if len(posOf) != n {
		return fmt.Errorf("assignment covers %d of %d identities: %w", len(posOf), n, ErrInconsistentPermutation)
	}

	newIDAt := make([]int, n)
	for i := range newIDAt {
		newIDAt[i] = -1
	}
	for id, pos := range posOf {
		if pos < 0 || pos >= n {
			return fmt.Errorf("position %d out of range: %w", pos, ErrInconsistentPermutation)
		}
		if newIDAt[pos] != -1 {
			return fmt.Errorf("position %d assigned twice: %w", pos, ErrInconsistentPermutation)
		}
		newIDAt[pos] = id
	}

	newPosOf := make([]int, n)
	copy(newPosOf, posOf)
	p.idAt = newIDAt
	p.posOf = newPosOf
	return nil
}

// Clone returns an independent copy of the permutation.
func (p *Permutation) Clone() *Permutation {
	idAt := make([]int, len(p.idAt))
	posOf := make([]int, len(p.posOf))
	copy(idAt, p.idAt)
	copy(posOf, p.posOf)
	return &Permutation{idAt: idAt, posOf: posOf}
}
