package detection

import "math"

// Stats carries the band-width statistics derived from a converged
// envelope. All arrays are indexed by row position.
type Stats struct {
	Width []int // IEnd - IBegin per row
	JMin  []int // first nonzero column position per row (= IBegin)
	JMax  []int // running maximum of IEnd over rows 0..r
	// MinV[r] is the number of columns that would have to be linking if a
	// block boundary were placed directly before row r. MinV[0] is unused:
	// a boundary before the first row cuts nothing.
	MinV []int

	MaxWidth int // widest row band
	MinWidth int // narrowest row band
	NVars    int

	// Tau estimates the achievable block count from the band-width ratio.
	// Zero when the estimate is ill-defined (uniform band width).
	Tau int

	// Constrictions lists the row positions r where MinV reaches a strict
	// local minimum - the candidate block boundaries.
	Constrictions []int
}

// computeStats derives band widths, running column extrema, the tau block
// estimate, and constriction rows from the envelope.
func computeStats(env *Envelope, nVars int) *Stats {
	nRows := len(env.IBegin)
	s := &Stats{
		Width: make([]int, nRows),
		JMin:  make([]int, nRows),
		JMax:  make([]int, nRows),
		MinV:  make([]int, nRows),
		NVars: nVars,
	}

	for r := 0; r < nRows; r++ {
		s.Width[r] = env.IEnd[r] - env.IBegin[r]
		s.JMin[r] = env.IBegin[r]
		s.JMax[r] = env.IEnd[r]
		if r > 0 && s.JMax[r-1] > s.JMax[r] {
			s.JMax[r] = s.JMax[r-1]
		}
		if r == 0 {
			s.MaxWidth, s.MinWidth = s.Width[r], s.Width[r]
		} else {
			s.MaxWidth = max(s.MaxWidth, s.Width[r])
			s.MinWidth = min(s.MinWidth, s.Width[r])
		}
	}

	for r := 1; r < nRows; r++ {
		s.MinV[r] = s.JMax[r-1] - s.JMin[r] + 1
	}

	if s.MaxWidth > s.MinWidth {
		s.Tau = int(math.Round(float64(nVars-s.MinWidth) / float64(s.MaxWidth-s.MinWidth)))
	}

	// Strict local minima of MinV; both neighbors must be defined cuts.
	for r := 2; r <= nRows-2; r++ {
		if s.MinV[r] < s.MinV[r-1] && s.MinV[r] < s.MinV[r+1] {
			s.Constrictions = append(s.Constrictions, r)
		}
	}
	return s
}

// degenerate reports whether the matrix has no exploitable staircase
// structure: uniform band width or a block estimate below two.
func (s *Stats) degenerate() bool {
	return s.MaxWidth == s.MinWidth || s.Tau < 2
}
