package render

import (
	"bytes"
	"fmt"

	"github.com/scipopt/stairheur/pkg/detection"
	"github.com/scipopt/stairheur/pkg/model"
)

// MatrixOptions configures the permuted-matrix plot.
type MatrixOptions struct {
	// CellSize is the side length of one nonzero cell in pixels.
	CellSize int

	// Margin is the blank border around the matrix in pixels.
	Margin int
}

// DefaultMatrixOptions returns the standard plot settings.
func DefaultMatrixOptions() MatrixOptions {
	return MatrixOptions{CellSize: 8, Margin: 10}
}

const (
	colorNonzero  = "#1a1a2e"
	colorLinkCol  = "#fde2e2"
	colorLinkCell = "#c0392b"
	colorBlock    = "#2e86ab"
)

// MatrixSVG draws the permuted incidence matrix of one decomposition:
// rows and columns in detection order, nonzeros as filled cells, linking
// columns tinted over the full height, and one outline per block spanning
// its rows and its column range.
func MatrixSVG(p *model.Problem, dec *detection.Decomposition, opts MatrixOptions) ([]byte, error) {
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultMatrixOptions().CellSize
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}

	rowPos := make(map[int]int, len(dec.ConsOrder))
	for pos, h := range dec.ConsOrder {
		rowPos[h] = pos
	}
	colPos := make(map[int]int, len(dec.VarOrder))
	for pos, h := range dec.VarOrder {
		colPos[h] = pos
	}
	linking := make(map[int]bool, len(dec.LinkingVars))
	for _, h := range dec.LinkingVars {
		linking[h] = true
	}

	cell, margin := opts.CellSize, opts.Margin
	width := len(dec.VarOrder)*cell + 2*margin
	height := len(dec.ConsOrder)*cell + 2*margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `<rect width="%d" height="%d" fill="white"/>`+"\n", width, height)

	// Full-height tint behind the linking columns.
	for _, h := range dec.LinkingVars {
		x := margin + colPos[h]*cell
		fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
			x, margin, cell, len(dec.ConsOrder)*cell, colorLinkCol)
	}

	for _, consH := range dec.ConsOrder {
		y := margin + rowPos[consH]*cell
		for _, varH := range p.ConsVars(consH) {
			pos, ok := colPos[varH]
			if !ok {
				return nil, fmt.Errorf("variable %d missing from the permutation", varH)
			}
			fill := colorNonzero
			if linking[varH] {
				fill = colorLinkCell
			}
			fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
				margin+pos*cell, y, cell, cell, fill)
		}
	}

	// Block outlines over the contiguous row range and the span of the
	// block-exclusive columns.
	for _, block := range dec.Blocks {
		if len(block.Conss) == 0 || len(block.Vars) == 0 {
			continue
		}
		rMin, rMax := rowSpan(block.Conss, rowPos)
		cMin, cMax := rowSpan(block.Vars, colPos)
		fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
			margin+cMin*cell, margin+rMin*cell,
			(cMax-cMin+1)*cell, (rMax-rMin+1)*cell, colorBlock)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// rowSpan returns the minimum and maximum position of the given handles.
func rowSpan(handles []int, posOf map[int]int) (int, int) {
	lo, hi := posOf[handles[0]], posOf[handles[0]]
	for _, h := range handles[1:] {
		lo = min(lo, posOf[h])
		hi = max(hi, posOf[h])
	}
	return lo, hi
}
