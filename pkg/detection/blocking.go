package detection

import "math"

// Strategy names attached to produced decompositions.
const (
	StrategyDynamic = "dynamic"
	StrategyStatic  = "static"
	StrategyASAP    = "asap"
)

// blocking is a block partition in position space: bounds delimits
// contiguous row ranges, blockVars holds the block-exclusive column
// positions per block, and linking holds the column positions shared
// across boundaries. Every strategy run starts from zero-valued lists;
// nothing accumulates across runs.
type blocking struct {
	bounds    []int   // len B+1; block k covers rows [bounds[k], bounds[k+1])
	blockVars [][]int // per block, ascending block-exclusive column positions
	linking   []int   // ascending linking column positions
}

func (b *blocking) numBlocks() int {
	if len(b.bounds) == 0 {
		return 0
	}
	return len(b.bounds) - 1
}

// maxIEnd returns the last column position touched by rows [begin, end),
// or -1 for an empty range.
func maxIEnd(env *Envelope, begin, end int) int {
	m := -1
	for r := begin; r < end; r++ {
		m = max(m, env.IEnd[r])
	}
	return m
}

// minIBegin returns the first column position touched by rows [begin, end).
func minIBegin(env *Envelope, begin, end int) int {
	m := env.IBegin[begin]
	for r := begin + 1; r < end; r++ {
		m = min(m, env.IBegin[r])
	}
	return m
}

// blockingDynamic walks the constriction rows in increasing order and
// accepts one as the next cut when the block being closed is large enough
// and no column would span three consecutive blocks: the last column
// touched by the previous block must lie strictly before the first column
// touched by the row after the cut. The tail of rows forms a final block
// that introduces no linking variables beyond those of the last cut.
func blockingDynamic(env *Envelope, stats *Stats, nCols, tau, maxBlocks int) *blocking {
	nRows := len(env.IBegin)
	minBlockSize := int(math.Round(float64(nRows) / (2 * float64(tau))))
	if minBlockSize < 1 {
		minBlockSize = 1
	}

	var cuts []int
	last := 0     // first row of the open block
	prevMax := -1 // last column touched by the block before the open one
	for _, c := range stats.Constrictions {
		if len(cuts)+2 > maxBlocks {
			break
		}
		if c-last < minBlockSize {
			continue
		}
		if prevMax >= env.IBegin[c] {
			continue // a column would span three consecutive blocks
		}
		cuts = append(cuts, c)
		prevMax = maxIEnd(env, last, c)
		last = c
	}

	bounds := make([]int, 0, len(cuts)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, cuts...)
	bounds = append(bounds, nRows)

	b := &blocking{
		bounds:    bounds,
		blockVars: make([][]int, len(bounds)-1),
	}

	// Column assignment per cut: columns up to the successor row's first
	// column stay with the block being closed, columns from there through
	// the block's last column are linking.
	prevMaxCol := -1
	for t := 1; t < len(bounds)-1; t++ {
		c := bounds[t]
		blockMax := maxIEnd(env, bounds[t-1], c)
		linkStart := env.IBegin[c]

		for col := prevMaxCol + 1; col <= min(linkStart-1, blockMax); col++ {
			b.blockVars[t-1] = append(b.blockVars[t-1], col)
		}
		for col := max(linkStart, prevMaxCol+1); col <= blockMax; col++ {
			b.linking = append(b.linking, col)
		}
		prevMaxCol = max(prevMaxCol, blockMax)
	}
	for col := prevMaxCol + 1; col < nCols; col++ {
		b.blockVars[len(b.blockVars)-1] = append(b.blockVars[len(b.blockVars)-1], col)
	}
	return b
}

// staticBlockRows returns the row count of each of desiredBlocks blocks
// when nRows rows are split as evenly as possible. Larger blocks come
// first: the first nRows mod desiredBlocks blocks get one extra row.
func staticBlockRows(nRows, desiredBlocks int) []int {
	sizes := make([]int, desiredBlocks)
	base := nRows / desiredBlocks
	extra := nRows % desiredBlocks
	for k := range sizes {
		sizes[k] = base
		if k < extra {
			sizes[k]++
		}
	}
	return sizes
}

// blockingStatic splits the rows into desiredBlocks near-equal contiguous
// blocks regardless of constrictions. Columns inside exactly one block's
// column range are block-exclusive; columns inside several ranges are
// linking. When three consecutive blocks overlap in columns (the next
// block's first column does not clear the column range from two blocks
// back), the entire column range of the middle block is marked linking as
// a conservative fallback.
func blockingStatic(env *Envelope, nCols, desiredBlocks int) *blocking {
	nRows := len(env.IBegin)
	if desiredBlocks > nRows {
		desiredBlocks = nRows
	}
	sizes := staticBlockRows(nRows, desiredBlocks)

	bounds := make([]int, 0, desiredBlocks+1)
	bounds = append(bounds, 0)
	for _, size := range sizes {
		bounds = append(bounds, bounds[len(bounds)-1]+size)
	}

	b := &blocking{
		bounds:    bounds,
		blockVars: make([][]int, desiredBlocks),
	}

	colMin := make([]int, desiredBlocks)
	colMax := make([]int, desiredBlocks)
	for k := 0; k < desiredBlocks; k++ {
		colMin[k] = minIBegin(env, bounds[k], bounds[k+1])
		colMax[k] = maxIEnd(env, bounds[k], bounds[k+1])
	}

	fullyLinking := make([]bool, desiredBlocks)
	for k := 1; k+1 < desiredBlocks; k++ {
		if colMin[k+1] <= colMax[k-1] {
			fullyLinking[k] = true
		}
	}

	for col := 0; col < nCols; col++ {
		owner := -1
		shared := false
		for k := 0; k < desiredBlocks; k++ {
			if col < colMin[k] || col > colMax[k] {
				continue
			}
			if owner >= 0 {
				shared = true
				break
			}
			owner = k
		}
		switch {
		case owner < 0:
			// Unreachable for relevant variables: every column holds a
			// nonzero in some row, and that row's block range covers it.
		case shared || fullyLinking[owner]:
			b.linking = append(b.linking, col)
		default:
			b.blockVars[owner] = append(b.blockVars[owner], col)
		}
	}
	return b
}

// blockingASAP is the as-soon-as-possible placeholder policy. It reports
// a structurally empty partition: zero blocks, no variable assignment.
func blockingASAP(env *Envelope, nCols int) *blocking {
	return &blocking{}
}
