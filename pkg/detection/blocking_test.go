package detection

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkPartition verifies that the block-exclusive and linking columns form
// a disjoint cover of all column positions.
func checkPartition(t *testing.T, b *blocking, nCols int) {
	t.Helper()
	seen := make([]bool, nCols)
	mark := func(col int) {
		require.GreaterOrEqual(t, col, 0)
		require.Less(t, col, nCols)
		require.False(t, seen[col], "column %d assigned twice", col)
		seen[col] = true
	}
	for _, vars := range b.blockVars {
		for _, col := range vars {
			mark(col)
		}
	}
	for _, col := range b.linking {
		mark(col)
	}
	for col, ok := range seen {
		assert.True(t, ok, "column %d unassigned", col)
	}
}

func TestBlockingDynamicSingleConstriction(t *testing.T) {
	env := stairEnvelope()
	stats := computeStats(env, 8)
	require.Equal(t, []int{5}, stats.Constrictions)

	b := blockingDynamic(env, stats, 8, 2, 3)

	require.Equal(t, 2, b.numBlocks())
	assert.Equal(t, []int{0, 5, 10}, b.bounds)
	assert.Equal(t, []int{0, 1, 2}, b.blockVars[0])
	assert.Equal(t, []int{4, 5, 6, 7}, b.blockVars[1])
	assert.Equal(t, []int{3}, b.linking)
	checkPartition(t, b, 8)
}

func TestBlockingDynamicSkipsSmallBlocks(t *testing.T) {
	env := stairEnvelope()
	stats := computeStats(env, 8)
	// A spurious early candidate below the minimum block size must be
	// ignored without affecting the later cut.
	stats.Constrictions = []int{2, 5}

	b := blockingDynamic(env, stats, 8, 2, 3)

	require.Equal(t, 2, b.numBlocks())
	assert.Equal(t, []int{0, 5, 10}, b.bounds)
}

func TestBlockingDynamicRejectsThreeBlockSpan(t *testing.T) {
	// Cutting at row 2 closes a block reaching column 4; row 4 starts at
	// column 3, so a second cut there would let a column span three
	// blocks and must be rejected.
	env := &Envelope{
		IBegin: []int{0, 0, 2, 2, 3, 3},
		IEnd:   []int{3, 4, 4, 5, 5, 5},
	}
	stats := computeStats(env, 6)
	stats.Constrictions = []int{2, 4}

	b := blockingDynamic(env, stats, 6, 3, 20)

	require.Equal(t, 2, b.numBlocks())
	assert.Equal(t, []int{0, 2, 6}, b.bounds)
	assert.Equal(t, []int{0, 1}, b.blockVars[0])
	assert.Equal(t, []int{5}, b.blockVars[1])
	assert.Equal(t, []int{2, 3, 4}, b.linking)
	checkPartition(t, b, 6)
}

func TestBlockingDynamicHonorsMaxBlocks(t *testing.T) {
	env := stairEnvelope()
	stats := computeStats(env, 8)
	stats.Constrictions = []int{5, 8}

	b := blockingDynamic(env, stats, 8, 2, 2)

	require.Equal(t, 2, b.numBlocks())
	assert.Equal(t, []int{0, 5, 10}, b.bounds)
	checkPartition(t, b, 8)
}

func TestStaticBlockRows(t *testing.T) {
	tests := []struct {
		nRows, desired int
		want           []int
	}{
		{10, 3, []int{4, 3, 3}},
		{9, 3, []int{3, 3, 3}},
		{11, 4, []int{3, 3, 3, 2}},
		{5, 5, []int{1, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		got := staticBlockRows(tt.nRows, tt.desired)
		if !slices.Equal(got, tt.want) {
			t.Errorf("staticBlockRows(%d, %d) = %v, want %v", tt.nRows, tt.desired, got, tt.want)
		}
	}
}

func TestBlockingStatic(t *testing.T) {
	env := stairEnvelope()

	b := blockingStatic(env, 8, 3)

	require.Equal(t, 3, b.numBlocks())
	assert.Equal(t, []int{0, 4, 7, 10}, b.bounds)
	assert.Equal(t, []int{0, 1}, b.blockVars[0])
	assert.Equal(t, []int{4}, b.blockVars[1])
	assert.Equal(t, []int{7}, b.blockVars[2])
	assert.Equal(t, []int{2, 3, 5, 6}, b.linking)
	checkPartition(t, b, 8)
}

func TestBlockingStaticFullRangeLinkingFallback(t *testing.T) {
	// Block 2 starts at column 0, overlapping block 0's range: block 1 is
	// squeezed between them and its whole column range becomes linking.
	env := &Envelope{
		IBegin: []int{0, 0, 1, 1, 0, 2},
		IEnd:   []int{1, 2, 2, 2, 3, 3},
	}

	b := blockingStatic(env, 4, 3)

	require.Equal(t, 3, b.numBlocks())
	assert.Empty(t, b.blockVars[0])
	assert.Empty(t, b.blockVars[1])
	assert.Equal(t, []int{3}, b.blockVars[2])
	assert.Equal(t, []int{0, 1, 2}, b.linking)
	checkPartition(t, b, 4)
}

func TestBlockingStaticClampsToRowCount(t *testing.T) {
	env := &Envelope{
		IBegin: []int{0, 1},
		IEnd:   []int{1, 2},
	}

	b := blockingStatic(env, 3, 5)

	assert.Equal(t, 2, b.numBlocks())
	checkPartition(t, b, 3)
}

func TestBlockingASAPIsEmpty(t *testing.T) {
	b := blockingASAP(stairEnvelope(), 8)

	assert.Equal(t, 0, b.numBlocks())
	assert.Empty(t, b.blockVars)
	assert.Empty(t, b.linking)
}
