package detection

import "slices"

// rowIndexLists builds, for each row position, the ascending column
// positions holding a nonzero entry under the current permutations.
// inc is the raw incidence: per row identity, the ascending column
// identities it touches. The lists are fully rebuilt on every call;
// reordering permutes labels and never adds or removes nonzeros.
func rowIndexLists(inc [][]int, rowPerm, colPerm *Permutation) [][]int {
	lists := make([][]int, rowPerm.Len())
	for pos := 0; pos < rowPerm.Len(); pos++ {
		cols := inc[rowPerm.IdentityAt(pos)]
		list := make([]int, len(cols))
		for i, c := range cols {
			list[i] = colPerm.PositionOf(c)
		}
		slices.Sort(list)
		lists[pos] = list
	}
	return lists
}

// colIndexLists derives, for each column position, the ascending row
// positions holding a nonzero entry. It is built purely by inverting the
// row lists; the source matrix is not re-queried. Scanning rows in
// ascending position order makes each column list ascending without a
// sort.
func colIndexLists(rowLists [][]int, nCols int) [][]int {
	lists := make([][]int, nCols)
	for rowPos, cols := range rowLists {
		for _, colPos := range cols {
			lists[colPos] = append(lists[colPos], rowPos)
		}
	}
	return lists
}
