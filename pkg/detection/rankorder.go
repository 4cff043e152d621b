package detection

// reorder produces a new total order of one axis from the nonzero-position
// lists of the other axis. The returned slice maps new position to old
// position.
//
// Peer lists are processed from the last owner position backward. For each
// list, every element of the current order whose position appears in the
// list is moved to the front, preserving the relative order of moved and
// unmoved elements alike (a stable partition). Lists processed later
// therefore dominate the front of the order, which places elements sharing
// more and earlier connectivity nearer the front - the rank-order
// clustering rule. The result is deterministic; there is no randomness.
func reorder(n int, peerLists [][]int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	member := make([]bool, n)
	hits := make([]int, 0, n)
	rest := make([]int, 0, n)

	for j := len(peerLists) - 1; j >= 0; j-- {
		peers := peerLists[j]
		if len(peers) == 0 {
			continue
		}
		for _, p := range peers {
			member[p] = true
		}

		hits = hits[:0]
		rest = rest[:0]
		for _, pos := range order {
			if member[pos] {
				hits = append(hits, pos)
			} else {
				rest = append(rest, pos)
			}
		}
		order = order[:0]
		order = append(order, hits...)
		order = append(order, rest...)

		for _, p := range peers {
			member[p] = false
		}
	}
	return order
}
