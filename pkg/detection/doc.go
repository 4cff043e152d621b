// Package detection implements staircase-structure detection for sparse
// 0/1 constraint matrices.
//
// The detector permutes the rows (constraints) and columns (variables) of
// the incidence matrix so that nonzeros cluster near a diagonal band, then
// cuts the permuted matrix into contiguous row/column blocks with a small
// set of linking variables crossing block boundaries. The result is meant
// for decomposition frameworks that split one large optimization problem
// into loosely-coupled sub-problems.
//
// # Algorithm
//
// Detection runs in three phases:
//
//  1. Rank-Order Clustering (ROC2): a fixed-point iteration that
//     alternately reorders rows by their column incidence and columns by
//     their row incidence, until the matrix envelope stops changing or an
//     iteration cap is hit.
//  2. Envelope statistics: per-row band widths, running column extrema,
//     and "constriction" rows where the number of boundary-crossing
//     variables reaches a strict local minimum.
//  3. Blocking: a strategy (dynamic, static, or the as-soon-as-possible
//     placeholder) converts constriction points and a target block count
//     into a concrete block partition.
//
// The detector is a polynomial-time heuristic. It neither decides whether
// decomposition is worthwhile nor attempts the NP-hard minimum
// linking-variable partition.
//
// # Usage
//
//	opts := detection.DefaultOptions()
//	opts.MaxBlocks = 8
//	result, err := detection.Run(ctx, problem, opts)
//	if err != nil {
//	    return err
//	}
//	if result.Status == detection.StatusSuccess {
//	    for _, dec := range result.Decompositions {
//	        // hand dec to the decomposition framework
//	    }
//	}
//
// Each call to Run allocates its own scratch state and drops it on return;
// no state persists across invocations. Run is safe for concurrent use
// with distinct problems.
package detection
