package detection

import "github.com/google/uuid"

// Block is one sub-problem of a decomposition: the constraints it owns and
// the variables no other block references. Handles index into the source
// model.Problem.
type Block struct {
	Conss []int `json:"conss"`
	Vars  []int `json:"vars"`
}

// Decomposition is the output record handed to the decomposition
// framework. Constraints and block-exclusive variables belong to exactly
// one block; linking variables are shared by every block that references
// them and carry no single owner. The permutation slices are final and
// never mutated after assembly.
type Decomposition struct {
	// ID uniquely identifies the record across runs.
	ID string `json:"id"`

	// Strategy names the blocking policy that produced the record.
	Strategy string `json:"strategy"`

	// NBlocks is the number of blocks. The as-soon-as-possible
	// placeholder produces zero.
	NBlocks int `json:"nblocks"`

	Blocks []Block `json:"blocks,omitempty"`

	// LinkingVars lists variables whose nonzero footprint spans more than
	// one block.
	LinkingVars []int `json:"linking_vars,omitempty"`

	// LinkingConss is carried for the output contract; row-contiguous
	// blockings never produce linking constraints.
	LinkingConss []int `json:"linking_conss,omitempty"`

	// ConsOrder and VarOrder are the final permutation: the constraint
	// and variable handle at each position of the permuted matrix.
	ConsOrder []int `json:"cons_order"`
	VarOrder  []int `json:"var_order"`
}

// assemble copies a position-space blocking into a handle-space
// decomposition record, translating row and column positions through the
// final permutations and the relevant-entity index maps.
func assemble(strategy string, b *blocking, roc *rocState, consOf, varOf []int) *Decomposition {
	dec := &Decomposition{
		ID:       uuid.NewString(),
		Strategy: strategy,
		NBlocks:  b.numBlocks(),
	}

	for k := 0; k < b.numBlocks(); k++ {
		block := Block{}
		for pos := b.bounds[k]; pos < b.bounds[k+1]; pos++ {
			block.Conss = append(block.Conss, consOf[roc.rows.IdentityAt(pos)])
		}
		for _, pos := range b.blockVars[k] {
			block.Vars = append(block.Vars, varOf[roc.cols.IdentityAt(pos)])
		}
		dec.Blocks = append(dec.Blocks, block)
	}
	for _, pos := range b.linking {
		dec.LinkingVars = append(dec.LinkingVars, varOf[roc.cols.IdentityAt(pos)])
	}

	dec.ConsOrder = make([]int, roc.rows.Len())
	for pos := 0; pos < roc.rows.Len(); pos++ {
		dec.ConsOrder[pos] = consOf[roc.rows.IdentityAt(pos)]
	}
	dec.VarOrder = make([]int, roc.cols.Len())
	for pos := 0; pos < roc.cols.Len(); pos++ {
		dec.VarOrder[pos] = varOf[roc.cols.IdentityAt(pos)]
	}
	return dec
}
