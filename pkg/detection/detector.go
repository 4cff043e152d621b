package detection

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/scipopt/stairheur/pkg/errors"
	"github.com/scipopt/stairheur/pkg/model"
)

// Status reports how a detection run ended.
type Status int

const (
	// StatusDidNotRun means no blocking strategy was enabled.
	StatusDidNotRun Status = iota
	// StatusDidNotFind means the matrix has no exploitable staircase
	// structure (uniform band width or block estimate below two). This is
	// a regular outcome, not an error.
	StatusDidNotFind
	// StatusSuccess means at least one decomposition record was produced.
	StatusSuccess
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusDidNotRun:
		return "did-not-run"
	case StatusDidNotFind:
		return "did-not-find"
	case StatusSuccess:
		return "success"
	}
	return "unknown"
}

// Options configures a detection run.
type Options struct {
	// MaxBlocks bounds the blocks produced by any single strategy run.
	MaxBlocks int `json:"maxblocks"`

	// MinBlocks is the lower bound of the multiple-decomposition sweep.
	// Values above MaxBlocks are repaired to MaxBlocks with a warning.
	MinBlocks int `json:"minblocks"`

	// DesiredBlocks is the block target for single runs; zero selects the
	// tau estimate derived from the envelope.
	DesiredBlocks int `json:"desiredblocks"`

	// MaxIterations caps the ROC2 fixed-point search; -1 means unbounded.
	MaxIterations int `json:"maxiterations"`

	// Dynamic, Static, and ASAP select the blocking strategies to run.
	Dynamic bool `json:"dynamic"`
	Static  bool `json:"static"`
	ASAP    bool `json:"asap"`

	// Multiple additionally runs each enabled strategy once per block
	// count in [MinBlocks, MaxBlocks].
	Multiple bool `json:"multiple"`

	// Logger receives clamp warnings and iteration debug output.
	// Defaults to log.Default().
	Logger *log.Logger `json:"-"`
}

// DefaultOptions returns the detector defaults.
func DefaultOptions() Options {
	return Options{
		MaxBlocks:     20,
		MinBlocks:     2,
		DesiredBlocks: 0,
		MaxIterations: 1000000,
		Dynamic:       true,
	}
}

// ValidateAndSetDefaults checks option ranges and repairs what can be
// repaired. MinBlocks > MaxBlocks is not fatal: it is clamped with a
// warning.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.MaxBlocks < 2 {
		return errors.New(errors.ErrCodeInvalidOption, "maxblocks must be >= 2, got %d", o.MaxBlocks)
	}
	if o.MinBlocks < 2 {
		return errors.New(errors.ErrCodeInvalidOption, "minblocks must be >= 2, got %d", o.MinBlocks)
	}
	if o.DesiredBlocks < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "desiredblocks must be >= 0, got %d", o.DesiredBlocks)
	}
	if o.MaxIterations < -1 {
		return errors.New(errors.ErrCodeInvalidOption, "maxiterations must be >= -1, got %d", o.MaxIterations)
	}
	if o.MinBlocks > o.MaxBlocks {
		o.Logger.Warn("minblocks exceeds maxblocks, clamping",
			"minblocks", o.MinBlocks, "maxblocks", o.MaxBlocks)
		o.MinBlocks = o.MaxBlocks
	}
	return nil
}

// Result is the outcome of one detection invocation.
type Result struct {
	Status         Status           `json:"status"`
	Decompositions []*Decomposition `json:"decompositions,omitempty"`

	// Iterations counts completed ROC2 iterations; Converged reports a
	// true envelope fixed point rather than a cap stop.
	Iterations int  `json:"iterations"`
	Converged  bool `json:"converged"`

	// Tau is the block-count estimate; zero when ill-defined.
	Tau int `json:"tau"`

	NRelevantConss int `json:"n_relevant_conss"`
	NVars          int `json:"n_vars"`
}

// Run performs one self-contained detection pass over the problem: filter
// relevant entities, search the ROC2 fixed point, derive envelope
// statistics, and apply every enabled blocking strategy. All scratch state
// is private to the call and released on return.
func Run(ctx context.Context, p *model.Problem, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if !opts.Dynamic && !opts.Static && !opts.ASAP {
		opts.Logger.Warn("no blocking strategy enabled")
		return &Result{Status: StatusDidNotRun}, nil
	}

	inc, consOf, varOf := relevantIncidence(p)
	nRows, nCols := len(inc), len(varOf)
	result := &Result{NRelevantConss: nRows, NVars: nCols}
	if nRows == 0 || nCols == 0 {
		opts.Logger.Debug("no relevant constraints or variables")
		result.Status = StatusDidNotFind
		return result, nil
	}

	roc, err := runROC2(ctx, inc, nCols, opts.MaxIterations)
	if err != nil {
		return nil, err
	}
	result.Iterations = roc.iterations
	result.Converged = roc.converged
	opts.Logger.Debug("rank-order clustering finished",
		"iterations", roc.iterations, "converged", roc.converged)

	stats := computeStats(roc.env, nCols)
	result.Tau = stats.Tau
	if stats.degenerate() {
		opts.Logger.Debug("no staircase structure",
			"maxwidth", stats.MaxWidth, "minwidth", stats.MinWidth, "tau", stats.Tau)
		result.Status = StatusDidNotFind
		return result, nil
	}

	// Each strategy run builds fresh block and linking lists; nothing
	// accumulates across runs.
	appendRun := func(strategy string, target, maxBlocks int) {
		var b *blocking
		switch strategy {
		case StrategyDynamic:
			b = blockingDynamic(roc.env, stats, nCols, target, maxBlocks)
		case StrategyStatic:
			b = blockingStatic(roc.env, nCols, target)
		case StrategyASAP:
			b = blockingASAP(roc.env, nCols)
		}
		result.Decompositions = append(result.Decompositions,
			assemble(strategy, b, roc, consOf, varOf))
	}

	enabled := enabledStrategies(opts)
	if opts.Multiple {
		// Each sweep value k is both the block target and the block cap,
		// so the record produced for k never exceeds k blocks.
		for k := opts.MinBlocks; k <= opts.MaxBlocks; k++ {
			for _, strategy := range enabled {
				appendRun(strategy, k, k)
			}
		}
	} else {
		target := opts.DesiredBlocks
		if target == 0 {
			target = stats.Tau
		}
		target = min(target, opts.MaxBlocks)
		for _, strategy := range enabled {
			appendRun(strategy, target, opts.MaxBlocks)
		}
	}

	result.Status = StatusSuccess
	opts.Logger.Debug("detection finished",
		"decompositions", len(result.Decompositions), "tau", stats.Tau)
	return result, nil
}

func enabledStrategies(opts Options) []string {
	var enabled []string
	if opts.Dynamic {
		enabled = append(enabled, StrategyDynamic)
	}
	if opts.Static {
		enabled = append(enabled, StrategyStatic)
	}
	if opts.ASAP {
		enabled = append(enabled, StrategyASAP)
	}
	return enabled
}

// relevantIncidence filters out constraints referencing zero variables,
// assigns dense row and column ids to the remaining constraints and the
// variables they touch, and returns the incidence lists plus the id-to-
// handle maps. Column ids follow ascending variable handle order, so
// every incidence list stays ascending.
func relevantIncidence(p *model.Problem) (inc [][]int, consOf, varOf []int) {
	seen := make(map[int]bool)
	for h := 0; h < p.NumConss(); h++ {
		vars := p.ConsVars(h)
		if len(vars) == 0 {
			continue
		}
		consOf = append(consOf, h)
		for _, v := range vars {
			seen[v] = true
		}
	}

	varOf = make([]int, 0, len(seen))
	for v := range seen {
		varOf = append(varOf, v)
	}
	slices.Sort(varOf)
	colID := make(map[int]int, len(varOf))
	for i, v := range varOf {
		colID[v] = i
	}

	inc = make([][]int, len(consOf))
	for r, h := range consOf {
		vars := p.ConsVars(h)
		row := make([]int, len(vars))
		for i, v := range vars {
			row[i] = colID[v]
		}
		inc[r] = row
	}
	return inc, consOf, varOf
}
