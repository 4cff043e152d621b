// Package cache provides byte-level caching for the detection pipeline:
// parsed problems, detection results, and rendered artifacts. Backends
// share one interface so the CLI (file cache), the server (Redis), and
// tests (null cache) are interchangeable.
package cache

import (
	"context"
	"time"
)

// Default time-to-live per pipeline stage. Detection results are the most
// expensive to recompute and live the longest.
const (
	TTLProblem = 24 * time.Hour
	TTLDetect  = 7 * 24 * time.Hour
	TTLRender  = 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DetectKeyOpts are the detection options that influence the result and
// therefore the cache key.
type DetectKeyOpts struct {
	MaxBlocks     int
	MinBlocks     int
	DesiredBlocks int
	MaxIterations int
	Dynamic       bool
	Static        bool
	ASAP          bool
	Multiple      bool
}

// RenderKeyOpts are the rendering options that influence the artifact.
type RenderKeyOpts struct {
	Format   string
	CellSize int
	Detailed bool
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// ProblemKey generates a key for a parsed problem by source content.
	ProblemKey(sourceHash string) string

	// DetectKey generates a key for a detection result.
	DetectKey(problemHash string, opts DetectKeyOpts) string

	// RenderKey generates a key for a rendered artifact.
	RenderKey(resultHash string, opts RenderKeyOpts) string
}

// DefaultKeyer hashes stage inputs and options into stable keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ProblemKey generates a key for a parsed problem.
func (k *DefaultKeyer) ProblemKey(sourceHash string) string {
	return "problem:" + sourceHash
}

// DetectKey generates a key for a detection result.
func (k *DefaultKeyer) DetectKey(problemHash string, opts DetectKeyOpts) string {
	return hashKey("detect", problemHash, opts)
}

// RenderKey generates a key for a rendered artifact.
func (k *DefaultKeyer) RenderKey(resultHash string, opts RenderKeyOpts) string {
	return hashKey("render", resultHash, opts)
}
