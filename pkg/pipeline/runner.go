package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/scipopt/stairheur/pkg/cache"
	"github.com/scipopt/stairheur/pkg/detection"
	"github.com/scipopt/stairheur/pkg/model"
	"github.com/scipopt/stairheur/pkg/mps"
	"github.com/scipopt/stairheur/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete read → detect → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	hooks := observability.Pipeline()

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Read
	readStart := time.Now()
	hooks.OnReadStart(ctx, opts.sourceLabel())
	p, readHit, err := r.ReadWithCacheInfo(ctx, opts)
	result.Stats.ReadTime = time.Since(readStart)
	if p != nil {
		result.Stats.NConss = p.NumConss()
		result.Stats.NVars = p.NumVars()
	}
	hooks.OnReadComplete(ctx, opts.sourceLabel(), result.Stats.NConss, result.Stats.NVars, result.Stats.ReadTime, err)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	result.Problem = p
	result.ProblemHash = cache.Hash(p.Fingerprint())
	result.CacheInfo.ReadHit = readHit

	r.Logger.Info("read problem",
		"name", p.Name(),
		"conss", p.NumConss(),
		"vars", p.NumVars(),
		"duration", result.Stats.ReadTime)

	// Stage 2: Detect
	detectStart := time.Now()
	hooks.OnDetectStart(ctx, p.Name(), p.NumConss(), p.NumVars())
	res, detectHit, err := r.DetectWithCacheInfo(ctx, p, opts)
	result.Stats.DetectTime = time.Since(detectStart)
	nDecomps := 0
	if res != nil {
		nDecomps = len(res.Decompositions)
	}
	hooks.OnDetectComplete(ctx, p.Name(), nDecomps, result.Stats.DetectTime, err)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	result.Detection = res
	result.CacheInfo.DetectHit = detectHit

	r.Logger.Info("detection finished",
		"status", res.Status.String(),
		"decompositions", nDecomps,
		"iterations", res.Iterations,
		"duration", result.Stats.DetectTime)

	// Stage 3: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, p, res, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ReadWithCacheInfo parses the input with caching and returns cache hit info.
func (r *Runner) ReadWithCacheInfo(ctx context.Context, opts Options) (*model.Problem, bool, error) {
	if err := opts.ValidateForRead(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	cacheHooks := observability.Cache()

	source := opts.Source
	if len(source) == 0 {
		data, err := os.ReadFile(opts.Input)
		if err != nil {
			return nil, false, fmt.Errorf("read input: %w", err)
		}
		source = data
	}

	cacheKey := r.Keyer.ProblemKey(cache.Hash(source))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			p, err := model.UnmarshalProblem(data)
			if err == nil {
				cacheHooks.OnCacheHit(ctx, cacheKey)
				return p, true, nil
			}
			// Corrupt entry, fall through to reparse
		}
		cacheHooks.OnCacheMiss(ctx, cacheKey)
	}

	p, err := mps.Parse(bytes.NewReader(source))
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		if data, err := model.MarshalProblem(p); err == nil {
			if r.Cache.Set(ctx, cacheKey, data, cache.TTLProblem) == nil {
				cacheHooks.OnCacheSet(ctx, cacheKey, len(data))
			}
		}
	}

	return p, false, nil
}

// Read is a convenience wrapper that calls ReadWithCacheInfo and discards the cache hit info.
func (r *Runner) Read(ctx context.Context, opts Options) (*model.Problem, error) {
	p, _, err := r.ReadWithCacheInfo(ctx, opts)
	return p, err
}

// DetectWithCacheInfo runs staircase detection with caching and returns cache hit info.
func (r *Runner) DetectWithCacheInfo(ctx context.Context, p *model.Problem, opts Options) (*detection.Result, bool, error) {
	opts.SetDetectDefaults()
	r.applyLogger(&opts)
	cacheHooks := observability.Cache()

	problemHash := cache.Hash(p.Fingerprint())
	cacheKey := r.Keyer.DetectKey(problemHash, opts.DetectKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached detection.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				cacheHooks.OnCacheHit(ctx, cacheKey)
				return &cached, true, nil
			}
		}
		cacheHooks.OnCacheMiss(ctx, cacheKey)
	}

	res, err := detection.Run(ctx, p, opts.Detect)
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		if data, err := json.Marshal(res); err == nil {
			if r.Cache.Set(ctx, cacheKey, data, cache.TTLDetect) == nil {
				cacheHooks.OnCacheSet(ctx, cacheKey, len(data))
			}
		}
	}

	return res, false, nil
}

// Detect is a convenience wrapper that calls DetectWithCacheInfo and discards the cache hit info.
func (r *Runner) Detect(ctx context.Context, p *model.Problem, opts Options) (*detection.Result, error) {
	res, _, err := r.DetectWithCacheInfo(ctx, p, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, p *model.Problem, res *detection.Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	cacheHooks := observability.Cache()

	// Artifact keys hash the result content, so cached decompositions and
	// fresh ones address the same artifacts.
	resData, err := json.Marshal(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize result for cache key: %w", err)
	}
	resultHash := cache.Hash(resData)

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.RenderKey(resultHash, opts.RenderKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				cacheHooks.OnCacheHit(ctx, cacheKey)
				artifacts[format] = data
			} else {
				cacheHooks.OnCacheMiss(ctx, cacheKey)
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := renderArtifacts(p, res, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.RenderKey(resultHash, opts.RenderKeyOpts(format))
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLRender) == nil {
			cacheHooks.OnCacheSet(ctx, cacheKey, len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, p *model.Problem, res *detection.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, p, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Detect.Logger == nil {
		opts.Detect.Logger = r.Logger
	}
}
