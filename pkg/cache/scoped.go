package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation. The
// server uses it to keep per-client caches apart on a shared Redis
// backend.
//
// Example usage:
//
//	clientKeyer := NewScopedKeyer(NewDefaultKeyer(), "client:abc123:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ProblemKey generates a prefixed key for parsed-problem caching.
func (k *ScopedKeyer) ProblemKey(sourceHash string) string {
	return k.prefix + k.inner.ProblemKey(sourceHash)
}

// DetectKey generates a prefixed key for detection-result caching.
func (k *ScopedKeyer) DetectKey(problemHash string, opts DetectKeyOpts) string {
	return k.prefix + k.inner.DetectKey(problemHash, opts)
}

// RenderKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) RenderKey(resultHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(resultHash, opts)
}
