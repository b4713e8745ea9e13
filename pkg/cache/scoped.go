package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several tools or
// several versions of this one can share a Redis instance without reading
// each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "sbomgen:v1:")
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

// DocumentKey generates a prefixed document key.
func (k *ScopedKeyer) DocumentKey(inputHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(inputHash, opts)
}
