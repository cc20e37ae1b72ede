package cache

// ScopedKeyer wraps a Keyer with a prefix so deployments sharing one
// Redis instance keep separate namespaces. Entries written by an older
// encoding or a different catalogue never collide with the current ones.
//
// Example usage:
//
//	// Version-scoped keys for a shared cache
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v2:")
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// PlaneKey generates a prefixed key for computed plane caching.
func (k *ScopedKeyer) PlaneKey(family string, opts PlaneKeyOpts) string {
	return k.prefix + k.inner.PlaneKey(family, opts)
}

// RenderKey generates a prefixed key for rendered artifact caching.
func (k *ScopedKeyer) RenderKey(planeHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(planeHash, opts)
}
