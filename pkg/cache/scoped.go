package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants or table
// versions can share one backend without collisions.
//
//	// Keys that depend on a custom conductor table
//	k := NewScopedKeyer(NewDefaultKeyer(), "tables:"+tableHash+":")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DesignHash delegates to the inner keyer; hashes are not prefixed.
func (k *ScopedKeyer) DesignHash(design []byte) string { return k.inner.DesignHash(design) }

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(designHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(designHash, opts)
}

// ModelKey generates a prefixed model key.
func (k *ScopedKeyer) ModelKey(designHash string, opts ModelKeyOpts) string {
	return k.prefix + k.inner.ModelKey(designHash, opts)
}
