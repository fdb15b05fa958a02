// Package cache stores rendered artifacts keyed by design content and
// render options, so repeated requests for the same drawing or model skip
// placement and rendering.
//
// Backends:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one file per entry, for the CLI
//   - [MemoryCache]: bounded in-process LRU with expiry, for the server
//   - [RedisCache]: shared cache for multi-instance deployments
//
// Keys come from a [Keyer]. The default keyer hashes the design and the
// options that change the output; [NewScopedKeyer] prefixes keys for
// separate namespaces.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A ttl of zero means the
// entry does not expire. Get reports a miss with ok == false and a nil
// error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default lifetimes of cached entries.
const (
	ArtifactTTL = 7 * 24 * time.Hour
	ModelTTL    = 24 * time.Hour
)

// ArtifactKeyOpts are the options that change a 2D artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Scale    float64 `json:"scale,omitempty"`
	Labels   bool    `json:"labels"`
	Hatching bool    `json:"hatching"`
	Backend  string  `json:"backend,omitempty"`
}

// ModelKeyOpts are the options that change a 3D model.
type ModelKeyOpts struct {
	Length float64 `json:"length"`
	Step   float64 `json:"step"`
	Shells bool    `json:"shells,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// DesignHash identifies a design by its canonical encoding.
	DesignHash(design []byte) string
	ArtifactKey(designHash string, opts ArtifactKeyOpts) string
	ModelKey(designHash string, opts ModelKeyOpts) string
}

// DefaultKeyer builds "artifact:<hash>" and "model:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DesignHash returns the SHA-256 of the design bytes.
func (DefaultKeyer) DesignHash(design []byte) string { return Hash(design) }

// ArtifactKey returns the key of a rendered 2D artifact.
func (DefaultKeyer) ArtifactKey(designHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", designHash, opts)
}

// ModelKey returns the key of an extruded model.
func (DefaultKeyer) ModelKey(designHash string, opts ModelKeyOpts) string {
	return hashKey("model", designHash, opts)
}
