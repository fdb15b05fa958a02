package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/cache"
	"github.com/matzehuels/cablesection/pkg/errors"
	"github.com/matzehuels/cablesection/pkg/observability"
	"github.com/matzehuels/cablesection/pkg/placement"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache, the reference tables and
// the logger: it doesn't store results. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Env holds the layup and conductor tables. Zero fields use the
	// built-in tables. When custom tables are loaded, scope the keyer with
	// cache.NewScopedKeyer so their artifacts don't mix with the defaults.
	Env placement.Env
	// TTL overrides the cache lifetimes of artifacts and models when set.
	TTL time.Duration
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

// DesignHash returns the cache identity of a design under a schema.
func (r *Runner) DesignHash(c cable.Cable, schema cable.Schema) (string, error) {
	data, err := json.Marshal(struct {
		Design cable.Cable  `json:"design"`
		Schema cable.Schema `json:"schema"`
	}{c, schema.WithDefaults()})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode design")
	}
	return r.Keyer.DesignHash(data), nil
}

// Execute runs link → place → render → model for one design with caching.
func (r *Runner) Execute(ctx context.Context, c cable.Cable, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hash, err := r.DesignHash(c, opts.Schema)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Design:     c.Name,
		DesignHash: hash,
		Artifacts:  make(map[string][]byte),
	}
	result.Stats.Layers = len(c.Layers)

	if formats := opts.DrawingFormats(); len(formats) > 0 {
		renderStart := time.Now()
		artifacts, hit, err := r.RenderWithCacheInfo(ctx, c, hash, formats, opts, result)
		if err != nil {
			return nil, err
		}
		for f, data := range artifacts {
			result.Artifacts[f] = data
		}
		result.Stats.RenderTime = time.Since(renderStart)
		result.CacheInfo.RenderHit = hit

		opts.Logger.Info("rendered outputs",
			"design", c.Name,
			"formats", formats,
			"cached", hit,
			"duration", result.Stats.RenderTime)
	}

	if opts.WantsModel() {
		modelStart := time.Now()
		model, hit, err := r.ModelWithCacheInfo(ctx, c, hash, opts, result)
		if err != nil {
			return nil, err
		}
		result.Artifacts[FormatGLB] = model
		result.Stats.ModelTime = time.Since(modelStart)
		result.CacheInfo.ModelHit = hit

		opts.Logger.Info("built model",
			"design", c.Name,
			"faces", result.Stats.Faces,
			"cached", hit,
			"duration", result.Stats.ModelTime)
	}

	return result, nil
}

// Place links and places a design, reporting to the pipeline hooks.
func (r *Runner) Place(ctx context.Context, c cable.Cable, schema cable.Schema) (*cable.Linked, *placement.Layout, error) {
	hooks := observability.Pipeline()
	hooks.OnPlaceStart(ctx, c.Name, len(c.Layers))
	start := time.Now()

	linked, err := cable.Link(c, schema)
	if err != nil {
		hooks.OnPlaceComplete(ctx, c.Name, 0, time.Since(start), err)
		return nil, nil, err
	}
	layout, err := placement.Place(linked, r.Env)
	if err != nil {
		hooks.OnPlaceComplete(ctx, c.Name, 0, time.Since(start), err)
		return nil, nil, err
	}
	hooks.OnPlaceComplete(ctx, c.Name, len(layout.Items), time.Since(start), nil)
	return linked, layout, nil
}

// RenderWithCacheInfo returns the requested drawing formats, placing the
// design only when some format is missing from the cache. It reports
// whether every format came from the cache. When result is not nil its
// layout and placement stats are filled in.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c cable.Cable, hash string, formats []string, opts Options, result *Result) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte)
	var missing []string
	for _, format := range formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	linked, layout, err := r.placeInto(ctx, c, opts, result)
	if err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, c.Name, missing)
	start := time.Now()
	for _, format := range missing {
		data, err := RenderFormat(ctx, linked, layout, format, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, c.Name, missing, time.Since(start), err)
			return nil, false, errors.Wrap(errors.GetCode(err), err, "render %s", format)
		}
		artifacts[format] = data
	}
	hooks.OnRenderComplete(ctx, c.Name, missing, time.Since(start), nil)

	// Only cache once every format rendered.
	for _, format := range missing {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, artifacts[format], r.ttl(cache.ArtifactTTL)); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(artifacts[format]))
	}
	return artifacts, false, nil
}

// ModelWithCacheInfo returns the GLB model with caching and reports
// whether it came from the cache.
func (r *Runner) ModelWithCacheInfo(ctx context.Context, c cable.Cable, hash string, opts Options, result *Result) ([]byte, bool, error) {
	key := r.Keyer.ModelKey(hash, opts.ModelKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "model")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "model")
	}

	// Link first so bad designs fail with the same error as for drawings.
	if _, err := cable.Link(c, opts.Schema); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnExtrudeStart(ctx, c.Name)
	start := time.Now()
	data, faces, err := BuildModel(c, r.Env, opts)
	hooks.OnExtrudeComplete(ctx, c.Name, faces, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	if result != nil {
		result.Stats.Faces = faces
	}

	if err := r.Cache.Set(ctx, key, data, r.ttl(cache.ModelTTL)); err != nil {
		opts.Logger.Warn("cache write failed", "format", FormatGLB, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "model", len(data))
	}
	return data, false, nil
}

// Render is a convenience wrapper around Execute for drawing formats only.
func (r *Runner) Render(ctx context.Context, c cable.Cable, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	opts.Formats = opts.DrawingFormats()
	if len(opts.Formats) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no drawing format requested")
	}
	res, err := r.Execute(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	return res.Artifacts, nil
}

// Model is a convenience wrapper around Execute that returns the GLB model.
func (r *Runner) Model(ctx context.Context, c cable.Cable, opts Options) ([]byte, error) {
	opts.Formats = []string{FormatGLB}
	res, err := r.Execute(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	return res.Artifacts[FormatGLB], nil
}

func (r *Runner) placeInto(ctx context.Context, c cable.Cable, opts Options, result *Result) (*cable.Linked, *placement.Layout, error) {
	start := time.Now()
	linked, layout, err := r.Place(ctx, c, opts.Schema)
	if err != nil {
		return nil, nil, err
	}
	if result != nil {
		result.Layout = layout
		result.Stats.Items = len(layout.Items)
		result.Stats.PlaceTime = time.Since(start)
	}
	opts.Logger.Debug("placed design",
		"design", c.Name,
		"layers", len(c.Layers),
		"items", len(layout.Items),
		"duration", time.Since(start))
	return linked, layout, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
