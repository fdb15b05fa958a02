package config

import (
	"context"
	"os"

	"github.com/matzehuels/cablesection/pkg/cache"
	"github.com/matzehuels/cablesection/pkg/errors"
	csio "github.com/matzehuels/cablesection/pkg/io"
	"github.com/matzehuels/cablesection/pkg/pipeline"
	"github.com/matzehuels/cablesection/pkg/placement"
	"github.com/matzehuels/cablesection/pkg/store"
)

// OpenCache creates the configured artifact cache.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheMemory:
		return cache.NewMemoryCache(c.Cache.Size, c.Cache.TTL), nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   AppName + ":",
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to redis at %s", c.Cache.RedisAddr)
		}
		return rc, nil
	case CacheFile, "":
		dir := c.Cache.Dir
		if dir == "" {
			d, err := CacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
}

// OpenStore creates the configured artifact store.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case StoreMemory, "":
		return store.NewMemoryStore(), nil
	case StoreMongo:
		ms, err := store.NewMongoStore(ctx, store.MongoConfig{URI: c.Store.URI, Database: c.Store.Database})
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
}

// Tables loads the configured reference tables. The returned keyer scopes
// cache keys by the table contents when custom tables are in use.
func (c *Config) Tables() (placement.Env, cache.Keyer, error) {
	var env placement.Env
	var scope []byte
	if c.Data.Layups != "" {
		t, err := csio.ImportLayups(c.Data.Layups)
		if err != nil {
			return env, nil, err
		}
		env.Layups = t
		data, _ := os.ReadFile(c.Data.Layups)
		scope = append(scope, data...)
	}
	if c.Data.Conductors != "" {
		t, err := csio.ImportConductors(c.Data.Conductors)
		if err != nil {
			return env, nil, err
		}
		env.Conductors = t
		data, _ := os.ReadFile(c.Data.Conductors)
		scope = append(scope, data...)
	}
	keyer := cache.NewDefaultKeyer()
	if len(scope) > 0 {
		keyer = cache.NewScopedKeyer(keyer, "tables:"+cache.Hash(scope)[:16]+":")
	}
	return env, keyer, nil
}

// Options returns pipeline options from the render and model settings.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		Formats:    append([]string(nil), c.Render.Formats...),
		Scale:      c.Render.Scale,
		NoLabels:   c.Render.NoLabels,
		NoHatching: c.Render.NoHatching,
		Backend:    c.Render.Backend,
		Length:     c.Model.Length,
		Step:       c.Model.Step,
		Shells:     c.Model.Shells,
		Schema:     c.Schema,
	}
}
