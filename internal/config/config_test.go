package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/cablesection/pkg/cache"
	"github.com/matzehuels/cablesection/pkg/errors"
)

func noEnv(string) (string, bool) { return "", false }

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	opts := cfg.Options()
	if opts.Length != 50 || opts.Step != 5 || opts.Scale != 2 {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), FileName)
	data := `
[render]
formats = ["svg", "png"]
scale = 3.0

[model]
length = 80.0

[schema]
max_packed_cores = 5

[cache]
backend = "memory"
ttl = "1h"

[server]
addr = ":9090"
timeout = "30s"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q", cfg.Path)
	}
	if len(cfg.Render.Formats) != 2 || cfg.Render.Scale != 3 {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Model.Length != 80 || cfg.Model.Step != 5 {
		t.Errorf("Model = %+v", cfg.Model)
	}
	if cfg.Schema.MaxPackedCores != 5 || cfg.Schema.SupportOffsetFull != 2 {
		t.Errorf("Schema = %+v", cfg.Schema)
	}
	if cfg.Cache.Backend != CacheMemory || cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing explicit file: err = %v", err)
	}

	unknown := filepath.Join(dir, "unknown.toml")
	if err := os.WriteFile(unknown, []byte("[render]\ncolour = \"red\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(unknown); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown key: err = %v", err)
	}

	broken := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(broken, []byte("[render\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(broken); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("broken file: err = %v", err)
	}

	// No default file is fine.
	if _, err := Load(""); err != nil {
		t.Errorf("Load(\"\") without a default file: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CABLESECTION_CACHE_BACKEND": "redis",
		"CABLESECTION_REDIS_ADDR":    "localhost:6379",
		"CABLESECTION_REDIS_DB":      "2",
		"CABLESECTION_CACHE_TTL":     "90m",
		"CABLESECTION_FORMATS":       "svg,glb",
		"CABLESECTION_ADDR":          ":7000",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "localhost:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL != 90*time.Minute {
		t.Errorf("TTL = %s", cfg.Cache.TTL)
	}
	if len(cfg.Render.Formats) != 2 || cfg.Render.Formats[1] != "glb" {
		t.Errorf("Formats = %v", cfg.Render.Formats)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}

	env["CABLESECTION_REDIS_DB"] = "two"
	if err := Default().ApplyEnv(lookup); err == nil {
		t.Error("bad REDIS_DB should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"cache backend", func(c *Config) { c.Cache.Backend = "disk" }},
		{"store backend", func(c *Config) { c.Store.Backend = "postgres" }},
		{"redis addr", func(c *Config) { c.Cache.Backend = CacheRedis }},
		{"mongo uri", func(c *Config) { c.Store.Backend = StoreMongo }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	cfg := Default()
	_ = cfg.ApplyEnv(noEnv)

	cfg.Cache.Backend = CacheNone
	c, err := cfg.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("none backend gave %T", c)
	}

	cfg.Cache.Backend = CacheMemory
	if c, _ = cfg.OpenCache(ctx); c == nil {
		t.Fatal("memory backend gave nil")
	}
	if _, ok := c.(*cache.MemoryCache); !ok {
		t.Errorf("memory backend gave %T", c)
	}

	cfg.Cache.Backend = CacheFile
	cfg.Cache.Dir = t.TempDir()
	c, err = cfg.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fc, ok := c.(*cache.FileCache); !ok || fc.Dir() != cfg.Cache.Dir {
		t.Errorf("file backend gave %T", c)
	}
}

func TestTables(t *testing.T) {
	cfg := Default()
	env, keyer, err := cfg.Tables()
	if err != nil {
		t.Fatal(err)
	}
	if env.Layups != nil || env.Conductors != nil {
		t.Error("no custom tables configured")
	}
	plain := keyer.ArtifactKey("h", cache.ArtifactKeyOpts{Format: "svg"})

	path := filepath.Join(t.TempDir(), "layups.toml")
	if err := os.WriteFile(path, []byte("[[layup]]\ncores = 1\nrings = [1]\nmultiplier = 1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Data.Layups = path
	env, keyer, err = cfg.Tables()
	if err != nil {
		t.Fatal(err)
	}
	if env.Layups == nil {
		t.Fatal("custom layup table not loaded")
	}
	if scoped := keyer.ArtifactKey("h", cache.ArtifactKeyOpts{Format: "svg"}); scoped == plain {
		t.Error("custom tables should scope cache keys")
	}

	cfg.Data.Layups = filepath.Join(t.TempDir(), "missing.toml")
	if _, _, err := cfg.Tables(); err == nil {
		t.Error("missing table should fail")
	}
}
