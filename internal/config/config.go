// Package config loads cablesection settings.
//
// Settings come from three layers, later ones winning:
//
//  1. cablesection.toml in the user config directory, or the file given
//     with --config
//  2. CABLESECTION_* environment variables, optionally read from a .env
//     file in the working directory
//  3. command-line flags, applied by the CLI
//
// A minimal file:
//
//	[render]
//	formats = ["svg", "png"]
//	scale = 2.0
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "cablesection"

// FileName is the config file name.
const FileName = AppName + ".toml"

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "CABLESECTION_"

// Cache backends.
const (
	CacheFile   = "file"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config holds all settings.
type Config struct {
	Render RenderConfig `toml:"render"`
	Model  ModelConfig  `toml:"model"`
	Schema cable.Schema `toml:"schema"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`

	// Path is the file the config was read from, if any.
	Path string `toml:"-"`
}

// RenderConfig holds 2D output defaults.
type RenderConfig struct {
	Formats    []string `toml:"formats"`
	Scale      float64  `toml:"scale"`
	Backend    string   `toml:"backend"` // plot or rsvg
	NoLabels   bool     `toml:"no_labels"`
	NoHatching bool     `toml:"no_hatching"`
}

// ModelConfig holds 3D extrusion defaults.
type ModelConfig struct {
	Length float64 `toml:"length"`
	Step   float64 `toml:"step"`
	Shells bool    `toml:"shells"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	Size          int           `toml:"size"` // memory backend entries
	TTL           time.Duration `toml:"ttl"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
}

// StoreConfig selects the artifact store used by the server.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr    string        `toml:"addr"`
	Timeout time.Duration `toml:"timeout"`
}

// DataConfig points at custom reference tables.
type DataConfig struct {
	Layups     string `toml:"layups"`
	Conductors string `toml:"conductors"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Render: RenderConfig{Formats: []string{"svg"}, Scale: 2, Backend: "plot"},
		Model:  ModelConfig{Length: 50, Step: 5},
		Schema: cable.DefaultSchema(),
		Cache:  CacheConfig{Backend: CacheFile, Size: 512, TTL: 7 * 24 * time.Hour},
		Store:  StoreConfig{Backend: StoreMemory, Database: AppName},
		Server: ServerConfig{Addr: ":8080", Timeout: 60 * time.Second},
	}
}

// Dir returns the config directory using the XDG standard
// (~/.config/cablesection/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the cache directory using the XDG standard
// (~/.cache/cablesection/).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads settings from path, or from the default location when path
// is empty, then applies environment overrides. A missing default file is
// not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if dir, err := Dir(); err == nil {
			path = filepath.Join(dir, FileName)
		}
	}
	if path != "" {
		if err := cfg.readFile(path, explicit); err != nil {
			return nil, err
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.Schema = cfg.Schema.WithDefaults()
	return cfg, nil
}

func (c *Config) readFile(path string, explicit bool) error {
	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeNotFound, err, "read config")
	}
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	c.Path = path
	return nil
}

// ApplyEnv applies CABLESECTION_* overrides read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("RENDER_BACKEND", &c.Render.Backend)
	str("CACHE_BACKEND", &c.Cache.Backend)
	str("CACHE_DIR", &c.Cache.Dir)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	str("REDIS_PASSWORD", &c.Cache.RedisPassword)
	str("STORE_BACKEND", &c.Store.Backend)
	str("MONGO_URI", &c.Store.URI)
	str("MONGO_DATABASE", &c.Store.Database)
	str("ADDR", &c.Server.Addr)
	str("LAYUPS", &c.Data.Layups)
	str("CONDUCTORS", &c.Data.Conductors)

	if v, ok := lookup(EnvPrefix + "FORMATS"); ok && v != "" {
		c.Render.Formats = strings.Split(v, ",")
	}
	if v, ok := lookup(EnvPrefix + "REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%sREDIS_DB", EnvPrefix)
		}
		c.Cache.RedisDB = n
	}
	if v, ok := lookup(EnvPrefix + "CACHE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%sCACHE_TTL", EnvPrefix)
		}
		c.Cache.TTL = d
	}
	return nil
}

// Validate checks backend names.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheMemory, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case StoreMemory, StoreMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "redis cache needs redis_addr")
	}
	if c.Store.Backend == StoreMongo && c.Store.URI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "mongo store needs a uri")
	}
	return nil
}
