package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cablesection/internal/config"
	"github.com/matzehuels/cablesection/pkg/buildinfo"
	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/cache"
	csio "github.com/matzehuels/cablesection/pkg/io"
	"github.com/matzehuels/cablesection/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Cablesection draws cable cross-sections and 3D cable models",
		Long:         `Cablesection turns a cable design (an inside-out list of conductor, insulation, filler, tape, sheath and armour layers) into a labelled 2D cross-section drawing and a stepped 3D model.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/cablesection/cablesection.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.modelCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.layupCommand())
	root.AddCommand(c.colorsCommand())
	root.AddCommand(c.linksCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// loadConfig loads the configuration once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	env, keyer, err := cfg.Tables()
	if err != nil {
		return nil, err
	}
	var cc cache.Cache = cache.NewNullCache()
	if !noCache {
		if cc, err = cfg.OpenCache(ctx); err != nil {
			return nil, err
		}
	}
	r := pipeline.NewRunner(cc, keyer, c.Logger)
	r.Env = env
	r.TTL = cfg.Cache.TTL
	return r, nil
}

// loadDesign reads a design file and links it, so schema errors surface
// before any rendering starts.
func (c *CLI) loadDesign(path string) (cable.Cable, *cable.Linked, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return cable.Cable{}, nil, err
	}
	design, err := csio.ImportDesign(path)
	if err != nil {
		return cable.Cable{}, nil, err
	}
	linked, err := cable.Link(design, cfg.Schema)
	if err != nil {
		return design, nil, err
	}
	return design, linked, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// An empty string keeps the configured defaults.
func parseFormats(s string, def []string) []string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
