package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cablesection/pkg/cable"
	csio "github.com/matzehuels/cablesection/pkg/io"
	"github.com/matzehuels/cablesection/pkg/pipeline"
)

// renderFlags holds the command-line flags shared by render, model and batch.
type renderFlags struct {
	output     string // output file (single format) or base path
	formats    string // comma-separated formats; empty keeps the config
	scale      float64
	noLabels   bool
	noHatching bool
	backend    string
	noCache    bool
	refresh    bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg, png, png64, pdf, json, dot, links, glb (comma-separated)")
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&f.noLabels, "no-labels", false, "omit layer labels and leader lines")
	cmd.Flags().BoolVar(&f.noHatching, "no-hatching", false, "omit wire and insulation hatching")
	cmd.Flags().StringVar(&f.backend, "backend", pipeline.DefaultBackend, "PNG/PDF backend: plot, rsvg")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached artifacts and render again")
}

// options merges the configured defaults with the flags the user set.
func (f *renderFlags) options(cmd *cobra.Command, def pipeline.Options) pipeline.Options {
	opts := def
	opts.Formats = parseFormats(f.formats, def.Formats)
	if cmd.Flags().Changed("scale") {
		opts.Scale = f.scale
	}
	if cmd.Flags().Changed("backend") {
		opts.Backend = f.backend
	}
	opts.NoLabels = opts.NoLabels || f.noLabels
	opts.NoHatching = opts.NoHatching || f.noHatching
	opts.Refresh = f.refresh
	return opts
}

// renderCommand creates the render command for drawing cross-sections.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <design>",
		Short: "Draw the cross-section of a cable design",
		Long: `Draw the cross-section of a cable design.

The design is a TOML, YAML or JSON file listing the cable layers from the
inside out. Output files are named after the design file unless -o is set.`,
		Example: `  cablesection render nyy-4x16.toml
  cablesection render nyy-4x16.toml -f svg,png -o out/nyy
  cablesection render nyy-4x16.toml -f pdf --backend rsvg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg.Options())
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], flags, opts)
		},
	}
	flags.register(cmd)
	return cmd
}

// runRender executes the pipeline for one design and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input string, flags renderFlags, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	design, err := csio.ImportDesign(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded design", "name", design.Name, "layers", len(design.Layers), "cores", design.Cores)

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	var result *pipeline.Result
	err = withSpinner(ctx, fmt.Sprintf("Rendering %s...", displayName(design, input)), func() error {
		result, err = runner.Execute(ctx, design, opts)
		return err
	})
	if err != nil {
		return err
	}
	prog.done("rendered", "design", result.Design, "formats", strings.Join(opts.Formats, ","))

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, flags.output, input)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", StyleHighlight.Render(displayName(design, input)))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.RenderHit || result.CacheInfo.ModelHit)
	return nil
}

// modelCommand creates the model command for 3D extrusion.
func (c *CLI) modelCommand() *cobra.Command {
	var (
		output  string
		length  float64
		step    float64
		shells  bool
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "model <design>",
		Short: "Extrude a cable design to a stepped 3D model (GLB)",
		Long: `Extrude a cable design to a stepped 3D model.

Each layer is cut back by --step millimetres relative to the layer it wraps,
so the inner construction stays visible. The model is written as binary glTF.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.Options()
			opts.Formats = []string{pipeline.FormatGLB}
			if cmd.Flags().Changed("length") {
				opts.Length = length
			}
			if cmd.Flags().Changed("step") {
				opts.Step = step
			}
			opts.Shells = opts.Shells || shells
			opts.Refresh = refresh
			return c.runRender(cmd.Context(), args[0], renderFlags{output: output, noCache: noCache}, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <design>.glb)")
	cmd.Flags().Float64Var(&length, "length", 50, "length of the innermost layer in millimetres")
	cmd.Flags().Float64Var(&step, "step", 5, "cut-back between consecutive layers in millimetres")
	cmd.Flags().BoolVar(&shells, "shells", false, "extrude concentric shells instead of placed sub-elements")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached models and extrude again")
	return cmd
}

// =============================================================================
// Output Paths
// =============================================================================

// fileExt maps a format to its file suffix.
func fileExt(format string) string {
	switch format {
	case pipeline.FormatPNGBase64:
		return ".png.b64"
	case pipeline.FormatLinks:
		return ".links.svg"
	default:
		return "." + format
	}
}

// basePath derives the base output path from the output and input paths.
// An empty output strips the extension from input; an output ending in a
// known format extension has it stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// outputPaths returns the file for each format. A single format with an
// explicit output uses that path as given.
func outputPaths(formats []string, output, input string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + fileExt(f)
	}
	return paths
}

// writeArtifacts writes artifacts in format order and returns the paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	paths := outputPaths(formats, output, input)
	var written []string
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		path := paths[f]
		if err := writeFile(path, data); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// displayName returns the design name, or the file name for unnamed designs.
func displayName(design cable.Cable, input string) string {
	if design.Name != "" {
		return design.Name
	}
	return filepath.Base(input)
}
