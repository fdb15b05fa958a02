// Package pipeline provides the generation pipeline shared by the CLI and
// the HTTP service.
//
// A design goes through four stages:
//
//  1. Link: validate the layer list and resolve neighbour links
//  2. Place: fold over the layers and position every element
//  3. Render: compose the scene and write the requested 2D formats
//  4. Model: extrude the placement into a GLB model, when requested
//
// Rendered artifacts are cached by design hash and render options, so a
// repeated request skips placement entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, design, pipeline.Options{
//	    Formats: []string{"svg", "glb"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/cache"
	"github.com/matzehuels/cablesection/pkg/errors"
	"github.com/matzehuels/cablesection/pkg/extrude"
	"github.com/matzehuels/cablesection/pkg/placement"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the raster resolution multiplier.
	DefaultScale = 2.0

	// DefaultParallelism bounds concurrent designs in a batch.
	DefaultParallelism = 4

	// DefaultBackend draws PNG and PDF with the built-in canvas.
	DefaultBackend = BackendPlot
)

// Format constants for output formats.
const (
	FormatSVG       = "svg"
	FormatPNG       = "png"
	FormatPNGBase64 = "png64"
	FormatPDF       = "pdf"
	FormatJSON      = "json"
	FormatDOT       = "dot"
	FormatLinks     = "links" // Graphviz SVG of the layer links
	FormatGLB       = "glb"
)

// Raster backends.
const (
	BackendPlot = "plot"
	BackendRSVG = "rsvg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:       true,
	FormatPNG:       true,
	FormatPNGBase64: true,
	FormatPDF:       true,
	FormatJSON:      true,
	FormatDOT:       true,
	FormatLinks:     true,
	FormatGLB:       true,
}

// ValidBackends is the set of supported raster backends.
var ValidBackends = map[string]bool{
	BackendPlot: true,
	BackendRSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	NoLabels   bool     `json:"no_labels,omitempty"`
	NoHatching bool     `json:"no_hatching,omitempty"`
	Backend    string   `json:"backend,omitempty"`

	// Model options
	Length float64 `json:"length,omitempty"`
	Step   float64 `json:"step,omitempty"`
	Shells bool    `json:"shells,omitempty"` // concentric tubes instead of placed solids

	// Schema overrides the layer linking conventions.
	Schema cable.Schema `json:"schema,omitempty"`

	// Parallelism bounds concurrent designs in Runner.Batch.
	Parallelism int `json:"-"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Design is the design name.
	Design string

	// DesignHash is the content hash of the design and its schema.
	DesignHash string

	// Layout is the placed cross-section. It is nil when every requested
	// artifact came from the cache.
	Layout *placement.Layout

	// Artifacts contains outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Layers     int
	Items      int
	Faces      int
	PlaceTime  time.Duration
	RenderTime time.Duration
	ModelTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all 2D artifacts came from cache
	ModelHit  bool // Whether the model came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(names(ValidFormats), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBackend checks that a raster backend is valid.
func ValidateBackend(backend string) error {
	if !ValidBackends[backend] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid backend: %q (must be one of: %s)", backend, strings.Join(names(ValidBackends), ", "))
	}
	return nil
}

func names(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Backend == "" {
		o.Backend = DefaultBackend
	}
	if o.Length == 0 {
		o.Length = extrude.DefaultLength
	}
	if o.Step == 0 {
		o.Step = extrude.DefaultStep
	}
	if o.Parallelism <= 0 {
		o.Parallelism = DefaultParallelism
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.Schema = o.Schema.WithDefaults()

	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	if o.Length < 0 || o.Step < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "model length and step must be positive")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateBackend(o.Backend)
}

// WantsModel reports whether the GLB model is requested.
func (o *Options) WantsModel() bool {
	for _, f := range o.Formats {
		if f == FormatGLB {
			return true
		}
	}
	return false
}

// DrawingFormats returns the requested formats other than the model.
func (o *Options) DrawingFormats() []string {
	var out []string
	for _, f := range o.Formats {
		if f != FormatGLB {
			out = append(out, f)
		}
	}
	return out
}

// ExtrudeOptions returns the extrusion options.
func (o *Options) ExtrudeOptions() extrude.Options {
	return extrude.Options{Length: o.Length, Step: o.Step, Schema: o.Schema}
}

// ArtifactKeyOpts returns cache key options for a 2D artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Scale:    o.Scale,
		Labels:   !o.NoLabels,
		Hatching: !o.NoHatching,
		Backend:  o.Backend,
	}
}

// ModelKeyOpts returns cache key options for the model.
func (o *Options) ModelKeyOpts() cache.ModelKeyOpts {
	return cache.ModelKeyOpts{Length: o.Length, Step: o.Step, Shells: o.Shells}
}
