package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by logging the event. Start
// and cache events go to debug; completions go to info, or error when
// they failed.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.Logger.Error(msg, append(kv, "err", err)...)
		return
	}
	h.Logger.Info(msg, kv...)
}

func (h *LogHooks) OnPlaceStart(_ context.Context, design string, layers int) {
	h.Logger.Debug("placing", "design", design, "layers", layers)
}

func (h *LogHooks) OnPlaceComplete(_ context.Context, design string, items int, d time.Duration, err error) {
	h.done("placed", err, "design", design, "items", items, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, design string, formats []string) {
	h.Logger.Debug("rendering", "design", design, "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, design string, formats []string, d time.Duration, err error) {
	h.done("rendered", err, "design", design, "formats", formats, "duration", d)
}

func (h *LogHooks) OnExtrudeStart(_ context.Context, design string) {
	h.Logger.Debug("extruding", "design", design)
}

func (h *LogHooks) OnExtrudeComplete(_ context.Context, design string, faces int, d time.Duration, err error) {
	h.done("extruded", err, "design", design, "faces", faces, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	kv := []any{"method", method, "route", route, "status", status, "duration", d}
	if status >= 500 {
		h.Logger.Error("response", kv...)
		return
	}
	h.Logger.Info("response", kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
