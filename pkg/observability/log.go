package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug log line.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to l (log.Default() when nil).
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetRenderHooks(h)
	SetCacheHooks(h)
	SetBuildHooks(h)
}

func (h *LogHooks) OnRenderStart(_ context.Context, language, engine string) {
	h.Logger.Debug("render start", "language", language, "engine", engine)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, language string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "language", language, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.Logger.Debug("render done", "language", language, "duration", d.Round(time.Millisecond))
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

func (h *LogHooks) OnPageStart(_ context.Context, path string) {
	h.Logger.Debug("page start", "path", path)
}

func (h *LogHooks) OnPageComplete(_ context.Context, path string, diagrams, failures int, d time.Duration, err error) {
	h.Logger.Debug("page done", "path", path, "diagrams", diagrams, "failures", failures,
		"duration", d.Round(time.Millisecond), "err", err)
}

var (
	_ RenderHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ BuildHooks  = (*LogHooks)(nil)
)
