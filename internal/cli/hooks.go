package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railyard/pkg/observability"
)

// logHooks forwards pipeline and cache events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("load started", "path", path)
}

func (h *logHooks) OnLoadComplete(_ context.Context, path string, nodes, tracks int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "path", path, "duration", d, "error", err)
		return
	}
	h.logger.Debug("load complete", "path", path, "nodes", nodes, "tracks", tracks, "duration", d)
}

func (h *logHooks) OnQuery(_ context.Context, a, b string, found bool) {
	h.logger.Debug("query", "from", a, "to", b, "found", found)
}

func (h *logHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render started", "format", format)
}

func (h *logHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "error", err)
		return
	}
	h.logger.Debug("render complete", "format", format, "bytes", size, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
)
