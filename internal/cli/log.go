package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canister/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Found 42 packages (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// hookLogger logs HTTP and cache events at debug level, tagged with the
// request ID of the call.
type hookLogger struct {
	logger *log.Logger
}

func newHookLogger(l *log.Logger) *hookLogger {
	return &hookLogger{logger: l}
}

func (h *hookLogger) OnRequest(ctx context.Context, method, host, path string) {
	h.logger.Debug("request", "id", observability.RequestID(ctx), "method", method, "host", host, "path", path)
}

func (h *hookLogger) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "id", observability.RequestID(ctx), "status", status, "took", d.Round(time.Millisecond))
}

func (h *hookLogger) OnError(ctx context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "id", observability.RequestID(ctx), "host", host, "path", path, "err", err)
}

func (h *hookLogger) OnCacheHit(ctx context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h *hookLogger) OnCacheMiss(ctx context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h *hookLogger) OnCacheSet(ctx context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

var (
	_ observability.HTTPHooks  = (*hookLogger)(nil)
	_ observability.CacheHooks = (*hookLogger)(nil)
)
