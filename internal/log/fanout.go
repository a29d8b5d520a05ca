package log

import (
	"context"
	"log/slog"
	"sync"
)

// fanoutHandler forwards records to every attached handler. Handlers can
// be attached after loggers were handed out, which is what lets the
// registry bolt a console sink onto a live logger.
type fanoutHandler struct {
	mu       sync.RWMutex
	handlers []slog.Handler
}

func (f *fanoutHandler) add(handler slog.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, handler)
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, handler := range f.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var firstErr error
	for _, handler := range f.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	f.mu.RLock()
	defer f.mu.RUnlock()
	derived := &fanoutHandler{handlers: make([]slog.Handler, 0, len(f.handlers))}
	for _, handler := range f.handlers {
		derived.handlers = append(derived.handlers, handler.WithAttrs(attrs))
	}
	return derived
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	f.mu.RLock()
	defer f.mu.RUnlock()
	derived := &fanoutHandler{handlers: make([]slog.Handler, 0, len(f.handlers))}
	for _, handler := range f.handlers {
		derived.handlers = append(derived.handlers, handler.WithGroup(name))
	}
	return derived
}
