// Package logging carries render correlation IDs through contexts and
// injects them into slog records.
package logging

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	machineKey ctxKey = iota
	formatKey
	renderIDKey
)

// WithMachine returns a context with the machine name set.
func WithMachine(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, machineKey, name)
}

// WithFormat returns a context with the diagram format set.
func WithFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, formatKey, format)
}

// WithRenderID returns a context with the render artifact ID set.
func WithRenderID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, renderIDKey, id)
}

// Machine extracts the machine name from the context, or "" if absent.
func Machine(ctx context.Context) string {
	v, _ := ctx.Value(machineKey).(string)
	return v
}

// Format extracts the diagram format from the context, or "" if absent.
func Format(ctx context.Context) string {
	v, _ := ctx.Value(formatKey).(string)
	return v
}

// RenderID extracts the render artifact ID from the context, or "" if absent.
func RenderID(ctx context.Context) string {
	v, _ := ctx.Value(renderIDKey).(string)
	return v
}

// CorrelationHandler wraps an slog.Handler, automatically injecting
// correlation IDs from the context into every log record.
// Use with slog.New(NewCorrelationHandler(inner)) so callers can use
// logger.InfoContext(ctx, ...) and IDs appear automatically.
type CorrelationHandler struct {
	inner slog.Handler
}

// NewCorrelationHandler wraps the given handler with automatic correlation ID injection.
func NewCorrelationHandler(inner slog.Handler) *CorrelationHandler {
	return &CorrelationHandler{inner: inner}
}

func (h *CorrelationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *CorrelationHandler) Handle(ctx context.Context, r slog.Record) error {
	if v := Machine(ctx); v != "" {
		r.AddAttrs(slog.String("machine", v))
	}
	if v := Format(ctx); v != "" {
		r.AddAttrs(slog.String("format", v))
	}
	if v := RenderID(ctx); v != "" {
		r.AddAttrs(slog.String("render_id", v))
	}
	return h.inner.Handle(ctx, r)
}

func (h *CorrelationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *CorrelationHandler) WithGroup(name string) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithGroup(name)}
}
