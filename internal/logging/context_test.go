package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	// Initially empty.
	assert.Equal(t, "", Machine(ctx))
	assert.Equal(t, "", Format(ctx))
	assert.Equal(t, "", RenderID(ctx))

	// Set values.
	ctx = WithMachine(ctx, "orders")
	ctx = WithFormat(ctx, "dot")
	ctx = WithRenderID(ctx, "render-1")

	// Round-trip.
	assert.Equal(t, "orders", Machine(ctx))
	assert.Equal(t, "dot", Format(ctx))
	assert.Equal(t, "render-1", RenderID(ctx))
}

func TestCorrelationHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := NewCorrelationHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger := slog.New(handler)

	ctx := WithRenderID(WithFormat(WithMachine(context.Background(), "orders"), "mermaid"), "render-7")
	logger.InfoContext(ctx, "rendered")

	output := buf.String()
	assert.Contains(t, output, "machine=orders")
	assert.Contains(t, output, "format=mermaid")
	assert.Contains(t, output, "render_id=render-7")
	assert.Contains(t, output, "rendered")
}

func TestCorrelationHandlerMissingKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCorrelationHandler(slog.NewTextHandler(&buf, nil)))

	logger.InfoContext(context.Background(), "plain")

	output := buf.String()
	assert.Contains(t, output, "plain")
	assert.NotContains(t, output, "machine=")
	assert.NotContains(t, output, "render_id=")
}

func TestCorrelationHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCorrelationHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithMachine(context.Background(), "orders")
	logger.With("component", "store").InfoContext(ctx, "saved")

	output := buf.String()
	assert.Contains(t, output, "component=store")
	assert.Contains(t, output, "machine=orders")
}
