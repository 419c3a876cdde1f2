package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitTracer_Disabled verifies that a disabled tracer returns a harmless shutdown.
func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "bookstore-checkout", false)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

// TestInitTracer_Enabled verifies the provider is built without contacting the collector.
func TestInitTracer_Enabled(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://127.0.0.1:4318")

	shutdown, err := InitTracer(context.Background(), "bookstore-checkout", true)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
