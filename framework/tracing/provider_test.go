package tracing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-servicemanager/framework/config"
	"github.com/km-arc/go-servicemanager/framework/tracing"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := tracing.NewProvider(&config.Config{})
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "op")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_EnabledWithoutExporter(t *testing.T) {
	p, err := tracing.NewProvider(&config.Config{Tracing: config.TracingConfig{
		Enabled:  true,
		Exporter: "none",
	}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	assert.True(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestNewProvider_StdoutExporter(t *testing.T) {
	p, err := tracing.NewProvider(&config.Config{Tracing: config.TracingConfig{
		Enabled:    true,
		Exporter:   "stdout",
		SampleRate: 0.5,
	}})
	require.NoError(t, err)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_OTLPExporter(t *testing.T) {
	p, err := tracing.NewProvider(&config.Config{Tracing: config.TracingConfig{
		Enabled:      true,
		Exporter:     "otlp",
		OTLPEndpoint: "127.0.0.1:4317",
	}})
	require.NoError(t, err)
	assert.True(t, p.Enabled())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = p.Shutdown(ctx)
}

func TestNewProvider_UnknownExporter(t *testing.T) {
	_, err := tracing.NewProvider(&config.Config{Tracing: config.TracingConfig{
		Enabled:  true,
		Exporter: "zipkin",
	}})
	assert.ErrorContains(t, err, "unsupported exporter type")
}
