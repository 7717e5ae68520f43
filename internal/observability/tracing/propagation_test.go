package tracing_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/oskaros/reminder-engine/internal/observability/tracing"
)

func TestInjectToMapCarriesTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36},
		SpanID:     trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	carrier := map[string]string{}
	tracing.InjectToMap(ctx, carrier)

	require.Contains(t, carrier, "traceparent")
	assert.Contains(t, carrier["traceparent"], spanCtx.TraceID().String())
}

func TestInjectToMapWithoutSpanLeavesCarrierEmpty(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	carrier := map[string]string{}
	tracing.InjectToMap(context.Background(), carrier)

	assert.Empty(t, carrier)
}

func TestExtractFromHTTPRequest(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	ctx := tracing.ExtractFromHTTPRequest(context.Background(), req)

	spanCtx := trace.SpanContextFromContext(ctx)
	require.True(t, spanCtx.IsValid())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spanCtx.TraceID().String())
}
