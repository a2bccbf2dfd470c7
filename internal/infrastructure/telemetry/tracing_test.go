package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	recorder := setupRecorder(t)

	saleID := uuid.New()
	ctx, span := StartServiceSpan(context.Background(), "sale", "create",
		SpanAttrSaleID, saleID,
		SpanAttrItemsCount, 3,
		SpanAttrAmount, decimal.RequireFromString("19.90"),
	)
	assert.NotEmpty(t, GetTraceID(ctx))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "sale.create", spans[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, saleID.String(), attrs[SpanAttrSaleID].AsString())
	assert.Equal(t, int64(3), attrs[SpanAttrItemsCount].AsInt64())
	assert.Equal(t, "19.9", attrs[SpanAttrAmount].AsString())
}

func TestSetAttributes_IgnoresMalformedPairs(t *testing.T) {
	recorder := setupRecorder(t)

	_, span := StartServiceSpan(context.Background(), "audit", "record")
	SetAttributes(span, 42, "ignored", "action", "sale_cancel", "dangling")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Attributes(), 1)
	assert.Equal(t, "sale_cancel", spans[0].Attributes()[0].Value.AsString())
}

func TestRecordError(t *testing.T) {
	recorder := setupRecorder(t)

	_, span := StartServiceSpan(context.Background(), "sale", "cancel")
	RecordError(span, nil)
	RecordError(span, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.5).Description(), "TraceIDRatioBased")
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zapNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.EnableSpanProfiles())
	assert.False(t, tp.spanProfiles.Load())
	assert.NoError(t, tp.Shutdown(context.Background()))
}
