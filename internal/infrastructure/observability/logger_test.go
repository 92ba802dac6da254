package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestLoggerFromContext_AddsTraceFields(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	LoggerFromContext(ctx).Info().Msg("request")

	assert.Contains(t, buf.String(), "0102030405060708090a0b0c0d0e0f10")
	assert.Contains(t, buf.String(), `"span_id":"0102030405060708"`)
}

func TestLoggerFromContext_NoSpanOmitsTraceFields(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	LoggerFromContext(context.Background()).Info().Msg("request")

	assert.NotContains(t, buf.String(), "trace_id")
}
