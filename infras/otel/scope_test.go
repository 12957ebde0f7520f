package otel_test

import (
	"errors"
	"stayops/infras/otel"
	"stayops/shared/failure"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func record(t *testing.T, fn func(scope otel.Scope)) trace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(t.Context(), "span")
	scope := otel.NewScope(span)

	fn(scope)
	scope.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	return ended[0]
}

func TestScope_TraceError(t *testing.T) {
	t.Run("client failure keeps status unset", func(t *testing.T) {
		span := record(t, func(scope otel.Scope) {
			scope.TraceError(failure.NotFound("booking not found"))
		})

		assert.Equal(t, codes.Unset, span.Status().Code)
		assert.Len(t, span.Events(), 1)
	})

	t.Run("server failure marks span", func(t *testing.T) {
		span := record(t, func(scope otel.Scope) {
			scope.TraceIfError(errors.New("connection reset"))
		})

		assert.Equal(t, codes.Error, span.Status().Code)
	})

	t.Run("nil error", func(t *testing.T) {
		span := record(t, func(scope otel.Scope) {
			scope.TraceIfError(nil)
		})

		assert.Empty(t, span.Events())
	})
}

func TestScope_SetAttributes(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		scope.SetAttributes(map[string]any{
			"balance":  decimal.RequireFromString("12.50"),
			"elapsed":  1500 * time.Millisecond,
			"attempts": int64(2),
			"roles":    []string{"admin", "staff"},
		})
	})

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}

	assert.Equal(t, "12.5", attrs["balance"].AsString())
	assert.Equal(t, int64(1500), attrs["elapsed"].AsInt64())
	assert.Equal(t, int64(2), attrs["attempts"].AsInt64())
	assert.Equal(t, []string{"admin", "staff"}, attrs["roles"].AsStringSlice())
}
