package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// TraceIDFromContext — trace_id активного спана; без валидного спана ok=false.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", false
	}
	return sc.TraceID().String(), true
}

func SpanIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", false
	}
	return sc.SpanID().String(), true
}
