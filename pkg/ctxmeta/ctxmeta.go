// Пакет ctxmeta — метаданные запроса в context.Context: request_id, источник
// заказов, операция и trace/span активного спана. HTTP-слой, кэш запросов и
// логгер зависят от него, но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	KeyRequestID ctxKey = "request_id"
	KeyResource  ctxKey = "resource"
	KeyOperation ctxKey = "operation"
)

func with(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func get(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}

// WithRequestID кладёт request_id (пустой игнорируется).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return with(ctx, KeyRequestID, requestID)
}

func RequestIDFromContext(ctx context.Context) (string, bool) { return get(ctx, KeyRequestID) }

// WithResource — источник заказов (local/remote), с которым работает вызов.
func WithResource(ctx context.Context, resource string) context.Context {
	return with(ctx, KeyResource, resource)
}

func ResourceFromContext(ctx context.Context) (string, bool) { return get(ctx, KeyResource) }

// WithOperation — имя мутации ("delete order", "delete order item").
func WithOperation(ctx context.Context, op string) context.Context {
	return with(ctx, KeyOperation, op)
}

func OperationFromContext(ctx context.Context) (string, bool) { return get(ctx, KeyOperation) }

// Fields — непустые метаданные парами ключ/значение в фиксированном порядке.
func Fields(ctx context.Context) []any {
	var out []any
	add := func(name string, v string, ok bool) {
		if ok {
			out = append(out, name, v)
		}
	}
	v, ok := RequestIDFromContext(ctx)
	add("request_id", v, ok)
	v, ok = ResourceFromContext(ctx)
	add("resource", v, ok)
	v, ok = OperationFromContext(ctx)
	add("operation", v, ok)
	v, ok = TraceIDFromContext(ctx)
	add("trace_id", v, ok)
	v, ok = SpanIDFromContext(ctx)
	add("span_id", v, ok)
	return out
}
