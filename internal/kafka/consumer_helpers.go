package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/orders_sync/pkg/ctxmeta"
	"github.com/Gunvolt24/orders_sync/pkg/metrics"
	"github.com/Gunvolt24/orders_sync/pkg/telemetry"
	"github.com/Gunvolt24/orders_sync/pkg/validate"
)

// handleMessage обрабатывает одно сообщение и решает, коммитить ли оффсет.
func (c *Consumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) bool {
	ctx = ctxmeta.WithRequestID(ctx, fmt.Sprintf("kafka-%s-%d-%d", topic, msg.Partition, msg.Offset))
	ctx, span := telemetry.Tracer().Start(ctx, "kafka.ingest_order",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		))
	defer span.End()

	ctxTimeout, cancel := context.WithTimeout(ctx, c.processTimeout)
	err := c.service.SaveFromMessage(ctxTimeout, msg.Value)
	cancel()

	switch {
	case err == nil:
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		c.afterIngest(ctx)
		return true
	case errors.Is(err, validate.ErrInvalidOrder):
		// мусор не ретраим
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		span.SetStatus(codes.Error, "invalid order")
		c.log.Warnf(ctx, "invalid message offset=%d: %v (skipped)", msg.Offset, err)
		return true
	default:
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "ingest failed")
		c.log.Warnf(ctx, "process failed offset=%d: %v (will retry without commit)", msg.Offset, err)
		return false
	}
}

func (c *Consumer) afterIngest(ctx context.Context) {
	if c.onIngested == nil {
		return
	}
	hookCtx, cancel := context.WithTimeout(ctx, c.processTimeout)
	defer cancel()
	c.onIngested(hookCtx)
}

func (c *Consumer) commitSafely(ctx context.Context, msg *kafka.Message) {
	if commitErr := c.reader.CommitMessages(ctx, *msg); commitErr != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, commitErr)
	}
}

// sleepWithBackoff ждёт d или до отмены контекста; false — контекст отменён.
func (c *Consumer) sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) nextBackoff(current time.Duration) time.Duration {
	current *= 2
	if current > c.retryMax {
		return c.retryMax
	}
	return current
}

// withJitterEqual — equal jitter: половина задержки фиксирована, половина случайна.
func (c *Consumer) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	jitter := time.Duration(c.jitterRand.Int63n(int64(d-half) + 1))
	return half + jitter
}
