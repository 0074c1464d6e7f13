package kafka

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/pkg/metrics"
)

var _ ports.MessageConsumer = (*Consumer)(nil)

//go:generate mockgen -source=consumer.go -destination=./mocks/mock_consumer.go -package=mocks

// reader — минимальный контракт над kafka.Reader, чтобы подменять его в тестах.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// ingester разбирает, валидирует и сохраняет снимок заказа из сообщения.
type ingester interface {
	SaveFromMessage(ctx context.Context, raw []byte) error
}

// Consumer — приём снимков заказов из Kafka в хранилище REST API.
type Consumer struct {
	reader         reader
	service        ingester
	log            ports.Logger
	processTimeout time.Duration
	retryInitial   time.Duration
	retryMax       time.Duration
	jitterRand     *rand.Rand
	onIngested     func(ctx context.Context)
	closeOnce      sync.Once
}

// Option — необязательная настройка Consumer.
type Option func(*Consumer)

// WithIngestHook — вызывается после сохранения снимка и до коммита оффсета,
// с собственным таймаутом processTimeout. Пропущенные невалидные сообщения хук не вызывают.
func WithIngestHook(hook func(ctx context.Context)) Option {
	return func(c *Consumer) { c.onIngested = hook }
}

func NewConsumer(cfg *ConsumerConfig, service ingester, log ports.Logger, opts ...Option) *Consumer {
	pt := cfg.ProcessTimeout
	if pt <= 0 {
		pt = 5 * time.Second
	}
	rInit := cfg.RetryInitial
	if rInit <= 0 {
		rInit = time.Second
	}
	rMax := cfg.RetryMax
	if rMax <= 0 {
		rMax = 30 * time.Second
	}

	c := &Consumer{
		reader:         kafka.NewReader(cfg.ReaderConfig()),
		service:        service,
		log:            log,
		processTimeout: pt,
		retryInitial:   rInit,
		retryMax:       rMax,
		jitterRand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run — основной цикл, at-least-once:
// успешная обработка и невалидное сообщение коммитятся,
// временная ошибка оставляет оффсет для повторной доставки.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "kafka consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	retry := c.retryInitial
	for {
		msg, fetchErr := c.reader.FetchMessage(ctx)
		if fetchErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			sleep := c.withJitterEqual(retry)
			c.log.Warnf(ctx, "fetch failed: %v (will retry in %s)", fetchErr, sleep)
			if !c.sleepWithBackoff(ctx, sleep) {
				return ctx.Err()
			}
			retry = c.nextBackoff(retry)
			continue
		}

		retry = c.retryInitial
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		if c.handleMessage(ctx, rc.Topic, &msg) {
			c.commitSafely(ctx, &msg)
			continue
		}
		// пауза после временной ошибки, чтобы не долбить хранилище
		_ = c.sleepWithBackoff(ctx, c.withJitterEqual(min(c.retryInitial, 500*time.Millisecond)))
	}
}

func (c *Consumer) Close() (retErr error) {
	c.closeOnce.Do(func() {
		retErr = c.reader.Close()
	})
	return retErr
}
