package query

import (
	"context"
	"time"

	"github.com/Gunvolt24/orders_sync/internal/ports"
)

const (
	defaultStaleTime = 0
	defaultGCTime    = 5 * time.Minute
)

// Metrics — счётчики клиента; реализация поверх prometheus лежит в pkg/metrics.
type Metrics interface {
	FetchDone(feature, resource, result string)
	MutationDone(feature, resource, op, result string)
	CacheOp(op string)
	Entries(n int)
}

// Option — настройка Client.
type Option func(*Client)

// WithStaleTime — сколько данные считаются свежими после загрузки. Отрицательное значение — всегда свежие.
func WithStaleTime(d time.Duration) Option { return func(c *Client) { c.staleTime = d } }

// WithGCTime — через сколько запись без подписчиков удаляется. Отрицательное значение — никогда.
func WithGCTime(d time.Duration) Option { return func(c *Client) { c.gcTime = d } }

func WithLogger(log ports.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithClock — источник времени для UpdatedAt и свежести.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(context.Context, string, ...any) {}
func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

type nopMetrics struct{}

func (nopMetrics) FetchDone(string, string, string)           {}
func (nopMetrics) MutationDone(string, string, string, string) {}
func (nopMetrics) CacheOp(string)                              {}
func (nopMetrics) Entries(int)                                 {}
