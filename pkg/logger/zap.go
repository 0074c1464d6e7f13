package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/pkg/ctxmeta"
)

var _ ports.Logger = (*ZapLogger)(nil)

type ZapLogger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	isProd bool
}

// NewZapLogger — production/development конфиг zap. level пустой — уровень по умолчанию конфига.
func NewZapLogger(isProd bool, level string) (*ZapLogger, func() error, error) {
	cfg := zap.NewDevelopmentConfig()
	if isProd {
		cfg = zap.NewProductionConfig()
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}

	loggerWrap := NewFromZap(logger)
	loggerWrap.isProd = isProd

	cleanup := func() error { return loggerWrap.base.Sync() }
	return loggerWrap, cleanup, nil
}

// NewFromZap оборачивает готовый *zap.Logger (например, zaptest/observer в тестах).
func NewFromZap(base *zap.Logger) *ZapLogger {
	return &ZapLogger{base: base, sugar: base.Sugar()}
}

// withMeta добавляет метаданные запроса из контекста (см. ctxmeta.Fields).
func (z *ZapLogger) withMeta(ctx context.Context) *zap.SugaredLogger {
	fields := ctxmeta.Fields(ctx)
	if len(fields) == 0 {
		return z.sugar
	}
	return z.sugar.With(fields...)
}

func (z *ZapLogger) Debugf(ctx context.Context, format string, args ...any) {
	z.withMeta(ctx).Debugf(format, args...)
}
func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.withMeta(ctx).Infof(format, args...)
}
func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.withMeta(ctx).Warnf(format, args...)
}
func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.withMeta(ctx).Errorf(format, args...)
}

func (z *ZapLogger) Base() *zap.Logger           { return z.base }
func (z *ZapLogger) Sugared() *zap.SugaredLogger { return z.sugar }
