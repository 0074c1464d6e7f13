package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Gunvolt24/orders_sync/pkg/ctxmeta"
	"github.com/Gunvolt24/orders_sync/pkg/logger"
)

func TestZapLogger_ContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewFromZap(zap.New(core))

	ctx := ctxmeta.WithRequestID(context.Background(), "req-1")
	ctx = ctxmeta.WithResource(ctx, "remote")
	ctx = ctxmeta.WithOperation(ctx, "delete order")

	log.Infof(ctx, "deleted %s", "order-1")
	log.Debugf(context.Background(), "plain")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "deleted order-1", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "remote", fields["resource"])
	assert.Equal(t, "delete order", fields["operation"])
	assert.NotContains(t, fields, "trace_id")

	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Empty(t, entries[1].ContextMap())
}

func TestNewZapLogger_Level(t *testing.T) {
	log, cleanup, err := logger.NewZapLogger(true, "warn")
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	assert.False(t, log.Base().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Base().Core().Enabled(zapcore.WarnLevel))

	_, _, err = logger.NewZapLogger(false, "loud")
	assert.Error(t, err)
}
