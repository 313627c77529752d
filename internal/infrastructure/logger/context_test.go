package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestWithContext(t *testing.T) {
	log, _ := observedLogger()
	ctx := WithContext(context.Background(), log)
	assert.Equal(t, log, FromContext(ctx))
}

func TestFromContextMissing(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestContextEnrichment(t *testing.T) {
	log, logs := observedLogger()
	ctx := WithContext(context.Background(), log)
	ctx, _ = WithTenantKey(ctx, FromContext(ctx), "27AAAAA0000A1Z5")
	ctx, _ = WithImportBatch(ctx, FromContext(ctx), "batch-1")

	L(ctx).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "27AAAAA0000A1Z5", fields["tenant_key"])
	assert.Equal(t, "batch-1", fields["import_batch"])
}

func TestGetters(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRequestID(ctx))
	assert.Equal(t, "", GetTenantKey(ctx))
	assert.Equal(t, "", GetImportBatch(ctx))

	log, _ := observedLogger()
	ctx, _ = WithRequestID(ctx, log, "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARNING"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("unknown"))
}
