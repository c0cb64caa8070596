package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level), logs
}

func clientsQuery() (string, int64) {
	return `SELECT * FROM "clients" WHERE name ILIKE '%atlas%'`, 3
}

func TestGormLogger_TraceCarriesRequestID(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Info)
	ctx := ContextWithRequestID(context.Background(), "req-9b21")

	l.Trace(ctx, time.Now(), clientsQuery, nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "query", entry.Message)
	assert.Equal(t, "req-9b21", entry.ContextMap()["request_id"])
	assert.Equal(t, int64(3), entry.ContextMap()["rows"])
}

func TestGormLogger_SlowQueryLogsAtWarn(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Warn)

	began := time.Now().Add(-time.Second)
	l.Trace(context.Background(), began, clientsQuery, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, "slow query", logs.All()[0].Message)
}

func TestGormLogger_FailureLogsAtError(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Error)

	l.Trace(context.Background(), time.Now(), clientsQuery, errors.New("connection reset"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
	assert.Equal(t, "query failed", logs.All()[0].Message)
}

func TestGormLogger_RecordNotFoundSuppressed(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Error)

	l.Trace(context.Background(), time.Now(), clientsQuery, gormlogger.ErrRecordNotFound)

	// Misses map to shared.ErrNotFound upstream; they are not faults.
	assert.Equal(t, 0, logs.Len())
}

func TestGormLogger_SilentDropsEverything(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Silent)

	l.Trace(context.Background(), time.Now().Add(-time.Second), clientsQuery, errors.New("boom"))

	assert.Equal(t, 0, logs.Len())
}

func TestGormLogger_LogModeReturnsIndependentClone(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Silent)

	verbose := l.LogMode(gormlogger.Info)
	verbose.Trace(context.Background(), time.Now(), clientsQuery, nil)

	assert.Equal(t, 1, logs.Len())

	// Original stays silent.
	l.Trace(context.Background(), time.Now(), clientsQuery, nil)
	assert.Equal(t, 1, logs.Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything-else"))
}
