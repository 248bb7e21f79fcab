package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go-fieldtime/internal/shared/contextutil"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewStdoutAuditLogger(zap.New(core))
	l.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	ctx := contextutil.WithRequestID(context.Background(), "req-1")
	l.Log(ctx, AuditLog{Action: "SERVER_SHUTDOWN", Message: "bye", Meta: map[string]any{"signal": "terminated"}})
	l.Log(context.Background(), AuditLog{Action: "NOOP"})

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "audit", first.LoggerName)
	fields := first.ContextMap()
	assert.Equal(t, "2026-03-10T12:00:00Z", fields["timestamp"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Contains(t, fields, "meta")

	second := logs.All()[1].ContextMap()
	assert.NotContains(t, second, "request_id")
	assert.NotContains(t, second, "meta")
}
