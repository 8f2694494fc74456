package bootstrap_test

import (
	"context"
	"testing"

	"pacs-portal/internal/bootstrap"
	"pacs-portal/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	logger := bootstrap.NewStdoutAuditLogger()

	t.Run("includes the request id from the context", func(t *testing.T) {
		ctx := contextutil.WithRequestID(context.Background(), "req-42")

		logger.Log(ctx, bootstrap.AuditLog{
			Action:  "SERVER_SHUTDOWN",
			Message: "shutting down",
		})

		entries := logs.TakeAll()
		assert.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-42", fields["request_id"])
		assert.Equal(t, "SERVER_SHUTDOWN", fields["action"])
	})

	t.Run("omits the request id when the context has none", func(t *testing.T) {
		logger.Log(context.Background(), bootstrap.AuditLog{
			Action:  "SERVER_START",
			Message: "listening",
		})

		entries := logs.TakeAll()
		assert.Len(t, entries, 1)
		_, ok := entries[0].ContextMap()["request_id"]
		assert.False(t, ok)
	})
}
