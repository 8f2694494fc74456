package bootstrap

import (
	"context"
	"time"

	"pacs-portal/internal/shared/contextutil"

	"go.uber.org/zap"
)

type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

// Log carries the request id when the context has one, so audit lines
// correlate with the request logs.
func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	fields := []zap.Field{
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	}
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	zap.L().Named("audit").Info("audit event", fields...)
}
