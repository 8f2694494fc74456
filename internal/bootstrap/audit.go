package bootstrap

import "context"

// AuditLog is a structured operational event kept outside the request
// logs, for actions operators care about after the fact.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
