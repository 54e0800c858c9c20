package audit

import (
	"context"
	"log/slog"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionImport = "import"
)

// Event describes one change to the collection. It never carries record
// contents, only who touched which id.
type Event struct {
	Actor      string
	Action     string
	EntityType string
	EntityID   string
	RequestID  string
	IP         string
}

// Logger writes audit events as structured log lines tagged audit=true.
type Logger struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log.With("audit", true)}
}

func (l *Logger) Record(ctx context.Context, e Event) {
	if l == nil {
		return
	}
	if e.Actor == "" {
		e.Actor = "anonymous"
	}
	l.log.LogAttrs(ctx, slog.LevelInfo, "audit event",
		slog.String("actor", e.Actor),
		slog.String("action", e.Action),
		slog.String("entityType", e.EntityType),
		slog.String("entityId", e.EntityID),
		slog.String("requestId", e.RequestID),
		slog.String("ip", e.IP),
	)
}
