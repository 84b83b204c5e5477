package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Audit actions recorded for admin operations.
const (
	AuditCreate  = "create"
	AuditUpdate  = "update"
	AuditDelete  = "soft_delete"
	AuditRestore = "restore"
	AuditExport  = "export"
)

// AuditLog represents a record stored in admin_actions.
type AuditLog struct {
	Actor    string
	Role     string
	Action   string
	Resource string
	RecordID string
	Meta     map[string]any
	At       time.Time
}

// Auditor records admin actions.
type Auditor interface {
	Record(ctx context.Context, log AuditLog) error
}

// AuditLogger writes records into admin_actions. A logger without a pool
// discards records, which is how the app runs when PG_DSN is unset.
type AuditLogger struct {
	pool *pgxpool.Pool
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(pool *pgxpool.Pool) *AuditLogger {
	return &AuditLogger{pool: pool}
}

// Record persists the log entry.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil || l.pool == nil {
		return nil
	}
	if log.Action == "" || log.Resource == "" {
		return errors.New("audit log requires action/resource")
	}
	if log.At.IsZero() {
		log.At = time.Now().UTC()
	}
	metaJSON, err := json.Marshal(log.Meta)
	if err != nil {
		return err
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO admin_actions (actor, role, action, resource, record_id, meta, occurred_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		log.Actor, log.Role, log.Action, log.Resource, log.RecordID, metaJSON, log.At)
	return err
}

var _ Auditor = (*AuditLogger)(nil)
