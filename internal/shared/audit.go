package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// AuditLog represents a record stored in audit_logs.
type AuditLog struct {
	ID       string
	ActorID  int64
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// AuditDB is the subset of pgxpool.Pool used by AuditLogger.
type AuditDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// AuditLogger writes back-office actions into audit_logs.
type AuditLogger struct {
	db     AuditDB
	now    func() time.Time
	logger *slog.Logger
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(db AuditDB) *AuditLogger {
	return &AuditLogger{db: db, now: time.Now, logger: slog.Default()}
}

// WithLogger sets the logger used for unreadable rows.
func (l *AuditLogger) WithLogger(logger *slog.Logger) *AuditLogger {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// Record persists the log entry.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil || l.db == nil {
		return errors.New("audit logger not initialised")
	}
	if log.Action == "" || log.Entity == "" {
		return errors.New("audit log requires action and entity")
	}
	if log.Meta == nil {
		log.Meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(log.Meta)
	if err != nil {
		return err
	}
	if log.At.IsZero() {
		log.At = l.now().UTC()
	}
	_, err = l.db.Exec(ctx,
		`INSERT INTO audit_logs (id, actor_id, action, entity, entity_id, meta, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), log.ActorID, log.Action, log.Entity, log.EntityID, metaJSON, log.At)
	return err
}

// Recent returns the latest entries, newest first.
func (l *AuditLogger) Recent(ctx context.Context, limit int) ([]AuditLog, error) {
	if l == nil || l.db == nil {
		return nil, errors.New("audit logger not initialised")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := l.db.Query(ctx,
		`SELECT id::text, actor_id, action, entity, entity_id, meta, created_at FROM audit_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]AuditLog, 0, limit)
	for rows.Next() {
		var (
			entry AuditLog
			meta  []byte
		)
		if err := rows.Scan(&entry.ID, &entry.ActorID, &entry.Action, &entry.Entity, &entry.EntityID, &meta, &entry.At); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &entry.Meta); err != nil {
				l.logger.Warn("discarding unreadable audit meta",
					slog.String("audit_id", entry.ID), slog.Any("error", err))
				entry.Meta = nil
			}
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
