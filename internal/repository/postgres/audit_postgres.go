package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"popforge/internal/model"
	"popforge/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Insert stores one audit event row. Details are serialized to JSONB.
func (r *AuditPostgres) Insert(ctx context.Context, ev *model.AuditEvent) error {
	details, err := json.Marshal(ev.Details)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO audit_events (id, ts, kind, event_type, subject, client_ip, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, q,
		ev.ID,
		ev.Timestamp,
		ev.Kind,
		ev.EventType,
		ev.Subject,
		ev.ClientIP,
		details,
	)
	return err
}
