package repository

import (
	"context"

	"popforge/internal/model"
)

// AuditRepository defines persistence for audit events using SQL only.
// No business logic here; the audit logger decides what gets recorded.
type AuditRepository interface {
	// Insert stores one audit event row.
	Insert(ctx context.Context, ev *model.AuditEvent) error
}
