package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"popforge/internal/model"
)

func TestAuditPostgres_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditPostgres(db)
	ctx := context.Background()

	ev := &model.AuditEvent{
		ID:        "test-uuid",
		Timestamp: time.Now().UTC(),
		Kind:      "security",
		EventType: "login_failed",
		Subject:   "admin",
		ClientIP:  "10.0.0.1",
		Details:   map[string]string{"reason": "bad password"},
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO audit_events").
			WithArgs(ev.ID, ev.Timestamp, ev.Kind, ev.EventType, ev.Subject, ev.ClientIP, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Insert(ctx, ev)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO audit_events").
			WillReturnError(errors.New("connection lost"))

		err := repo.Insert(ctx, ev)

		assert.Error(t, err)
	})
}
