package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/repository"
	"gatekeeper-bot/internal/repository/postgres"
)

func TestTicketRepository_FindOpen(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewTicketRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "guild_id", "user_id", "status", "closed_reason", "created_at", "closed_at"}).
			AddRow(5, "G1", "U1", "open", nil, time.Now(), nil)
		mock.ExpectQuery("SELECT (.+) FROM tickets").
			WithArgs("G1", "U1").
			WillReturnRows(rows)

		ticket, err := repo.FindOpen(ctx, "G1", "U1")
		assert.NoError(t, err)
		assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	})

	t.Run("NoneOpen", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM tickets").
			WithArgs("G1", "U2").
			WillReturnRows(sqlmock.NewRows([]string{"id", "guild_id", "user_id", "status", "closed_reason", "created_at", "closed_at"}))

		ticket, err := repo.FindOpen(ctx, "G1", "U2")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, ticket)
	})
}

func TestTicketRepository_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewTicketRepository(db)
	ctx := context.Background()

	// The status guard makes a repeat closure a no-op at the store level.
	mock.ExpectExec("UPDATE tickets SET status = 'closed'").
		WithArgs("Application approved", sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Close(ctx, 5, "Application approved"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
