package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/repository"
)

type ticketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) repository.TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) FindOpen(ctx context.Context, guildID, userID string) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	query := `SELECT id, guild_id, user_id, status, closed_reason, created_at, closed_at
	          FROM tickets WHERE guild_id = $1 AND user_id = $2 AND status = 'open'
	          ORDER BY created_at DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, guildID, userID).Scan(
		&t.ID, &t.GuildID, &t.UserID, &t.Status, &t.ClosedReason, &t.CreatedAt, &t.ClosedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// Close marks the ticket closed. Already-closed tickets are left alone so a
// second closure attempt is a no-op.
func (r *ticketRepository) Close(ctx context.Context, ticketID int64, reason string) error {
	query := `UPDATE tickets SET status = 'closed', closed_reason = $1, closed_at = $2
	          WHERE id = $3 AND status = 'open'`
	_, err := r.db.ExecContext(ctx, query, reason, time.Now(), ticketID)
	return err
}
