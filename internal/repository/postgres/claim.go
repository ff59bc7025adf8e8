package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/repository"
)

type claimRepository struct {
	db *sql.DB
}

func NewClaimRepository(db *sql.DB) repository.ClaimRepository {
	return &claimRepository{db: db}
}

// Acquire upserts the claim and logs a "claim" action in one transaction.
// There is no owner check here; the single-writer execution model plus the
// caller-side guard check make the overwrite race acceptable.
func (r *claimRepository) Acquire(ctx context.Context, appID int64, moderatorID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO claims (application_id, moderator_id, claimed_at) VALUES ($1, $2, $3)
		 ON CONFLICT (application_id) DO UPDATE SET moderator_id = $2, claimed_at = $3`,
		appID, moderatorID, now)
	if err != nil {
		return fmt.Errorf("failed to upsert claim: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO review_actions (application_id, moderator_id, action, event_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		appID, moderatorID, domain.ActionClaim, uuid.NewString(), now)
	if err != nil {
		return fmt.Errorf("failed to log claim action: %w", err)
	}

	return tx.Commit()
}

func (r *claimRepository) Get(ctx context.Context, appID int64) (*domain.Claim, error) {
	c := &domain.Claim{}
	query := `SELECT application_id, moderator_id, claimed_at FROM claims WHERE application_id = $1`
	err := r.db.QueryRowContext(ctx, query, appID).Scan(&c.ApplicationID, &c.ModeratorID, &c.ClaimedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *claimRepository) GetByModerator(ctx context.Context, moderatorID string) (*domain.Claim, error) {
	c := &domain.Claim{}
	query := `SELECT application_id, moderator_id, claimed_at FROM claims
	          WHERE moderator_id = $1 ORDER BY claimed_at DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, moderatorID).Scan(&c.ApplicationID, &c.ModeratorID, &c.ClaimedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Release deletes the claim regardless of owner. Unclaiming an application
// claimed by someone else is allowed as an admin override.
func (r *claimRepository) Release(ctx context.Context, appID int64, moderatorID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE application_id = $1`, appID)
	if err != nil {
		return fmt.Errorf("failed to delete claim: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Nothing to release; stay idempotent and append no audit row.
		return tx.Commit()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO review_actions (application_id, moderator_id, action, event_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		appID, moderatorID, domain.ActionUnclaim, uuid.NewString(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to log unclaim action: %w", err)
	}

	return tx.Commit()
}

func (r *claimRepository) ReleaseStale(ctx context.Context, maxAgeMinutes int32, actorID string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	cutoff := time.Now().Add(-time.Duration(maxAgeMinutes) * time.Minute)
	rows, err := tx.QueryContext(ctx,
		`DELETE FROM claims WHERE claimed_at < $1 RETURNING application_id`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale claims: %w", err)
	}
	var appIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		appIDs = append(appIDs, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	now := time.Now()
	for _, id := range appIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO review_actions (application_id, moderator_id, action, reason, event_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, actorID, domain.ActionUnclaim, "claim expired", uuid.NewString(), now)
		if err != nil {
			return 0, fmt.Errorf("failed to log stale unclaim: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int64(len(appIDs)), nil
}
