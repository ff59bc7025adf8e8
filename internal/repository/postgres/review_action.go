package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/repository"
)

type reviewActionRepository struct {
	db *sql.DB
}

func NewReviewActionRepository(db *sql.DB) repository.ReviewActionRepository {
	return &reviewActionRepository{db: db}
}

func (r *reviewActionRepository) ListRecent(ctx context.Context, appID int64, limit int32) ([]domain.ReviewAction, error) {
	query := `SELECT id, application_id, moderator_id, action, reason, metadata, event_id, created_at
	          FROM review_actions WHERE application_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, appID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []domain.ReviewAction
	for rows.Next() {
		var a domain.ReviewAction
		if err := rows.Scan(&a.ID, &a.ApplicationID, &a.ModeratorID, &a.Action,
			&a.Reason, &a.Metadata, &a.EventID, &a.CreatedAt); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// AttachDeliveryOutcome records whether the follow-up notification landed.
// Only the metadata column is touched; the action row itself is immutable.
func (r *reviewActionRepository) AttachDeliveryOutcome(ctx context.Context, actionID int64, result domain.NotificationResult) error {
	meta, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery outcome: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE review_actions SET metadata = $1 WHERE id = $2`, meta, actionID)
	return err
}
