package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/repository"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	query := `INSERT INTO applications (guild_id, user_id, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $4) RETURNING id`
	now := time.Now()
	app.CreatedAt = now
	app.UpdatedAt = now
	return r.db.QueryRowContext(ctx, query, app.GuildID, app.UserID, app.Status, now).Scan(&app.ID)
}

const applicationColumns = `id, guild_id, user_id, status, permanently_rejected, perm_rejected_at,
	       resolver_id, resolution_reason, created_at, updated_at, resolved_at`

func scanApplication(row interface{ Scan(...any) error }) (*domain.Application, error) {
	app := &domain.Application{}
	err := row.Scan(&app.ID, &app.GuildID, &app.UserID, &app.Status, &app.PermanentlyRejected,
		&app.PermRejectedAt, &app.ResolverID, &app.ResolutionReason,
		&app.CreatedAt, &app.UpdatedAt, &app.ResolvedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	return scanApplication(r.db.QueryRowContext(ctx, query, id))
}

func (r *applicationRepository) FindPending(ctx context.Context, guildID, userID string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
	          WHERE guild_id = $1 AND user_id = $2 AND status IN ('submitted', 'needs_info')
	          ORDER BY created_at DESC LIMIT 1`
	return scanApplication(r.db.QueryRowContext(ctx, query, guildID, userID))
}

func (r *applicationRepository) ListByStatus(ctx context.Context, guildID string, status domain.ApplicationStatus) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
	          WHERE guild_id = $1 AND status = $2 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, guildID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// Transition applies one decision inside a single transaction: read the
// current status under a row lock, refuse illegal transitions, then write the
// audit row and the status update together. The claim row, if any, is removed
// in the same transaction for terminal targets so the lock never outlives the
// decision.
func (r *applicationRepository) Transition(ctx context.Context, p repository.TransitionParams) (*domain.TransitionResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var status domain.ApplicationStatus
	var permRejected bool
	err = tx.QueryRowContext(ctx,
		`SELECT status, permanently_rejected FROM applications WHERE id = $1 FOR UPDATE`,
		p.ApplicationID).Scan(&status, &permRejected)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	res := &domain.TransitionResult{PriorStatus: status}
	switch {
	case status == p.Target:
		res.Outcome = domain.TransitionAlready
		return res, nil
	case status.IsTerminal():
		res.Outcome = domain.TransitionTerminal
		return res, nil
	case status == domain.ApplicationStatusDraft:
		res.Outcome = domain.TransitionInvalid
		return res, nil
	}

	now := time.Now()
	var reason sql.NullString
	if p.Reason != "" {
		reason = sql.NullString{String: p.Reason, Valid: true}
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO review_actions (application_id, moderator_id, action, reason, event_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.ApplicationID, p.ModeratorID, p.Action, reason, p.EventID, now).Scan(&res.ActionID)
	if err != nil {
		return nil, err
	}

	if p.Target.IsTerminal() {
		if p.Permanent {
			// The flag is monotonic; it is only ever set here, never cleared.
			_, err = tx.ExecContext(ctx,
				`UPDATE applications SET status = $1, resolver_id = $2, resolution_reason = $3,
				 resolved_at = $4, updated_at = $4, permanently_rejected = true, perm_rejected_at = $4
				 WHERE id = $5`,
				p.Target, p.ModeratorID, reason, now, p.ApplicationID)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE applications SET status = $1, resolver_id = $2, resolution_reason = $3,
				 resolved_at = $4, updated_at = $4 WHERE id = $5`,
				p.Target, p.ModeratorID, reason, now, p.ApplicationID)
		}
		if err != nil {
			return nil, err
		}
		if _, err = tx.ExecContext(ctx,
			`DELETE FROM claims WHERE application_id = $1`, p.ApplicationID); err != nil {
			return nil, err
		}
	} else {
		if _, err = tx.ExecContext(ctx,
			`UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`,
			p.Target, now, p.ApplicationID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	res.Outcome = domain.TransitionChanged
	return res, nil
}
