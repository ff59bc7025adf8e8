package repository

import (
	"context"
	"errors"

	"gatekeeper-bot/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// TransitionParams describes one decision applied to an application. Target
// and Action are fixed per decision kind by the service layer; the repository
// only checks legality against the current status.
type TransitionParams struct {
	ApplicationID int64
	ModeratorID   string
	Action        domain.ActionKind
	Target        domain.ApplicationStatus
	Reason        string
	Permanent     bool
	EventID       string
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id int64) (*domain.Application, error)
	FindPending(ctx context.Context, guildID, userID string) (*domain.Application, error)
	ListByStatus(ctx context.Context, guildID string, status domain.ApplicationStatus) ([]domain.Application, error)

	// Transition validates the current status and, when legal, writes the new
	// status together with exactly one review action in a single transaction.
	// Illegal transitions are reported through the result outcome, not as
	// errors; errors mean the transaction itself failed.
	Transition(ctx context.Context, p TransitionParams) (*domain.TransitionResult, error)
}

type ClaimRepository interface {
	// Acquire upserts the claim row and appends a "claim" audit action in one
	// transaction. It does not check for a conflicting owner; callers are
	// expected to run the guard check first.
	Acquire(ctx context.Context, appID int64, moderatorID string) error
	Get(ctx context.Context, appID int64) (*domain.Claim, error)
	GetByModerator(ctx context.Context, moderatorID string) (*domain.Claim, error)
	// Release deletes the claim unconditionally and, when a row was actually
	// removed, appends an "unclaim" audit action. No-op if absent.
	Release(ctx context.Context, appID int64, moderatorID string) error
	// ReleaseStale removes claims older than maxAgeMinutes, one "unclaim"
	// audit row per released claim attributed to actorID. Returns the count
	// of claims released.
	ReleaseStale(ctx context.Context, maxAgeMinutes int32, actorID string) (int64, error)
}

type ReviewActionRepository interface {
	ListRecent(ctx context.Context, appID int64, limit int32) ([]domain.ReviewAction, error)
	// AttachDeliveryOutcome sets the metadata column of an existing action.
	// The original action, reason and timestamp are left untouched.
	AttachDeliveryOutcome(ctx context.Context, actionID int64, result domain.NotificationResult) error
}

type TicketRepository interface {
	FindOpen(ctx context.Context, guildID, userID string) (*domain.Ticket, error)
	Close(ctx context.Context, ticketID int64, reason string) error
}

type SettingsRepository interface {
	Get(ctx context.Context, guildID string) (*domain.GuildSettings, error)
	Upsert(ctx context.Context, s *domain.GuildSettings) error
}
