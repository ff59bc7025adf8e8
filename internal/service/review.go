package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/repository"
)

type reviewService struct {
	appRepo    repository.ApplicationRepository
	claimRepo  repository.ClaimRepository
	actionRepo repository.ReviewActionRepository
	notifier   Notifier
	tickets    TicketCloser
}

func NewReviewService(
	appRepo repository.ApplicationRepository,
	claimRepo repository.ClaimRepository,
	actionRepo repository.ReviewActionRepository,
	notifier Notifier,
	tickets TicketCloser,
) ReviewService {
	return &reviewService{
		appRepo:    appRepo,
		claimRepo:  claimRepo,
		actionRepo: actionRepo,
		notifier:   notifier,
		tickets:    tickets,
	}
}

// ClaimApplication runs the guard check and then acquires the claim. The
// returned string is a conflict message when another moderator already holds
// the application; empty means the claim is now owned by moderatorID.
func (s *reviewService) ClaimApplication(ctx context.Context, appID int64, moderatorID string) (string, error) {
	claim, err := s.claimRepo.Get(ctx, appID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("failed to read claim: %w", err)
	}
	if msg := CheckClaim(claim, moderatorID); msg != "" {
		return msg, nil
	}
	if err := s.claimRepo.Acquire(ctx, appID, moderatorID); err != nil {
		return "", fmt.Errorf("failed to acquire claim: %w", err)
	}
	return "", nil
}

// UnclaimApplication releases the claim without an ownership check. Releasing
// someone else's claim is treated as an admin override and still audited
// under the releasing moderator's id.
func (s *reviewService) UnclaimApplication(ctx context.Context, appID int64, moderatorID string) error {
	if err := s.claimRepo.Release(ctx, appID, moderatorID); err != nil {
		return fmt.Errorf("failed to release claim: %w", err)
	}
	return nil
}

func (s *reviewService) Approve(ctx context.Context, appID int64, moderatorID string) (*DecisionReport, error) {
	d := Decision{Kind: domain.ActionApprove}
	return s.decide(ctx, appID, moderatorID, d, domain.ApplicationStatusApproved)
}

func (s *reviewService) Reject(ctx context.Context, appID int64, moderatorID, reason string, permanent bool) (*DecisionReport, error) {
	d := Decision{Kind: domain.ActionReject, Reason: reason, Permanent: permanent}
	if permanent {
		d.Kind = domain.ActionPermReject
	}
	return s.decide(ctx, appID, moderatorID, d, domain.ApplicationStatusRejected)
}

func (s *reviewService) Kick(ctx context.Context, appID int64, moderatorID, reason string) (*DecisionReport, error) {
	d := Decision{Kind: domain.ActionKick, Reason: reason}
	return s.decide(ctx, appID, moderatorID, d, domain.ApplicationStatusKicked)
}

func (s *reviewService) RequestInfo(ctx context.Context, appID int64, moderatorID, question string) (*DecisionReport, error) {
	d := Decision{Kind: domain.ActionNeedsInfo, Reason: question}
	return s.decide(ctx, appID, moderatorID, d, domain.ApplicationStatusNeedsInfo)
}

// decide is the shared decision path: guard check, atomic transition, then
// best-effort side effects. Everything after the transition commits is
// advisory and must never turn a stored decision into an error.
func (s *reviewService) decide(ctx context.Context, appID int64, moderatorID string, d Decision, target domain.ApplicationStatus) (*DecisionReport, error) {
	claim, err := s.claimRepo.Get(ctx, appID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to read claim: %w", err)
	}
	if msg := CheckClaim(claim, moderatorID); msg != "" {
		return &DecisionReport{Conflict: msg}, nil
	}

	app, err := s.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	res, err := s.appRepo.Transition(ctx, repository.TransitionParams{
		ApplicationID: appID,
		ModeratorID:   moderatorID,
		Action:        d.Kind,
		Target:        target,
		Reason:        d.Reason,
		Permanent:     d.Permanent,
		EventID:       uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply decision: %w", err)
	}

	report := &DecisionReport{
		Outcome:     res.Outcome,
		PriorStatus: res.PriorStatus,
		ActionID:    res.ActionID,
	}
	if res.Outcome != domain.TransitionChanged {
		return report, nil
	}

	report.DM = s.notifier.NotifyDecision(ctx, app, d)
	if err := s.actionRepo.AttachDeliveryOutcome(ctx, res.ActionID, report.DM); err != nil {
		logger.Warn("Failed to attach delivery outcome", "action_id", res.ActionID, "error", err)
	}

	if target == domain.ApplicationStatusApproved {
		report.Welcome = s.notifier.AnnounceWelcome(ctx, app)
		if !report.Welcome.Delivered {
			logger.Warn("Welcome announcement not delivered",
				"application_id", appID, "guild_id", app.GuildID, "failure", report.Welcome.Failure)
		}
	}

	if target.IsTerminal() {
		report.TicketClosed = s.tickets.CloseForDecision(ctx, app.GuildID, app.UserID, d.Kind)
	}

	return report, nil
}
