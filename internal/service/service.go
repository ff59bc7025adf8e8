package service

import (
	"context"

	"gatekeeper-bot/internal/domain"
)

// Decision is one moderator verdict handed to the transition engine and the
// notification flows. Kind selects the message template; Permanent only
// applies to rejections.
type Decision struct {
	Kind      domain.ActionKind
	Reason    string
	Permanent bool
}

// DecisionReport is what the moderator issuing a decision gets back. The
// decision outcome is authoritative; the side-effect fields are advisory and
// a failed delivery never fails the decision itself.
type DecisionReport struct {
	Outcome     domain.TransitionOutcome
	PriorStatus domain.ApplicationStatus
	ActionID    int64
	// Conflict carries a human-readable message naming the claim owner when
	// another moderator holds the application; the decision was not applied.
	Conflict     string
	DM           domain.NotificationResult
	Welcome      domain.WelcomeResult
	TicketClosed bool
}

type ReviewService interface {
	ClaimApplication(ctx context.Context, appID int64, moderatorID string) (string, error)
	UnclaimApplication(ctx context.Context, appID int64, moderatorID string) error
	Approve(ctx context.Context, appID int64, moderatorID string) (*DecisionReport, error)
	Reject(ctx context.Context, appID int64, moderatorID, reason string, permanent bool) (*DecisionReport, error)
	Kick(ctx context.Context, appID int64, moderatorID, reason string) (*DecisionReport, error)
	RequestInfo(ctx context.Context, appID int64, moderatorID, question string) (*DecisionReport, error)
}

type QueryService interface {
	GetApplication(ctx context.Context, id int64) (*domain.Application, error)
	FindPendingApplication(ctx context.Context, guildID, userID string) (*domain.Application, error)
	RecentActions(ctx context.Context, appID int64, limit int32) ([]domain.ReviewAction, error)
	GetClaim(ctx context.Context, appID int64) (*domain.Claim, error)
	GetModeratorClaim(ctx context.Context, moderatorID string) (*domain.Claim, error)
}

// Notifier drives the best-effort outbound flows that follow a decision.
// Neither method returns an error; failures are folded into the result.
type Notifier interface {
	NotifyDecision(ctx context.Context, app *domain.Application, d Decision) domain.NotificationResult
	AnnounceWelcome(ctx context.Context, app *domain.Application) domain.WelcomeResult
}

// Messenger is the chat-platform transport consumed by the notification
// flows. Implementations live under internal/platform.
type Messenger interface {
	SendDirectMessage(ctx context.Context, userID string, msg *domain.OutboundMessage) error
	FetchChannel(ctx context.Context, channelID string) (*domain.ChannelInfo, error)
	SendChannelMessage(ctx context.Context, channelID string, msg *domain.OutboundMessage) error
	CanSendTo(ctx context.Context, channelID string) (bool, error)
	FetchUser(ctx context.Context, userID string) (*domain.UserProfile, error)
}

// TicketCloser emits the close signal to the support-ticket subsystem after a
// terminal decision. Failures are logged, never escalated.
type TicketCloser interface {
	CloseForDecision(ctx context.Context, guildID, userID string, kind domain.ActionKind) bool
}
