package domain

import "time"

type ActionKind string

const (
	ActionApprove    ActionKind = "approve"
	ActionReject     ActionKind = "reject"
	ActionPermReject ActionKind = "perm_reject"
	ActionKick       ActionKind = "kick"
	ActionNeedsInfo  ActionKind = "needs_info"
	ActionClaim      ActionKind = "claim"
	ActionUnclaim    ActionKind = "unclaim"
)

// ReviewAction is one immutable audit-log entry. The only permitted update is
// attaching delivery metadata after the fact; action, reason and timestamp
// never change once written.
type ReviewAction struct {
	ID            int64      `json:"id"`
	ApplicationID int64      `json:"application_id"`
	ModeratorID   string     `json:"moderator_id"`
	Action        ActionKind `json:"action"`
	Reason        *string    `json:"reason,omitempty"`
	Metadata      []byte     `json:"metadata,omitempty"`
	EventID       string     `json:"event_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

type TransitionOutcome string

const (
	// TransitionChanged means the status was updated and an audit row written.
	TransitionChanged TransitionOutcome = "changed"
	// TransitionAlready means the application was already in the target
	// status; the call is a no-op and appends nothing.
	TransitionAlready TransitionOutcome = "already"
	// TransitionTerminal means the application was resolved to a different
	// terminal status and the decision is refused.
	TransitionTerminal TransitionOutcome = "terminal"
	// TransitionInvalid means the application has not been submitted yet.
	TransitionInvalid TransitionOutcome = "invalid"
)

// TransitionResult reports what a single decision did to an application.
type TransitionResult struct {
	Outcome     TransitionOutcome
	PriorStatus ApplicationStatus
	ActionID    int64
}
