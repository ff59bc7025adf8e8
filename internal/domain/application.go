package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusDraft     ApplicationStatus = "draft"
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
	ApplicationStatusNeedsInfo ApplicationStatus = "needs_info"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusKicked    ApplicationStatus = "kicked"
)

// IsTerminal reports whether no further decision is accepted on the status.
func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case ApplicationStatusApproved, ApplicationStatusRejected, ApplicationStatusKicked:
		return true
	}
	return false
}

// Application is one membership request tracked through the review lifecycle.
// Rows are never deleted; history survives through status plus the review
// action log.
type Application struct {
	ID                  int64             `json:"id"`
	GuildID             string            `json:"guild_id"`
	UserID              string            `json:"user_id"`
	Status              ApplicationStatus `json:"status"`
	PermanentlyRejected bool              `json:"permanently_rejected"`
	PermRejectedAt      *time.Time        `json:"perm_rejected_at,omitempty"`
	ResolverID          *string           `json:"resolver_id,omitempty"`
	ResolutionReason    *string           `json:"resolution_reason,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	ResolvedAt          *time.Time        `json:"resolved_at,omitempty"`
}
