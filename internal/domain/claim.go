package domain

import "time"

// Claim is an advisory lock marking which moderator is actively reviewing an
// application. At most one live claim exists per application.
type Claim struct {
	ApplicationID int64     `json:"application_id"`
	ModeratorID   string    `json:"moderator_id"`
	ClaimedAt     time.Time `json:"claimed_at"`
}
