package service

import (
	"fmt"

	"gatekeeper-bot/internal/domain"
)

// CheckClaim reports a conflict message naming the claim owner when the claim
// exists and belongs to someone other than actorID. An empty string means the
// actor may proceed. Pure; no side effects.
func CheckClaim(claim *domain.Claim, actorID string) string {
	if claim == nil || claim.ModeratorID == actorID {
		return ""
	}
	return fmt.Sprintf("This application is currently claimed by <@%s>. Ask them to release it first.", claim.ModeratorID)
}
