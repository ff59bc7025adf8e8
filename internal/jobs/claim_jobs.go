package jobs

import (
	"context"
	"time"

	"gatekeeper-bot/internal/logger"
)

// SystemActorID attributes audit rows written by background jobs rather than
// a human moderator.
const SystemActorID = "system"

// ReleaseStaleClaims frees claims whose owner walked away, so abandoned
// applications become claimable again. Each released claim gets its own
// unclaim audit row.
func (jr *JobRunner) ReleaseStaleClaims() {
	jr.runWithRecovery("ReleaseStaleClaims", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		ttl := jr.config.Review.ClaimTTLMinutes
		released, err := jr.store.ClaimRepository.ReleaseStale(ctx, ttl, SystemActorID)
		if err != nil {
			logger.Error("Failed to release stale claims", "error", err)
			return
		}
		if released > 0 {
			logger.Info("Released stale claims", "count", released, "ttl_minutes", ttl)
		}
	})
}
