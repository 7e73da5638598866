package jobs

import (
	"context"
	"time"

	"shelfspace-backend/internal/logger"
)

// RunLifecycleSweep advances rentals through their time-driven transitions:
// activation at start date, completion and clearance initiation at end date,
// expiry of stale pending requests.
func (jr *JobRunner) RunLifecycleSweep() {
	jr.runWithRecovery("RunLifecycleSweep", func() {
		ctx := context.Background()

		result := jr.services.Lifecycle.RunSweep(ctx, time.Now())
		if result.Failed > 0 {
			logger.Warn("Lifecycle sweep had failures",
				"activated", result.Activated,
				"completed", result.Completed,
				"expired", result.Expired,
				"failed", result.Failed)
		}
	})
}
