package jobs

import (
	"context"

	"shelfspace-backend/internal/logger"
)

// DispatchPayouts sends pending host payouts to the transfer provider.
func (jr *JobRunner) DispatchPayouts() {
	jr.runWithRecovery("DispatchPayouts", func() {
		ctx := context.Background()

		dispatched, err := jr.services.Payout.DispatchPending(ctx)
		if err != nil {
			logger.Error("Failed to dispatch pending payouts", "error", err)
			return
		}
		logger.Info("Dispatched pending payouts", "count", dispatched)
	})
}

// RefreshTransfers polls the provider for transfers still in flight.
func (jr *JobRunner) RefreshTransfers() {
	jr.runWithRecovery("RefreshTransfers", func() {
		ctx := context.Background()

		updated, err := jr.services.Payout.RefreshProcessing(ctx)
		if err != nil {
			logger.Error("Failed to refresh processing transfers", "error", err)
			return
		}
		logger.Info("Refreshed processing transfers", "updated", updated)
	})
}
