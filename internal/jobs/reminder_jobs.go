package jobs

import (
	"context"
	"time"

	"shelfspace-backend/internal/logger"
)

// RunReminderSweep sends expiry and payment reminders and nudges stalled
// clearances. Scheduled daily; the day-count guards inside the sweep depend
// on that cadence.
func (jr *JobRunner) RunReminderSweep() {
	jr.runWithRecovery("RunReminderSweep", func() {
		ctx := context.Background()

		result := jr.services.Reminder.RunSweep(ctx, time.Now())
		if result.Failed > 0 {
			logger.Warn("Reminder sweep had failures",
				"expiry_reminders", result.ExpiryReminders,
				"payment_reminders", result.PaymentReminders,
				"clearance_nudges", result.ClearanceNudges,
				"failed", result.Failed)
		}
	})
}
