package http

import (
	"net/http"
	"time"

	"shelfspace-backend/internal/logger"
	"shelfspace-backend/internal/service"
)

// SweepHandler exposes the lifecycle and reminder sweeps to an external
// scheduler. The same sweeps also run from the cronjob binary; both entry
// points share the services, so overlapping triggers stay idempotent.
type SweepHandler struct {
	lifecycleSvc service.LifecycleService
	reminderSvc  service.ReminderService
}

func NewSweepHandler(lifecycleSvc service.LifecycleService, reminderSvc service.ReminderService) *SweepHandler {
	return &SweepHandler{
		lifecycleSvc: lifecycleSvc,
		reminderSvc:  reminderSvc,
	}
}

func (h *SweepHandler) RunLifecycleSweep(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	result := h.lifecycleSvc.RunSweep(r.Context(), time.Now())
	logger.Info("Lifecycle sweep triggered over HTTP",
		"activated", result.Activated, "completed", result.Completed, "expired", result.Expired, "failed", result.Failed)
	writeJSON(w, http.StatusOK, result)
}

func (h *SweepHandler) RunReminderSweep(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	result := h.reminderSvc.RunSweep(r.Context(), time.Now())
	logger.Info("Reminder sweep triggered over HTTP",
		"expiry_reminders", result.ExpiryReminders, "payment_reminders", result.PaymentReminders, "clearance_nudges", result.ClearanceNudges, "failed", result.Failed)
	writeJSON(w, http.StatusOK, result)
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	actor, ok := requireActor(w, r)
	if !ok {
		return false
	}
	if !actor.IsAdmin() {
		writeError(w, http.StatusForbidden, "sweep triggers require an administrator")
		return false
	}
	return true
}
