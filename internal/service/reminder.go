package service

import (
	"context"
	"fmt"
	"time"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/logger"
	"shelfspace-backend/internal/repository"
)

// expiryReminderDays are the exact day-counts before the end date on which an
// active rental triggers a reminder. A sweep that runs daily fires each
// reminder exactly once.
var expiryReminderDays = map[int]bool{7: true, 3: true, 1: true}

type reminderService struct {
	rentalRepo       repository.RentalRepository
	clearanceRepo    repository.ClearanceRepository
	profileRepo      repository.ProfileRepository
	convRepo         repository.ConversationRepository
	notificationRepo repository.NotificationRepository
	emailSvc         EmailService
}

func NewReminderService(
	rentalRepo repository.RentalRepository,
	clearanceRepo repository.ClearanceRepository,
	profileRepo repository.ProfileRepository,
	convRepo repository.ConversationRepository,
	notificationRepo repository.NotificationRepository,
	emailSvc EmailService,
) ReminderService {
	return &reminderService{
		rentalRepo:       rentalRepo,
		clearanceRepo:    clearanceRepo,
		profileRepo:      profileRepo,
		convRepo:         convRepo,
		notificationRepo: notificationRepo,
		emailSvc:         emailSvc,
	}
}

// RunSweep emits all reminders due at `now`. The guards are exact day-count
// matches, so the sweep must run once per day; running it more often repeats
// the same reminders, running it less often skips them.
func (s *reminderService) RunSweep(ctx context.Context, now time.Time) ReminderSweepResult {
	var result ReminderSweepResult

	s.remindExpiringRentals(ctx, now, &result)
	s.remindUnpaidRentals(ctx, now, &result)
	s.nudgeStalledClearances(ctx, now, &result)

	logger.Info("Reminder sweep finished",
		"expiry_reminders", result.ExpiryReminders,
		"payment_reminders", result.PaymentReminders,
		"clearance_nudges", result.ClearanceNudges,
		"failed", result.Failed)
	return result
}

// daysUntil counts whole calendar days from now to t, both truncated to dates.
func daysUntil(now, t time.Time) int {
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func (s *reminderService) remindExpiringRentals(ctx context.Context, now time.Time, result *ReminderSweepResult) {
	rentals, err := s.rentalRepo.ListByStatus(ctx, domain.RentalStatusActive)
	if err != nil {
		logger.Error("Failed to list active rentals for reminders", "error", err)
		result.Failed++
		return
	}

	for _, rt := range rentals {
		days := daysUntil(now, rt.EndDate)
		if !expiryReminderDays[days] {
			continue
		}

		body := fmt.Sprintf("The rental ends in %d day(s), on %s. Please prepare the final inventory handover.", days, rt.EndDate.Format("2006-01-02"))
		s.notify(ctx, rt.ConversationID, body)

		for _, profileID := range []int32{rt.HostID, rt.TenantID} {
			profile, err := s.profileRepo.GetByID(ctx, profileID)
			if err != nil {
				logger.Error("Failed to load profile for expiry reminder", "profile_id", profileID, "error", err)
				result.Failed++
				continue
			}
			if err := s.emailSvc.SendExpiryReminder(ctx, profile.Email, profile.Name, rt.ID, days); err != nil {
				logger.Error("Failed to send expiry reminder", "rental_id", rt.ID, "profile_id", profileID, "error", err)
				result.Failed++
				continue
			}
			s.record(ctx, profileID, "Rental ending soon", body, rt.ID)
		}
		result.ExpiryReminders++
	}
}

// remindUnpaidRentals nudges the tenant exactly one day after a rental moved
// to PAYMENT_PENDING.
func (s *reminderService) remindUnpaidRentals(ctx context.Context, now time.Time, result *ReminderSweepResult) {
	rentals, err := s.rentalRepo.ListByStatus(ctx, domain.RentalStatusPaymentPending)
	if err != nil {
		logger.Error("Failed to list payment-pending rentals for reminders", "error", err)
		result.Failed++
		return
	}

	for _, rt := range rentals {
		if daysUntil(rt.CreatedOn, now) != 1 {
			continue
		}

		tenant, err := s.profileRepo.GetByID(ctx, rt.TenantID)
		if err != nil {
			logger.Error("Failed to load tenant for payment reminder", "rental_id", rt.ID, "error", err)
			result.Failed++
			continue
		}
		if err := s.emailSvc.SendPaymentReminder(ctx, tenant.Email, tenant.Name, rt.ID); err != nil {
			logger.Error("Failed to send payment reminder", "rental_id", rt.ID, "error", err)
			result.Failed++
			continue
		}

		body := "A friendly reminder: the rental is awaiting payment. The shelf is held for you once payment arrives."
		s.notify(ctx, rt.ConversationID, body)
		s.record(ctx, rt.TenantID, "Payment outstanding", body, rt.ID)
		result.PaymentReminders++
	}
}

// nudgeStalledClearances pokes the party whose action is pending once a
// clearance has sat in the same stage for a week, then weekly after that.
func (s *reminderService) nudgeStalledClearances(ctx context.Context, now time.Time, result *ReminderSweepResult) {
	clearances, err := s.clearanceRepo.ListOpen(ctx)
	if err != nil {
		logger.Error("Failed to list open clearances for nudges", "error", err)
		result.Failed++
		return
	}

	for _, cl := range clearances {
		stalled := daysUntil(cl.LastProgressAt(), now)
		if stalled < 7 || stalled%7 != 0 {
			continue
		}

		rt, err := s.rentalRepo.GetByID(ctx, cl.RentalID)
		if err != nil {
			logger.Error("Failed to load rental for clearance nudge", "rental_id", cl.RentalID, "error", err)
			result.Failed++
			continue
		}

		profileID, ok := pendingParty(cl.Status, rt)
		if !ok {
			continue
		}
		profile, err := s.profileRepo.GetByID(ctx, profileID)
		if err != nil {
			logger.Error("Failed to load profile for clearance nudge", "profile_id", profileID, "error", err)
			result.Failed++
			continue
		}
		if err := s.emailSvc.SendClearanceNudge(ctx, profile.Email, profile.Name, rt.ID, cl.Status); err != nil {
			logger.Error("Failed to send clearance nudge", "rental_id", rt.ID, "error", err)
			result.Failed++
			continue
		}

		body := fmt.Sprintf("The clearance has been waiting in %s for %d days. Please take the next step.", cl.Status, stalled)
		s.notify(ctx, rt.ConversationID, body)
		s.record(ctx, profileID, "Clearance waiting on you", body, rt.ID)
		result.ClearanceNudges++
	}
}

// pendingParty resolves which profile owes the next action for a stage.
// Stages waiting on an administrator have no party to nudge.
func pendingParty(stage domain.ClearanceStage, rt *domain.Rental) (int32, bool) {
	switch stage {
	case domain.ClearanceStagePaymentCompleted:
		return rt.HostID, true // host must ship the return
	case domain.ClearanceStageReturnShipped:
		return rt.TenantID, true // tenant must confirm receipt
	default:
		return 0, false
	}
}

func (s *reminderService) notify(ctx context.Context, conversationID int32, body string) {
	if err := s.convRepo.AppendSystemMessage(ctx, conversationID, body); err != nil {
		logger.Error("Failed to append system message", "conversation_id", conversationID, "error", err)
	}
}

func (s *reminderService) record(ctx context.Context, profileID int32, title, message string, rentalID int32) {
	note := &domain.Notification{
		ProfileID: profileID,
		Title:     title,
		Message:   message,
		Attributes: map[string]string{
			"rental_id": fmt.Sprintf("%d", rentalID),
		},
	}
	if err := s.notificationRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to persist notification", "profile_id", profileID, "error", err)
	}
}
