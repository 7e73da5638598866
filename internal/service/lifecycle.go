package service

import (
	"context"
	"fmt"
	"time"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/logger"
	"shelfspace-backend/internal/repository"
)

type lifecycleService struct {
	rentalRepo   repository.RentalRepository
	convRepo     repository.ConversationRepository
	clearanceSvc ClearanceService
	// pendingExpiry is how long a PENDING rental may wait for acceptance
	// before it expires.
	pendingExpiry time.Duration
}

func NewLifecycleService(
	rentalRepo repository.RentalRepository,
	convRepo repository.ConversationRepository,
	clearanceSvc ClearanceService,
	pendingExpiryHours int,
) LifecycleService {
	return &lifecycleService{
		rentalRepo:    rentalRepo,
		convRepo:      convRepo,
		clearanceSvc:  clearanceSvc,
		pendingExpiry: time.Duration(pendingExpiryHours) * time.Hour,
	}
}

// RunSweep performs one pass over all time-driven transitions. Each pass
// queries only records in the source status and moves them with a
// compare-and-set, so overlapping or repeated sweeps cannot double-fire.
// Failures are isolated per record; one bad rental never halts the batch.
func (s *lifecycleService) RunSweep(ctx context.Context, now time.Time) LifecycleSweepResult {
	var result LifecycleSweepResult

	s.activateStarted(ctx, now, &result)
	s.completeEnded(ctx, now, &result)
	s.expireStalePending(ctx, now, &result)

	logger.Info("Lifecycle sweep finished",
		"activated", result.Activated,
		"completed", result.Completed,
		"expired", result.Expired,
		"failed", result.Failed)
	return result
}

// activateStarted moves PAYMENT_PENDING rentals whose start date has arrived
// to ACTIVE.
func (s *lifecycleService) activateStarted(ctx context.Context, now time.Time, result *LifecycleSweepResult) {
	rentals, err := s.rentalRepo.ListByStatus(ctx, domain.RentalStatusPaymentPending)
	if err != nil {
		logger.Error("Failed to list payment-pending rentals", "error", err)
		result.Failed++
		return
	}

	for _, rt := range rentals {
		if rt.StartDate.After(now) {
			continue
		}
		if err := s.rentalRepo.UpdateStatusFrom(ctx, rt.ID, domain.RentalStatusPaymentPending, domain.RentalStatusActive); err != nil {
			logger.Error("Failed to activate rental", "rental_id", rt.ID, "error", err)
			result.Failed++
			continue
		}
		result.Activated++
		s.notify(ctx, rt.ConversationID, fmt.Sprintf("The rental period has started. The shelf is now active until %s.", rt.EndDate.Format("2006-01-02")))
	}
}

// completeEnded moves ACTIVE rentals whose end date has passed (inclusive) to
// COMPLETED and initiates clearance. This is the sole clearance trigger.
func (s *lifecycleService) completeEnded(ctx context.Context, now time.Time, result *LifecycleSweepResult) {
	rentals, err := s.rentalRepo.ListByStatus(ctx, domain.RentalStatusActive)
	if err != nil {
		logger.Error("Failed to list active rentals", "error", err)
		result.Failed++
		return
	}

	for _, rt := range rentals {
		if rt.EndDate.After(now) {
			continue
		}
		if err := s.rentalRepo.UpdateStatusFrom(ctx, rt.ID, domain.RentalStatusActive, domain.RentalStatusCompleted); err != nil {
			logger.Error("Failed to complete rental", "rental_id", rt.ID, "error", err)
			result.Failed++
			continue
		}
		result.Completed++
		s.notify(ctx, rt.ConversationID, "The rental period has ended. Clearance has been initiated; the final inventory is being reconciled.")

		if _, err := s.clearanceSvc.Initiate(ctx, rt.ID); err != nil {
			// The rental stays COMPLETED; initiation is retried on the next
			// sweep via the completed-without-clearance scan below.
			logger.Error("Failed to initiate clearance", "rental_id", rt.ID, "error", err)
			result.Failed++
		}
	}

	// Pick up completed rentals whose initiation failed on an earlier pass.
	completed, err := s.rentalRepo.ListByStatus(ctx, domain.RentalStatusCompleted)
	if err != nil {
		logger.Error("Failed to list completed rentals", "error", err)
		result.Failed++
		return
	}
	for _, rt := range completed {
		if rt.ClearanceStatus != nil {
			continue
		}
		if _, err := s.clearanceSvc.Initiate(ctx, rt.ID); err != nil {
			logger.Error("Failed to re-initiate clearance", "rental_id", rt.ID, "error", err)
			result.Failed++
		}
	}
}

// expireStalePending expires PENDING requests the host never acted on.
func (s *lifecycleService) expireStalePending(ctx context.Context, now time.Time, result *LifecycleSweepResult) {
	rentals, err := s.rentalRepo.ListByStatus(ctx, domain.RentalStatusPending)
	if err != nil {
		logger.Error("Failed to list pending rentals", "error", err)
		result.Failed++
		return
	}

	cutoff := now.Add(-s.pendingExpiry)
	for _, rt := range rentals {
		if rt.CreatedOn.After(cutoff) {
			continue
		}
		if err := s.rentalRepo.UpdateStatusFrom(ctx, rt.ID, domain.RentalStatusPending, domain.RentalStatusExpired); err != nil {
			logger.Error("Failed to expire rental", "rental_id", rt.ID, "error", err)
			result.Failed++
			continue
		}
		result.Expired++
		s.notify(ctx, rt.ConversationID, "The rental request expired because it was not accepted in time.")
	}
}

// notify appends a system message to the rental's conversation. Messaging is
// fire-and-forget; failures are logged and never block a transition.
func (s *lifecycleService) notify(ctx context.Context, conversationID int32, body string) {
	if err := s.convRepo.AppendSystemMessage(ctx, conversationID, body); err != nil {
		logger.Error("Failed to append system message", "conversation_id", conversationID, "error", err)
	}
}
