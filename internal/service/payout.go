package service

import (
	"context"
	"errors"
	"fmt"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/logger"
	"shelfspace-backend/internal/repository"
	"shelfspace-backend/internal/transfer"
)

type payoutService struct {
	paymentRepo repository.PaymentRepository
	profileRepo repository.ProfileRepository
	transfers   transfer.Client
	currency    string
}

func NewPayoutService(
	paymentRepo repository.PaymentRepository,
	profileRepo repository.ProfileRepository,
	transfers transfer.Client,
	currency string,
) PayoutService {
	return &payoutService{
		paymentRepo: paymentRepo,
		profileRepo: profileRepo,
		transfers:   transfers,
		currency:    currency,
	}
}

// Dispatch sends one payment to the transfer provider. The claim to
// PROCESSING is a compare-and-set, so two concurrent dispatchers can never
// both move money for the same payment; the idempotency key protects against
// provider-side replays of a single claim.
func (s *payoutService) Dispatch(ctx context.Context, paymentID int32) error {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}

	switch payment.TransferStatus {
	case domain.TransferStatusProcessing, domain.TransferStatusCompleted:
		// Already in flight or done; nothing to do.
		return nil
	case domain.TransferStatusPending, domain.TransferStatusFailed:
	default:
		return fmt.Errorf("payment %d has unknown transfer status %q: %w", paymentID, payment.TransferStatus, domain.ErrDataIntegrity)
	}

	host, err := s.profileRepo.GetByID(ctx, payment.HostID)
	if err != nil {
		return err
	}
	if host.IBAN == "" {
		if err := s.paymentRepo.UpdateTransferStatusFrom(ctx, payment.ID, payment.TransferStatus, domain.TransferStatusFailed, ""); err != nil && !errors.Is(err, domain.ErrConflict) {
			logger.Error("Failed to mark payout failed", "payment_id", payment.ID, "error", err)
		}
		return fmt.Errorf("host %d has no bank account on file: %w", payment.HostID, domain.ErrDataIntegrity)
	}

	if err := s.paymentRepo.UpdateTransferStatusFrom(ctx, payment.ID, payment.TransferStatus, domain.TransferStatusProcessing, ""); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Someone else claimed it between our read and write.
			return nil
		}
		return err
	}

	tr, err := s.transfers.CreateTransfer(ctx, transfer.CreateRequest{
		IdempotencyKey: payment.IdempotencyKey,
		Amount:         payment.Amount,
		Currency:       s.currency,
		RecipientName:  host.BankAccountHolder,
		RecipientIBAN:  host.IBAN,
		Description:    payment.Description,
	})
	if err != nil {
		// Release the claim so a later sweep retries with the same
		// idempotency key.
		if rerr := s.paymentRepo.UpdateTransferStatusFrom(ctx, payment.ID, domain.TransferStatusProcessing, domain.TransferStatusFailed, ""); rerr != nil {
			logger.Error("Failed to release payout claim", "payment_id", payment.ID, "error", rerr)
		}
		return fmt.Errorf("payout dispatch failed for payment %d: %w", payment.ID, err)
	}

	to := domain.TransferStatusProcessing
	if tr.Status == transfer.StatusCompleted {
		to = domain.TransferStatusCompleted
	}
	if err := s.paymentRepo.UpdateTransferStatusFrom(ctx, payment.ID, domain.TransferStatusProcessing, to, tr.ID); err != nil && !errors.Is(err, domain.ErrConflict) {
		return err
	}

	logger.Info("Payout dispatched", "payment_id", payment.ID, "transfer_id", tr.ID, "amount", payment.Amount)
	return nil
}

// DispatchPending dispatches every payment still waiting for a transfer,
// including earlier failures. Returns the number successfully dispatched.
func (s *payoutService) DispatchPending(ctx context.Context) (int, error) {
	payments, err := s.paymentRepo.ListByTransferStatus(ctx, domain.TransferStatusPending, domain.TransferStatusFailed)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, p := range payments {
		if err := s.Dispatch(ctx, p.ID); err != nil {
			logger.Error("Payout dispatch failed", "payment_id", p.ID, "error", err)
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

// RefreshProcessing polls the provider for in-flight transfers and applies
// terminal outcomes. Returns the number of payments whose status changed.
func (s *payoutService) RefreshProcessing(ctx context.Context) (int, error) {
	payments, err := s.paymentRepo.ListByTransferStatus(ctx, domain.TransferStatusProcessing)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, p := range payments {
		if p.TransferID == "" {
			continue
		}
		tr, err := s.transfers.GetTransfer(ctx, p.TransferID)
		if err != nil {
			logger.Error("Failed to poll transfer", "payment_id", p.ID, "transfer_id", p.TransferID, "error", err)
			continue
		}

		var to domain.TransferStatus
		switch tr.Status {
		case transfer.StatusCompleted:
			to = domain.TransferStatusCompleted
		case transfer.StatusFailed:
			to = domain.TransferStatusFailed
		default:
			continue
		}
		if err := s.paymentRepo.UpdateTransferStatusFrom(ctx, p.ID, domain.TransferStatusProcessing, to, ""); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			logger.Error("Failed to apply transfer status", "payment_id", p.ID, "error", err)
			continue
		}
		updated++
		logger.Info("Transfer status updated", "payment_id", p.ID, "transfer_id", p.TransferID, "status", to)
	}
	return updated, nil
}

// HandleTransferUpdate applies a provider webhook. Non-terminal statuses and
// updates for already-settled payments are ignored.
func (s *payoutService) HandleTransferUpdate(ctx context.Context, transferID string, status transfer.Status) error {
	payment, err := s.paymentRepo.GetByTransferID(ctx, transferID)
	if err != nil {
		return err
	}

	var to domain.TransferStatus
	switch status {
	case transfer.StatusCompleted:
		to = domain.TransferStatusCompleted
	case transfer.StatusFailed:
		to = domain.TransferStatusFailed
	default:
		return nil
	}

	if err := s.paymentRepo.UpdateTransferStatusFrom(ctx, payment.ID, domain.TransferStatusProcessing, to, ""); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Polling beat the webhook; the stored status is already terminal.
			return nil
		}
		return err
	}
	logger.Info("Transfer webhook applied", "payment_id", payment.ID, "transfer_id", transferID, "status", to)
	return nil
}
