package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/logger"
	"shelfspace-backend/internal/repository"
	"shelfspace-backend/internal/settlement"
	"shelfspace-backend/internal/storage"
)

type clearanceService struct {
	rentalRepo    repository.RentalRepository
	clearanceRepo repository.ClearanceRepository
	paymentRepo   repository.PaymentRepository
	salesRepo     repository.SalesRepository
	productRepo   repository.ProductRepository
	profileRepo   repository.ProfileRepository
	overrideRepo  repository.CommissionOverrideRepository
	convRepo      repository.ConversationRepository
	docStore      storage.DocumentStore

	defaultPlatformRate float64
	taxRate             float64
}

func NewClearanceService(
	rentalRepo repository.RentalRepository,
	clearanceRepo repository.ClearanceRepository,
	paymentRepo repository.PaymentRepository,
	salesRepo repository.SalesRepository,
	productRepo repository.ProductRepository,
	profileRepo repository.ProfileRepository,
	overrideRepo repository.CommissionOverrideRepository,
	convRepo repository.ConversationRepository,
	docStore storage.DocumentStore,
	defaultPlatformRate, taxRate float64,
) ClearanceService {
	return &clearanceService{
		rentalRepo:          rentalRepo,
		clearanceRepo:       clearanceRepo,
		paymentRepo:         paymentRepo,
		salesRepo:           salesRepo,
		productRepo:         productRepo,
		profileRepo:         profileRepo,
		overrideRepo:        overrideRepo,
		convRepo:            convRepo,
		docStore:            docStore,
		defaultPlatformRate: defaultPlatformRate,
		taxRate:             taxRate,
	}
}

func (s *clearanceService) Initiate(ctx context.Context, rentalID int32) (*domain.Clearance, error) {
	existing, err := s.clearanceRepo.GetByRentalID(ctx, rentalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.Status != domain.RentalStatusCompleted {
		return nil, fmt.Errorf("rental %d is %s, not completed: %w", rentalID, rt.Status, domain.ErrPrecondition)
	}

	snapshot, err := s.buildSnapshot(ctx, rt)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	clearance := &domain.Clearance{
		RentalID:    rentalID,
		Status:      domain.ClearanceStageInitiated,
		InitiatedAt: now,
		PaymentIDs:  []int32{},
	}
	if err := s.clearanceRepo.Create(ctx, clearance); err != nil {
		return nil, err
	}

	if err := s.clearanceRepo.AdvanceStage(ctx, clearance.ID,
		domain.ClearanceStageInitiated, domain.ClearanceStagePendingInventoryCheck, now); err != nil {
		return nil, err
	}
	clearance.Status = domain.ClearanceStagePendingInventoryCheck

	stage := domain.ClearanceStagePendingInventoryCheck
	rt.ClearanceStatus = &stage
	rt.FinalSnapshot = snapshot
	if err := s.rentalRepo.UpdateClearance(ctx, rt); err != nil {
		return nil, err
	}

	s.notify(ctx, rt.ConversationID, "The final inventory snapshot has been taken. The settlement is awaiting approval.")
	logger.Info("Clearance initiated", "rental_id", rentalID, "clearance_id", clearance.ID, "snapshot_lines", len(snapshot))
	return clearance, nil
}

// buildSnapshot freezes the sold/remaining split from the booking-time
// manifest and the sales ledger.
func (s *clearanceService) buildSnapshot(ctx context.Context, rt *domain.Rental) ([]domain.SnapshotLine, error) {
	ids := make([]int32, 0, len(rt.InitialProducts))
	for _, line := range rt.InitialProducts {
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sales, err := s.salesRepo.ListByProductsAndPeriod(ctx, ids, rt.StartDate, rt.EndDate)
	if err != nil {
		return nil, err
	}
	return settlement.BuildSnapshot(rt.InitialProducts, products, sales, rt.StartDate, rt.EndDate, s.taxRate)
}

func (s *clearanceService) ApproveSettlement(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.SettlementBreakdown, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("settlement approval requires an administrator: %w", domain.ErrUnauthorized)
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	clearance, err := s.clearanceRepo.GetByRentalID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	switch clearance.Status {
	case domain.ClearanceStagePendingInventoryCheck:
	case domain.ClearanceStageSettlementApproved:
		// A failure between the approval write and payment completion
		// strands the clearance here with no other command able to move it.
		// Re-approving resumes the interrupted half instead of rejecting.
		return s.resumeApprovedSettlement(ctx, rt, clearance)
	default:
		return nil, fmt.Errorf("clearance %d is in stage %s: %w", clearance.ID, clearance.Status, domain.ErrPrecondition)
	}
	if rt.FinalSnapshot == nil {
		return nil, fmt.Errorf("rental %d has no inventory snapshot: %w", rentalID, domain.ErrPrecondition)
	}

	platformRate, hostRate, err := s.resolveRates(ctx, rt)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	breakdown := settlement.Calculate(rt.FinalSnapshot, platformRate, hostRate, now)

	if err := s.clearanceRepo.AdvanceStage(ctx, clearance.ID,
		domain.ClearanceStagePendingInventoryCheck, domain.ClearanceStageSettlementApproved, now); err != nil {
		return nil, err
	}
	clearance.Status = domain.ClearanceStageSettlementApproved

	stage := domain.ClearanceStageSettlementApproved
	rt.ClearanceStatus = &stage
	rt.Settlement = &breakdown
	if err := s.rentalRepo.UpdateClearance(ctx, rt); err != nil {
		return nil, err
	}

	if err := s.completePayment(ctx, rt, clearance, &breakdown); err != nil {
		return nil, err
	}

	// Document generation is an external side effect; the committed stages
	// above stand regardless of its outcome and it can be retried later.
	if _, err := s.GenerateDocument(ctx, rentalID); err != nil {
		logger.Error("Failed to generate clearance document", "rental_id", rentalID, "error", err)
	}

	s.notify(ctx, rt.ConversationID, fmt.Sprintf(
		"Settlement approved: total sales %.2f, tenant payout %.2f, host commission %.2f.",
		breakdown.TotalSales, breakdown.TenantTotalAmount, breakdown.HostCommissionAmount))
	logger.Info("Settlement approved", "rental_id", rentalID, "total_sales", breakdown.TotalSales)
	return &breakdown, nil
}

// resolveRates applies the platform-rate fallback chain (per-rental override,
// then the rate stored on the rental, then the configured default) and reads
// the host rate off the rental.
func (s *clearanceService) resolveRates(ctx context.Context, rt *domain.Rental) (float64, float64, error) {
	override, err := s.overrideRepo.GetPlatformRateOverride(ctx, rt.ID)
	if err != nil {
		return 0, 0, err
	}
	return settlement.ResolvePlatformRate(override, rt.PlatformRate(), s.defaultPlatformRate), rt.HostRate(), nil
}

// resumeApprovedSettlement finishes an approval that stopped partway: the
// SETTLEMENT_APPROVED write landed but the payment stage never did. The
// breakdown is recomputed from the frozen snapshot when the earlier attempt
// died before persisting it; the inputs have not changed since, so the result
// is identical.
func (s *clearanceService) resumeApprovedSettlement(ctx context.Context, rt *domain.Rental, clearance *domain.Clearance) (*domain.SettlementBreakdown, error) {
	if rt.Settlement == nil {
		if rt.FinalSnapshot == nil {
			return nil, fmt.Errorf("rental %d has no inventory snapshot: %w", rt.ID, domain.ErrPrecondition)
		}
		platformRate, hostRate, err := s.resolveRates(ctx, rt)
		if err != nil {
			return nil, err
		}
		breakdown := settlement.Calculate(rt.FinalSnapshot, platformRate, hostRate, time.Now())

		stage := domain.ClearanceStageSettlementApproved
		rt.ClearanceStatus = &stage
		rt.Settlement = &breakdown
		if err := s.rentalRepo.UpdateClearance(ctx, rt); err != nil {
			return nil, err
		}
	}

	if err := s.completePayment(ctx, rt, clearance, rt.Settlement); err != nil {
		return nil, err
	}

	if _, err := s.GenerateDocument(ctx, rt.ID); err != nil {
		logger.Error("Failed to generate clearance document", "rental_id", rt.ID, "error", err)
	}

	logger.Info("Settlement approval resumed", "rental_id", rt.ID, "clearance_id", clearance.ID)
	return rt.Settlement, nil
}

// completePayment records the host payout and advances to PAYMENT_COMPLETED.
// A zero commission still completes the stage, just without a payment record.
// The actual money movement is handled asynchronously by the payout
// dispatcher.
func (s *clearanceService) completePayment(ctx context.Context, rt *domain.Rental, clearance *domain.Clearance, breakdown *domain.SettlementBreakdown) error {
	now := time.Now()
	// PaymentIDs non-empty means an earlier attempt already recorded the
	// payout before dying; only the stage advance is still owed.
	if breakdown.HostCommissionAmount > 0 && len(clearance.PaymentIDs) == 0 {
		payment := &domain.Payment{
			RentalID:       rt.ID,
			ClearanceID:    clearance.ID,
			HostID:         rt.HostID,
			Amount:         breakdown.HostCommissionAmount,
			Description:    fmt.Sprintf("Host commission for rental %d", rt.ID),
			Status:         domain.PaymentStatusCompleted,
			TransferStatus: domain.TransferStatusPending,
			IdempotencyKey: uuid.NewString(),
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		if err := s.clearanceRepo.AddPaymentID(ctx, clearance.ID, payment.ID); err != nil {
			return err
		}
		clearance.PaymentIDs = append(clearance.PaymentIDs, payment.ID)
	}

	if err := s.clearanceRepo.AdvanceStage(ctx, clearance.ID,
		domain.ClearanceStageSettlementApproved, domain.ClearanceStagePaymentCompleted, now); err != nil {
		return err
	}
	clearance.Status = domain.ClearanceStagePaymentCompleted

	stage := domain.ClearanceStagePaymentCompleted
	rt.ClearanceStatus = &stage
	return s.rentalRepo.UpdateClearance(ctx, rt)
}

func (s *clearanceService) SubmitReturnShipment(ctx context.Context, actor domain.Actor, rentalID int32, in ReturnShipmentInput) (*domain.Clearance, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if actor.ProfileID != rt.HostID {
		return nil, fmt.Errorf("only the host may submit the return shipment: %w", domain.ErrUnauthorized)
	}

	clearance, err := s.clearanceRepo.GetByRentalID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if clearance.Status != domain.ClearanceStagePaymentCompleted {
		return nil, fmt.Errorf("clearance %d is in stage %s: %w", clearance.ID, clearance.Status, domain.ErrPrecondition)
	}

	now := time.Now()
	if err := s.clearanceRepo.AdvanceStage(ctx, clearance.ID,
		domain.ClearanceStagePaymentCompleted, domain.ClearanceStageReturnShipped, now); err != nil {
		return nil, err
	}
	clearance.Status = domain.ClearanceStageReturnShipped
	clearance.ReturnShippedAt = &now

	stage := domain.ClearanceStageReturnShipped
	rt.ClearanceStatus = &stage
	rt.ReturnShipment = &domain.ReturnShipment{
		Carrier:        in.Carrier,
		TrackingNumber: in.TrackingNumber,
		ShippedAt:      now,
	}
	if err := s.rentalRepo.UpdateClearance(ctx, rt); err != nil {
		return nil, err
	}

	s.notify(ctx, rt.ConversationID, fmt.Sprintf("The remaining inventory was shipped back via %s (tracking %s).", in.Carrier, in.TrackingNumber))
	return clearance, nil
}

func (s *clearanceService) ConfirmReturnReceipt(ctx context.Context, actor domain.Actor, rentalID int32, in ReturnReceiptInput) (*domain.Clearance, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if actor.ProfileID != rt.TenantID {
		return nil, fmt.Errorf("only the tenant may confirm the return receipt: %w", domain.ErrUnauthorized)
	}

	clearance, err := s.clearanceRepo.GetByRentalID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if clearance.Status != domain.ClearanceStageReturnShipped {
		return nil, fmt.Errorf("clearance %d is in stage %s: %w", clearance.ID, clearance.Status, domain.ErrPrecondition)
	}

	now := time.Now()
	if err := s.clearanceRepo.AdvanceStage(ctx, clearance.ID,
		domain.ClearanceStageReturnShipped, domain.ClearanceStageReturnReceived, now); err != nil {
		return nil, err
	}
	clearance.Status = domain.ClearanceStageReturnReceived
	clearance.ReturnReceivedAt = &now

	stage := domain.ClearanceStageReturnReceived
	rt.ClearanceStatus = &stage
	if rt.ReturnShipment == nil {
		rt.ReturnShipment = &domain.ReturnShipment{}
	}
	rt.ReturnShipment.ReceivedAt = &now
	rt.ReturnShipment.Condition = in.Condition
	rt.ReturnShipment.PhotoURLs = in.PhotoURLs
	if err := s.rentalRepo.UpdateClearance(ctx, rt); err != nil {
		return nil, err
	}

	s.notify(ctx, rt.ConversationID, "The tenant confirmed receipt of the returned inventory.")
	return clearance, nil
}

func (s *clearanceService) Close(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.Clearance, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("closing a clearance requires an administrator: %w", domain.ErrUnauthorized)
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	clearance, err := s.clearanceRepo.GetByRentalID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	// Closing requires the full conjunction: frozen settlement, recorded
	// payments readable, return received, document generated.
	if rt.Settlement == nil {
		return nil, fmt.Errorf("settlement not approved for rental %d: %w", rentalID, domain.ErrPrecondition)
	}
	if _, err := s.paymentRepo.ListByRental(ctx, rentalID); err != nil {
		return nil, err
	}
	if clearance.Status != domain.ClearanceStageReturnReceived {
		return nil, fmt.Errorf("clearance %d is in stage %s, return not yet received: %w", clearance.ID, clearance.Status, domain.ErrPrecondition)
	}
	if clearance.DocumentID == nil {
		return nil, fmt.Errorf("clearance document not yet generated for rental %d: %w", rentalID, domain.ErrPrecondition)
	}

	now := time.Now()
	if err := s.clearanceRepo.AdvanceStage(ctx, clearance.ID,
		domain.ClearanceStageReturnReceived, domain.ClearanceStageClosed, now); err != nil {
		return nil, err
	}
	clearance.Status = domain.ClearanceStageClosed
	clearance.ClosedAt = &now

	stage := domain.ClearanceStageClosed
	rt.ClearanceStatus = &stage
	if err := s.rentalRepo.UpdateClearance(ctx, rt); err != nil {
		return nil, err
	}

	s.notify(ctx, rt.ConversationID, "The clearance has been closed. Thank you!")
	logger.Info("Clearance closed", "rental_id", rentalID, "clearance_id", clearance.ID)
	return clearance, nil
}

func (s *clearanceService) GetSettlement(ctx context.Context, rentalID int32) (*domain.SettlementBreakdown, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.FinalSnapshot == nil {
		return nil, fmt.Errorf("rental %d has no inventory snapshot: %w", rentalID, domain.ErrPrecondition)
	}
	if rt.Settlement == nil {
		return nil, fmt.Errorf("settlement not yet approved for rental %d: %w", rentalID, domain.ErrPrecondition)
	}
	return rt.Settlement, nil
}

// clearanceDocument is the generated closeout summary stored for both
// parties' records.
type clearanceDocument struct {
	RentalID    int32                      `json:"rental_id"`
	HostName    string                     `json:"host_name"`
	TenantName  string                     `json:"tenant_name"`
	StartDate   time.Time                  `json:"start_date"`
	EndDate     time.Time                  `json:"end_date"`
	Snapshot    []domain.SnapshotLine      `json:"snapshot"`
	Settlement  domain.SettlementBreakdown `json:"settlement"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

func (s *clearanceService) GenerateDocument(ctx context.Context, rentalID int32) (string, error) {
	clearance, err := s.clearanceRepo.GetByRentalID(ctx, rentalID)
	if err != nil {
		return "", err
	}
	if clearance.DocumentID != nil {
		return *clearance.DocumentID, nil
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return "", err
	}
	if rt.Settlement == nil {
		return "", fmt.Errorf("settlement not approved for rental %d: %w", rentalID, domain.ErrPrecondition)
	}

	host, err := s.profileRepo.GetByID(ctx, rt.HostID)
	if err != nil {
		return "", err
	}
	tenant, err := s.profileRepo.GetByID(ctx, rt.TenantID)
	if err != nil {
		return "", err
	}

	doc := clearanceDocument{
		RentalID:    rt.ID,
		HostName:    host.Name,
		TenantName:  tenant.Name,
		StartDate:   rt.StartDate,
		EndDate:     rt.EndDate,
		Snapshot:    rt.FinalSnapshot,
		Settlement:  *rt.Settlement,
		GeneratedAt: time.Now(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("clearances/rental-%d-%s.json", rentalID, uuid.NewString())
	ref, err := s.docStore.Store(ctx, key, data, "application/json")
	if err != nil {
		return "", fmt.Errorf("failed to store clearance document: %w", err)
	}

	if err := s.clearanceRepo.SetDocumentID(ctx, clearance.ID, ref); err != nil {
		return "", err
	}
	rt.ClearanceDocumentID = &ref
	if err := s.rentalRepo.UpdateClearance(ctx, rt); err != nil {
		return "", err
	}

	logger.Info("Clearance document generated", "rental_id", rentalID, "reference", ref)
	return ref, nil
}

func (s *clearanceService) notify(ctx context.Context, conversationID int32, body string) {
	if err := s.convRepo.AppendSystemMessage(ctx, conversationID, body); err != nil {
		logger.Error("Failed to append system message", "conversation_id", conversationID, "error", err)
	}
}
