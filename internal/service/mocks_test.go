package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/service"
	"shelfspace-backend/internal/transfer"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) UpdateStatusFrom(ctx context.Context, id int32, from, to domain.RentalStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockRentalRepo) UpdateClearance(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}

// MockClearanceRepo
type MockClearanceRepo struct {
	mock.Mock
}

func (m *MockClearanceRepo) Create(ctx context.Context, clearance *domain.Clearance) error {
	args := m.Called(ctx, clearance)
	return args.Error(0)
}
func (m *MockClearanceRepo) GetByID(ctx context.Context, id int32) (*domain.Clearance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Clearance), args.Error(1)
}
func (m *MockClearanceRepo) GetByRentalID(ctx context.Context, rentalID int32) (*domain.Clearance, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Clearance), args.Error(1)
}
func (m *MockClearanceRepo) AdvanceStage(ctx context.Context, id int32, from, to domain.ClearanceStage, at time.Time) error {
	args := m.Called(ctx, id, from, to, at)
	return args.Error(0)
}
func (m *MockClearanceRepo) AddPaymentID(ctx context.Context, id, paymentID int32) error {
	args := m.Called(ctx, id, paymentID)
	return args.Error(0)
}
func (m *MockClearanceRepo) SetDocumentID(ctx context.Context, id int32, documentID string) error {
	args := m.Called(ctx, id, documentID)
	return args.Error(0)
}
func (m *MockClearanceRepo) ListOpen(ctx context.Context) ([]domain.Clearance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Clearance), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) GetByTransferID(ctx context.Context, transferID string) (*domain.Payment, error) {
	args := m.Called(ctx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListByTransferStatus(ctx context.Context, statuses ...domain.TransferStatus) ([]domain.Payment, error) {
	callArgs := make([]interface{}, 0, len(statuses)+1)
	callArgs = append(callArgs, ctx)
	for _, s := range statuses {
		callArgs = append(callArgs, s)
	}
	args := m.Called(callArgs...)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) UpdateTransferStatusFrom(ctx context.Context, id int32, from, to domain.TransferStatus, transferID string) error {
	args := m.Called(ctx, id, from, to, transferID)
	return args.Error(0)
}

// MockSalesRepo
type MockSalesRepo struct {
	mock.Mock
}

func (m *MockSalesRepo) ListByProductsAndPeriod(ctx context.Context, productIDs []int32, from, to time.Time) ([]domain.SaleLine, error) {
	args := m.Called(ctx, productIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SaleLine), args.Error(1)
}

// MockProductRepo
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) GetByIDs(ctx context.Context, ids []int32) (map[int32]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int32]domain.Product), args.Error(1)
}

// MockProfileRepo
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id int32) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// MockOverrideRepo
type MockOverrideRepo struct {
	mock.Mock
}

func (m *MockOverrideRepo) GetPlatformRateOverride(ctx context.Context, rentalID int32) (*float64, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

// MockConversationRepo
type MockConversationRepo struct {
	mock.Mock
}

func (m *MockConversationRepo) AppendSystemMessage(ctx context.Context, conversationID int32, body string) error {
	args := m.Called(ctx, conversationID, body)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

// MockDocumentStore
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}
func (m *MockDocumentStore) Retrieve(ctx context.Context, reference string) ([]byte, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockDocumentStore) Exists(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}

// MockTransferClient
type MockTransferClient struct {
	mock.Mock
}

func (m *MockTransferClient) CreateTransfer(ctx context.Context, req transfer.CreateRequest) (*transfer.Transfer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.Transfer), args.Error(1)
}
func (m *MockTransferClient) GetTransfer(ctx context.Context, id string) (*transfer.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.Transfer), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendExpiryReminder(ctx context.Context, email, name string, rentalID int32, daysLeft int) error {
	args := m.Called(ctx, email, name, rentalID, daysLeft)
	return args.Error(0)
}
func (m *MockEmailService) SendPaymentReminder(ctx context.Context, email, name string, rentalID int32) error {
	args := m.Called(ctx, email, name, rentalID)
	return args.Error(0)
}
func (m *MockEmailService) SendClearanceNudge(ctx context.Context, email, name string, rentalID int32, stage domain.ClearanceStage) error {
	args := m.Called(ctx, email, name, rentalID, stage)
	return args.Error(0)
}

// MockClearanceService
type MockClearanceService struct {
	mock.Mock
}

func (m *MockClearanceService) Initiate(ctx context.Context, rentalID int32) (*domain.Clearance, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Clearance), args.Error(1)
}
func (m *MockClearanceService) ApproveSettlement(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.SettlementBreakdown, error) {
	args := m.Called(ctx, actor, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementBreakdown), args.Error(1)
}
func (m *MockClearanceService) SubmitReturnShipment(ctx context.Context, actor domain.Actor, rentalID int32, in service.ReturnShipmentInput) (*domain.Clearance, error) {
	args := m.Called(ctx, actor, rentalID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Clearance), args.Error(1)
}
func (m *MockClearanceService) ConfirmReturnReceipt(ctx context.Context, actor domain.Actor, rentalID int32, in service.ReturnReceiptInput) (*domain.Clearance, error) {
	args := m.Called(ctx, actor, rentalID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Clearance), args.Error(1)
}
func (m *MockClearanceService) Close(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.Clearance, error) {
	args := m.Called(ctx, actor, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Clearance), args.Error(1)
}
func (m *MockClearanceService) GetSettlement(ctx context.Context, rentalID int32) (*domain.SettlementBreakdown, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementBreakdown), args.Error(1)
}
func (m *MockClearanceService) GenerateDocument(ctx context.Context, rentalID int32) (string, error) {
	args := m.Called(ctx, rentalID)
	return args.String(0), args.Error(1)
}
