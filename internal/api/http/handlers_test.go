package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/security"
	"shelfspace-backend/internal/service"
	"shelfspace-backend/internal/transfer"
)

// stubClearanceService returns canned results so the tests exercise routing,
// auth, and error mapping rather than business logic.
type stubClearanceService struct {
	breakdown *domain.SettlementBreakdown
	clearance *domain.Clearance
	err       error
}

func (s *stubClearanceService) Initiate(ctx context.Context, rentalID int32) (*domain.Clearance, error) {
	return s.clearance, s.err
}
func (s *stubClearanceService) ApproveSettlement(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.SettlementBreakdown, error) {
	return s.breakdown, s.err
}
func (s *stubClearanceService) SubmitReturnShipment(ctx context.Context, actor domain.Actor, rentalID int32, in service.ReturnShipmentInput) (*domain.Clearance, error) {
	return s.clearance, s.err
}
func (s *stubClearanceService) ConfirmReturnReceipt(ctx context.Context, actor domain.Actor, rentalID int32, in service.ReturnReceiptInput) (*domain.Clearance, error) {
	return s.clearance, s.err
}
func (s *stubClearanceService) Close(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.Clearance, error) {
	return s.clearance, s.err
}
func (s *stubClearanceService) GetSettlement(ctx context.Context, rentalID int32) (*domain.SettlementBreakdown, error) {
	return s.breakdown, s.err
}
func (s *stubClearanceService) GenerateDocument(ctx context.Context, rentalID int32) (string, error) {
	return "clearances/doc.json", s.err
}

type stubPayoutService struct {
	err error
}

func (s *stubPayoutService) Dispatch(ctx context.Context, paymentID int32) error   { return s.err }
func (s *stubPayoutService) DispatchPending(ctx context.Context) (int, error)      { return 0, s.err }
func (s *stubPayoutService) RefreshProcessing(ctx context.Context) (int, error)    { return 0, s.err }
func (s *stubPayoutService) HandleTransferUpdate(ctx context.Context, transferID string, status transfer.Status) error {
	return s.err
}

type stubLifecycleService struct {
	result service.LifecycleSweepResult
}

func (s *stubLifecycleService) RunSweep(ctx context.Context, now time.Time) service.LifecycleSweepResult {
	return s.result
}

type stubReminderService struct {
	result service.ReminderSweepResult
}

func (s *stubReminderService) RunSweep(ctx context.Context, now time.Time) service.ReminderSweepResult {
	return s.result
}

const routerTestSecret = "router-test-secret-32-characters-xx"

func newTestRouter(clearanceSvc service.ClearanceService, payoutSvc service.PayoutService) (http.Handler, security.TokenManager) {
	tokens := security.NewTokenManager(routerTestSecret)
	lifecycleSvc := &stubLifecycleService{result: service.LifecycleSweepResult{Activated: 2, Expired: 1}}
	reminderSvc := &stubReminderService{result: service.ReminderSweepResult{ExpiryReminders: 3}}
	return NewRouter(clearanceSvc, payoutSvc, lifecycleSvc, reminderSvc, tokens), tokens
}

func TestRouter_Auth(t *testing.T) {
	router, tokens := newTestRouter(&stubClearanceService{breakdown: &domain.SettlementBreakdown{TotalSales: 500}}, &stubPayoutService{})

	t.Run("Missing token is rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/rentals/1/settlement", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Valid token passes through", func(t *testing.T) {
		token, err := tokens.GenerateToken(99, domain.ActorRoleAdmin)
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/v1/rentals/1/settlement", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total_sales":500`)
	})

	t.Run("Health check is open", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/healthz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"Not found maps to 404", domain.ErrNotFound, http.StatusNotFound},
		{"Unauthorized maps to 403", domain.ErrUnauthorized, http.StatusForbidden},
		{"Precondition maps to 409", domain.ErrPrecondition, http.StatusConflict},
		{"Conflict maps to 409", domain.ErrConflict, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, tokens := newTestRouter(&stubClearanceService{err: tc.err}, &stubPayoutService{})
			token, _ := tokens.GenerateToken(99, domain.ActorRoleAdmin)

			req := httptest.NewRequest("POST", "/api/v1/rentals/1/settlement/approve", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRouter_ShipmentValidation(t *testing.T) {
	router, tokens := newTestRouter(&stubClearanceService{clearance: &domain.Clearance{ID: 9}}, &stubPayoutService{})
	token, _ := tokens.GenerateToken(10, domain.ActorRoleProfile)

	t.Run("Missing tracking number is a bad request", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/rentals/1/clearance/shipment", strings.NewReader(`{"carrier":"DHL"}`))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Valid body succeeds", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/rentals/1/clearance/shipment", strings.NewReader(`{"carrier":"DHL","tracking_number":"X1"}`))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Non-numeric rental id is a bad request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/rentals/abc/settlement", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_SweepTriggers(t *testing.T) {
	router, tokens := newTestRouter(&stubClearanceService{}, &stubPayoutService{})

	t.Run("Missing token is rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/internal/sweeps/lifecycle", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Non-admin token is rejected", func(t *testing.T) {
		token, _ := tokens.GenerateToken(10, domain.ActorRoleProfile)

		req := httptest.NewRequest("POST", "/internal/sweeps/lifecycle", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Admin triggers the lifecycle sweep", func(t *testing.T) {
		token, _ := tokens.GenerateToken(99, domain.ActorRoleAdmin)

		req := httptest.NewRequest("POST", "/internal/sweeps/lifecycle", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"activated":2`)
		assert.Contains(t, rec.Body.String(), `"expired":1`)
	})

	t.Run("Admin triggers the reminder sweep", func(t *testing.T) {
		token, _ := tokens.GenerateToken(99, domain.ActorRoleAdmin)

		req := httptest.NewRequest("POST", "/internal/sweeps/reminders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"expiry_reminders":3`)
	})
}

func TestRouter_TransferWebhook(t *testing.T) {
	router, _ := newTestRouter(&stubClearanceService{}, &stubPayoutService{})

	t.Run("Webhook needs no token", func(t *testing.T) {
		body := `{"transfer_id":"tr-1","status":"completed"}`
		req := httptest.NewRequest("POST", "/api/v1/webhooks/transfers", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("Missing transfer id is a bad request", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/webhooks/transfers", strings.NewReader(`{"status":"completed"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
