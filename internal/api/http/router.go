package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"shelfspace-backend/internal/security"
	"shelfspace-backend/internal/service"
)

// NewRouter wires the clearance command API. The transfer webhook and health
// check are unauthenticated; everything else requires a bearer token.
func NewRouter(
	clearanceSvc service.ClearanceService,
	payoutSvc service.PayoutService,
	lifecycleSvc service.LifecycleService,
	reminderSvc service.ReminderService,
	tokens security.TokenManager,
) *mux.Router {
	handler := NewClearanceHandler(clearanceSvc, payoutSvc)
	sweeps := NewSweepHandler(lifecycleSvc, reminderSvc)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	router.HandleFunc("/api/v1/webhooks/transfers", handler.HandleTransferWebhook).Methods("POST")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))
	api.HandleFunc("/rentals/{id}/settlement", handler.GetSettlement).Methods("GET")
	api.HandleFunc("/rentals/{id}/settlement/approve", handler.ApproveSettlement).Methods("POST")
	api.HandleFunc("/rentals/{id}/clearance/shipment", handler.SubmitReturnShipment).Methods("POST")
	api.HandleFunc("/rentals/{id}/clearance/receipt", handler.ConfirmReturnReceipt).Methods("POST")
	api.HandleFunc("/rentals/{id}/clearance/close", handler.Close).Methods("POST")
	api.HandleFunc("/rentals/{id}/clearance/document", handler.GenerateDocument).Methods("POST")

	internal := router.PathPrefix("/internal").Subrouter()
	internal.Use(AuthMiddleware(tokens))
	internal.HandleFunc("/sweeps/lifecycle", sweeps.RunLifecycleSweep).Methods("POST")
	internal.HandleFunc("/sweeps/reminders", sweeps.RunReminderSweep).Methods("POST")

	return router
}
