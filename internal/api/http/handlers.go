package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/logger"
	"shelfspace-backend/internal/service"
	"shelfspace-backend/internal/transfer"
)

// ClearanceHandler exposes the clearance command API.
type ClearanceHandler struct {
	clearanceSvc service.ClearanceService
	payoutSvc    service.PayoutService
}

func NewClearanceHandler(clearanceSvc service.ClearanceService, payoutSvc service.PayoutService) *ClearanceHandler {
	return &ClearanceHandler{
		clearanceSvc: clearanceSvc,
		payoutSvc:    payoutSvc,
	}
}

func (h *ClearanceHandler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := rentalIDFromPath(w, r)
	if !ok {
		return
	}

	breakdown, err := h.clearanceSvc.GetSettlement(r.Context(), rentalID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (h *ClearanceHandler) ApproveSettlement(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	rentalID, ok := rentalIDFromPath(w, r)
	if !ok {
		return
	}

	breakdown, err := h.clearanceSvc.ApproveSettlement(r.Context(), actor, rentalID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (h *ClearanceHandler) SubmitReturnShipment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	rentalID, ok := rentalIDFromPath(w, r)
	if !ok {
		return
	}

	var in service.ReturnShipmentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Carrier == "" || in.TrackingNumber == "" {
		writeError(w, http.StatusBadRequest, "carrier and tracking_number are required")
		return
	}

	clearance, err := h.clearanceSvc.SubmitReturnShipment(r.Context(), actor, rentalID, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clearance)
}

func (h *ClearanceHandler) ConfirmReturnReceipt(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	rentalID, ok := rentalIDFromPath(w, r)
	if !ok {
		return
	}

	var in service.ReturnReceiptInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	clearance, err := h.clearanceSvc.ConfirmReturnReceipt(r.Context(), actor, rentalID, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clearance)
}

func (h *ClearanceHandler) Close(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	rentalID, ok := rentalIDFromPath(w, r)
	if !ok {
		return
	}

	clearance, err := h.clearanceSvc.Close(r.Context(), actor, rentalID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clearance)
}

func (h *ClearanceHandler) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	rentalID, ok := rentalIDFromPath(w, r)
	if !ok {
		return
	}

	ref, err := h.clearanceSvc.GenerateDocument(r.Context(), rentalID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"document_id": ref})
}

// transferWebhookPayload is the provider's status callback body.
type transferWebhookPayload struct {
	TransferID string          `json:"transfer_id"`
	Status     transfer.Status `json:"status"`
}

func (h *ClearanceHandler) HandleTransferWebhook(w http.ResponseWriter, r *http.Request) {
	var payload transferWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.TransferID == "" {
		writeError(w, http.StatusBadRequest, "transfer_id is required")
		return
	}

	if err := h.payoutSvc.HandleTransferUpdate(r.Context(), payload.TransferID, payload.Status); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requireActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing caller identity")
		return domain.Actor{}, false
	}
	return actor, true
}

func rentalIDFromPath(w http.ResponseWriter, r *http.Request) (int32, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid rental id")
		return 0, false
	}
	return int32(id), true
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrPrecondition), errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
