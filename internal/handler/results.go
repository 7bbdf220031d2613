package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/labsalud/api/internal/database"
	"github.com/labsalud/api/internal/middleware"
	"github.com/labsalud/api/internal/service"
)

// ResultServicer defines the service methods needed by result handlers.
// Satisfied by *service.ResultService.
type ResultServicer interface {
	Capture(ctx context.Context, req service.CaptureResultRequest) (*database.Result, error)
}

// ResultHandler handles result capture endpoints.
type ResultHandler struct {
	svc ResultServicer
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(svc ResultServicer) *ResultHandler {
	return &ResultHandler{svc: svc}
}

// RegisterRoutes registers result endpoints on the given Chi router. The
// router is expected to be the orders subrouter.
func (h *ResultHandler) RegisterRoutes(r chi.Router) {
	r.Put("/{id}/items/{itemID}/result", h.Capture)
}

type captureResultRequest struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
	Notes string `json:"notes"`
}

// Capture handles PUT /orders/{id}/items/{itemID}/result. Captures or
// overwrites the draft result for the item; validated results are immutable.
func (h *ResultHandler) Capture(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	var req captureResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Capture(r.Context(), service.CaptureResultRequest{
		OrderID:    orderID,
		ItemID:     itemID,
		Value:      req.Value,
		Unit:       req.Unit,
		Notes:      req.Notes,
		CapturedBy: claims.UserID,
	})
	if err != nil {
		respondServiceError(w, "capture result", err)
		return
	}

	writeJSON(w, http.StatusOK, toResultResponse(*result))
}
