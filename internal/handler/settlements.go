package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/labsalud/api/internal/auth"
	"github.com/labsalud/api/internal/middleware"
	"github.com/labsalud/api/internal/service"
)

// SettlementServicer defines the service methods needed by settlement
// handlers. Satisfied by *service.SettlementService.
type SettlementServicer interface {
	SettleBatch(ctx context.Context, actor *auth.Claims, orderIDs []string, channel string) (int64, error)
}

// SettlementHandler handles settlement endpoints.
type SettlementHandler struct {
	svc SettlementServicer
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(svc SettlementServicer) *SettlementHandler {
	return &SettlementHandler{svc: svc}
}

// RegisterRoutes registers settlement endpoints on the given Chi router.
func (h *SettlementHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Settle)
}

type settleRequest struct {
	OrderIDs      []string `json:"order_ids"`
	OriginChannel string   `json:"origin_channel"`
}

type settleResponse struct {
	SettledCount int64 `json:"settled_count"`
}

// Settle handles POST /settlements. Marks every eligible order in the batch
// as settled; already-settled and voided orders are skipped, so retrying the
// same batch reports zero without error.
func (h *SettlementHandler) Settle(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	count, err := h.svc.SettleBatch(r.Context(), claims, req.OrderIDs, req.OriginChannel)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
		case errors.Is(err, service.ErrInvalidChannel), errors.Is(err, service.ErrInvalidOrderID):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: settle orders: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, settleResponse{SettledCount: count})
}
