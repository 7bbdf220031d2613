package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labsalud/api/internal/database"
	"github.com/labsalud/api/internal/middleware"
	"github.com/labsalud/api/internal/service"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, target string) (*database.Order, error)
	AddItem(ctx context.Context, orderID uuid.UUID, testID string) (*service.AddItemResult, error)
	RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*database.Order, error)
}

// OrderReadStore defines the database read methods needed by order handlers.
// Satisfied by *database.Queries.
type OrderReadStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderItemsByOrderRow, error)
	ListResultsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Result, error)
}

// OrderHandler handles order lifecycle endpoints.
type OrderHandler struct {
	svc   OrderServicer
	store OrderReadStore
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, store OrderReadStore) *OrderHandler {
	return &OrderHandler{svc: svc, store: store}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}/status", h.UpdateStatus)
	r.Post("/{id}/items", h.AddItem)
	r.Delete("/{id}/items/{itemID}", h.RemoveItem)
}

// --- Request / Response types ---

type createOrderRequest struct {
	PatientID     string   `json:"patient_id"`
	OriginChannel string   `json:"origin_channel"`
	TestIDs       []string `json:"test_ids"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

type addOrderItemRequest struct {
	TestID string `json:"test_id"`
}

type orderResponse struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	PatientID     uuid.UUID  `json:"patient_id"`
	Status        string     `json:"status"`
	OriginChannel string     `json:"origin_channel"`
	TotalPrice    string     `json:"total_price"`
	SettledAt     *time.Time `json:"settled_at"`
	Alert         string     `json:"alert"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type orderItemResponse struct {
	ID            uuid.UUID `json:"id"`
	TestID        uuid.UUID `json:"test_id"`
	TestCode      string    `json:"test_code"`
	TestName      string    `json:"test_name"`
	PriceSnapshot string    `json:"price_snapshot"`
	CreatedAt     time.Time `json:"created_at"`
}

type resultResponse struct {
	ID          uuid.UUID  `json:"id"`
	ItemID      uuid.UUID  `json:"item_id"`
	Value       string     `json:"value"`
	Unit        *string    `json:"unit"`
	Notes       *string    `json:"notes"`
	IsDraft     bool       `json:"is_draft"`
	CapturedBy  uuid.UUID  `json:"captured_by"`
	CapturedAt  time.Time  `json:"captured_at"`
	ValidatedAt *time.Time `json:"validated_at"`
}

type orderDetailResponse struct {
	orderResponse
	Items   []orderItemResponse `json:"items"`
	Results []resultResponse    `json:"results"`
}

func toOrderResponse(o database.Order, now time.Time) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		Code:          o.Code,
		PatientID:     o.PatientID,
		Status:        string(o.Status),
		OriginChannel: string(o.OriginChannel),
		TotalPrice:    numericToString(o.TotalPrice),
		Alert:         service.ClassifyAlert(string(o.Status), o.CreatedAt, now),
		CreatedBy:     o.CreatedBy,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.SettledAt.Valid {
		resp.SettledAt = &o.SettledAt.Time
	}
	return resp
}

func toOrderItemResponse(i database.ListOrderItemsByOrderRow) orderItemResponse {
	return orderItemResponse{
		ID:            i.ID,
		TestID:        i.TestID,
		TestCode:      i.TestCode,
		TestName:      i.TestName,
		PriceSnapshot: numericToString(i.PriceSnapshot),
		CreatedAt:     i.CreatedAt,
	}
}

func toResultResponse(r database.Result) resultResponse {
	resp := resultResponse{
		ID:         r.ID,
		ItemID:     r.ItemID,
		Value:      r.Value,
		IsDraft:    r.IsDraft,
		CapturedBy: r.CapturedBy,
		CapturedAt: r.CapturedAt,
	}
	if r.Unit.Valid {
		resp.Unit = &r.Unit.String
	}
	if r.Notes.Valid {
		resp.Notes = &r.Notes.String
	}
	if r.ValidatedAt.Valid {
		resp.ValidatedAt = &r.ValidatedAt.Time
	}
	return resp
}

// --- Handlers ---

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		PatientID:     req.PatientID,
		OriginChannel: req.OriginChannel,
		CreatedBy:     claims.UserID,
		TestIDs:       req.TestIDs,
	})
	if err != nil {
		respondServiceError(w, "create order", err)
		return
	}

	now := time.Now()
	resp := orderDetailResponse{
		orderResponse: toOrderResponse(result.Order, now),
		Items:         make([]orderItemResponse, len(result.Items)),
		Results:       []resultResponse{},
	}
	for i, item := range result.Items {
		resp.Items[i] = orderItemResponse{
			ID:            item.ID,
			TestID:        item.TestID,
			PriceSnapshot: numericToString(item.PriceSnapshot),
			CreatedAt:     item.CreatedAt,
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /orders with optional status, patient, date range, and
// pagination filters. Each row carries its computed alert level.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	params := database.ListOrdersParams{Limit: 20}

	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			params.Limit = int32(v)
		}
	}
	if params.Limit > 100 {
		params.Limit = 100
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			params.Offset = int32(v)
		}
	}

	if s := r.URL.Query().Get("status"); s != "" {
		status := database.OrderStatus(s)
		if !isValidStatusFilter(status) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
			return
		}
		params.Status = database.NullOrderStatus{OrderStatus: status, Valid: true}
	}

	if s := r.URL.Query().Get("patient_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid patient_id filter"})
			return
		}
		params.PatientID = pgtype.UUID{Bytes: id, Valid: true}
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date, use YYYY-MM-DD"})
			return
		}
		params.StartDate = pgtype.Timestamptz{Time: t, Valid: true}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date, use YYYY-MM-DD"})
			return
		}
		params.EndDate = pgtype.Timestamptz{Time: t.AddDate(0, 0, 1), Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	now := time.Now()
	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o, now)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /orders/{id}, returning the order with its items and any
// captured results.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: list order items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	results, err := h.store.ListResultsByOrder(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: list order results: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := orderDetailResponse{
		orderResponse: toOrderResponse(order, time.Now()),
		Items:         make([]orderItemResponse, len(items)),
		Results:       make([]resultResponse, len(results)),
	}
	for i, item := range items {
		resp.Items[i] = toOrderItemResponse(item)
	}
	for i, res := range results {
		resp.Results[i] = toResultResponse(res)
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus handles PUT /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	order, err := h.svc.AdvanceStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(w, "update order status", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(*order, time.Now()))
}

// AddItem handles POST /orders/{id}/items.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req addOrderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.TestID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "test_id is required"})
		return
	}

	result, err := h.svc.AddItem(r.Context(), id, req.TestID)
	if err != nil {
		respondServiceError(w, "add order item", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"item": orderItemResponse{
			ID:            result.Item.ID,
			TestID:        result.Item.TestID,
			PriceSnapshot: numericToString(result.Item.PriceSnapshot),
			CreatedAt:     result.Item.CreatedAt,
		},
		"order": toOrderResponse(result.Order, time.Now()),
	})
}

// RemoveItem handles DELETE /orders/{id}/items/{itemID}.
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	order, err := h.svc.RemoveItem(r.Context(), id, itemID)
	if err != nil {
		respondServiceError(w, "remove order item", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(*order, time.Now()))
}

// --- Helpers ---

// respondServiceError maps order/result service errors onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrPatientNotFound),
		errors.Is(err, service.ErrTestNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrOrderLocked),
		errors.Is(err, service.ErrDuplicateTest),
		errors.Is(err, service.ErrResultValidated),
		errors.Is(err, service.ErrStatusChanged):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrEmptyValue),
		errors.Is(err, service.ErrInvalidPatientID),
		errors.Is(err, service.ErrInvalidTestID),
		errors.Is(err, service.ErrInvalidChannel),
		errors.Is(err, service.ErrInvalidStatus):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func isValidStatusFilter(s database.OrderStatus) bool {
	switch s {
	case database.OrderStatusPENDING,
		database.OrderStatusINPROGRESS,
		database.OrderStatusCOMPLETE,
		database.OrderStatusDELIVERED,
		database.OrderStatusVOIDED:
		return true
	}
	return false
}

// numericToString renders a pgtype.Numeric as a plain decimal string for JSON.
func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0"
	}
	return val.(string)
}
