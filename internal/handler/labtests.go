package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labsalud/api/internal/database"
	"github.com/shopspring/decimal"
)

// LabTestStore defines the database methods needed by catalog handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type LabTestStore interface {
	ListLabTests(ctx context.Context, active pgtype.Bool) ([]database.LabTest, error)
	GetLabTest(ctx context.Context, id uuid.UUID) (database.LabTest, error)
	CreateLabTest(ctx context.Context, arg database.CreateLabTestParams) (database.LabTest, error)
	UpdateLabTest(ctx context.Context, arg database.UpdateLabTestParams) (database.LabTest, error)
	SetLabTestActive(ctx context.Context, arg database.SetLabTestActiveParams) (database.LabTest, error)
}

// LabTestHandler handles test catalog endpoints.
type LabTestHandler struct {
	store LabTestStore
}

// NewLabTestHandler creates a new LabTestHandler.
func NewLabTestHandler(store LabTestStore) *LabTestHandler {
	return &LabTestHandler{store: store}
}

// RegisterRoutes registers catalog endpoints on the given Chi router.
func (h *LabTestHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Deactivate)
}

// --- Request / Response types ---

type createLabTestRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
}

type labTestResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Category  *string   `json:"category"`
	Price     string    `json:"price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toLabTestResponse(t database.LabTest) labTestResponse {
	resp := labTestResponse{
		ID:        t.ID,
		Code:      t.Code,
		Name:      t.Name,
		Price:     numericToString(t.Price),
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
	}
	if t.Category.Valid {
		resp.Category = &t.Category.String
	}
	return resp
}

// parsePrice validates a non-negative decimal price string.
func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("price must be >= 0")
	}
	return d, nil
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

// --- Handlers ---

// List returns catalog tests, optionally filtered by active flag.
func (h *LabTestHandler) List(w http.ResponseWriter, r *http.Request) {
	var active pgtype.Bool
	switch r.URL.Query().Get("active") {
	case "true":
		active = pgtype.Bool{Bool: true, Valid: true}
	case "false":
		active = pgtype.Bool{Bool: false, Valid: true}
	}

	tests, err := h.store.ListLabTests(r.Context(), active)
	if err != nil {
		log.Printf("ERROR: list lab tests: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]labTestResponse, len(tests))
	for i, t := range tests {
		resp[i] = toLabTestResponse(t)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a test to the catalog.
func (h *LabTestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLabTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Code == "" || req.Name == "" || req.Price == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code, name, and price are required"})
		return
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return
	}

	var category pgtype.Text
	if req.Category != "" {
		category = pgtype.Text{String: req.Category, Valid: true}
	}

	test, err := h.store.CreateLabTest(r.Context(), database.CreateLabTestParams{
		Code:     req.Code,
		Name:     req.Name,
		Category: category,
		Price:    decimalToNumeric(price),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "test code already in use"})
			return
		}
		log.Printf("ERROR: create lab test: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toLabTestResponse(test))
}

// Get handles GET /tests/{id}.
func (h *LabTestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid test ID"})
		return
	}

	test, err := h.store.GetLabTest(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "test not found"})
			return
		}
		log.Printf("ERROR: get lab test: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toLabTestResponse(test))
}

// Update changes a test's name, category, or price. Existing order items keep
// the price snapshot taken when they were added; only future items see the
// new price.
func (h *LabTestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid test ID"})
		return
	}

	var req createLabTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Price == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and price are required"})
		return
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return
	}

	var category pgtype.Text
	if req.Category != "" {
		category = pgtype.Text{String: req.Category, Valid: true}
	}

	test, err := h.store.UpdateLabTest(r.Context(), database.UpdateLabTestParams{
		ID:       id,
		Name:     req.Name,
		Category: category,
		Price:    decimalToNumeric(price),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "test not found"})
			return
		}
		log.Printf("ERROR: update lab test: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toLabTestResponse(test))
}

// Deactivate removes a test from the orderable catalog without touching
// historical orders.
func (h *LabTestHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid test ID"})
		return
	}

	test, err := h.store.SetLabTestActive(r.Context(), database.SetLabTestActiveParams{ID: id, Active: false})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "test not found"})
			return
		}
		log.Printf("ERROR: deactivate lab test: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toLabTestResponse(test))
}
