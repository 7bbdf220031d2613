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
	"github.com/labsalud/api/internal/enum"
	"github.com/labsalud/api/internal/service"
)

// PatientServicer defines the service methods needed by patient handlers.
// Satisfied by *service.PatientService; narrow interface for testability.
type PatientServicer interface {
	Register(ctx context.Context, req service.RegisterPatientRequest) (*database.Patient, error)
}

// PatientStore defines the database methods needed by patient read/update
// handlers. Satisfied by *database.Queries.
type PatientStore interface {
	GetPatient(ctx context.Context, id uuid.UUID) (database.Patient, error)
	ListPatients(ctx context.Context, arg database.ListPatientsParams) ([]database.Patient, error)
	UpdatePatient(ctx context.Context, arg database.UpdatePatientParams) (database.Patient, error)
}

// PatientHandler handles patient endpoints.
type PatientHandler struct {
	svc   PatientServicer
	store PatientStore
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(svc PatientServicer, store PatientStore) *PatientHandler {
	return &PatientHandler{svc: svc, store: store}
}

// RegisterRoutes registers patient endpoints on the given Chi router.
func (h *PatientHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
}

// --- Request / Response types ---

type createPatientRequest struct {
	FullName   string `json:"full_name"`
	DocumentID string `json:"document_id"`
	BirthDate  string `json:"birth_date"`
	Sex        string `json:"sex"`
	Phone      string `json:"phone"`
}

type patientResponse struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	FullName   string    `json:"full_name"`
	DocumentID *string   `json:"document_id"`
	BirthDate  *string   `json:"birth_date"`
	Sex        *string   `json:"sex"`
	Phone      *string   `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
}

func toPatientResponse(p database.Patient) patientResponse {
	resp := patientResponse{
		ID:        p.ID,
		Code:      p.Code,
		FullName:  p.FullName,
		CreatedAt: p.CreatedAt,
	}
	if p.DocumentID.Valid {
		resp.DocumentID = &p.DocumentID.String
	}
	if p.BirthDate.Valid {
		s := p.BirthDate.Time.Format("2006-01-02")
		resp.BirthDate = &s
	}
	if p.Sex.Valid {
		resp.Sex = &p.Sex.String
	}
	if p.Phone.Valid {
		resp.Phone = &p.Phone.String
	}
	return resp
}

// --- Handlers ---

// Create handles POST /patients. The patient code is allocated by the
// service, not supplied by the caller.
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.FullName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "full_name is required"})
		return
	}

	patient, err := h.svc.Register(r.Context(), service.RegisterPatientRequest{
		FullName:   req.FullName,
		DocumentID: req.DocumentID,
		BirthDate:  req.BirthDate,
		Sex:        req.Sex,
		Phone:      req.Phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyName) ||
			errors.Is(err, service.ErrInvalidSex) ||
			errors.Is(err, service.ErrInvalidBirthDay) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: register patient: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toPatientResponse(*patient))
}

// List handles GET /patients with optional search and pagination.
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	var search pgtype.Text
	if s := r.URL.Query().Get("search"); s != "" {
		search = pgtype.Text{String: s, Valid: true}
	}

	patients, err := h.store.ListPatients(r.Context(), database.ListPatientsParams{
		Search: search,
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		log.Printf("ERROR: list patients: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]patientResponse, len(patients))
	for i, p := range patients {
		resp[i] = toPatientResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /patients/{id}.
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid patient ID"})
		return
	}

	patient, err := h.store.GetPatient(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "patient not found"})
			return
		}
		log.Printf("ERROR: get patient: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toPatientResponse(patient))
}

// Update handles PUT /patients/{id}. The code is immutable.
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid patient ID"})
		return
	}

	var req createPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.FullName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "full_name is required"})
		return
	}

	var sex pgtype.Text
	if req.Sex != "" {
		if req.Sex != enum.SexMale && req.Sex != enum.SexFemale && req.Sex != enum.SexOther {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sex"})
			return
		}
		sex = pgtype.Text{String: req.Sex, Valid: true}
	}

	var birthDate pgtype.Date
	if req.BirthDate != "" {
		t, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid birth_date format, use YYYY-MM-DD"})
			return
		}
		birthDate = pgtype.Date{Time: t, Valid: true}
	}

	var documentID pgtype.Text
	if req.DocumentID != "" {
		documentID = pgtype.Text{String: req.DocumentID, Valid: true}
	}

	var phone pgtype.Text
	if req.Phone != "" {
		phone = pgtype.Text{String: req.Phone, Valid: true}
	}

	patient, err := h.store.UpdatePatient(r.Context(), database.UpdatePatientParams{
		ID:         id,
		FullName:   req.FullName,
		DocumentID: documentID,
		BirthDate:  birthDate,
		Sex:        sex,
		Phone:      phone,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "patient not found"})
			return
		}
		log.Printf("ERROR: update patient: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toPatientResponse(patient))
}
