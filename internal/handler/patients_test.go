package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labsalud/api/internal/database"
	"github.com/labsalud/api/internal/handler"
	"github.com/labsalud/api/internal/service"
)

type mockPatientService struct {
	registerFn func(ctx context.Context, req service.RegisterPatientRequest) (*database.Patient, error)
}

func (m *mockPatientService) Register(ctx context.Context, req service.RegisterPatientRequest) (*database.Patient, error) {
	return m.registerFn(ctx, req)
}

type mockPatientReadStore struct {
	getPatientFn    func(ctx context.Context, id uuid.UUID) (database.Patient, error)
	listPatientsFn  func(ctx context.Context, arg database.ListPatientsParams) ([]database.Patient, error)
	updatePatientFn func(ctx context.Context, arg database.UpdatePatientParams) (database.Patient, error)
}

func (m *mockPatientReadStore) GetPatient(ctx context.Context, id uuid.UUID) (database.Patient, error) {
	return m.getPatientFn(ctx, id)
}
func (m *mockPatientReadStore) ListPatients(ctx context.Context, arg database.ListPatientsParams) ([]database.Patient, error) {
	return m.listPatientsFn(ctx, arg)
}
func (m *mockPatientReadStore) UpdatePatient(ctx context.Context, arg database.UpdatePatientParams) (database.Patient, error) {
	return m.updatePatientFn(ctx, arg)
}

func patientRouter(svc *mockPatientService, store *mockPatientReadStore) chi.Router {
	h := handler.NewPatientHandler(svc, store)
	r := chi.NewRouter()
	r.Route("/patients", h.RegisterRoutes)
	return r
}

func TestCreatePatientHandler_Success(t *testing.T) {
	svc := &mockPatientService{
		registerFn: func(ctx context.Context, req service.RegisterPatientRequest) (*database.Patient, error) {
			if req.FullName != "Ana Reyes" {
				t.Errorf("full_name: got %s, want Ana Reyes", req.FullName)
			}
			return &database.Patient{ID: uuid.New(), Code: "PAC-0001", FullName: req.FullName}, nil
		},
	}
	r := patientRouter(svc, &mockPatientReadStore{})

	rr := postJSON(t, r, "/patients", map[string]string{"full_name": "Ana Reyes"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["code"] != "PAC-0001" {
		t.Errorf("code: got %v, want PAC-0001", resp["code"])
	}
}

func TestCreatePatientHandler_MissingName(t *testing.T) {
	svc := &mockPatientService{
		registerFn: func(ctx context.Context, req service.RegisterPatientRequest) (*database.Patient, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	r := patientRouter(svc, &mockPatientReadStore{})

	rr := postJSON(t, r, "/patients", map[string]string{"phone": "555-0100"})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCreatePatientHandler_InvalidSex(t *testing.T) {
	svc := &mockPatientService{
		registerFn: func(ctx context.Context, req service.RegisterPatientRequest) (*database.Patient, error) {
			return nil, service.ErrInvalidSex
		},
	}
	r := patientRouter(svc, &mockPatientReadStore{})

	rr := postJSON(t, r, "/patients", map[string]string{"full_name": "Ana Reyes", "sex": "X"})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestGetPatientHandler_NotFound(t *testing.T) {
	store := &mockPatientReadStore{
		getPatientFn: func(ctx context.Context, id uuid.UUID) (database.Patient, error) {
			return database.Patient{}, pgx.ErrNoRows
		},
	}
	r := patientRouter(&mockPatientService{}, store)

	rr := doJSON(t, r, "GET", "/patients/"+uuid.New().String(), nil, nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestListPatientsHandler_SearchPassedThrough(t *testing.T) {
	store := &mockPatientReadStore{
		listPatientsFn: func(ctx context.Context, arg database.ListPatientsParams) ([]database.Patient, error) {
			if !arg.Search.Valid || arg.Search.String != "reyes" {
				t.Errorf("search: got %+v, want reyes", arg.Search)
			}
			return []database.Patient{}, nil
		},
	}
	r := patientRouter(&mockPatientService{}, store)

	rr := doJSON(t, r, "GET", "/patients?search=reyes", nil, nil)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}
