package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labsalud/api/internal/database"
	"github.com/labsalud/api/internal/enum"
)

// Errors returned by the patient service.
var (
	ErrEmptyName       = errors.New("full_name is required")
	ErrInvalidSex      = errors.New("invalid sex")
	ErrInvalidBirthDay = errors.New("invalid birth_date")
)

// PatientStore defines the DB methods needed to register patients.
type PatientStore interface {
	ListPatientCodesByPrefix(ctx context.Context, prefix string) ([]string, error)
	CreatePatient(ctx context.Context, arg database.CreatePatientParams) (database.Patient, error)
}

// NewPatientStore creates a PatientStore from a DBTX (pool or tx).
type NewPatientStore func(db database.DBTX) PatientStore

// RegisterPatientRequest is the validated input for registering a patient.
type RegisterPatientRequest struct {
	FullName   string
	DocumentID string
	BirthDate  string // YYYY-MM-DD
	Sex        string
	Phone      string
}

// PatientService registers patients, allocating their human-readable code.
type PatientService struct {
	pool     TxBeginner
	newStore NewPatientStore
}

// NewPatientService creates a new PatientService.
func NewPatientService(pool TxBeginner, newStore NewPatientStore) *PatientService {
	return &PatientService{pool: pool, newStore: newStore}
}

// Register creates a patient with the next PAC code. The scan-then-increment
// allocation is racy by nature: two concurrent registrations can compute the
// same next number. The unique constraint on patients.code turns that race
// into a 23505, which is retried with a fresh scan.
func (s *PatientService) Register(ctx context.Context, req RegisterPatientRequest) (*database.Patient, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, ErrEmptyName
	}

	var sex pgtype.Text
	if req.Sex != "" {
		switch req.Sex {
		case enum.SexMale, enum.SexFemale, enum.SexOther:
			sex = pgtype.Text{String: req.Sex, Valid: true}
		default:
			return nil, ErrInvalidSex
		}
	}

	var birthDate pgtype.Date
	if req.BirthDate != "" {
		t, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBirthDay, err)
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

	var lastErr error
	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		patient, err := s.registerTx(ctx, req.FullName, documentID, birthDate, sex, phone)
		if err == nil {
			return patient, nil
		}
		if isUniqueViolation(err, "patients_code_key") {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// registerTx allocates the next code and inserts the patient in one
// transaction.
func (s *PatientService) registerTx(ctx context.Context, fullName string, documentID pgtype.Text, birthDate pgtype.Date, sex, phone pgtype.Text) (*database.Patient, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	codes, err := store.ListPatientCodesByPrefix(ctx, enum.PatientCodePrefix)
	if err != nil {
		return nil, fmt.Errorf("list patient codes: %w", err)
	}

	patient, err := store.CreatePatient(ctx, database.CreatePatientParams{
		Code:       nextPatientCode(codes, enum.PatientCodePrefix),
		FullName:   fullName,
		DocumentID: documentID,
		BirthDate:  birthDate,
		Sex:        sex,
		Phone:      phone,
	})
	if err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &patient, nil
}

// nextPatientCode returns the next code for the prefix given the codes
// already allocated: the max numeric suffix plus one, zero-padded to four
// digits. Codes with unparseable suffixes are ignored.
func nextPatientCode(codes []string, prefix string) string {
	max := 0
	for _, code := range codes {
		suffix, ok := strings.CutPrefix(code, prefix+"-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%04d", prefix, max+1)
}
