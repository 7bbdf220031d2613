package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labsalud/api/internal/database"
)

// Errors returned by the result service.
var (
	ErrEmptyValue      = errors.New("value is required")
	ErrResultValidated = errors.New("result is already validated")
)

// ResultStore defines the DB methods needed to capture results.
type ResultStore interface {
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetOrderItem(ctx context.Context, arg database.GetOrderItemParams) (database.OrderItem, error)
	GetResultByItem(ctx context.Context, itemID uuid.UUID) (database.Result, error)
	CreateResult(ctx context.Context, arg database.CreateResultParams) (database.Result, error)
	UpdateResultValues(ctx context.Context, arg database.UpdateResultValuesParams) (database.Result, error)
}

// NewResultStore creates a ResultStore from a DBTX (pool or tx).
type NewResultStore func(db database.DBTX) ResultStore

// CaptureResultRequest is the validated input for capturing a result.
type CaptureResultRequest struct {
	OrderID    uuid.UUID
	ItemID     uuid.UUID
	Value      string
	Unit       string
	Notes      string
	CapturedBy uuid.UUID
}

// ResultService captures draft results for order items. Results stay drafts
// until the order transitions to COMPLETE, which validates them.
type ResultService struct {
	pool     TxBeginner
	newStore NewResultStore
}

// NewResultService creates a new ResultService.
func NewResultService(pool TxBeginner, newStore NewResultStore) *ResultService {
	return &ResultService{pool: pool, newStore: newStore}
}

// Capture creates or overwrites the draft result for an item. Validated
// results are immutable; orders past IN_PROGRESS no longer accept captures.
func (s *ResultService) Capture(ctx context.Context, req CaptureResultRequest) (*database.Result, error) {
	if strings.TrimSpace(req.Value) == "" {
		return nil, ErrEmptyValue
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if !isOpenForItems(order.Status) {
		return nil, ErrOrderLocked
	}

	if _, err := store.GetOrderItem(ctx, database.GetOrderItemParams{ID: req.ItemID, OrderID: req.OrderID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get order item: %w", err)
	}

	var unit pgtype.Text
	if req.Unit != "" {
		unit = pgtype.Text{String: req.Unit, Valid: true}
	}
	var notes pgtype.Text
	if req.Notes != "" {
		notes = pgtype.Text{String: req.Notes, Valid: true}
	}

	existing, err := store.GetResultByItem(ctx, req.ItemID)
	switch {
	case err == nil:
		if !existing.IsDraft {
			return nil, ErrResultValidated
		}
		updated, err := store.UpdateResultValues(ctx, database.UpdateResultValuesParams{
			ItemID:     req.ItemID,
			Value:      req.Value,
			Unit:       unit,
			Notes:      notes,
			CapturedBy: req.CapturedBy,
		})
		if err != nil {
			return nil, fmt.Errorf("update result: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit tx: %w", err)
		}
		return &updated, nil
	case errors.Is(err, pgx.ErrNoRows):
		created, err := store.CreateResult(ctx, database.CreateResultParams{
			ItemID:     req.ItemID,
			Value:      req.Value,
			Unit:       unit,
			Notes:      notes,
			CapturedBy: req.CapturedBy,
		})
		if err != nil {
			return nil, fmt.Errorf("create result: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit tx: %w", err)
		}
		return &created, nil
	default:
		return nil, fmt.Errorf("get result: %w", err)
	}
}
