package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labsalud/api/internal/auth"
	"github.com/labsalud/api/internal/database"
)

// Errors returned by the settlement service.
var (
	ErrForbidden      = errors.New("caller lacks settlement capability")
	ErrInvalidOrderID = errors.New("invalid order id")
)

// SettlementStore defines the DB methods needed to settle orders.
type SettlementStore interface {
	SettleOrders(ctx context.Context, arg database.SettleOrdersParams) (int64, error)
}

// SettlementService stamps batches of orders as financially settled.
type SettlementService struct {
	store SettlementStore
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(store SettlementStore) *SettlementService {
	return &SettlementService{store: store}
}

// SettleBatch marks the eligible subset of the given orders as settled
// against the payer channel and returns how many were actually stamped.
//
// Eligible means: the order's origin channel matches, it has not been settled
// before, and it is not voided. Ineligible ids are skipped, not errored, so
// the operation is idempotent: a second call with the same ids settles
// nothing new. The filter and the write are one conditional UPDATE, so
// concurrent callers observe either the pre- or post-state.
func (s *SettlementService) SettleBatch(ctx context.Context, actor *auth.Claims, orderIDs []string, channel string) (int64, error) {
	if !actor.Can(auth.CapabilitySettle) {
		return 0, ErrForbidden
	}

	if !isValidOriginChannel(channel) {
		return 0, ErrInvalidChannel
	}

	if len(orderIDs) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, len(orderIDs))
	for i, raw := range orderIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return 0, fmt.Errorf("order_ids[%d]: %w", i, ErrInvalidOrderID)
		}
		ids[i] = id
	}

	settled, err := s.store.SettleOrders(ctx, database.SettleOrdersParams{
		OrderIds:      ids,
		OriginChannel: database.OriginChannel(channel),
	})
	if err != nil {
		return 0, fmt.Errorf("settle orders: %w", err)
	}

	return settled, nil
}
