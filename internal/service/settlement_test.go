package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/labsalud/api/internal/auth"
	"github.com/labsalud/api/internal/database"
	"github.com/labsalud/api/internal/enum"
)

// mockSettlementStore implements SettlementStore.
type mockSettlementStore struct {
	settleOrdersFn func(ctx context.Context, arg database.SettleOrdersParams) (int64, error)
	calls          int
}

func (m *mockSettlementStore) SettleOrders(ctx context.Context, arg database.SettleOrdersParams) (int64, error) {
	m.calls++
	return m.settleOrdersFn(ctx, arg)
}

func cashierClaims() *auth.Claims {
	return &auth.Claims{UserID: uuid.New(), Role: enum.UserRoleCashier}
}

func TestSettleBatch_ForbiddenRole(t *testing.T) {
	store := &mockSettlementStore{
		settleOrdersFn: func(ctx context.Context, arg database.SettleOrdersParams) (int64, error) {
			return 1, nil
		},
	}
	svc := NewSettlementService(store)

	actor := &auth.Claims{UserID: uuid.New(), Role: enum.UserRoleTechnician}
	_, err := svc.SettleBatch(context.Background(), actor, []string{uuid.New().String()}, enum.OriginChannelFrontDesk)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got: %v", err)
	}
	if store.calls != 0 {
		t.Error("store must not be touched when the capability check fails")
	}
}

func TestSettleBatch_NilClaims(t *testing.T) {
	store := &mockSettlementStore{
		settleOrdersFn: func(ctx context.Context, arg database.SettleOrdersParams) (int64, error) {
			return 1, nil
		},
	}
	svc := NewSettlementService(store)

	_, err := svc.SettleBatch(context.Background(), nil, []string{uuid.New().String()}, enum.OriginChannelFrontDesk)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got: %v", err)
	}
}

func TestSettleBatch_InvalidChannel(t *testing.T) {
	store := &mockSettlementStore{
		settleOrdersFn: func(ctx context.Context, arg database.SettleOrdersParams) (int64, error) {
			return 1, nil
		},
	}
	svc := NewSettlementService(store)

	_, err := svc.SettleBatch(context.Background(), cashierClaims(), []string{uuid.New().String()}, "INSURANCE")
	if !errors.Is(err, ErrInvalidChannel) {
		t.Fatalf("expected ErrInvalidChannel, got: %v", err)
	}
	if store.calls != 0 {
		t.Error("store must not be touched for an invalid channel")
	}
}

func TestSettleBatch_InvalidOrderID(t *testing.T) {
	store := &mockSettlementStore{
		settleOrdersFn: func(ctx context.Context, arg database.SettleOrdersParams) (int64, error) {
			return 1, nil
		},
	}
	svc := NewSettlementService(store)

	_, err := svc.SettleBatch(context.Background(), cashierClaims(), []string{"not-a-uuid"}, enum.OriginChannelFrontDesk)
	if !errors.Is(err, ErrInvalidOrderID) {
		t.Fatalf("expected ErrInvalidOrderID, got: %v", err)
	}
}

func TestSettleBatch_EmptyBatch(t *testing.T) {
	store := &mockSettlementStore{
		settleOrdersFn: func(ctx context.Context, arg database.SettleOrdersParams) (int64, error) {
			return 1, nil
		},
	}
	svc := NewSettlementService(store)

	count, err := svc.SettleBatch(context.Background(), cashierClaims(), nil, enum.OriginChannelFrontDesk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0, got %d", count)
	}
	if store.calls != 0 {
		t.Error("store must not be touched for an empty batch")
	}
}

func TestSettleBatch_ReportsSettledCount(t *testing.T) {
	ids := []string{uuid.New().String(), uuid.New().String(), uuid.New().String()}

	store := &mockSettlementStore{
		settleOrdersFn: func(ctx context.Context, arg database.SettleOrdersParams) (int64, error) {
			if len(arg.OrderIds) != 3 {
				t.Errorf("expected 3 ids, got %d", len(arg.OrderIds))
			}
			if arg.OriginChannel != database.OriginChannelADMISSION {
				t.Errorf("expected ADMISSION, got %s", arg.OriginChannel)
			}
			// One of the three was already settled or voided.
			return 2, nil
		},
	}
	svc := NewSettlementService(store)

	count, err := svc.SettleBatch(context.Background(), cashierClaims(), ids, enum.OriginChannelAdmission)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2, got %d", count)
	}
}

func TestSettleBatch_AdminCanSettle(t *testing.T) {
	store := &mockSettlementStore{
		settleOrdersFn: func(ctx context.Context, arg database.SettleOrdersParams) (int64, error) {
			return 1, nil
		},
	}
	svc := NewSettlementService(store)

	actor := &auth.Claims{UserID: uuid.New(), Role: enum.UserRoleAdmin}
	count, err := svc.SettleBatch(context.Background(), actor, []string{uuid.New().String()}, enum.OriginChannelFrontDesk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1, got %d", count)
	}
}
