package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labsalud/api/internal/database"
	"github.com/labsalud/api/internal/enum"
	"github.com/shopspring/decimal"
)

const maxCodeRetries = 3

// Errors returned by the order service.
var (
	ErrEmptyItems        = errors.New("tests are required")
	ErrInvalidPatientID  = errors.New("invalid patient_id")
	ErrInvalidTestID     = errors.New("invalid test_id")
	ErrInvalidChannel    = errors.New("invalid origin_channel")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrPatientNotFound   = errors.New("patient not found")
	ErrTestNotFound      = errors.New("test not found or inactive")
	ErrDuplicateTest     = errors.New("test already present on order")
	ErrOrderNotFound     = errors.New("order not found")
	ErrItemNotFound      = errors.New("order item not found")
	ErrOrderLocked       = errors.New("order is closed for modification")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrStatusChanged     = errors.New("order status changed concurrently")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed by the order service.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetNextOrderNumber(ctx context.Context, prefix string) (int32, error)
	GetPatient(ctx context.Context, id uuid.UUID) (database.Patient, error)
	GetLabTestForOrder(ctx context.Context, id uuid.UUID) (database.GetLabTestForOrderRow, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetOrderItem(ctx context.Context, arg database.GetOrderItemParams) (database.OrderItem, error)
	DeleteOrderItem(ctx context.Context, arg database.DeleteOrderItemParams) (int64, error)
	DeleteResultByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
	ValidateResultsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	SetOrderTotal(ctx context.Context, arg database.SetOrderTotalParams) (database.Order, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the validated input for registering a lab order.
type CreateOrderRequest struct {
	PatientID     string
	OriginChannel string
	CreatedBy     uuid.UUID
	TestIDs       []string
}

// CreateOrderResult is the full created order with its items.
type CreateOrderResult struct {
	Order database.Order
	Items []database.OrderItem
}

// AddItemResult carries the new item and the order with its recomputed total.
type AddItemResult struct {
	Item  database.OrderItem
	Order database.Order
}

// OrderService handles the order lifecycle: intake, status transitions and
// item/total consistency.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// forwardTransitions is the legal forward chain. VOIDED is reachable from any
// non-terminal state; DELIVERED and VOIDED are terminal.
var forwardTransitions = map[database.OrderStatus]database.OrderStatus{
	database.OrderStatusPENDING:    database.OrderStatusINPROGRESS,
	database.OrderStatusINPROGRESS: database.OrderStatusCOMPLETE,
	database.OrderStatusCOMPLETE:   database.OrderStatusDELIVERED,
}

// ValidateTransition checks whether current→next is a legal status change.
// Returns an error wrapping ErrIllegalTransition that names both states.
func ValidateTransition(current, next database.OrderStatus) error {
	if next == database.OrderStatusVOIDED {
		if current == database.OrderStatusDELIVERED || current == database.OrderStatusVOIDED {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, next)
		}
		return nil
	}
	if forwardTransitions[current] == next {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, next)
}

// CreateOrder validates, snapshots catalog prices, and creates an order with
// its items atomically. Retries on order code unique constraint violations
// (concurrent transactions can compute the same MAX-based next number).
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if len(req.TestIDs) == 0 {
		return nil, ErrEmptyItems
	}

	if !isValidOriginChannel(req.OriginChannel) {
		return nil, ErrInvalidChannel
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrInvalidPatientID
	}

	testIDs := make([]uuid.UUID, len(req.TestIDs))
	seen := make(map[uuid.UUID]bool, len(req.TestIDs))
	for i, raw := range req.TestIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("tests[%d]: %w", i, ErrInvalidTestID)
		}
		if seen[id] {
			return nil, fmt.Errorf("tests[%d]: %w", i, ErrDuplicateTest)
		}
		seen[id] = true
		testIDs[i] = id
	}

	var lastErr error
	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		result, err := s.createOrderTx(ctx, patientID, req, testIDs)
		if err == nil {
			return result, nil
		}
		if isUniqueViolation(err, "orders_code_key") {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// createOrderTx executes the full order creation in a single transaction.
func (s *OrderService) createOrderTx(ctx context.Context, patientID uuid.UUID, req CreateOrderRequest, testIDs []uuid.UUID) (*CreateOrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if _, err := store.GetPatient(ctx, patientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}

	nextNum, err := store.GetNextOrderNumber(ctx, enum.OrderCodePrefix)
	if err != nil {
		return nil, fmt.Errorf("get next order number: %w", err)
	}
	code := fmt.Sprintf("%s-%05d", enum.OrderCodePrefix, nextNum)

	// Snapshot each test's catalog price; the order total is their sum.
	total := decimal.Zero
	snapshots := make([]decimal.Decimal, len(testIDs))
	for i, testID := range testIDs {
		test, err := store.GetLabTestForOrder(ctx, testID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("tests[%d]: %w", i, ErrTestNotFound)
			}
			return nil, fmt.Errorf("tests[%d]: get test: %w", i, err)
		}
		snapshots[i] = numericToDecimal(test.Price)
		total = total.Add(snapshots[i])
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		Code:          code,
		PatientID:     patientID,
		OriginChannel: database.OriginChannel(req.OriginChannel),
		TotalPrice:    decimalToNumeric(total),
		CreatedBy:     req.CreatedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]database.OrderItem, len(testIDs))
	for i, testID := range testIDs {
		item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:       order.ID,
			TestID:        testID,
			PriceSnapshot: decimalToNumeric(snapshots[i]),
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items[i] = item
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{Order: order, Items: items}, nil
}

// AdvanceStatus moves an order along the lifecycle chain, or voids it.
// Entering COMPLETE validates every draft result of the order inside the same
// transaction as the status write. Items without a captured result do not
// block completion.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID uuid.UUID, target string) (*database.Order, error) {
	targetStatus := database.OrderStatus(target)
	if !isValidOrderStatus(targetStatus) {
		return nil, ErrInvalidStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := ValidateTransition(order.Status, targetStatus); err != nil {
		return nil, err
	}

	if targetStatus == database.OrderStatusCOMPLETE {
		if _, err := store.ValidateResultsByOrder(ctx, orderID); err != nil {
			return nil, fmt.Errorf("validate results: %w", err)
		}
	}

	updated, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:       orderID,
		Status:   targetStatus,
		Status_2: order.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatusChanged
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &updated, nil
}

// AddItem appends a catalog test to an open order, snapshotting its current
// price and bumping the order total, all in one transaction.
func (s *OrderService) AddItem(ctx context.Context, orderID uuid.UUID, testIDRaw string) (*AddItemResult, error) {
	testID, err := uuid.Parse(testIDRaw)
	if err != nil {
		return nil, ErrInvalidTestID
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if !isOpenForItems(order.Status) {
		return nil, ErrOrderLocked
	}

	test, err := store.GetLabTestForOrder(ctx, testID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test: %w", err)
	}

	snapshot := numericToDecimal(test.Price)
	item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
		OrderID:       orderID,
		TestID:        testID,
		PriceSnapshot: decimalToNumeric(snapshot),
	})
	if err != nil {
		if isUniqueViolation(err, "order_items_order_id_test_id_key") {
			return nil, ErrDuplicateTest
		}
		return nil, fmt.Errorf("create order item: %w", err)
	}

	newTotal := numericToDecimal(order.TotalPrice).Add(snapshot)
	updated, err := store.SetOrderTotal(ctx, database.SetOrderTotalParams{
		ID:         orderID,
		TotalPrice: decimalToNumeric(newTotal),
	})
	if err != nil {
		return nil, fmt.Errorf("set order total: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &AddItemResult{Item: item, Order: updated}, nil
}

// RemoveItem deletes an item from an open order. The item's result (if any)
// is deleted first, then the item, then the order total is reduced by the
// item's price snapshot, floored at zero. All three steps share one
// transaction: a failure partway leaves the order untouched.
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*database.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if order.Status == database.OrderStatusDELIVERED || order.Status == database.OrderStatusVOIDED {
		return nil, ErrOrderLocked
	}

	item, err := store.GetOrderItem(ctx, database.GetOrderItemParams{ID: itemID, OrderID: orderID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get order item: %w", err)
	}

	if _, err := store.DeleteResultByItem(ctx, itemID); err != nil {
		return nil, fmt.Errorf("delete result: %w", err)
	}

	deleted, err := store.DeleteOrderItem(ctx, database.DeleteOrderItemParams{ID: itemID, OrderID: orderID})
	if err != nil {
		return nil, fmt.Errorf("delete order item: %w", err)
	}
	if deleted == 0 {
		return nil, ErrItemNotFound
	}

	newTotal := numericToDecimal(order.TotalPrice).Sub(numericToDecimal(item.PriceSnapshot))
	if newTotal.IsNegative() {
		newTotal = decimal.Zero
	}

	updated, err := store.SetOrderTotal(ctx, database.SetOrderTotalParams{
		ID:         orderID,
		TotalPrice: decimalToNumeric(newTotal),
	})
	if err != nil {
		return nil, fmt.Errorf("set order total: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &updated, nil
}

// --- Helpers ---

func isValidOrderStatus(s database.OrderStatus) bool {
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

func isValidOriginChannel(s string) bool {
	switch s {
	case enum.OriginChannelFrontDesk, enum.OriginChannelAdmission:
		return true
	}
	return false
}

// isOpenForItems reports whether items may still be added to the order.
func isOpenForItems(s database.OrderStatus) bool {
	return s == database.OrderStatusPENDING || s == database.OrderStatusINPROGRESS
}

// isUniqueViolation checks for a unique constraint violation
// (pgconn error code 23505) on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
