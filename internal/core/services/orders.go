package services

import (
	"context"
	"fmt"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driven"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driving"
	"github.com/goimon-labs/goimon-cli/internal/logger"
)

// Ensure OrderService implements the interface.
var _ driving.OrderService = (*OrderService)(nil)

// OrderService manages the order lifecycle against the persistent store.
// The only transition is pending -> cancelled; the store performs it as an
// atomic compare-and-set, never as read-then-write from here.
type OrderService struct {
	store driven.OrderStore
}

// NewOrderService creates an order service backed by the given store.
func NewOrderService(store driven.OrderStore) *OrderService {
	return &OrderService{store: store}
}

// Confirm snapshots the cart into a new pending order. The snapshot and its
// total are fixed at this point: later cart mutations in the session must
// not affect the persisted order. An empty cart returns domain.ErrEmptyCart
// without calling the store.
func (s *OrderService) Confirm(ctx context.Context, sessionID string, cart []domain.MenuItem) (int64, error) {
	if len(cart) == 0 {
		return 0, domain.ErrEmptyCart
	}

	items := make([]domain.MenuItem, len(cart))
	copy(items, cart)
	total := domain.CartTotal(items)

	orderID, err := s.store.CreateOrder(ctx, sessionID, items, total)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}

	logger.Info("Order #%d confirmed for session %s (total %s)",
		orderID, sessionID, domain.FormatPrice(total))
	return orderID, nil
}

// Cancel moves a pending order to cancelled. Returns false when the order
// does not exist or is already cancelled; callers cannot tell the two cases
// apart.
func (s *OrderService) Cancel(ctx context.Context, orderID int64) (bool, error) {
	changed, err := s.store.CancelOrder(ctx, orderID)
	if err != nil {
		return false, fmt.Errorf("cancel order %d: %w", orderID, err)
	}
	if changed {
		logger.Info("Order #%d cancelled", orderID)
	}
	return changed, nil
}

// Get retrieves a single order by ID.
func (s *OrderService) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", orderID, err)
	}
	return order, nil
}

// History returns a session's orders, newest first.
func (s *OrderService) History(ctx context.Context, sessionID string) ([]domain.Order, error) {
	orders, err := s.store.ListOrdersForSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list orders for session %s: %w", sessionID, err)
	}
	return orders, nil
}
