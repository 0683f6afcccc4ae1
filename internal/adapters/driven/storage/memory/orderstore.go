// Package memory provides in-memory store implementations for tests and
// ephemeral runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driven"
)

// Ensure OrderStore implements the interface.
var _ driven.OrderStore = (*OrderStore)(nil)

// OrderStore is an in-memory implementation of driven.OrderStore. Orders do
// not survive the process; IDs are monotonic within it. The conditional
// cancel is atomic under the store lock.
type OrderStore struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]domain.Order
	now    func() time.Time
}

// NewOrderStore creates a new in-memory order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		nextID: 1,
		orders: make(map[int64]domain.Order),
		now:    time.Now,
	}
}

// CreateOrder persists a new pending order and returns its ID.
func (s *OrderStore) CreateOrder(_ context.Context, sessionID string, items []domain.MenuItem, total int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	snapshot := make([]domain.MenuItem, len(items))
	copy(snapshot, items)

	s.orders[id] = domain.Order{
		ID:        id,
		SessionID: sessionID,
		Items:     snapshot,
		Total:     total,
		Status:    domain.OrderStatusPending,
		CreatedAt: s.now(),
	}
	return id, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderStore) GetOrder(_ context.Context, orderID int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &order, nil
}

// CancelOrder cancels a pending order. Unknown and already-cancelled orders
// both report false.
func (s *OrderStore) CancelOrder(_ context.Context, orderID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok || order.Status != domain.OrderStatusPending {
		return false, nil
	}
	order.Status = domain.OrderStatusCancelled
	s.orders[orderID] = order
	return true, nil
}

// ListOrdersForSession returns a session's orders, newest first.
func (s *OrderStore) ListOrdersForSession(_ context.Context, sessionID string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []domain.Order
	for _, order := range s.orders {
		if order.SessionID == sessionID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

// Close releases resources.
func (s *OrderStore) Close() error {
	return nil
}
