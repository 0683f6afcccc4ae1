package driven

import (
	"context"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

// OrderStore persists confirmed orders. Implementations must make the
// conditional cancel atomic (compare-and-set on status); the core never
// performs a read-then-write transition itself.
type OrderStore interface {
	// CreateOrder persists a new pending order from a cart snapshot and
	// returns the assigned order ID. IDs are assigned monotonically.
	CreateOrder(ctx context.Context, sessionID string, items []domain.MenuItem, total int64) (int64, error)

	// GetOrder retrieves an order by ID.
	// Returns domain.ErrNotFound if no such order exists.
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)

	// CancelOrder moves a pending order to cancelled. Returns true if the
	// order changed state, false if it does not exist or is already
	// cancelled; callers cannot distinguish the two cases.
	CancelOrder(ctx context.Context, orderID int64) (bool, error)

	// ListOrdersForSession returns a session's orders, newest first.
	ListOrdersForSession(ctx context.Context, sessionID string) ([]domain.Order, error)

	// Close releases resources.
	Close() error
}
