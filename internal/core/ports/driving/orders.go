package driving

import (
	"context"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

// OrderService manages the order lifecycle on behalf of the dialogue
// orchestrator and the CLI order commands.
type OrderService interface {
	// Confirm snapshots the cart into a new pending order and returns its
	// ID. Returns domain.ErrEmptyCart without touching the store if the
	// cart is empty.
	Confirm(ctx context.Context, sessionID string, cart []domain.MenuItem) (int64, error)

	// Cancel moves a pending order to cancelled. Returns false if the
	// order is unknown or already cancelled.
	Cancel(ctx context.Context, orderID int64) (bool, error)

	// Get retrieves a single order.
	Get(ctx context.Context, orderID int64) (*domain.Order, error)

	// History returns a session's orders, newest first.
	History(ctx context.Context, sessionID string) ([]domain.Order, error)
}
