package driven

import (
	"context"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

// CatalogSource loads the menu catalog. A load returns the complete item
// set; the catalog service rebuilds its index from scratch on every load
// rather than mutating it incrementally.
type CatalogSource interface {
	// Load reads all menu items in catalog order.
	Load(ctx context.Context) ([]domain.MenuItem, error)

	// Watch invokes onChange whenever the underlying catalog data changes,
	// until the context is cancelled. Implementations that cannot detect
	// changes may return immediately with a nil error.
	Watch(ctx context.Context, onChange func()) error
}
