package driving

import (
	"context"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

// CatalogService exposes menu lookup and retrieval to external actors.
type CatalogService interface {
	// Search returns up to k items ranked by ascending embedding distance.
	Search(ctx context.Context, query string, k int) ([]domain.MenuItem, error)

	// GetByID returns the item with the given catalog identifier.
	GetByID(id string) (*domain.MenuItem, error)

	// GetByName returns the first item whose name contains the given
	// text, case-insensitively.
	GetByName(name string) (*domain.MenuItem, error)

	// Items returns all items in catalog order, including ones that are
	// currently unavailable.
	Items() []domain.MenuItem

	// Available returns only the items that can currently be ordered.
	Available() []domain.MenuItem

	// Reload rebuilds the index from the catalog source.
	Reload(ctx context.Context) error
}
