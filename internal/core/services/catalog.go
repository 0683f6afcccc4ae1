package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driven"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driving"
	"github.com/goimon-labs/goimon-cli/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// indexedDocument pairs a menu item with its synthesised text and embedding.
// Regenerated as a whole on every catalog load, never mutated in place.
type indexedDocument struct {
	item      domain.MenuItem
	text      string
	embedding []float32
}

// generation is one immutable build of the catalog index. Readers grab the
// active generation once per operation; a reload builds a complete new
// generation and swaps the pointer, so in-flight searches finish against
// the old one and never observe a half-built index.
type generation struct {
	items []domain.MenuItem
	docs  []indexedDocument
	byID  map[string]int
}

// CatalogService owns the menu catalog and its embedding index.
//
// The embedding service is optional: without it the catalog still serves
// lookups and listings, and similarity search reports
// domain.ErrCollaboratorUnavailable so callers can degrade to substring
// matching.
type CatalogService struct {
	source   driven.CatalogSource
	embedder driven.EmbeddingService
	active   atomic.Pointer[generation]
}

// NewCatalogService creates a catalog service. Call Reload before first use.
func NewCatalogService(source driven.CatalogSource, embedder driven.EmbeddingService) *CatalogService {
	return &CatalogService{
		source:   source,
		embedder: embedder,
	}
}

// Reload loads the catalog source and rebuilds the whole index, then swaps
// it in atomically. On failure the previous generation stays active.
func (s *CatalogService) Reload(ctx context.Context) error {
	logger.Section("Catalog Build")

	items, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Debug("Loaded %d menu items", len(items))

	gen := &generation{
		items: items,
		docs:  make([]indexedDocument, len(items)),
		byID:  make(map[string]int, len(items)),
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Document()
		gen.docs[i] = indexedDocument{item: item, text: texts[i]}
		gen.byID[item.ID] = i
	}

	if s.embedder != nil && len(items) > 0 {
		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("%w: embed catalog: %w", domain.ErrCollaboratorUnavailable, err)
		}
		for i := range gen.docs {
			gen.docs[i].embedding = embeddings[i]
		}
		logger.Info("Catalog index built: %d items, %d dimensions",
			len(items), s.embedder.Dimensions())
	} else {
		logger.Warn("Embedding service unavailable: similarity search disabled")
	}

	s.active.Store(gen)
	return nil
}

// Search embeds the query and returns up to k items ranked by ascending L2
// distance, ties broken by catalog insertion order. Searching an empty
// catalog returns an empty list; k larger than the catalog returns all
// items ordered by distance.
func (s *CatalogService) Search(ctx context.Context, query string, k int) ([]domain.MenuItem, error) {
	gen := s.active.Load()
	if gen == nil || len(gen.docs) == 0 {
		return []domain.MenuItem{}, nil
	}
	if k <= 0 {
		return []domain.MenuItem{}, nil
	}

	if s.embedder == nil {
		return nil, domain.ErrCollaboratorUnavailable
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrCollaboratorUnavailable, err)
	}

	type scored struct {
		index    int
		distance float64
	}
	ranked := make([]scored, 0, len(gen.docs))
	for i := range gen.docs {
		emb := gen.docs[i].embedding
		if len(emb) != len(queryVec) {
			logger.Warn("Skipping item %s: embedding dimensions %d != %d",
				gen.docs[i].item.ID, len(emb), len(queryVec))
			continue
		}
		ranked = append(ranked, scored{index: i, distance: l2Distance(queryVec, emb)})
	}

	// Stable sort over insertion-ordered candidates: equal distances keep
	// catalog order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})

	if k > len(ranked) {
		k = len(ranked)
	}

	results := make([]domain.MenuItem, k)
	for i := 0; i < k; i++ {
		results[i] = gen.docs[ranked[i].index].item
	}
	logger.Debug("Search %q: %d results", query, len(results))
	return results, nil
}

// GetByID returns the item with the given catalog identifier.
func (s *CatalogService) GetByID(id string) (*domain.MenuItem, error) {
	gen := s.active.Load()
	if gen == nil {
		return nil, domain.ErrNotFound
	}
	i, ok := gen.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	item := gen.items[i]
	return &item, nil
}

// GetByName returns the first item, in catalog order, whose name contains
// the given text case-insensitively.
func (s *CatalogService) GetByName(name string) (*domain.MenuItem, error) {
	gen := s.active.Load()
	if gen == nil {
		return nil, domain.ErrNotFound
	}
	lower := strings.ToLower(name)
	for i := range gen.items {
		if strings.Contains(strings.ToLower(gen.items[i].Name), lower) {
			item := gen.items[i]
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Items returns every catalogued item in catalog order, including currently
// unavailable ones. The slice is a copy.
func (s *CatalogService) Items() []domain.MenuItem {
	gen := s.active.Load()
	if gen == nil {
		return nil
	}
	items := make([]domain.MenuItem, len(gen.items))
	copy(items, gen.items)
	return items
}

// Available returns only the items that can currently be ordered.
func (s *CatalogService) Available() []domain.MenuItem {
	gen := s.active.Load()
	if gen == nil {
		return nil
	}
	items := make([]domain.MenuItem, 0, len(gen.items))
	for _, item := range gen.items {
		if item.Available {
			items = append(items, item)
		}
	}
	return items
}

// WatchSource reloads the catalog whenever the source reports a change.
// Blocks until the context is cancelled.
func (s *CatalogService) WatchSource(ctx context.Context) error {
	return s.source.Watch(ctx, func() {
		if err := s.Reload(ctx); err != nil {
			logger.Warn("Catalog reload failed: %v", err)
		}
	})
}

// l2Distance computes squared Euclidean distance. The square root is
// omitted: it does not change the ranking.
func l2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
