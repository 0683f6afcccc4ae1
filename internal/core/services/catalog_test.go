package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockCatalogSource implements driven.CatalogSource for testing.
type mockCatalogSource struct {
	items   []domain.MenuItem
	loadErr error
}

func (m *mockCatalogSource) Load(_ context.Context) ([]domain.MenuItem, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.items, nil
}

func (m *mockCatalogSource) Watch(ctx context.Context, _ func()) error {
	<-ctx.Done()
	return ctx.Err()
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
// embedFn maps text to a vector so tests control distances precisely.
type mockEmbeddingService struct {
	embedFn  func(text string) []float32
	embedErr error
	dims     int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedFn(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.embedFn(text)
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 1
}

func (m *mockEmbeddingService) ModelName() string        { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error             { return nil }

// --- Fixtures ---

func testMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: "pho-bo", Name: "Phở Bò", Category: "Món nước", Price: 45000, Description: "Phở bò truyền thống", Available: true},
		{ID: "bun-cha", Name: "Bún Chả", Category: "Món nước", Price: 40000, Description: "Bún chả Hà Nội", Available: true},
		{ID: "com-tam", Name: "Cơm Tấm", Category: "Cơm", Price: 35000, Description: "Cơm tấm sườn bì", Available: false},
	}
}

// positionEmbedder maps each known document to a point on a line, and every
// query to the given coordinate.
func positionEmbedder(queryAt float32) *mockEmbeddingService {
	positions := map[string]float32{
		"pho-bo":  0,
		"bun-cha": 1,
		"com-tam": 2,
	}
	items := testMenu()
	return &mockEmbeddingService{
		embedFn: func(text string) []float32 {
			for _, item := range items {
				if text == item.Document() {
					return []float32{positions[item.ID]}
				}
			}
			return []float32{queryAt}
		},
	}
}

func newTestCatalog(t *testing.T, embedder *mockEmbeddingService) *CatalogService {
	t.Helper()
	// Avoid wrapping a typed nil pointer in the interface: a nil
	// *mockEmbeddingService must become a nil driven.EmbeddingService.
	var embedderIface driven.EmbeddingService
	if embedder != nil {
		embedderIface = embedder
	}
	svc := NewCatalogService(&mockCatalogSource{items: testMenu()}, embedderIface)
	require.NoError(t, svc.Reload(context.Background()))
	return svc
}

// --- Tests ---

func TestCatalogSearchRanksByDistance(t *testing.T) {
	svc := newTestCatalog(t, positionEmbedder(1.9))

	results, err := svc.Search(context.Background(), "gì đó", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Query at 1.9: com-tam (2) closest, then bun-cha (1), then pho-bo (0).
	assert.Equal(t, "com-tam", results[0].ID)
	assert.Equal(t, "bun-cha", results[1].ID)
	assert.Equal(t, "pho-bo", results[2].ID)
}

func TestCatalogSearchTiesKeepCatalogOrder(t *testing.T) {
	// All documents embed to the same point, so every distance ties.
	embedder := &mockEmbeddingService{
		embedFn: func(string) []float32 { return []float32{0} },
	}
	svc := newTestCatalog(t, embedder)

	results, err := svc.Search(context.Background(), "anything", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "pho-bo", results[0].ID)
	assert.Equal(t, "bun-cha", results[1].ID)
	assert.Equal(t, "com-tam", results[2].ID)
}

func TestCatalogSearchClampsK(t *testing.T) {
	svc := newTestCatalog(t, positionEmbedder(0))

	results, err := svc.Search(context.Background(), "phở", 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	results, err = svc.Search(context.Background(), "phở", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCatalogSearchEmptyCatalog(t *testing.T) {
	svc := NewCatalogService(&mockCatalogSource{}, positionEmbedder(0))
	require.NoError(t, svc.Reload(context.Background()))

	results, err := svc.Search(context.Background(), "phở", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCatalogSearchWithoutEmbedder(t *testing.T) {
	svc := newTestCatalog(t, nil)

	_, err := svc.Search(context.Background(), "phở", 3)
	assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
}

func TestCatalogSearchEmbedQueryError(t *testing.T) {
	embedder := positionEmbedder(0)
	svc := newTestCatalog(t, embedder)

	embedder.embedErr = errors.New("connection refused")
	_, err := svc.Search(context.Background(), "phở", 3)
	assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
}

func TestCatalogReloadFailureKeepsOldGeneration(t *testing.T) {
	source := &mockCatalogSource{items: testMenu()}
	svc := NewCatalogService(source, nil)
	require.NoError(t, svc.Reload(context.Background()))
	require.Len(t, svc.Items(), 3)

	source.loadErr = errors.New("file vanished")
	require.Error(t, svc.Reload(context.Background()))

	// Previous index still serves.
	assert.Len(t, svc.Items(), 3)
}

func TestCatalogReloadEmbedFailureKeepsOldGeneration(t *testing.T) {
	embedder := positionEmbedder(0)
	svc := newTestCatalog(t, embedder)

	embedder.embedErr = errors.New("model not loaded")
	err := svc.Reload(context.Background())
	require.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)

	embedder.embedErr = nil
	results, err := svc.Search(context.Background(), "phở", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestCatalogGetByID(t *testing.T) {
	svc := newTestCatalog(t, nil)

	item, err := svc.GetByID("bun-cha")
	require.NoError(t, err)
	assert.Equal(t, "Bún Chả", item.Name)

	_, err = svc.GetByID("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogGetByName(t *testing.T) {
	svc := newTestCatalog(t, nil)

	item, err := svc.GetByName("phở")
	require.NoError(t, err)
	assert.Equal(t, "pho-bo", item.ID)

	// Case-insensitive substring match.
	item, err = svc.GetByName("CƠM")
	require.NoError(t, err)
	assert.Equal(t, "com-tam", item.ID)

	_, err = svc.GetByName("pizza")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogItemsReturnsCopy(t *testing.T) {
	svc := newTestCatalog(t, nil)

	items := svc.Items()
	items[0].Name = "mutated"

	fresh := svc.Items()
	assert.Equal(t, "Phở Bò", fresh[0].Name)
}

func TestCatalogAvailableFiltersItems(t *testing.T) {
	svc := newTestCatalog(t, nil)

	available := svc.Available()
	require.Len(t, available, 2)
	for _, item := range available {
		assert.True(t, item.Available)
	}
}

func TestL2DistanceIsSquared(t *testing.T) {
	assert.InDelta(t, 25.0, l2Distance([]float32{0, 3}, []float32{4, 0}), 1e-9)
	assert.Zero(t, l2Distance([]float32{1, 2}, []float32{1, 2}))
}
