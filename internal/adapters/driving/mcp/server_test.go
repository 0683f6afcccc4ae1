package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

// newReadResourceRequest creates a ReadResourceRequest with the given URI.
func newReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

// mockChatService implements driving.ChatService for testing.
type mockChatService struct {
	reply string
	err   error
}

func (m *mockChatService) Handle(_ context.Context, _, sessionID string) (string, string, error) {
	if m.err != nil {
		return "", "", m.err
	}
	if sessionID == "" {
		sessionID = "new-session"
	}
	return m.reply, sessionID, nil
}

func (m *mockChatService) Welcome() string { return "Xin chào!" }

// mockCatalogService implements driving.CatalogService for testing.
type mockCatalogService struct {
	items []domain.MenuItem
}

func (m *mockCatalogService) Search(_ context.Context, _ string, k int) ([]domain.MenuItem, error) {
	if k > len(m.items) {
		k = len(m.items)
	}
	return m.items[:k], nil
}

func (m *mockCatalogService) GetByID(_ string) (*domain.MenuItem, error) {
	return nil, domain.ErrNotFound
}

func (m *mockCatalogService) GetByName(_ string) (*domain.MenuItem, error) {
	return nil, domain.ErrNotFound
}

func (m *mockCatalogService) Items() []domain.MenuItem { return m.items }

func (m *mockCatalogService) Available() []domain.MenuItem { return m.items }

func (m *mockCatalogService) Reload(_ context.Context) error { return nil }

// mockOrderService implements driving.OrderService for testing.
type mockOrderService struct {
	order *domain.Order
	err   error
}

func (m *mockOrderService) Confirm(_ context.Context, _ string, _ []domain.MenuItem) (int64, error) {
	return 1, nil
}

func (m *mockOrderService) Cancel(_ context.Context, _ int64) (bool, error) {
	return false, nil
}

func (m *mockOrderService) Get(_ context.Context, _ int64) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *mockOrderService) History(_ context.Context, _ string) ([]domain.Order, error) {
	return nil, nil
}

func testServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServer(&Ports{
		Chat: &mockChatService{reply: "Dạ vâng ạ!"},
		Catalog: &mockCatalogService{items: []domain.MenuItem{
			{ID: "pho-bo", Name: "Phở Bò", Category: "Món nước", Price: 45000, Available: true},
		}},
		Orders: &mockOrderService{order: &domain.Order{
			ID:        7,
			SessionID: "s1",
			Items:     []domain.MenuItem{{Name: "Phở Bò"}},
			Total:     45000,
			Status:    domain.OrderStatusPending,
		}},
	})
	require.NoError(t, err)
	return server
}

func TestNewServerRequiresChatService(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingChatService)
}

func TestNewServerWithChatOnly(t *testing.T) {
	server, err := NewServer(&Ports{Chat: &mockChatService{}})
	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestHandleChat(t *testing.T) {
	server := testServer(t)

	_, output, err := server.handleChat(context.Background(), nil, ChatInput{Message: "cho tôi phở"})
	require.NoError(t, err)
	assert.Equal(t, "Dạ vâng ạ!", output.Reply)
	assert.Equal(t, "new-session", output.SessionID)

	// An existing session id is passed through.
	_, output, err = server.handleChat(context.Background(), nil, ChatInput{Message: "nữa", SessionID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", output.SessionID)
}

func TestHandleMenuSearch(t *testing.T) {
	server := testServer(t)

	_, output, err := server.handleMenuSearch(context.Background(), nil, MenuSearchInput{Query: "phở"})
	require.NoError(t, err)
	require.Equal(t, 1, output.Count)
	assert.Equal(t, "pho-bo", output.Results[0].ID)
	assert.Equal(t, int64(45000), output.Results[0].Price)
	assert.True(t, output.Results[0].Available)
}

func TestHandleOrderStatus(t *testing.T) {
	server := testServer(t)

	_, output, err := server.handleOrderStatus(context.Background(), nil, OrderStatusInput{OrderID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(7), output.OrderID)
	assert.Equal(t, "pending", output.Status)
	assert.Equal(t, []string{"Phở Bò"}, output.Items)
}

func TestHandleOrderStatusNotFound(t *testing.T) {
	server, err := NewServer(&Ports{
		Chat:   &mockChatService{},
		Orders: &mockOrderService{err: domain.ErrNotFound},
	})
	require.NoError(t, err)

	_, _, err = server.handleOrderStatus(context.Background(), nil, OrderStatusInput{OrderID: 99})
	assert.ErrorContains(t, err, "order 99 not found")
}

func TestMenuResource(t *testing.T) {
	server := testServer(t)

	result, err := server.handleMenuResource(context.Background(), newReadResourceRequest(uriScheme+"menu"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, "pho-bo")
}

func TestMenuResourceWithoutCatalog(t *testing.T) {
	server, err := NewServer(&Ports{Chat: &mockChatService{}})
	require.NoError(t, err)

	result, err := server.handleMenuResource(context.Background(), newReadResourceRequest(uriScheme+"menu"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "[]", result.Contents[0].Text)
}
