package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goimon-labs/goimon-cli/internal/adapters/driven/storage/memory"
	"github.com/goimon-labs/goimon-cli/internal/core/domain"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driven"
)

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	chatResult   string
	chatErr      error
	lastMessages []driven.ChatMessage
}

func (m *mockLLMService) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return m.chatResult, m.chatErr
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.lastMessages = messages
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.chatResult, nil
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// newTestDialogue wires a dialogue service over an in-memory stack. A nil
// llm is allowed.
func newTestDialogue(t *testing.T, llm driven.LLMService) *DialogueService {
	t.Helper()
	catalog := newTestCatalog(t, positionEmbedder(0))
	sessions := NewSessionService(0)
	orders := NewOrderService(memory.NewOrderStore())
	return NewDialogueService(catalog, sessions, orders, llm)
}

func TestDialogueAllocatesSessionID(t *testing.T) {
	svc := newTestDialogue(t, nil)

	_, sessionID, err := svc.Handle(context.Background(), "menu", "")
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	// A provided id is kept.
	_, again, err := svc.Handle(context.Background(), "menu", sessionID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, again)
}

func TestDialogueOrderAddsNamedItem(t *testing.T) {
	svc := newTestDialogue(t, nil)

	reply, sessionID, err := svc.Handle(context.Background(), "cho tôi một phở bò", "")
	require.NoError(t, err)
	assert.Contains(t, reply, "Đã thêm vào giỏ hàng")
	assert.Contains(t, reply, "Phở Bò")
	assert.Contains(t, reply, "45,000đ")

	snap, ok := svc.sessions.Snapshot(sessionID)
	require.True(t, ok)
	require.Len(t, snap.Cart, 1)
	assert.Equal(t, "pho-bo", snap.Cart[0].ID)
}

func TestDialogueOrderUnavailableDishNotAdded(t *testing.T) {
	svc := newTestDialogue(t, nil)

	// Cơm Tấm is out of stock in the fixture menu, so naming it falls
	// through to suggestions instead of the cart.
	reply, sessionID, err := svc.Handle(context.Background(), "cho tôi cơm tấm", "")
	require.NoError(t, err)
	assert.NotContains(t, reply, "Đã thêm vào giỏ hàng")
	assert.Contains(t, reply, "Tôi tìm thấy các món sau")

	snap, ok := svc.sessions.Snapshot(sessionID)
	require.True(t, ok)
	assert.Empty(t, snap.Cart)
}

func TestDialogueOrderUnknownDishSuggests(t *testing.T) {
	svc := newTestDialogue(t, nil)

	reply, sessionID, err := svc.Handle(context.Background(), "tôi muốn món gì đó ngon", "")
	require.NoError(t, err)
	assert.Contains(t, reply, "Tôi tìm thấy các món sau")

	// Suggestions never touch the cart.
	snap, ok := svc.sessions.Snapshot(sessionID)
	require.True(t, ok)
	assert.Empty(t, snap.Cart)
}

func TestDialogueViewCart(t *testing.T) {
	svc := newTestDialogue(t, nil)

	reply, sessionID, err := svc.Handle(context.Background(), "xem giỏ hàng", "")
	require.NoError(t, err)
	assert.Contains(t, reply, "trống")

	_, _, err = svc.Handle(context.Background(), "đặt phở bò", sessionID)
	require.NoError(t, err)

	reply, _, err = svc.Handle(context.Background(), "xem giỏ hàng", sessionID)
	require.NoError(t, err)
	assert.Contains(t, reply, "🛒")
	assert.Contains(t, reply, "Phở Bò")
	assert.Contains(t, reply, "45,000đ")
}

func TestDialogueConfirmEmptyCart(t *testing.T) {
	svc := newTestDialogue(t, nil)

	reply, _, err := svc.Handle(context.Background(), "xác nhận", "")
	require.NoError(t, err)
	assert.Contains(t, reply, "trống")
}

func TestDialogueConfirmAndCancelFlow(t *testing.T) {
	svc := newTestDialogue(t, nil)

	_, sessionID, err := svc.Handle(context.Background(), "đặt phở bò", "")
	require.NoError(t, err)

	reply, _, err := svc.Handle(context.Background(), "xác nhận", sessionID)
	require.NoError(t, err)
	assert.Contains(t, reply, "✓ Đơn hàng #1")
	assert.Contains(t, reply, "45,000đ")

	// Cart cleared, order recorded as active.
	snap, ok := svc.sessions.Snapshot(sessionID)
	require.True(t, ok)
	assert.Empty(t, snap.Cart)
	require.NotNil(t, snap.ActiveOrderID)
	assert.Equal(t, int64(1), *snap.ActiveOrderID)

	reply, _, err = svc.Handle(context.Background(), "hủy đơn hàng", sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Đã hủy đơn hàng #1.", reply)

	order, err := svc.orders.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)

	// Nothing left to cancel.
	reply, _, err = svc.Handle(context.Background(), "hủy", sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Bạn chưa có đơn hàng nào để hủy.", reply)
}

func TestDialogueCancelWithoutOrder(t *testing.T) {
	svc := newTestDialogue(t, nil)

	reply, _, err := svc.Handle(context.Background(), "cancel", "")
	require.NoError(t, err)
	assert.Equal(t, "Bạn chưa có đơn hàng nào để hủy.", reply)
}

func TestDialogueMenu(t *testing.T) {
	svc := newTestDialogue(t, nil)

	reply, _, err := svc.Handle(context.Background(), "cho xem thực đơn", "")
	require.NoError(t, err)
	assert.Contains(t, reply, "📋 THỰC ĐƠN NHÀ HÀNG")
	assert.Contains(t, reply, "MÓN NƯỚC")
	assert.Contains(t, reply, "Phở Bò")
}

func TestDialogueSoupDishes(t *testing.T) {
	svc := newTestDialogue(t, nil)

	reply, _, err := svc.Handle(context.Background(), "quán có đồ nước không?", "")
	require.NoError(t, err)
	assert.Contains(t, reply, "🍜")
	assert.Contains(t, reply, "Phở Bò")
	assert.Contains(t, reply, "Bún Chả")
	assert.NotContains(t, reply, "Cơm Tấm")
}

func TestDialogueGeneralUsesGeneration(t *testing.T) {
	llm := &mockLLMService{chatResult: "Nhà hàng mở cửa từ 8 giờ sáng đến 10 giờ tối hàng ngày ạ."}
	svc := newTestDialogue(t, llm)

	reply, _, err := svc.Handle(context.Background(), "mấy giờ mở cửa?", "")
	require.NoError(t, err)
	assert.Equal(t, llm.chatResult, reply)

	// The prompt carries the persona and the retrieval context.
	require.NotEmpty(t, llm.lastMessages)
	assert.Equal(t, "system", llm.lastMessages[0].Role)
	assert.Equal(t, systemPersona, llm.lastMessages[0].Content)
	last := llm.lastMessages[len(llm.lastMessages)-1]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, "mấy giờ mở cửa?", last.Content)
}

func TestDialogueGeneralShortGenerationFallsBack(t *testing.T) {
	llm := &mockLLMService{chatResult: "ok"}
	svc := newTestDialogue(t, llm)

	reply, _, err := svc.Handle(context.Background(), "kể chuyện gì đó", "")
	require.NoError(t, err)
	assert.Contains(t, reply, "Tôi tìm thấy các món sau")
}

func TestDialogueGeneralGenerationErrorFallsBack(t *testing.T) {
	llm := &mockLLMService{chatErr: errors.New("model crashed")}
	svc := newTestDialogue(t, llm)

	reply, _, err := svc.Handle(context.Background(), "kể chuyện gì đó", "")
	require.NoError(t, err)
	assert.Contains(t, reply, "Tôi tìm thấy các món sau")
}

func TestDialogueGeneralWithoutLLMOrRetrieval(t *testing.T) {
	catalog := NewCatalogService(&mockCatalogSource{}, nil)
	require.NoError(t, catalog.Reload(context.Background()))
	svc := NewDialogueService(catalog, NewSessionService(0), NewOrderService(memory.NewOrderStore()), nil)

	reply, _, err := svc.Handle(context.Background(), "xin chào bạn ơi", "")
	require.NoError(t, err)
	assert.Equal(t, fallbackMessage, reply)
}

func TestDialogueRecordsHistory(t *testing.T) {
	svc := newTestDialogue(t, nil)

	_, sessionID, err := svc.Handle(context.Background(), "menu", "")
	require.NoError(t, err)
	_, _, err = svc.Handle(context.Background(), "đặt phở bò", sessionID)
	require.NoError(t, err)

	snap, ok := svc.sessions.Snapshot(sessionID)
	require.True(t, ok)
	require.Len(t, snap.History, 2)
	assert.Equal(t, "menu", snap.History[0].User)
	assert.Equal(t, "đặt phở bò", snap.History[1].User)
	assert.True(t, strings.Contains(snap.History[1].Assistant, "Đã thêm vào giỏ hàng"))
}

func TestDialogueWelcome(t *testing.T) {
	svc := newTestDialogue(t, nil)

	welcome := svc.Welcome()
	assert.Contains(t, welcome, "Xin chào")
	assert.Contains(t, welcome, "menu")
}
