package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driven"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driving"
	"github.com/goimon-labs/goimon-cli/internal/logger"
)

// Ensure DialogueService implements the interface.
var _ driving.ChatService = (*DialogueService)(nil)

// suggestionLimit is how many retrieval results back an order suggestion or
// a generation context block.
const suggestionLimit = 3

// DialogueService is the top-level conversational entry point. It resolves
// the intent of each message, dispatches to the matching handler and falls
// back to retrieval plus generation when no rule matches.
//
// The llm dependency is optional; without it general queries render raw
// retrieval results. No handler error ever terminates a session: every
// failure degrades to a textual reply.
type DialogueService struct {
	catalog  driving.CatalogService
	sessions *SessionService
	orders   driving.OrderService
	llm      driven.LLMService
}

// NewDialogueService creates the orchestrator. llm may be nil.
func NewDialogueService(
	catalog driving.CatalogService,
	sessions *SessionService,
	orders driving.OrderService,
	llm driven.LLMService,
) *DialogueService {
	return &DialogueService{
		catalog:  catalog,
		sessions: sessions,
		orders:   orders,
		llm:      llm,
	}
}

// Welcome returns the static conversation opener.
func (s *DialogueService) Welcome() string {
	return welcomeMessage
}

// Handle processes one user message. An empty sessionID allocates a fresh
// session. The whole turn runs under the session's lock so overlapping
// requests for the same session serialise; the reply is appended to the
// chat history before returning.
func (s *DialogueService) Handle(ctx context.Context, message, sessionID string) (string, string, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	logger.Section("Dialogue Turn")
	intent := domain.ClassifyIntent(message)
	logger.Info("Session %s intent: %s", sessionID, intent)

	var reply string
	s.sessions.Update(sessionID, func(session *domain.Session) {
		reply = s.dispatch(ctx, intent, message, session)
		session.AppendTurn(message, reply)
	})

	return reply, sessionID, nil
}

// dispatch routes an intent to its handler. IntentPriceInfo deliberately
// shares the general retrieval path: price questions name dishes in free
// form, which similarity search resolves better than any fixed listing.
func (s *DialogueService) dispatch(ctx context.Context, intent domain.Intent, message string, session *domain.Session) string {
	switch intent {
	case domain.IntentOrder:
		return s.handleOrder(ctx, message, session)
	case domain.IntentConfirmOrder:
		return s.handleConfirm(ctx, session)
	case domain.IntentCancel:
		return s.handleCancel(ctx, session)
	case domain.IntentViewCart:
		return formatCart(session.Cart)
	case domain.IntentMenuInfo:
		return formatMenu(s.catalog.Items())
	case domain.IntentSoupDishes:
		return formatSoupDishes(filterSoupDishes(s.catalog.Items()))
	default:
		return s.handleGeneral(ctx, message, session)
	}
}

// extractItems finds orderable catalog items whose names appear in the
// message, case-insensitively, in catalog order. Unavailable dishes are
// never matched so they cannot enter a cart.
func (s *DialogueService) extractItems(message string) []domain.MenuItem {
	lower := strings.ToLower(message)
	var matched []domain.MenuItem
	for _, item := range s.catalog.Available() {
		if strings.Contains(lower, strings.ToLower(item.Name)) {
			matched = append(matched, item)
		}
	}
	return matched
}

// handleOrder appends explicitly named items to the cart. When the message
// names nothing recognisable it presents similar dishes as suggestions
// without touching the cart.
func (s *DialogueService) handleOrder(ctx context.Context, message string, session *domain.Session) string {
	matched := s.extractItems(message)
	if len(matched) == 0 {
		results, err := s.catalog.Search(ctx, message, suggestionLimit)
		if err != nil {
			logger.Warn("Order suggestion search failed: %v", err)
		}
		if len(results) == 0 {
			return fallbackMessage
		}
		return formatSuggestions(results)
	}

	for _, item := range matched {
		session.AddToCart(item)
		logger.Debug("Cart %s: added %s", session.ID, item.ID)
	}
	return formatCartAdded(session.Cart)
}

// handleConfirm turns the cart into a persisted order, clears the cart and
// records the new order as the session's active order.
func (s *DialogueService) handleConfirm(ctx context.Context, session *domain.Session) string {
	total := session.CartTotal()
	orderID, err := s.orders.Confirm(ctx, session.ID, session.Cart)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			return "Giỏ hàng của bạn đang trống. Vui lòng chọn món trước khi xác nhận."
		}
		logger.Warn("Confirm failed for session %s: %v", session.ID, err)
		return "Xin lỗi, không thể tạo đơn hàng lúc này. Bạn vui lòng thử lại sau nhé."
	}

	session.ClearCart()
	session.ActiveOrderID = &orderID
	return formatOrderConfirmed(orderID, total)
}

// handleCancel cancels the session's outstanding order, if any. The active
// order reference is cleared only when the store actually changed state, so
// a failed cancel can be retried.
func (s *DialogueService) handleCancel(ctx context.Context, session *domain.Session) string {
	if session.ActiveOrderID == nil {
		return "Bạn chưa có đơn hàng nào để hủy."
	}

	orderID := *session.ActiveOrderID
	changed, err := s.orders.Cancel(ctx, orderID)
	if err != nil {
		logger.Warn("Cancel failed for order %d: %v", orderID, err)
	}
	if !changed {
		return "Không thể hủy đơn hàng. Đơn hàng có thể đã được xử lý."
	}

	session.ActiveOrderID = nil
	return formatCancelled(orderID)
}

// handleGeneral answers unclassified (and price) queries: retrieval builds
// a context block, generation produces the reply, and anything too short or
// failing degrades to the raw retrieval results.
func (s *DialogueService) handleGeneral(ctx context.Context, message string, session *domain.Session) string {
	results, err := s.catalog.Search(ctx, message, suggestionLimit)
	if err != nil {
		logger.Warn("Retrieval failed, continuing without context: %v", err)
		results = nil
	}

	if s.llm != nil {
		contextBlock := formatRetrievalContext(results)
		messages := buildChatMessages(contextBlock, message, session.LastTurn())

		response, err := s.llm.Chat(ctx, messages, driven.ChatOptions{MaxTokens: 150})
		if err != nil {
			logger.Warn("Generation failed: %v", err)
		} else {
			response = cleanGeneration(response)
			if usableGeneration(response) {
				return response
			}
			logger.Debug("Generation too short (%d chars), falling back", len(response))
		}
	}

	if len(results) > 0 {
		return formatSuggestions(results)
	}
	return fallbackMessage
}
