package domain

import "time"

// MaxHistoryTurns caps the chat history per session. When a session
// accumulates more turns than this, the oldest are evicted first.
const MaxHistoryTurns = 10

// Turn is one user/assistant exchange in a conversation.
type Turn struct {
	User      string
	Assistant string
}

// Session holds the per-conversation state: the shopping cart, the bounded
// chat history and the most recent outstanding order.
//
// Sessions are created lazily on first contact and are never shared across
// conversations. All mutation goes through the session service, which
// serialises access per session key; Session itself carries no lock.
type Session struct {
	// ID is the opaque session identifier (UUID).
	ID string

	// Cart is the ordered list of items added so far. Duplicates are
	// allowed; each entry represents one unit ordered. Insertion order
	// is display order.
	Cart []MenuItem

	// History is the bounded chat history, oldest first.
	History []Turn

	// ActiveOrderID references the most recently confirmed, not yet
	// cancelled order. Nil when no order is outstanding.
	ActiveOrderID *int64

	// LastActive is updated on every handled message and drives the
	// optional TTL sweep.
	LastActive time.Time
}

// AppendTurn records an exchange, evicting the oldest turn beyond the cap.
func (s *Session) AppendTurn(user, assistant string) {
	s.History = append(s.History, Turn{User: user, Assistant: assistant})
	if len(s.History) > MaxHistoryTurns {
		s.History = s.History[len(s.History)-MaxHistoryTurns:]
	}
}

// LastTurn returns the most recent exchange, or nil if there is none.
func (s *Session) LastTurn() *Turn {
	if len(s.History) == 0 {
		return nil
	}
	return &s.History[len(s.History)-1]
}

// AddToCart appends one unit of the item to the cart.
func (s *Session) AddToCart(item MenuItem) {
	s.Cart = append(s.Cart, item)
}

// ClearCart empties the cart after an order is confirmed.
func (s *Session) ClearCart() {
	s.Cart = nil
}

// CartTotal sums the prices of everything in the cart.
func (s *Session) CartTotal() int64 {
	return CartTotal(s.Cart)
}
