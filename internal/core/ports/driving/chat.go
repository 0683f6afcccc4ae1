// Package driving provides interfaces for external actors (primary/inbound ports).
package driving

import "context"

// ChatService is the conversational entry point consumed by the CLI, TUI
// and MCP surfaces.
type ChatService interface {
	// Handle processes one user message. An empty sessionID allocates a
	// new session; the returned sessionID identifies the conversation for
	// subsequent calls.
	Handle(ctx context.Context, message, sessionID string) (reply, newSessionID string, err error)

	// Welcome returns the static greeting shown when a conversation starts.
	Welcome() string
}
