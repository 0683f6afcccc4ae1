package tui

import (
	"errors"

	"github.com/goimon-labs/goimon-cli/internal/core/ports/driving"
)

// ErrMissingChatService is returned when no chat service is provided.
var ErrMissingChatService = errors.New("tui: chat service is required")

// Ports aggregates the driving port interfaces the TUI depends on.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat handles conversational ordering turns.
	Chat driving.ChatService

	// Catalog provides menu lookup, used by the menu overlay.
	Catalog driving.CatalogService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	// Catalog is optional; the menu overlay is hidden without it.
	return nil
}
