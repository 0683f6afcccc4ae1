package mcp

import (
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat handles conversational ordering turns.
	Chat driving.ChatService

	// Catalog provides menu lookup and retrieval.
	Catalog driving.CatalogService

	// Orders exposes the order lifecycle.
	Orders driving.OrderService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	// Catalog and Orders are optional; the matching tools degrade.
	return nil
}
