package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

// ChatInput is the input schema for the chat tool.
type ChatInput struct {
	Message   string `json:"message" jsonschema:"the user message to the ordering assistant"`
	SessionID string `json:"session_id,omitempty" jsonschema:"conversation session ID, leave empty to start a new session"`
}

// ChatOutput is the output schema for the chat tool.
type ChatOutput struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

// MenuSearchInput is the input schema for the menu search tool.
type MenuSearchInput struct {
	Query string `json:"query" jsonschema:"free text describing the dish to look for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of dishes to return (default 5)"`
}

// MenuSearchOutput is the output schema for the menu search tool.
type MenuSearchOutput struct {
	Results []MenuItemOutput `json:"results"`
	Count   int              `json:"count"`
}

// MenuItemOutput represents a single menu item.
type MenuItemOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Description string `json:"description,omitempty"`
	Available   bool   `json:"available"`
}

// OrderStatusInput is the input schema for the order status tool.
type OrderStatusInput struct {
	OrderID int64 `json:"order_id" jsonschema:"the order identifier returned at confirmation"`
}

// OrderStatusOutput is the output schema for the order status tool.
type OrderStatusOutput struct {
	OrderID   int64    `json:"order_id"`
	SessionID string   `json:"session_id"`
	Status    string   `json:"status"`
	Total     int64    `json:"total"`
	Items     []string `json:"items"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chat",
		Description: "Send one message to the restaurant ordering assistant",
	}, s.handleChat)

	if s.ports.Catalog != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "menu_search",
			Description: "Find menu dishes matching a free-text description",
		}, s.handleMenuSearch)
	}

	if s.ports.Orders != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "order_status",
			Description: "Look up the status of a placed order",
		}, s.handleOrderStatus)
	}
}

// handleChat handles the chat tool invocation.
func (s *Server) handleChat(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ChatOutput, error) {
	reply, sessionID, err := s.ports.Chat.Handle(ctx, input.Message, input.SessionID)
	if err != nil {
		return nil, ChatOutput{}, err
	}

	return nil, ChatOutput{Reply: reply, SessionID: sessionID}, nil
}

// handleMenuSearch handles the menu search tool invocation.
func (s *Server) handleMenuSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MenuSearchInput,
) (*mcp.CallToolResult, MenuSearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	items, err := s.ports.Catalog.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, MenuSearchOutput{}, err
	}

	output := MenuSearchOutput{
		Results: make([]MenuItemOutput, len(items)),
		Count:   len(items),
	}
	for i := range items {
		output.Results[i] = MenuItemOutput{
			ID:          items[i].ID,
			Name:        items[i].Name,
			Category:    items[i].Category,
			Price:       items[i].Price,
			Description: items[i].Description,
			Available:   items[i].Available,
		}
	}

	return nil, output, nil
}

// handleOrderStatus handles the order status tool invocation.
func (s *Server) handleOrderStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OrderStatusInput,
) (*mcp.CallToolResult, OrderStatusOutput, error) {
	order, err := s.ports.Orders.Get(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, OrderStatusOutput{}, fmt.Errorf("order %d not found", input.OrderID)
		}
		return nil, OrderStatusOutput{}, err
	}

	output := OrderStatusOutput{
		OrderID:   order.ID,
		SessionID: order.SessionID,
		Status:    string(order.Status),
		Total:     order.Total,
		Items:     make([]string, len(order.Items)),
	}
	for i := range order.Items {
		output.Items[i] = order.Items[i].Name
	}

	return nil, output, nil
}
