// Package mcp provides an MCP (Model Context Protocol) server adapter for goimon.
// It enables AI assistants like Claude to drive the ordering conversation and
// search the restaurant menu.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
