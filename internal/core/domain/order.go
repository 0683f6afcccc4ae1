package domain

import "time"

// OrderStatus is the lifecycle state of a persisted order.
type OrderStatus string

const (
	// OrderStatusPending means the order is confirmed and awaiting fulfilment.
	// Orders stay pending until kitchen fulfilment (out of scope) or cancellation.
	OrderStatusPending OrderStatus = "pending"

	// OrderStatusCancelled is the terminal cancelled state.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a confirmed cart persisted by the order store.
//
// Items and Total are snapshotted at confirmation time and never recomputed:
// later cart mutations in the same session must not affect an existing order.
type Order struct {
	// ID is assigned monotonically by the order store.
	ID int64 `json:"id"`

	// SessionID is the conversation that placed the order.
	SessionID string `json:"session_id"`

	// Items is the cart snapshot copied at confirmation time.
	Items []MenuItem `json:"items"`

	// Total is the sum of item prices at confirmation time.
	Total int64 `json:"total"`

	// Status is pending or cancelled.
	Status OrderStatus `json:"status"`

	// CreatedAt is when the order was confirmed.
	CreatedAt time.Time `json:"created_at"`
}
