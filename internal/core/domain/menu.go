package domain

import (
	"fmt"
	"strings"
)

// MenuItem is a single orderable dish from the restaurant catalog.
// Items are immutable after catalog load and owned by the catalog index;
// carts and order snapshots hold copies, never shared references.
type MenuItem struct {
	// ID is the stable catalog identifier (unique for the process lifetime).
	ID string `json:"id"`

	// Name is the display name, e.g. "Phở bò tái".
	Name string `json:"name"`

	// Category is the menu grouping label, e.g. "Món nước".
	Category string `json:"category"`

	// Price is the price in whole currency units (VND).
	Price int64 `json:"price"`

	// Description is the free-text description shown to customers.
	Description string `json:"description"`

	// Ingredients lists the main ingredients in display order.
	Ingredients []string `json:"ingredients"`

	// Available indicates whether the item can currently be ordered.
	Available bool `json:"available"`
}

// Document synthesises the text blob that gets embedded for retrieval.
// The format mirrors what customers would ask about: name, category,
// description, price and ingredients in one searchable string.
func (m MenuItem) Document() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s: %s. ", m.Name, m.Category, m.Description)
	fmt.Fprintf(&b, "Giá: %sđ. ", FormatPrice(m.Price))
	fmt.Fprintf(&b, "Thành phần: %s.", strings.Join(m.Ingredients, ", "))
	return b.String()
}

// CartTotal sums the prices of the given items.
func CartTotal(items []MenuItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Price
	}
	return total
}

// FormatPrice renders a price with thousands separators, e.g. 45000 -> "45,000".
func FormatPrice(v int64) string {
	s := fmt.Sprintf("%d", v)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
