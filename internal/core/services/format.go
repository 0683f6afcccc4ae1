package services

import (
	"fmt"
	"strings"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

// Response texts are Vietnamese to match the restaurant's audience. Bounds
// on listings (3 categories x 5 items, 8 soup dishes) keep replies short in
// a chat window; they are presentation choices, not data limits.
const (
	maxMenuCategories   = 3
	maxItemsPerCategory = 5
	maxSoupDishes       = 8
)

// welcomeMessage greets a new conversation without a generation round-trip.
const welcomeMessage = `Xin chào! Tôi là trợ lý ảo của nhà hàng. 🍜

Tôi có thể giúp bạn:
• 📋 Xem menu và thông tin món ăn
• 🛒 Đặt món và quản lý giỏ hàng
• ✅ Xác nhận đơn hàng
• ❌ Hủy đơn hàng

Bạn muốn xem menu hay đặt món gì ạ?`

const fallbackMessage = "Xin lỗi, tôi chưa hiểu rõ yêu cầu của bạn. " +
	"Bạn có thể hỏi về menu, đặt món, hoặc xem giỏ hàng nhé!"

// formatSuggestions renders retrieval results as order suggestions.
func formatSuggestions(items []domain.MenuItem) string {
	var b strings.Builder
	b.WriteString("Tôi tìm thấy các món sau trong menu:\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s - %sđ\n  %s\n\n", item.Name, domain.FormatPrice(item.Price), item.Description)
	}
	b.WriteString("Bạn muốn đặt món nào ạ?")
	return b.String()
}

// formatCartAdded renders the cart after items were appended.
func formatCartAdded(cart []domain.MenuItem) string {
	var b strings.Builder
	b.WriteString("Đã thêm vào giỏ hàng:\n\n")
	for _, item := range cart {
		fmt.Fprintf(&b, "• %s - %sđ\n", item.Name, domain.FormatPrice(item.Price))
	}
	fmt.Fprintf(&b, "\nTổng cộng: %sđ\n", domain.FormatPrice(domain.CartTotal(cart)))
	b.WriteString("Bạn có muốn đặt thêm món nào không?")
	return b.String()
}

// formatCart renders the current cart with its running total.
func formatCart(cart []domain.MenuItem) string {
	if len(cart) == 0 {
		return "Giỏ hàng của bạn đang trống. Hãy chọn món từ menu nhé!"
	}
	var b strings.Builder
	b.WriteString("🛒 Giỏ hàng của bạn:\n\n")
	for _, item := range cart {
		fmt.Fprintf(&b, "• %-25s %8sđ\n", item.Name, domain.FormatPrice(item.Price))
	}
	fmt.Fprintf(&b, "\n💰 Tổng cộng: %sđ\n\n", domain.FormatPrice(domain.CartTotal(cart)))
	b.WriteString("Bạn muốn đặt thêm hoặc xác nhận đơn hàng không?")
	return b.String()
}

// formatOrderConfirmed renders a successful confirmation.
func formatOrderConfirmed(orderID, total int64) string {
	return fmt.Sprintf("✓ Đơn hàng #%d đã được tạo thành công!\n"+
		"Tổng tiền: %sđ\n"+
		"Chúng tôi sẽ chuẩn bị món ăn ngay. Cảm ơn bạn!",
		orderID, domain.FormatPrice(total))
}

// formatCancelled renders a successful cancellation.
func formatCancelled(orderID int64) string {
	return fmt.Sprintf("Đã hủy đơn hàng #%d.", orderID)
}

// formatMenu renders the catalog grouped by category, bounded to the first
// maxMenuCategories categories (in order of first appearance) and
// maxItemsPerCategory items each.
func formatMenu(items []domain.MenuItem) string {
	var categories []string
	grouped := make(map[string][]domain.MenuItem)
	for _, item := range items {
		if _, ok := grouped[item.Category]; !ok {
			categories = append(categories, item.Category)
		}
		grouped[item.Category] = append(grouped[item.Category], item)
	}

	var b strings.Builder
	b.WriteString("📋 THỰC ĐƠN NHÀ HÀNG\n\n")
	for i, category := range categories {
		if i >= maxMenuCategories {
			break
		}
		fmt.Fprintf(&b, "▸ %s\n", strings.ToUpper(category))
		for j, item := range grouped[category] {
			if j >= maxItemsPerCategory {
				break
			}
			fmt.Fprintf(&b, "  • %-22s %8sđ\n", item.Name, domain.FormatPrice(item.Price))
		}
		b.WriteString("\n")
	}
	b.WriteString("Bạn muốn biết thêm về món nào hoặc muốn đặt món không ạ?")
	return b.String()
}

// soupKeywords is the fixed liquid-dish keyword set matched against item
// names for the soup listing.
var soupKeywords = []string{"phở", "bún", "hủ tiếu", "canh", "lẩu", "súp", "miến", "bánh canh"}

// filterSoupDishes returns the items whose name contains a liquid-dish
// keyword, in catalog order.
func filterSoupDishes(items []domain.MenuItem) []domain.MenuItem {
	var soups []domain.MenuItem
	for _, item := range items {
		lower := strings.ToLower(item.Name)
		for _, kw := range soupKeywords {
			if strings.Contains(lower, kw) {
				soups = append(soups, item)
				break
			}
		}
	}
	return soups
}

// formatSoupDishes renders the soup listing, bounded to maxSoupDishes.
func formatSoupDishes(soups []domain.MenuItem) string {
	if len(soups) == 0 {
		return "Xin lỗi, hiện tại chúng tôi không có món nước nào."
	}
	if len(soups) > maxSoupDishes {
		soups = soups[:maxSoupDishes]
	}
	var b strings.Builder
	b.WriteString("🍜 Các món có nước trong menu:\n\n")
	for _, item := range soups {
		fmt.Fprintf(&b, "• %-25s %8sđ\n  %s\n\n", item.Name, domain.FormatPrice(item.Price), item.Description)
	}
	b.WriteString("Bạn muốn đặt món nào ạ?")
	return b.String()
}

// formatRetrievalContext renders search results as the context block passed
// to the generation service.
func formatRetrievalContext(items []domain.MenuItem) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Các món phù hợp:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- %s: %s (Giá: %sđ)\n", item.Name, item.Description, domain.FormatPrice(item.Price))
	}
	return b.String()
}
