package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

func TestFormatCartEmpty(t *testing.T) {
	assert.Contains(t, formatCart(nil), "trống")
}

func TestFormatCartListsItemsAndTotal(t *testing.T) {
	cart := []domain.MenuItem{
		{Name: "Phở Bò", Price: 45000},
		{Name: "Bún Chả", Price: 40000},
	}

	out := formatCart(cart)
	assert.Contains(t, out, "🛒")
	assert.Contains(t, out, "Phở Bò")
	assert.Contains(t, out, "Bún Chả")
	assert.Contains(t, out, "💰 Tổng cộng: 85,000đ")
}

func TestFormatMenuBoundsCategoriesAndItems(t *testing.T) {
	var items []domain.MenuItem
	categories := []string{"Món nước", "Cơm", "Tráng miệng", "Đồ uống"}
	for _, category := range categories {
		for i := 0; i < 6; i++ {
			items = append(items, domain.MenuItem{
				Name:     category + " item",
				Category: category,
				Price:    10000,
			})
		}
	}

	out := formatMenu(items)

	// First three categories only, upper-cased headers.
	assert.Contains(t, out, "▸ MÓN NƯỚC")
	assert.Contains(t, out, "▸ CƠM")
	assert.Contains(t, out, "▸ TRÁNG MIỆNG")
	assert.NotContains(t, out, "ĐỒ UỐNG")

	// Five of the six items per category.
	assert.Equal(t, 15, strings.Count(out, "•"))
}

func TestFormatMenuPreservesFirstAppearanceOrder(t *testing.T) {
	items := []domain.MenuItem{
		{Name: "a", Category: "Cơm", Price: 1},
		{Name: "b", Category: "Món nước", Price: 1},
		{Name: "c", Category: "Cơm", Price: 1},
	}

	out := formatMenu(items)
	assert.Less(t, strings.Index(out, "▸ CƠM"), strings.Index(out, "▸ MÓN NƯỚC"))
}

func TestFilterSoupDishes(t *testing.T) {
	items := []domain.MenuItem{
		{ID: "1", Name: "Phở Bò"},
		{ID: "2", Name: "Cơm Tấm"},
		{ID: "3", Name: "Lẩu Thái"},
		{ID: "4", Name: "Bánh Canh Cua"},
		{ID: "5", Name: "Gỏi Cuốn"},
	}

	soups := filterSoupDishes(items)
	require.Len(t, soups, 3)
	assert.Equal(t, "1", soups[0].ID)
	assert.Equal(t, "3", soups[1].ID)
	assert.Equal(t, "4", soups[2].ID)
}

func TestFormatSoupDishesEmpty(t *testing.T) {
	assert.Contains(t, formatSoupDishes(nil), "không có món nước")
}

func TestFormatSoupDishesCapped(t *testing.T) {
	var soups []domain.MenuItem
	for i := 0; i < 12; i++ {
		soups = append(soups, domain.MenuItem{Name: "Phở", Price: 1})
	}

	out := formatSoupDishes(soups)
	assert.Equal(t, maxSoupDishes, strings.Count(out, "•"))
}

func TestFormatSuggestions(t *testing.T) {
	out := formatSuggestions([]domain.MenuItem{
		{Name: "Phở Bò", Price: 45000, Description: "Phở bò truyền thống"},
	})

	assert.Contains(t, out, "Tôi tìm thấy các món sau")
	assert.Contains(t, out, "Phở Bò - 45,000đ")
	assert.Contains(t, out, "Phở bò truyền thống")
	assert.Contains(t, out, "Bạn muốn đặt món nào ạ?")
}

func TestFormatOrderConfirmed(t *testing.T) {
	out := formatOrderConfirmed(7, 85000)
	assert.Contains(t, out, "✓ Đơn hàng #7")
	assert.Contains(t, out, "85,000đ")
}

func TestFormatCancelled(t *testing.T) {
	assert.Equal(t, "Đã hủy đơn hàng #3.", formatCancelled(3))
}

func TestFormatRetrievalContext(t *testing.T) {
	assert.Empty(t, formatRetrievalContext(nil))

	out := formatRetrievalContext([]domain.MenuItem{
		{Name: "Phở Bò", Price: 45000, Description: "Phở bò truyền thống"},
	})
	assert.Equal(t, "Các món phù hợp:\n- Phở Bò: Phở bò truyền thống (Giá: 45,000đ)\n", out)
}
