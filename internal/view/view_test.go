package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/productdesk/internal/domain"
)

func TestLayout(t *testing.T) {
	cases := []struct {
		width, breakpoint int
		want              Mode
	}{
		{40, 100, ModeCards},
		{99, 100, ModeCards},
		{100, 100, ModeTable},
		{180, 100, ModeTable},
		{80, 0, ModeCards},
		{120, -1, ModeTable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Layout(tc.width, tc.breakpoint), "width %d breakpoint %d", tc.width, tc.breakpoint)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 25))
	assert.Equal(t, "abcde", Truncate("abcde", 5))
	assert.Equal(t, "abc…", Truncate("abcdef", 3))
	assert.Equal(t, "ÄÖÜ…", Truncate("ÄÖÜßä", 3))
}

func TestNewRow(t *testing.T) {
	p := domain.Product{
		ID:       7,
		Title:    "Fjallraven - Foldsack No. 1 Backpack, Fits 15 Laptops",
		Price:    109.949,
		Category: "men's clothing",
		Origin:   domain.OriginRemote,
	}
	r := NewRow(p)

	assert.Equal(t, int64(7), r.ID)
	assert.Equal(t, "Fjallraven - Foldsack No.…", r.CardTitle)
	assert.Equal(t, "Fjallraven - Foldsack No. 1 Backpack, Fits 15 Lapt…", r.TableTitle)
	assert.Equal(t, "$109.95", r.Price)
	assert.Equal(t, "REMOTE", r.Badge)
	// 'm' is 109, 109 % 6 == 1
	assert.Equal(t, CategoryPalette[1], r.CategoryColor)
}

func TestCategoryColor(t *testing.T) {
	assert.Equal(t, CategoryColor("electronics"), CategoryColor("e-books"))
	assert.Equal(t, CategoryPalette[0], CategoryColor(""))
	for _, c := range []string{"jewelery", "Bags", "Ünique", "日本"} {
		assert.Contains(t, CategoryPalette, CategoryColor(c))
	}
}

func TestCountLabel(t *testing.T) {
	assert.Equal(t, "1 item available", CountLabel(1))
	assert.Equal(t, "0 items available", CountLabel(0))
	assert.Equal(t, "20 items available", CountLabel(20))
}

func TestRender(t *testing.T) {
	s := DefaultStyles()
	rows := Rows([]domain.Product{
		{ID: 1, Title: "Shoes", Price: 20, Category: "Footwear", Origin: domain.OriginLocal},
		{ID: 2, Title: "Hat", Price: 5.5, Category: "Fashion", Origin: domain.OriginRemote},
	})

	t.Run("empty", func(t *testing.T) {
		for _, out := range []string{RenderCards(nil, -1, s), RenderTable(nil, -1, s)} {
			assert.Contains(t, out, EmptyTitle)
			assert.Contains(t, out, EmptyHint)
		}
	})

	t.Run("cards", func(t *testing.T) {
		out := Render(rows, 0, 60, 100, s)
		assert.Contains(t, out, "Shoes")
		assert.Contains(t, out, "$5.50")
		assert.NotContains(t, out, "items available")
	})

	t.Run("table", func(t *testing.T) {
		out := Render(rows, 1, 140, 100, s)
		assert.Contains(t, out, "2 items available")
		assert.Contains(t, out, "Product")
		assert.Contains(t, out, "Footwear")
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.GreaterOrEqual(t, len(lines), 6)
		assert.Contains(t, lines[len(lines)-2], "Shoes")
		assert.Contains(t, lines[len(lines)-1], "Hat")
	})
}
