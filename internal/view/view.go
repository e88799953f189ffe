// Package view turns products into display rows shared by every
// presentation surface.
package view

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/talkincode/productdesk/internal/domain"
)

const (
	CardTitleMax  = 25
	TableTitleMax = 50

	// DefaultBreakpoint is the viewport width, in columns, at which the
	// table layout replaces the cards.
	DefaultBreakpoint = 100
)

// Mode selects how a product list is laid out
type Mode string

const (
	ModeCards Mode = "cards"
	ModeTable Mode = "table"
)

// Layout picks cards for narrow viewports and the table otherwise.
// A non-positive breakpoint falls back to DefaultBreakpoint.
func Layout(width, breakpoint int) Mode {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	if width < breakpoint {
		return ModeCards
	}
	return ModeTable
}

// CategoryPalette colours category chips
var CategoryPalette = []lipgloss.Color{
	"#26a69a", // teal
	"#ab47bc", // purple
	"#ffa726", // orange
	"#ec407a", // pink
	"#66bb6a", // green
	"#42a5f5", // blue
}

// CategoryColor derives a stable colour from the first rune of category.
func CategoryColor(category string) lipgloss.Color {
	for _, r := range category {
		return CategoryPalette[int(r)%len(CategoryPalette)]
	}
	return CategoryPalette[0]
}

// Row is the read-only display form of a product
type Row struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	CardTitle     string         `json:"card_title"`
	TableTitle    string         `json:"table_title"`
	Price         string         `json:"price"`
	Category      string         `json:"category"`
	CategoryColor lipgloss.Color `json:"category_color"`
	Description   string         `json:"description"`
	Image         string         `json:"image"`
	Origin        domain.Origin  `json:"origin"`
	Badge         string         `json:"badge"`
}

// NewRow builds the row for p.
func NewRow(p domain.Product) Row {
	return Row{
		ID:            p.ID,
		Title:         p.Title,
		CardTitle:     Truncate(p.Title, CardTitleMax),
		TableTitle:    Truncate(p.Title, TableTitleMax),
		Price:         FormatPrice(p.Price),
		Category:      p.Category,
		CategoryColor: CategoryColor(p.Category),
		Description:   p.Description,
		Image:         p.Image,
		Origin:        p.Origin,
		Badge:         Badge(p.Origin),
	}
}

func Rows(products []domain.Product) []Row {
	rows := make([]Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, NewRow(p))
	}
	return rows
}

// Truncate cuts s to max runes and appends an ellipsis when it was longer.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

func Badge(o domain.Origin) string {
	switch o {
	case domain.OriginLocal:
		return "LOCAL"
	case domain.OriginRemote:
		return "REMOTE"
	default:
		return ""
	}
}

// CountLabel renders "1 item available" or "N items available".
func CountLabel(n int) string {
	if n == 1 {
		return "1 item available"
	}
	return fmt.Sprintf("%d items available", n)
}
