package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	EmptyTitle = "No Products Available"
	EmptyHint  = "Add products to populate list"
)

// Styles groups the lipgloss styles used by the renderers
type Styles struct {
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Price    lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
	Empty    lipgloss.Style
	Chip     lipgloss.Style
	Badge    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff7a2f")),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a")),
		Bold:  lipgloss.NewStyle().Bold(true),
		Price: lipgloss.NewStyle().Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#d0d0d0")).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ff7a2f")).
			Padding(0, 1),
		Empty: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#d0d0d0")).
			Padding(1, 4).
			Align(lipgloss.Center),
		Chip:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Padding(0, 1),
		Badge: lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a")),
	}
}

func (s Styles) chip(r Row) string {
	return s.Chip.Copy().Background(r.CategoryColor).Render(r.Category)
}

// RenderEmpty renders the empty state.
func RenderEmpty(s Styles) string {
	return s.Empty.Render(s.Bold.Render(EmptyTitle) + "\n" + s.Muted.Render(EmptyHint))
}

// RenderCards stacks one card per row. selected is the highlighted row
// index, -1 for none.
func RenderCards(rows []Row, selected int, s Styles) string {
	if len(rows) == 0 {
		return RenderEmpty(s)
	}
	cards := make([]string, 0, len(rows))
	for i, r := range rows {
		body := lipgloss.JoinVertical(lipgloss.Left,
			s.Bold.Render(r.CardTitle)+" "+s.Badge.Render(r.Badge),
			s.chip(r),
			s.Price.Render(r.Price),
		)
		style := s.Card
		if i == selected {
			style = s.Selected
		}
		cards = append(cards, style.Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

var tableHeaders = []string{"Product", "Category", "Price", "Origin"}

// RenderTable renders the inventory header and one line per row.
func RenderTable(rows []Row, selected int, s Styles) string {
	if len(rows) == 0 {
		return RenderEmpty(s)
	}

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{r.TableTitle, s.chip(r), r.Price, r.Badge})
	}

	widths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range cells {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}

	var sb strings.Builder
	sb.WriteString(s.Title.Render("Product Inventory"))
	sb.WriteString("\n")
	sb.WriteString(s.Muted.Render(CountLabel(len(rows))))
	sb.WriteString("\n\n")

	header := s.Bold.Copy().Padding(0, 1)
	sb.WriteString(" ")
	for i, h := range tableHeaders {
		sb.WriteString(header.Width(widths[i]).Render(h))
	}
	sb.WriteString("\n")

	total := 0
	for _, w := range widths {
		total += w
	}
	sb.WriteString(" ")
	sb.WriteString(s.Muted.Render(strings.Repeat("─", total)))
	sb.WriteString("\n")

	cell := lipgloss.NewStyle().Padding(0, 1)
	for i, row := range cells {
		marker := " "
		if i == selected {
			marker = s.Title.Render("›")
		}
		line := make([]string, 0, len(row))
		for j, c := range row {
			line = append(line, cell.Width(widths[j]).Render(c))
		}
		sb.WriteString(marker)
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, line...))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Render picks the renderer for the viewport width.
func Render(rows []Row, selected, width, breakpoint int, s Styles) string {
	if Layout(width, breakpoint) == ModeCards {
		return RenderCards(rows, selected, s)
	}
	return RenderTable(rows, selected, s)
}
