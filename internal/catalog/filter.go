package catalog

import (
	"strings"

	"github.com/talkincode/productdesk/internal/domain"
	"golang.org/x/text/cases"
)

// Filter returns the products whose title or category contains term,
// compared case-folded. Relative order is preserved and an empty term
// returns a copy of products.
func Filter(products []domain.Product, term string) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	if term == "" {
		return append(out, products...)
	}
	// cases.Caser is stateful, one per call
	folder := cases.Fold()
	needle := folder.String(term)
	for _, p := range products {
		if strings.Contains(folder.String(p.Title), needle) ||
			strings.Contains(folder.String(p.Category), needle) {
			out = append(out, p)
		}
	}
	return out
}
