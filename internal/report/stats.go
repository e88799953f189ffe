package report

import (
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/talkincode/productdesk/internal/domain"
)

// PriceStats is empty (all zero) for an empty product list
type PriceStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type Summary struct {
	Total      int             `json:"total"`
	Remote     int             `json:"remote"`
	Local      int             `json:"local"`
	Categories []CategoryCount `json:"categories"`
	Price      PriceStats      `json:"price"`
}

// Summarize counts products per origin and category and computes price
// statistics. Categories are sorted by count, then name.
func Summarize(products []domain.Product) (Summary, error) {
	s := Summary{Total: len(products), Categories: []CategoryCount{}}
	counts := map[string]int{}
	prices := make(stats.Float64Data, 0, len(products))
	for _, p := range products {
		switch p.Origin {
		case domain.OriginRemote:
			s.Remote++
		case domain.OriginLocal:
			s.Local++
		}
		counts[p.Category]++
		prices = append(prices, p.Price)
	}
	for c, n := range counts {
		s.Categories = append(s.Categories, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		if s.Categories[i].Count != s.Categories[j].Count {
			return s.Categories[i].Count > s.Categories[j].Count
		}
		return s.Categories[i].Category < s.Categories[j].Category
	})

	if len(prices) == 0 {
		return s, nil
	}
	var err error
	if s.Price.Min, err = prices.Min(); err != nil {
		return s, err
	}
	if s.Price.Max, err = prices.Max(); err != nil {
		return s, err
	}
	if s.Price.Mean, err = prices.Mean(); err != nil {
		return s, err
	}
	if s.Price.Median, err = prices.Median(); err != nil {
		return s, err
	}
	return s, nil
}
