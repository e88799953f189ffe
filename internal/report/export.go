// Package report exports product lists and summarizes their prices.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/talkincode/productdesk/internal/domain"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	sheetName = "Sheet1"
)

// exportRow is the flat export shape. Images are left out, inline data
// URIs do not belong in a spreadsheet.
type exportRow struct {
	ID          int64   `csv:"id"`
	Title       string  `csv:"title"`
	Price       float64 `csv:"price"`
	Category    string  `csv:"category"`
	Description string  `csv:"description"`
	Origin      string  `csv:"origin"`
}

var xlsxHeaders = []string{"id", "title", "price", "category", "description", "origin"}

func toRows(products []domain.Product) []*exportRow {
	rows := make([]*exportRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, &exportRow{
			ID:          p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Category:    p.Category,
			Description: p.Description,
			Origin:      string(p.Origin),
		})
	}
	return rows
}

// WriteCSV writes products as CSV with a header line.
func WriteCSV(w io.Writer, products []domain.Product) error {
	if err := gocsv.Marshal(toRows(products), w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes products to a single sheet workbook.
func WriteXLSX(w io.Writer, products []domain.Product) error {
	f := excelize.NewFile()
	for i, h := range xlsxHeaders {
		f.SetCellValue(sheetName, cellName(i, 1), h)
	}
	for r, row := range toRows(products) {
		line := r + 2
		f.SetCellValue(sheetName, cellName(0, line), row.ID)
		f.SetCellValue(sheetName, cellName(1, line), row.Title)
		f.SetCellValue(sheetName, cellName(2, line), row.Price)
		f.SetCellValue(sheetName, cellName(3, line), row.Category)
		f.SetCellValue(sheetName, cellName(4, line), row.Description)
		f.SetCellValue(sheetName, cellName(5, line), row.Origin)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// Write dispatches on format.
func Write(w io.Writer, format string, products []domain.Product) error {
	switch strings.ToLower(format) {
	case "", FormatCSV:
		return WriteCSV(w, products)
	case FormatXLSX:
		return WriteXLSX(w, products)
	default:
		return domain.NewError(domain.CodeValidation, "Unsupported export format", fmt.Errorf("format %q", format))
	}
}

// ContentType returns the MIME type of an export format.
func ContentType(format string) string {
	if strings.ToLower(format) == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// cellName maps a zero based column and a one based row to "A1" style.
func cellName(col, row int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return fmt.Sprintf("%s%d", name, row)
}
