// Package export renders digitized menus to XLSX workbooks for bulk catalog
// review and upload.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hotelmate/menuscan/internal/entity"
)

const sheet = "Menu Items"

var headers = []string{"Name", "Description", "Price", "Category", "Veg"}

// ItemsXLSX returns a single-sheet workbook with one row per item. Nil prices
// render as empty cells; the veg flag renders as yes/no/blank.
func ItemsXLSX(items []entity.MenuItem) ([]byte, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header %s: %w", h, err)
		}
	}

	for row, item := range items {
		values := []any{item.Name, item.Description, nil, item.Category, vegLabel(item.IsVeg)}
		if item.Price != nil {
			values[2] = *item.Price
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func vegLabel(v *bool) string {
	switch {
	case v == nil:
		return ""
	case *v:
		return "yes"
	default:
		return "no"
	}
}
