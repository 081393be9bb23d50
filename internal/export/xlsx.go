package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"freightbill/pkg/models"
)

const historySheet = "History"

// WriteXLSX writes the history as a single-sheet workbook with the same
// columns as the CSV export. Parsed amounts are stored as numbers.
func WriteXLSX(w io.Writer, records []models.BookingRecord) error {
	const op = "WriteXLSX"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), historySheet); err != nil {
		return fmt.Errorf("%s: sheet: %w", op, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("%s: style: %w", op, err)
	}

	for i, h := range models.BookingFieldNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(historySheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(models.BookingFieldNames), 1)
	_ = f.SetCellStyle(historySheet, "A1", last, bold)

	for n, r := range records {
		row := n + 2
		values := r.FieldValues()
		for i, name := range models.BookingFieldNames {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			var v any = values[i]
			switch name {
			case "rateValue":
				v = r.RateValue
			case "vatValue":
				v = r.VATValue
			}
			if err := f.SetCellValue(historySheet, cell, v); err != nil {
				return fmt.Errorf("%s: %s: %w", op, cell, err)
			}
		}
	}

	_ = f.SetColWidth(historySheet, "A", "A", 24) // id
	_ = f.SetColWidth(historySheet, "B", "L", 18) // booking details
	_ = f.SetColWidth(historySheet, "M", "Q", 12) // status and amounts
	_ = f.SetColWidth(historySheet, "R", "R", 36) // remarks
	_ = f.SetColWidth(historySheet, "S", "U", 16) // invoice stamp

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%s: write: %w", op, err)
	}
	return nil
}
