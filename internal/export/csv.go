package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"freightbill/pkg/models"
)

// WriteCSV writes a header of BookingFieldNames followed by one row per
// record. Values containing a comma, quote or line break are quoted with
// embedded quotes doubled.
func WriteCSV(w io.Writer, records []models.BookingRecord) error {
	const op = "WriteCSV"

	cw := csv.NewWriter(w)
	if err := cw.Write(models.BookingFieldNames); err != nil {
		return fmt.Errorf("%s: header: %w", op, err)
	}
	for _, r := range records {
		if err := cw.Write(r.FieldValues()); err != nil {
			return fmt.Errorf("%s: record %s: %w", op, r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
