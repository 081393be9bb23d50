// Package manifest converts loosely structured CSV manifest exports into
// booking records. The header row may sit below junk rows, header names
// vary between upstream tools, and quoted cells may contain commas.
// Nothing in this package fails on bad input: unusable rows are dropped and
// unparseable amounts become 0.
package manifest

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"freightbill/internal/logger"
	"freightbill/internal/money"
	"freightbill/pkg/models"
)

// minCells is the fewest cells a data row needs to be considered.
const minCells = 3

// Result describes one parsed manifest.
type Result struct {
	Records   []models.BookingRecord
	HeaderRow int
	Columns   ColumnMap
	DataRows  int // rows after the header, blank lines included
	Skipped   int // non-blank data rows dropped as too short or missing a customer
}

// Parse converts manifest text into booking records stamped with ids derived
// from at and each record's position in the batch.
func Parse(text string, at time.Time) Result {
	rows := SplitRows(text)
	headerRow := FindHeaderRow(rows)
	cols := MapColumns(rows[headerRow])

	res := Result{
		HeaderRow: headerRow,
		Columns:   cols,
		DataRows:  len(rows) - headerRow - 1,
	}

	stamp := at.UnixMilli()
	for _, cells := range rows[headerRow+1:] {
		if len(cells) == 1 && strings.TrimSpace(cells[0]) == "" {
			continue
		}
		if len(cells) < minCells {
			res.Skipped++
			continue
		}
		get := func(f Field) string {
			idx := cols.Index(f)
			if idx < 0 || idx >= len(cells) {
				return ""
			}
			return clean(cells[idx])
		}
		customer := get(FieldCustomer)
		if customer == "" {
			res.Skipped++
			continue
		}

		rate := get(FieldRate)
		vat := get(FieldVAT)
		res.Records = append(res.Records, models.BookingRecord{
			ID:              fmt.Sprintf("bk-%d-%d", stamp, len(res.Records)),
			Customer:        customer,
			BookingDate:     get(FieldBookingDate),
			CustomerRef:     get(FieldCustomerRef),
			GoPort:          get(FieldGoPort),
			GiPort:          get(FieldGiPort),
			Trucker:         get(FieldTrucker),
			BookingNo:       get(FieldBookingNo),
			BeneficiaryName: get(FieldBeneficiaryName),
			ReeferNumber:    get(FieldReeferNumber),
			GensetNo:        get(FieldGensetNo),
			ShipperAddress:  get(FieldShipperAddress),
			Status:          get(FieldStatus),
			Rate:            rate,
			RateValue:       money.ParseValue(rate),
			VAT:             vat,
			VATValue:        money.ParseValue(vat),
			Remarks:         get(FieldRemarks),
			InvNo:           get(FieldInvNo),
			InvDate:         get(FieldInvDate),
			InvDueDate:      get(FieldInvDueDate),
		})
	}
	if res.DataRows < 0 {
		res.DataRows = 0
	}
	return res
}

// Importer parses manifests and logs what it found.
type Importer struct {
	now  func() time.Time
	log  zerolog.Logger
	last int64 // stamp of the previous import, in unix milliseconds
}

// NewImporter creates an importer using the wall clock.
func NewImporter() *Importer {
	return &Importer{
		now: time.Now,
		log: logger.WithComponent("manifest-import"),
	}
}

// WithClock replaces the clock used to stamp record ids.
func (im *Importer) WithClock(now func() time.Time) *Importer {
	im.now = now
	return im
}

// Import parses manifest text. An empty result is not an error; callers may
// surface it as a hint. Each import gets a stamp later than the previous
// one so ids stay unique when imports land in the same millisecond.
func (im *Importer) Import(text string) []models.BookingRecord {
	at := im.now()
	if at.UnixMilli() <= im.last {
		at = time.UnixMilli(im.last + 1)
	}
	im.last = at.UnixMilli()
	res := Parse(text, at)

	mapped := zerolog.Dict()
	for _, fa := range headerAliases {
		mapped.Int(string(fa.field), res.Columns.Index(fa.field))
	}
	im.log.Debug().
		Int("header_row", res.HeaderRow).
		Dict("columns", mapped).
		Msg("Manifest header resolved")

	if res.Skipped > 0 {
		im.log.Warn().
			Int("skipped", res.Skipped).
			Int("data_rows", res.DataRows).
			Msg("Skipped manifest rows with too few cells or no customer")
	}

	im.log.Info().
		Int("data_rows", res.DataRows).
		Int("imported", len(res.Records)).
		Msg("Manifest parsed")

	return res.Records
}
