package manifest

import (
	"strings"
	"testing"
	"time"
)

var importTime = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func TestParseHeaderBelowJunkRows(t *testing.T) {
	text := strings.Join([]string{
		"Manifest export",
		",,",
		"Customer,Booking No,Rate",
		`Acme,BK-1,"$500.00"`,
	}, "\n")

	res := Parse(text, importTime)
	if res.HeaderRow != 2 {
		t.Fatalf("expected header row 2, got %d", res.HeaderRow)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	rec := res.Records[0]
	if rec.Customer != "Acme" || rec.BookingNo != "BK-1" || rec.RateValue != 500 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Rate != "$500.00" {
		t.Fatalf("expected display rate to keep its formatting, got %q", rec.Rate)
	}
}

func TestParseFiltersRowsAndHandlesQuotedCommas(t *testing.T) {
	text := strings.Join([]string{
		"Customer,Booking No,Container,Rate,VAT,Shipper Address,Status",
		`"Nile Foods, SAE",BK-7,MSCU1234567,"1,250.00",175,"12 Port Rd, Alexandria",pending`,
		`  ,BK-8,X,1,1,,`,
		`short,row`,
		``,
		`Delta Agro,,TGHU7654321,N/A,-,,`,
	}, "\r\n")

	res := Parse(text, importTime)
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(res.Records), res.Records)
	}
	if res.Skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", res.Skipped)
	}

	first := res.Records[0]
	if first.Customer != "Nile Foods, SAE" {
		t.Fatalf("expected quoted customer, got %q", first.Customer)
	}
	if first.RateValue != 1250 || first.VATValue != 175 {
		t.Fatalf("expected rate 1250 and vat 175, got %v and %v", first.RateValue, first.VATValue)
	}
	if first.ShipperAddress != "12 Port Rd, Alexandria" {
		t.Fatalf("unexpected shipper address %q", first.ShipperAddress)
	}
	if first.ReeferNumber != "MSCU1234567" || first.Status != "pending" {
		t.Fatalf("unexpected record: %+v", first)
	}

	second := res.Records[1]
	if second.BookingNo != "" || second.RateValue != 0 || second.VATValue != 0 {
		t.Fatalf("expected empty booking and zero amounts, got %+v", second)
	}
	if second.Trucker != "" {
		t.Fatalf("expected unmapped trucker to be empty, got %q", second.Trucker)
	}
}

func TestParseIDsUniqueWithinAndAcrossBatches(t *testing.T) {
	text := "Customer,x,y,Rate\nA,1,2,3\nB,1,2,3\nC,1,2,3\n"

	first := Parse(text, importTime)
	second := Parse(text, importTime.Add(time.Millisecond))

	seen := map[string]bool{}
	for _, r := range append(first.Records, second.Records...) {
		if seen[r.ID] {
			t.Fatalf("duplicate id %q", r.ID)
		}
		seen[r.ID] = true
	}
	if len(seen) != 6 {
		t.Fatalf("expected 6 ids, got %d", len(seen))
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, text := range []string{"", "\n\n", "Customer,Rate"} {
		res := Parse(text, importTime)
		if len(res.Records) != 0 {
			t.Fatalf("expected no records for %q, got %d", text, len(res.Records))
		}
	}
}

func TestParseMinimalHeaderUsesFixedColumns(t *testing.T) {
	text := "Booking,a,b,c\nGulf Line,BK-3,x,$75\n"

	res := Parse(text, importTime)
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	rec := res.Records[0]
	if rec.Customer != "Gulf Line" {
		t.Fatalf("expected customer from column 0, got %q", rec.Customer)
	}
	if rec.RateValue != 75 {
		t.Fatalf("expected rate from column 3, got %v", rec.RateValue)
	}
}

func TestImporterUsesInjectedClock(t *testing.T) {
	im := NewImporter().WithClock(func() time.Time { return importTime })
	recs := im.Import("Customer,b,c,Rate\nAcme,1,2,10\n")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	want := "bk-1772357400000-0"
	if recs[0].ID != want {
		t.Fatalf("expected id %q, got %q", want, recs[0].ID)
	}
}

func TestImporterIDsUniqueAcrossImportsInSameMillisecond(t *testing.T) {
	im := NewImporter().WithClock(func() time.Time { return importTime })
	text := "Customer,b,c,Rate\nAcme,1,2,10\nNile,1,2,20\n"

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		for _, r := range im.Import(text) {
			if seen[r.ID] {
				t.Fatalf("duplicate id %q on import %d", r.ID, i)
			}
			seen[r.ID] = true
		}
	}
	if len(seen) != 6 {
		t.Fatalf("expected 6 ids, got %d", len(seen))
	}
	if !seen["bk-1772357400001-0"] {
		t.Fatalf("expected second import to advance the stamp, got %v", seen)
	}
}

func TestImporterIDsUniqueWithWallClock(t *testing.T) {
	im := NewImporter()
	first := im.Import("Customer,b,c,Rate\nAcme,1,2,10\n")
	second := im.Import("Customer,b,c,Rate\nAcme,1,2,10\n")
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one record per import, got %d and %d", len(first), len(second))
	}
	if first[0].ID == second[0].ID {
		t.Fatalf("expected distinct ids, both were %q", first[0].ID)
	}
}

func TestParseSkipsTitleRowMentioningCustomer(t *testing.T) {
	text := strings.Join([]string{
		"Customer billing report March",
		"",
		"Customer,Booking No,Rate",
		"Acme,BK-1,$500.00",
	}, "\n")

	res := Parse(text, importTime)
	if res.HeaderRow != 2 {
		t.Fatalf("expected header row 2, got %d", res.HeaderRow)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(res.Records), res.Records)
	}
	if rec := res.Records[0]; rec.Customer != "Acme" || rec.BookingNo != "BK-1" || rec.RateValue != 500 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
