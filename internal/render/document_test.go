package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"freightbill/internal/layout"
	"freightbill/pkg/models"
)

func sampleInvoice() *models.Invoice {
	return &models.Invoice{
		InvoiceNumber:   "INV-42",
		Date:            "2026-03-01",
		DueDate:         "2026-03-31",
		CustomerName:    "Acme",
		CustomerAddress: "1 Dock St",
		BeneficiaryName: "Acme Egypt",
		Currency:        "USD",
		Notes:           "Bank transfer only",
		Issuer:          models.UserProfile{Name: "Mona", CompanyName: "Delta Freight", Email: "billing@delta.test"},
		Items: []models.BookingRecord{
			{ID: "1", BookingNo: "BK-7", ReeferNumber: "RF1", GoPort: "ALX", GiPort: "DAM", Trucker: "Sami", RateValue: 100, VATValue: 14},
			{ID: "2", BookingNo: "", ReeferNumber: "RF9", RateValue: 10},
			{ID: "3", BookingNo: "BK-7", ReeferNumber: "RF2", GensetNo: "GS4", GoPort: "ALX", GiPort: "DAM", Trucker: "Omar", RateValue: 50, VATValue: 7},
			{ID: "4", BookingNo: "", ReeferNumber: "RF8", RateValue: 5},
		},
		Subtotal: decimal.NewFromInt(165),
		Tax:      decimal.NewFromInt(21),
		Total:    decimal.NewFromInt(186),
	}
}

func sectionIDs(d Document) []layout.SectionID {
	ids := make([]layout.SectionID, len(d.Sections))
	for i, s := range d.Sections {
		ids[i] = s.ID
	}
	return ids
}

func TestBuildFollowsSectionOrder(t *testing.T) {
	tpl := layout.DefaultTemplate()
	tpl.SectionOrder = []layout.SectionID{
		layout.SectionFooter, layout.SectionTotals, layout.SectionTable,
		layout.SectionParties, layout.SectionHeader, layout.SectionSignature,
	}
	got := sectionIDs(Build(sampleInvoice(), tpl))
	for i, id := range tpl.SectionOrder {
		if got[i] != id {
			t.Fatalf("expected order %v, got %v", tpl.SectionOrder, got)
		}
	}
}

func TestHiddenTotalsNeverRendered(t *testing.T) {
	r := NewRenderer()
	for pos := range layout.DefaultSectionOrder {
		tpl := layout.DefaultTemplate()
		order := []layout.SectionID{}
		for _, id := range layout.DefaultSectionOrder {
			if id != layout.SectionTotals {
				order = append(order, id)
			}
		}
		order = append(order[:pos], append([]layout.SectionID{layout.SectionTotals}, order[pos:]...)...)
		tpl.SectionOrder = order
		tpl.HiddenSections = layout.NewSectionSet(layout.SectionTotals)

		doc := Build(sampleInvoice(), tpl)
		if _, ok := doc.Section(layout.SectionTotals); ok {
			t.Fatalf("totals rendered with order %v", order)
		}

		var buf bytes.Buffer
		if err := r.Write(&buf, sampleInvoice(), tpl, FormatHTML); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "Subtotal") || strings.Contains(buf.String(), "section totals") {
			t.Fatalf("totals block present in HTML with order %v", order)
		}
	}
}

func TestPermutedOrderKeepsTotals(t *testing.T) {
	base := Build(sampleInvoice(), layout.DefaultTemplate())
	want, _ := base.Section(layout.SectionTotals)

	tpl := layout.DefaultTemplate()
	tpl.SectionOrder = []layout.SectionID{layout.SectionTotals, layout.SectionFooter, layout.SectionHeader}
	got, ok := Build(sampleInvoice(), tpl).Section(layout.SectionTotals)
	if !ok {
		t.Fatal("expected totals section")
	}
	if !got.Totals.Subtotal.Equal(want.Totals.Subtotal) || !got.Totals.Tax.Equal(want.Totals.Tax) || !got.Totals.Total.Equal(want.Totals.Total) {
		t.Fatalf("totals changed: %+v vs %+v", got.Totals, want.Totals)
	}
}

func TestThemeDoesNotChangeData(t *testing.T) {
	base := Build(sampleInvoice(), layout.DefaultTemplate())
	for _, theme := range layout.Themes {
		tpl := layout.DefaultTemplate()
		tpl.Theme = theme
		doc := Build(sampleInvoice(), tpl)
		if doc.Style.Name != theme {
			t.Fatalf("expected style %s, got %s", theme, doc.Style.Name)
		}

		gotTable, _ := doc.Section(layout.SectionTable)
		wantTable, _ := base.Section(layout.SectionTable)
		if len(gotTable.Table.Rows) != len(wantTable.Table.Rows) {
			t.Fatalf("theme %s changed grouping", theme)
		}
		for i := range gotTable.Table.Rows {
			if !gotTable.Table.Rows[i].Rate.Equal(wantTable.Table.Rows[i].Rate) {
				t.Fatalf("theme %s changed row %d rate", theme, i)
			}
		}
		gotTotals, _ := doc.Section(layout.SectionTotals)
		if !gotTotals.Totals.Total.Equal(decimal.NewFromInt(186)) {
			t.Fatalf("theme %s changed total to %s", theme, gotTotals.Totals.Total)
		}
	}
}

func TestTableGroupsByBookingNo(t *testing.T) {
	sec, _ := Build(sampleInvoice(), layout.DefaultTemplate()).Section(layout.SectionTable)
	rows := sec.Table.Rows
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows (one group, two singletons), got %d", len(rows))
	}

	bk := rows[0]
	if bk.BookingNo != "BK-7" || bk.Items != 2 || !bk.Rate.Equal(decimal.NewFromInt(150)) || !bk.VAT.Equal(decimal.NewFromInt(21)) {
		t.Fatalf("unexpected group row: %+v", bk)
	}

	cells := map[string][]string{}
	for i, c := range sec.Table.Columns {
		cells[c.Key] = bk.Cells[i]
	}
	if strings.Join(cells["equipment"], "|") != "RF1|RF2 + GS4" {
		t.Fatalf("unexpected equipment: %v", cells["equipment"])
	}
	if strings.Join(cells["ports"], "|") != "ALX / DAM" {
		t.Fatalf("expected ports deduplicated, got %v", cells["ports"])
	}
	if strings.Join(cells["trucker"], "|") != "Sami|Omar" {
		t.Fatalf("unexpected truckers: %v", cells["trucker"])
	}
	if !strings.Contains(cells["rate"][0], "150.00") {
		t.Fatalf("unexpected rate cell %q", cells["rate"][0])
	}

	if rows[1].Items != 1 || rows[2].Items != 1 || !rows[1].Rate.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("items without booking no must stay separate: %+v %+v", rows[1], rows[2])
	}
}

func TestGroupItemsUnlinkedKeysAreUnique(t *testing.T) {
	groups := GroupItems([]models.BookingRecord{{ID: "a"}, {ID: "a"}, {ID: "b", BookingNo: "X"}})
	if len(groups) != 3 || groups[0].Key == groups[1].Key {
		t.Fatalf("expected unique singleton groups, got %+v", groups)
	}
}

func TestSignatureAndNotesGating(t *testing.T) {
	tests := []struct {
		name          string
		signature     bool
		notes         bool
		invoiceNotes  string
		wantSection   bool
		wantNotesText string
	}{
		{"all on", true, true, "Pay soon", true, "Pay soon"},
		{"notes off", true, false, "Pay soon", true, ""},
		{"empty notes", true, true, "  ", true, ""},
		{"signature off hides notes", false, true, "Pay soon", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := sampleInvoice()
			inv.Notes = tt.invoiceNotes
			tpl := layout.DefaultTemplate()
			tpl.Fields.ShowSignature = tt.signature
			tpl.Fields.ShowNotes = tt.notes

			sec, ok := Build(inv, tpl).Section(layout.SectionSignature)
			if ok != tt.wantSection {
				t.Fatalf("expected section=%v, got %v", tt.wantSection, ok)
			}
			if ok && sec.Signature.Notes != tt.wantNotesText {
				t.Fatalf("expected notes %q, got %q", tt.wantNotesText, sec.Signature.Notes)
			}
		})
	}
}

func TestFieldTogglesGateElements(t *testing.T) {
	tpl := layout.DefaultTemplate()
	tpl.Fields.ShowVAT = false
	tpl.Fields.ShowSubtotal = false
	tpl.Fields.ShowEmail = false
	tpl.Fields.ShowPorts = false
	doc := Build(sampleInvoice(), tpl)

	header, _ := doc.Section(layout.SectionHeader)
	if header.Header.Email != "" || header.Header.CompanyName != "Delta Freight" {
		t.Fatalf("unexpected header: %+v", header.Header)
	}
	table, _ := doc.Section(layout.SectionTable)
	for _, c := range table.Table.Columns {
		if c.Key == "vat" || c.Key == "ports" {
			t.Fatalf("column %s should be hidden", c.Key)
		}
	}
	totals, _ := doc.Section(layout.SectionTotals)
	if len(totals.Totals.Lines) != 1 || totals.Totals.Lines[0].Label != "Total" {
		t.Fatalf("expected only the grand total line, got %+v", totals.Totals.Lines)
	}
}

func TestWriteFormats(t *testing.T) {
	r := NewRenderer()
	tpl := layout.DefaultTemplate()
	tpl.Fields.ShowWatermark = true

	var html bytes.Buffer
	if err := r.Write(&html, sampleInvoice(), tpl, FormatHTML); err != nil {
		t.Fatalf("html: %v", err)
	}
	for _, want := range []string{"INV-42", "Delta Freight", "GS4", WatermarkText, "186.00"} {
		if !strings.Contains(html.String(), want) {
			t.Fatalf("expected HTML to contain %q", want)
		}
	}

	var pdf bytes.Buffer
	if err := r.Write(&pdf, sampleInvoice(), tpl, FormatPDF); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf.Bytes(), []byte("%PDF-")) {
		t.Fatal("expected a PDF document")
	}

	var js bytes.Buffer
	if err := r.Write(&js, sampleInvoice(), tpl, FormatJSON); err != nil {
		t.Fatalf("json: %v", err)
	}
	var back models.Invoice
	if err := json.Unmarshal(js.Bytes(), &back); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if back.InvoiceNumber != "INV-42" || !back.Total.Equal(decimal.NewFromInt(186)) || len(back.Items) != 4 {
		t.Fatalf("unexpected decoded invoice: %+v", back)
	}
}

func TestWriteErrors(t *testing.T) {
	r := NewRenderer()
	if err := r.Write(&bytes.Buffer{}, nil, layout.DefaultTemplate(), FormatHTML); !errors.Is(err, ErrNoInvoice) {
		t.Fatalf("expected ErrNoInvoice, got %v", err)
	}
	if err := r.Write(&bytes.Buffer{}, sampleInvoice(), layout.DefaultTemplate(), Format("docx")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := ParseFormat("XLSX"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if f, err := ParseFormat(" PDF "); err != nil || f != FormatPDF {
		t.Fatalf("expected pdf, got %q, %v", f, err)
	}
}
