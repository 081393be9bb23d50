// Package render projects an invoice through a template configuration into a
// printable document and writes it as HTML, PDF or JSON.
//
// Build is pure. Sections appear in the configured order, hidden sections are
// skipped entirely, and field toggles gate the elements inside each section.
// Themes only select a Style; they never change what data is shown.
package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"freightbill/internal/layout"
	"freightbill/internal/money"
	"freightbill/pkg/models"
)

// WatermarkText is printed behind the document when showWatermark is on.
const WatermarkText = "ORIGINAL"

// Document is the rendered form of an invoice.
type Document struct {
	InvoiceNumber string
	Currency      string
	Style         layout.Style
	Watermark     string
	Sections      []Section
}

// Section is one rendered block. Exactly one of the block pointers is set,
// matching ID.
type Section struct {
	ID        layout.SectionID
	Title     string
	Header    *HeaderBlock
	Parties   *PartiesBlock
	Table     *TableBlock
	Totals    *TotalsBlock
	Signature *SignatureBlock
	Footer    *FooterBlock
}

// HeaderBlock identifies the issuer and the invoice. Empty strings are
// elements switched off by the field toggles.
type HeaderBlock struct {
	LogoRef       string
	CompanyName   string
	IssuerAddress string
	TaxID         string
	Email         string
	InvoiceNumber string
	Date          string
	DueDate       string
}

// PartiesBlock identifies who is billed.
type PartiesBlock struct {
	CustomerName    string
	CustomerAddress string
	BeneficiaryName string
}

// Column is one visible table column.
type Column struct {
	Key   string
	Title string
	Right bool // right-aligned
}

// Row is one invoice line: a booking-number group. Cells align with the
// table's Columns; each cell holds its values stacked one per line.
type Row struct {
	BookingNo string
	Items     int
	Rate      decimal.Decimal
	VAT       decimal.Decimal
	Cells     [][]string
}

// TableBlock lists the billed bookings.
type TableBlock struct {
	Columns []Column
	Rows    []Row
}

// TotalLine is one line of the totals block.
type TotalLine struct {
	Label  string
	Amount decimal.Decimal
	Text   string
}

// TotalsBlock carries the invoice totals. Subtotal and tax lines are gated
// by toggles; the grand total is always present.
type TotalsBlock struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	Lines    []TotalLine
}

// SignatureBlock closes the invoice.
type SignatureBlock struct {
	SignatureRef string
	Name         string
	Notes        string
}

// FooterBlock is the closing line of the page.
type FooterBlock struct {
	Text string
}

// Group is a set of invoice items sharing a booking number. Items without
// one form their own group.
type Group struct {
	Key       string
	BookingNo string
	Items     []models.BookingRecord
}

const unlinkedKey = "\x00unlinked-"

// GroupItems groups items by booking number in order of first appearance.
func GroupItems(items []models.BookingRecord) []Group {
	var groups []Group
	index := map[string]int{}
	for i, it := range items {
		key := strings.TrimSpace(it.BookingNo)
		if key == "" {
			key = fmt.Sprintf("%s%d-%s", unlinkedKey, i, it.ID)
		}
		if at, ok := index[key]; ok {
			groups[at].Items = append(groups[at].Items, it)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{Key: key, BookingNo: it.BookingNo, Items: []models.BookingRecord{it}})
	}
	return groups
}

type builder func(inv *models.Invoice, f layout.FieldVisibility) (Section, bool)

var builders = map[layout.SectionID]builder{
	layout.SectionHeader:    buildHeader,
	layout.SectionParties:   buildParties,
	layout.SectionTable:     buildTable,
	layout.SectionTotals:    buildTotals,
	layout.SectionSignature: buildSignature,
	layout.SectionFooter:    buildFooter,
}

// Build projects inv through tpl. The configuration is normalized first, so
// unknown or duplicate section ids never reach the document.
func Build(inv *models.Invoice, tpl layout.TemplateConfig) Document {
	tpl = tpl.Normalize()
	style := layout.StyleFor(tpl.Theme)

	doc := Document{
		InvoiceNumber: inv.InvoiceNumber,
		Currency:      inv.Currency,
		Style:         style,
	}
	if tpl.Fields.ShowWatermark {
		doc.Watermark = WatermarkText
	}

	for _, id := range tpl.SectionOrder {
		if !tpl.Visible(id) {
			continue
		}
		build, ok := builders[id]
		if !ok {
			continue
		}
		sec, ok := build(inv, tpl.Fields)
		if !ok {
			continue
		}
		sec.ID = id
		if style.Uppercase {
			sec.Title = strings.ToUpper(sec.Title)
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc
}

// Section returns the rendered section with id, if present.
func (d Document) Section(id layout.SectionID) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

func pick(on bool, v string) string {
	if !on {
		return ""
	}
	return v
}

func buildHeader(inv *models.Invoice, f layout.FieldVisibility) (Section, bool) {
	company := inv.Issuer.CompanyName
	if company == "" {
		company = inv.Issuer.Name
	}
	h := &HeaderBlock{
		LogoRef:       pick(f.ShowLogo, inv.Issuer.LogoRef),
		CompanyName:   pick(f.ShowCompanyName, company),
		IssuerAddress: pick(f.ShowIssuerAddress, inv.Issuer.Address),
		TaxID:         pick(f.ShowTaxID, inv.Issuer.TaxID),
		Email:         pick(f.ShowEmail, inv.Issuer.Email),
		InvoiceNumber: pick(f.ShowInvoiceNumber, inv.InvoiceNumber),
		Date:          pick(f.ShowDate, inv.Date),
		DueDate:       pick(f.ShowDueDate, inv.DueDate),
	}
	return Section{Title: "Invoice", Header: h}, true
}

func buildParties(inv *models.Invoice, f layout.FieldVisibility) (Section, bool) {
	p := &PartiesBlock{
		CustomerName:    inv.CustomerName,
		CustomerAddress: pick(f.ShowCustomerAddress, inv.CustomerAddress),
		BeneficiaryName: pick(f.ShowBeneficiary, inv.BeneficiaryName),
	}
	return Section{Title: "Bill To", Parties: p}, true
}

func tableColumns(f layout.FieldVisibility) []Column {
	cols := []Column{{Key: "bookingNo", Title: "Booking No"}}
	if f.ShowBookingDate {
		cols = append(cols, Column{Key: "bookingDate", Title: "Date"})
	}
	if f.ShowCustomerRef {
		cols = append(cols, Column{Key: "customerRef", Title: "Reference"})
	}
	if f.ShowEquipment {
		cols = append(cols, Column{Key: "equipment", Title: "Equipment"})
	}
	if f.ShowPorts {
		cols = append(cols, Column{Key: "ports", Title: "Route"})
	}
	if f.ShowTrucker {
		cols = append(cols, Column{Key: "trucker", Title: "Trucker"})
	}
	cols = append(cols, Column{Key: "rate", Title: "Rate", Right: true})
	if f.ShowVAT {
		cols = append(cols, Column{Key: "vat", Title: "VAT", Right: true})
	}
	return cols
}

// uniq collects the non-empty values of fn over items, first occurrence wins.
func uniq(items []models.BookingRecord, fn func(models.BookingRecord) string) []string {
	var out []string
	seen := map[string]bool{}
	for _, it := range items {
		v := strings.TrimSpace(fn(it))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func equipment(r models.BookingRecord) string {
	reefer, genset := strings.TrimSpace(r.ReeferNumber), strings.TrimSpace(r.GensetNo)
	switch {
	case reefer != "" && genset != "":
		return reefer + " + " + genset
	case reefer != "":
		return reefer
	default:
		return genset
	}
}

func route(r models.BookingRecord) string {
	from, to := strings.TrimSpace(r.GoPort), strings.TrimSpace(r.GiPort)
	switch {
	case from != "" && to != "":
		return from + " / " + to
	case from != "":
		return from
	default:
		return to
	}
}

func buildTable(inv *models.Invoice, f layout.FieldVisibility) (Section, bool) {
	cols := tableColumns(f)
	t := &TableBlock{Columns: cols}

	for _, g := range GroupItems(inv.Items) {
		row := Row{BookingNo: g.BookingNo, Items: len(g.Items), Rate: decimal.Zero, VAT: decimal.Zero}
		for _, it := range g.Items {
			row.Rate = row.Rate.Add(decimal.NewFromFloat(it.RateValue))
			row.VAT = row.VAT.Add(decimal.NewFromFloat(it.VATValue))
		}

		for _, c := range cols {
			var cell []string
			switch c.Key {
			case "bookingNo":
				cell = uniq(g.Items, func(r models.BookingRecord) string { return r.BookingNo })
			case "bookingDate":
				cell = uniq(g.Items, func(r models.BookingRecord) string { return r.BookingDate })
			case "customerRef":
				cell = uniq(g.Items, func(r models.BookingRecord) string { return r.CustomerRef })
			case "equipment":
				cell = uniq(g.Items, equipment)
			case "ports":
				cell = uniq(g.Items, route)
			case "trucker":
				cell = uniq(g.Items, func(r models.BookingRecord) string { return r.Trucker })
			case "rate":
				cell = []string{money.Format(row.Rate, inv.Currency)}
			case "vat":
				cell = []string{money.Format(row.VAT, inv.Currency)}
			}
			row.Cells = append(row.Cells, cell)
		}
		t.Rows = append(t.Rows, row)
	}
	return Section{Title: "Services", Table: t}, true
}

func buildTotals(inv *models.Invoice, f layout.FieldVisibility) (Section, bool) {
	t := &TotalsBlock{Subtotal: inv.Subtotal, Tax: inv.Tax, Total: inv.Total}
	line := func(label string, amount decimal.Decimal) TotalLine {
		return TotalLine{Label: label, Amount: amount, Text: money.Format(amount, inv.Currency)}
	}
	if f.ShowSubtotal {
		t.Lines = append(t.Lines, line("Subtotal", inv.Subtotal))
	}
	if f.ShowVAT {
		t.Lines = append(t.Lines, line("VAT", inv.Tax))
	}
	t.Lines = append(t.Lines, line("Total", inv.Total))
	return Section{Title: "Totals", Totals: t}, true
}

func buildSignature(inv *models.Invoice, f layout.FieldVisibility) (Section, bool) {
	if !f.ShowSignature {
		return Section{}, false
	}
	s := &SignatureBlock{
		SignatureRef: inv.Issuer.SignatureRef,
		Name:         inv.Issuer.Name,
	}
	if f.ShowNotes && strings.TrimSpace(inv.Notes) != "" {
		s.Notes = inv.Notes
	}
	return Section{Title: "Authorized Signature", Signature: s}, true
}

func buildFooter(inv *models.Invoice, f layout.FieldVisibility) (Section, bool) {
	if !f.ShowFooterText {
		return Section{}, false
	}
	text := "Thank you for your business."
	if inv.DueDate != "" {
		text = fmt.Sprintf("Please quote %s with your payment. Due by %s. %s", inv.InvoiceNumber, inv.DueDate, text)
	}
	return Section{Footer: &FooterBlock{Text: text}}, true
}
