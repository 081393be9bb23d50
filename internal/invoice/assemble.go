// Package invoice assembles billing aggregates from selected bookings.
//
// Assemble is pure: it snapshots the selection into an Invoice and computes
// its totals. Finalize wraps it with the side effects the workbench needs:
// stamping the invoice number onto the source bookings and clearing the
// selection.
package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"freightbill/internal/layout"
	"freightbill/internal/logger"
	"freightbill/pkg/models"
)

// DateLayout is the format of invoice and due dates.
const DateLayout = "2006-01-02"

// Defaults used when neither the caller nor customer settings provide a value.
const (
	DefaultCurrency = "USD"
	DefaultDueDays  = 30
)

// Config carries the user-supplied invoice fields. Blank fields take defaults.
type Config struct {
	InvoiceNumber   string
	Date            string
	DueDate         string
	DueDays         int
	CustomerAddress string
	Currency        string
	Notes           string
}

// WithCustomerDefaults fills blank fields from saved customer settings.
func (c Config) WithCustomerDefaults(cs models.CustomerSettings) Config {
	if strings.TrimSpace(c.CustomerAddress) == "" {
		c.CustomerAddress = cs.Address
	}
	if strings.TrimSpace(c.Currency) == "" {
		c.Currency = cs.Currency
	}
	if strings.TrimSpace(c.Notes) == "" {
		c.Notes = cs.Notes
	}
	if c.DueDays == 0 {
		c.DueDays = cs.DueDays
	}
	return c
}

// GenerateNumber derives an invoice number from a timestamp.
func GenerateNumber(at time.Time) string {
	return fmt.Sprintf("INV-%s-%03d", at.Format("20060102-150405"), at.Nanosecond()/int(time.Millisecond))
}

// Assemble builds an invoice from selected bookings. It reports false and
// returns nil when the selection is empty.
//
// The customer and beneficiary come from the first selected record; the
// customer address falls back from the config to that record's shipper
// address. Items are copied, so later changes to the source bookings never
// reach the invoice.
func Assemble(selected []models.BookingRecord, cfg Config, tpl layout.TemplateConfig, issuer models.UserProfile, now time.Time) (*models.Invoice, bool) {
	if len(selected) == 0 {
		return nil, false
	}
	first := selected[0]

	number := strings.TrimSpace(cfg.InvoiceNumber)
	if number == "" {
		number = GenerateNumber(now)
	}

	date := strings.TrimSpace(cfg.Date)
	if date == "" {
		date = now.Format(DateLayout)
	}

	due := strings.TrimSpace(cfg.DueDate)
	if due == "" {
		days := cfg.DueDays
		if days <= 0 {
			days = DefaultDueDays
		}
		base, err := time.Parse(DateLayout, date)
		if err != nil {
			base = now
		}
		due = base.AddDate(0, 0, days).Format(DateLayout)
	}

	address := strings.TrimSpace(cfg.CustomerAddress)
	if address == "" {
		address = first.ShipperAddress
	}

	currency := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	items := make([]models.BookingRecord, len(selected))
	copy(items, selected)

	subtotal, tax := decimal.Zero, decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(it.RateValue))
		tax = tax.Add(decimal.NewFromFloat(it.VATValue))
	}

	return &models.Invoice{
		ID:              uuid.NewString(),
		InvoiceNumber:   number,
		Date:            date,
		DueDate:         due,
		CustomerName:    first.Customer,
		CustomerAddress: address,
		BeneficiaryName: first.BeneficiaryName,
		Items:           items,
		Subtotal:        subtotal,
		Tax:             tax,
		Total:           subtotal.Add(tax),
		Currency:        currency,
		Notes:           cfg.Notes,
		Template:        tpl.Clone(),
		Issuer:          issuer,
		CreatedAt:       now,
	}, true
}

// Ledger is the booking collection Finalize reads from and writes to.
type Ledger interface {
	Selected() []models.BookingRecord
	StampInvoice(ids []string, invNo, invDate, dueDate string) int
	ClearSelection()
}

// Assembler finalizes invoices against a Ledger.
type Assembler struct {
	now func() time.Time
	log zerolog.Logger
}

// NewAssembler creates an assembler using the wall clock.
func NewAssembler() *Assembler {
	return &Assembler{
		now: time.Now,
		log: logger.WithComponent("invoice-assembly"),
	}
}

// WithClock replaces the clock used for default numbers and dates.
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Finalize assembles an invoice from the ledger's current selection, stamps
// the invoice number onto every selected booking and clears the selection.
// With nothing selected it does nothing and reports false.
func (a *Assembler) Finalize(l Ledger, cfg Config, tpl layout.TemplateConfig, issuer models.UserProfile) (*models.Invoice, bool) {
	selected := l.Selected()
	inv, ok := Assemble(selected, cfg, tpl, issuer, a.now())
	if !ok {
		a.log.Debug().Msg("Finalize skipped, nothing selected")
		return nil, false
	}

	ids := make([]string, len(inv.Items))
	for i := range inv.Items {
		ids[i] = inv.Items[i].ID
		inv.Items[i].InvNo = inv.InvoiceNumber
		inv.Items[i].InvDate = inv.Date
		inv.Items[i].InvDueDate = inv.DueDate
	}
	stamped := l.StampInvoice(ids, inv.InvoiceNumber, inv.Date, inv.DueDate)
	l.ClearSelection()

	log := logger.WithInvoice("invoice-assembly", inv.InvoiceNumber)
	log.Info().
		Str("customer", inv.CustomerName).
		Int("items", len(inv.Items)).
		Int("stamped", stamped).
		Str("subtotal", inv.Subtotal.StringFixed(2)).
		Str("tax", inv.Tax.StringFixed(2)).
		Str("total", inv.Total.StringFixed(2)).
		Str("currency", inv.Currency).
		Msg("Invoice finalized")

	return inv, true
}
