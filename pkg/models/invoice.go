package models

import (
	"time"

	"github.com/shopspring/decimal"

	"freightbill/internal/layout"
)

// Invoice is a billing aggregate assembled from a selection of bookings.
// Items, Subtotal, Tax and Total are fixed at assembly; the remaining
// invoice-level fields stay editable through Apply.
type Invoice struct {
	ID              string          `json:"id"`
	InvoiceNumber   string          `json:"invoiceNumber"`
	Date            string          `json:"date"`    // issue date, YYYY-MM-DD
	DueDate         string          `json:"dueDate"` // YYYY-MM-DD
	CustomerName    string          `json:"customerName"`
	CustomerAddress string          `json:"customerAddress"`
	BeneficiaryName string          `json:"beneficiaryName"`
	Items           []BookingRecord `json:"items"`

	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
	Notes    string          `json:"notes"`

	Template layout.TemplateConfig `json:"template"`
	Issuer   UserProfile           `json:"issuer"`

	CreatedAt time.Time `json:"createdAt"`
}

// InvoiceEdits carries optional changes to the editable invoice-level fields.
// Nil fields are left untouched.
type InvoiceEdits struct {
	InvoiceNumber   *string
	Date            *string
	DueDate         *string
	CustomerAddress *string
	Notes           *string
	Currency        *string
}

// Apply re-derives the editable fields of the invoice. Items and totals are
// never touched.
func (inv *Invoice) Apply(e InvoiceEdits) {
	if e.InvoiceNumber != nil {
		inv.InvoiceNumber = *e.InvoiceNumber
	}
	if e.Date != nil {
		inv.Date = *e.Date
	}
	if e.DueDate != nil {
		inv.DueDate = *e.DueDate
	}
	if e.CustomerAddress != nil {
		inv.CustomerAddress = *e.CustomerAddress
	}
	if e.Notes != nil {
		inv.Notes = *e.Notes
	}
	if e.Currency != nil {
		inv.Currency = *e.Currency
	}
}
