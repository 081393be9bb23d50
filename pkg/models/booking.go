package models

import (
	"strconv"
	"strings"
)

// Billing states derived from a record's invoice number.
const (
	BillingPending = "PENDING"
	BillingSettled = "SETTLED"
)

// BookingRecord is one shipment/container operation imported from a manifest
// or entered by hand. Rate and VAT keep the display text exactly as received;
// the paired *Value fields hold the parsed number.
type BookingRecord struct {
	ID              string  `json:"id"`
	Customer        string  `json:"customer"`
	BookingDate     string  `json:"bookingDate"`
	CustomerRef     string  `json:"customerRef"`
	GoPort          string  `json:"goPort"`
	GiPort          string  `json:"giPort"`
	Trucker         string  `json:"trucker"`
	BookingNo       string  `json:"bookingNo"`
	BeneficiaryName string  `json:"beneficiaryName"`
	ReeferNumber    string  `json:"reeferNumber"`
	GensetNo        string  `json:"gensetNo"`
	ShipperAddress  string  `json:"shipperAddress"`
	Status          string  `json:"status"`
	Rate            string  `json:"rate"`
	RateValue       float64 `json:"rateValue"`
	VAT             string  `json:"vat"`
	VATValue        float64 `json:"vatValue"`
	Remarks         string  `json:"remarks"`
	InvNo           string  `json:"invNo"`
	InvDate         string  `json:"invDate"`
	InvDueDate      string  `json:"invDueDate"`
}

// BookingFieldNames lists the JSON key of every BookingRecord field in
// declaration order. The history export uses it as its header row.
var BookingFieldNames = []string{
	"id", "customer", "bookingDate", "customerRef", "goPort", "giPort",
	"trucker", "bookingNo", "beneficiaryName", "reeferNumber", "gensetNo",
	"shipperAddress", "status", "rate", "rateValue", "vat", "vatValue",
	"remarks", "invNo", "invDate", "invDueDate",
}

// FieldValues returns the record's values aligned with BookingFieldNames.
func (r BookingRecord) FieldValues() []string {
	return []string{
		r.ID, r.Customer, r.BookingDate, r.CustomerRef, r.GoPort, r.GiPort,
		r.Trucker, r.BookingNo, r.BeneficiaryName, r.ReeferNumber, r.GensetNo,
		r.ShipperAddress, r.Status, r.Rate, formatNumber(r.RateValue), r.VAT,
		formatNumber(r.VATValue), r.Remarks, r.InvNo, r.InvDate, r.InvDueDate,
	}
}

// Settled reports whether the record has been included in an invoice.
func (r BookingRecord) Settled() bool {
	return r.InvNo != ""
}

// BillingStatus returns BillingSettled or BillingPending.
func (r BookingRecord) BillingStatus() string {
	if r.Settled() {
		return BillingSettled
	}
	return BillingPending
}

// HasBookingNo reports whether the record is linked to a booking number.
func (r BookingRecord) HasBookingNo() bool {
	return strings.TrimSpace(r.BookingNo) != ""
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
