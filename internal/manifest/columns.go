package manifest

import (
	"regexp"
	"strings"
)

// Field is a canonical BookingRecord field a manifest column can map to.
type Field string

const (
	FieldCustomer        Field = "customer"
	FieldBookingNo       Field = "bookingNo"
	FieldRate            Field = "rate"
	FieldVAT             Field = "vat"
	FieldBookingDate     Field = "bookingDate"
	FieldReeferNumber    Field = "reeferNumber"
	FieldGensetNo        Field = "gensetNo"
	FieldGoPort          Field = "goPort"
	FieldGiPort          Field = "giPort"
	FieldBeneficiaryName Field = "beneficiaryName"
	FieldShipperAddress  Field = "shipperAddress"
	FieldStatus          Field = "status"
	FieldCustomerRef     Field = "customerRef"
	FieldTrucker         Field = "trucker"
	FieldInvNo           Field = "invNo"
	FieldInvDate         Field = "invDate"
	FieldInvDueDate      Field = "invDueDate"
	FieldRemarks         Field = "remarks"
)

// Unmapped marks a field with no matching column.
const Unmapped = -1

// Columns that are assumed to be structurally fixed when no header names them.
const (
	defaultCustomerColumn = 0
	defaultRateColumn     = 3
)

type alias struct {
	text string
	re   *regexp.Regexp // set for short aliases that only match whole words
}

type fieldAliases struct {
	field   Field
	aliases []alias
}

func plain(texts ...string) []alias {
	out := make([]alias, len(texts))
	for i, t := range texts {
		out[i] = alias{text: t}
	}
	return out
}

func word(text string) alias {
	return alias{text: text, re: regexp.MustCompile(`\b` + regexp.QuoteMeta(text) + `\b`)}
}

// headerAliases lists accepted header names per field, highest priority first.
var headerAliases = []fieldAliases{
	{FieldCustomer, plain("customer", "client")},
	{FieldBookingNo, plain("booking no", "booking #", "bk no", "booking")},
	{FieldRate, plain("rate", "amount", "price", "value")},
	{FieldVAT, plain("vat", "tax")},
	{FieldBookingDate, plain("booking date", "date")},
	{FieldReeferNumber, plain("reefer", "container")},
	{FieldGensetNo, plain("genset")},
	{FieldGoPort, plain("port in", "go port", "origin", "from", "clip on", "entry port")},
	{FieldGiPort, []alias{
		{text: "port out"}, {text: "gi port"}, {text: "destination"},
		word("to"), {text: "clip off"}, {text: "exit port"},
	}},
	{FieldBeneficiaryName, plain("beneficiary", "attention")},
	{FieldShipperAddress, plain("address", "shipper")},
	{FieldStatus, plain("status")},
	{FieldCustomerRef, []alias{
		word("ref"), {text: "customer ref"},
		word("po"), {text: "reference"},
	}},
	{FieldTrucker, plain("trucker", "driver", "transporter")},
	{FieldInvNo, plain("inv no", "invoice no", "invoice #")},
	{FieldInvDate, plain("inv date", "invoice date")},
	{FieldInvDueDate, plain("inv due date", "due date")},
	{FieldRemarks, plain("remarks", "notes", "comment")},
}

// ColumnMap resolves each field to a column index or Unmapped.
type ColumnMap map[Field]int

// Index returns the column of f, or Unmapped.
func (m ColumnMap) Index(f Field) int {
	if idx, ok := m[f]; ok {
		return idx
	}
	return Unmapped
}

// MapColumns matches header cells against the alias table. An exact match
// on any alias wins; otherwise the first alias found inside a header is
// used. Short ambiguous aliases only match as whole words.
func MapColumns(header []string) ColumnMap {
	lowered := make([]string, len(header))
	compact := make([]string, len(header))
	for i, h := range header {
		lowered[i] = strings.ToLower(clean(h))
		compact[i] = compactHeader(lowered[i])
	}

	m := make(ColumnMap, len(headerAliases))
	for _, fa := range headerAliases {
		idx := exactMatch(compact, fa.aliases)
		if idx == Unmapped {
			idx = partialMatch(lowered, fa.aliases)
		}
		m[fa.field] = idx
	}

	if m[FieldCustomer] == Unmapped {
		m[FieldCustomer] = defaultCustomerColumn
	}
	if m[FieldRate] == Unmapped {
		m[FieldRate] = defaultRateColumn
	}
	return m
}

func exactMatch(headers []string, aliases []alias) int {
	for _, a := range aliases {
		want := compactHeader(a.text)
		for i, h := range headers {
			if h == want {
				return i
			}
		}
	}
	return Unmapped
}

func partialMatch(headers []string, aliases []alias) int {
	for _, a := range aliases {
		for i, h := range headers {
			if h == "" {
				continue
			}
			if a.re != nil {
				if a.re.MatchString(h) {
					return i
				}
				continue
			}
			if strings.Contains(h, a.text) {
				return i
			}
		}
	}
	return Unmapped
}

// compactHeader drops separators so "Booking No.", "booking_no" and
// "bookingNo" compare equal.
func compactHeader(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '_', '-', '.':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

var headerTokens = []string{"customer", "rate", "booking"}

// maxHeaderScan bounds how far down the header row is searched.
const maxHeaderScan = 10

// FindHeaderRow returns the first of the leading rows with a cell that is
// exactly a customer, rate or booking token, or 0 when none has one. Cells
// are compared case-insensitively after unquoting, so a title line that
// merely mentions "customer" is not taken as the header.
func FindHeaderRow(rows [][]string) int {
	for i := 0; i < len(rows) && i < maxHeaderScan; i++ {
		for _, cell := range rows[i] {
			c := strings.ToLower(clean(cell))
			for _, tok := range headerTokens {
				if c == tok {
					return i
				}
			}
		}
	}
	return 0
}
