package manifest

import "testing"

func TestFindHeaderRow(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want int
	}{
		{"first row", [][]string{{"Customer", "Rate"}, {"a", "1"}}, 0},
		{"below junk", [][]string{{"Report"}, {"exported today"}, {"Client", "Booking", "Rate"}}, 2},
		{"title mentions customer", [][]string{{"Customer billing report March"}, {""}, {"Customer", "Booking No", "Rate"}}, 2},
		{"token inside longer cell", [][]string{{"x"}, {"Client", "Booking No", "Ratecard"}}, 0},
		{"padded token", [][]string{{"x"}, {"  Customer  ", "b"}}, 1},
		{"quoted token", [][]string{{"x"}, {`"RATE"`}}, 1},
		{"none found", [][]string{{"a"}, {"b"}}, 0},
		{"beyond scan window", append(make([][]string, 10), []string{"customer"}), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindHeaderRow(tt.rows); got != tt.want {
				t.Fatalf("expected header row %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMapColumnsExactBeatsPartial(t *testing.T) {
	cols := MapColumns([]string{"Booking Date", "Booking No.", "Customer", "VAT", "Rate"})
	checks := map[Field]int{
		FieldBookingDate: 0,
		FieldBookingNo:   1,
		FieldCustomer:    2,
		FieldVAT:         3,
		FieldRate:        4,
	}
	for f, want := range checks {
		if got := cols.Index(f); got != want {
			t.Fatalf("%s: expected column %d, got %d", f, want, got)
		}
	}
}

func TestMapColumnsWordBoundaryAliases(t *testing.T) {
	cols := MapColumns([]string{"Customer", "Report Type", "Client PO", "Shipped To", "Amount"})
	if got := cols.Index(FieldCustomerRef); got != 2 {
		t.Fatalf("expected customerRef from 'Client PO' at 2, got %d", got)
	}
	if got := cols.Index(FieldGiPort); got != 3 {
		t.Fatalf("expected giPort from 'Shipped To' at 3, got %d", got)
	}
	if got := cols.Index(FieldRate); got != 4 {
		t.Fatalf("expected rate from 'Amount' at 4, got %d", got)
	}

	cols = MapColumns([]string{"Customer", "Preferred Port", "Total", "Price"})
	if got := cols.Index(FieldCustomerRef); got != Unmapped {
		t.Fatalf("expected 'ref' not to match inside 'preferred', got %d", got)
	}
}

func TestMapColumnsDefaults(t *testing.T) {
	cols := MapColumns([]string{"a", "b", "c", "d"})
	if got := cols.Index(FieldCustomer); got != 0 {
		t.Fatalf("expected customer to default to 0, got %d", got)
	}
	if got := cols.Index(FieldRate); got != 3 {
		t.Fatalf("expected rate to default to 3, got %d", got)
	}
	if got := cols.Index(FieldTrucker); got != Unmapped {
		t.Fatalf("expected trucker unmapped, got %d", got)
	}
}

func TestMapColumnsPortAliases(t *testing.T) {
	cols := MapColumns([]string{"Customer", "Clip On", "Clip Off", "Container", "Genset", "Driver"})
	checks := map[Field]int{
		FieldGoPort:       1,
		FieldGiPort:       2,
		FieldReeferNumber: 3,
		FieldGensetNo:     4,
		FieldTrucker:      5,
	}
	for f, want := range checks {
		if got := cols.Index(f); got != want {
			t.Fatalf("%s: expected column %d, got %d", f, want, got)
		}
	}
}

func TestWordAliasesArePrecompiled(t *testing.T) {
	compiled := map[string]bool{}
	for _, fa := range headerAliases {
		for _, a := range fa.aliases {
			if a.re == nil {
				continue
			}
			compiled[a.text] = true
			if !a.re.MatchString("x " + a.text + " y") {
				t.Fatalf("%s: pattern for %q does not match the whole word", fa.field, a.text)
			}
		}
	}
	for _, text := range []string{"to", "ref", "po"} {
		if !compiled[text] {
			t.Fatalf("expected alias %q to carry a compiled pattern", text)
		}
	}
}
