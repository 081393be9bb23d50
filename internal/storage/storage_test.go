package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"freightbill/internal/layout"
	"freightbill/pkg/models"
)

func sampleState() *State {
	s := NewState()
	s.Bookings = []models.BookingRecord{
		{ID: "bk-1-0", Customer: "Acme", BookingNo: "BK-1", Rate: "$500.00", RateValue: 500, VAT: "70", VATValue: 70},
		{ID: "bk-1-1", Customer: "Nile Foods", InvNo: "INV-9", InvDate: "2026-01-02"},
	}
	s.Profile = models.UserProfile{Name: "Mona", CompanyName: "Delta Freight", TaxID: "123-456"}
	s.Template.HiddenSections = layout.NewSectionSet(layout.SectionSignature)
	s.Template.Theme = layout.ThemeMaritime
	s.Customers["Acme"] = models.CustomerSettings{Address: "1 Dock St", Currency: "EUR", DueDays: 14}
	return s
}

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()
	sqlite, err := Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	json, err := Open("json", filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	return map[string]Backend{"json": json, "sqlite": sqlite}
}

func TestBackendsRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := b.Load(ctx)
			if err != nil {
				t.Fatalf("load empty: %v", err)
			}
			if len(empty.Bookings) != 0 || empty.Customers == nil {
				t.Fatalf("expected empty defaults, got %+v", empty)
			}

			want := sampleState()
			if err := b.Save(ctx, want); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := b.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("expected %+v, got %+v", want, got)
			}

			want.Bookings = want.Bookings[:1]
			if err := b.Save(ctx, want); err != nil {
				t.Fatalf("save again: %v", err)
			}
			got, err = b.Load(ctx)
			if err != nil {
				t.Fatalf("reload: %v", err)
			}
			if len(got.Bookings) != 1 {
				t.Fatalf("expected saved state to replace old rows, got %d bookings", len(got.Bookings))
			}
		})
	}
}

func TestDecodeLegacyArray(t *testing.T) {
	s, err := Decode([]byte(`[{"id":"a","customer":"Acme","rate":"$1,200"}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(s.Bookings) != 1 || s.Bookings[0].RateValue != 1200 {
		t.Fatalf("expected rate value derived from text, got %+v", s.Bookings)
	}
	if s.Version != CurrentVersion || s.Template.Theme != layout.DefaultTheme {
		t.Fatalf("expected defaults filled in, got %+v", s)
	}
}

func TestDecodeLegacyArrayAssignsMissingIDs(t *testing.T) {
	s, err := Decode([]byte(`[{"customer":"Acme"},{"id":"  ","customer":"Nile"},{"id":"keep","customer":"Gulf"}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(s.Bookings) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(s.Bookings))
	}
	a, b := s.Bookings[0].ID, s.Bookings[1].ID
	if a == "" || b == "" || a == b {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a, b)
	}
	if s.Bookings[2].ID != "keep" {
		t.Fatalf("expected existing id kept, got %q", s.Bookings[2].ID)
	}
}

func TestDecodeMissingParts(t *testing.T) {
	s, err := Decode([]byte(`{"version":1,"profile":{"name":"Mona"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Bookings == nil || s.Customers == nil {
		t.Fatal("expected empty collections, got nil")
	}
	if !reflect.DeepEqual(s.Template, layout.DefaultTemplate()) {
		t.Fatalf("expected default template, got %+v", s.Template)
	}
	if s.Profile.Name != "Mona" {
		t.Fatalf("expected profile to load, got %+v", s.Profile)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode([]byte(`{"version":99}`)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
	if _, err := Decode([]byte(`{not json`)); !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
}

func TestFileBackendWrapsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFileBackend(path).Load(context.Background())
	var se *StorageError
	if !errors.As(err, &se) || se.Op != "Load" || !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected wrapped corrupt-state error, got %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("postgres", "x"); !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
	}
}
