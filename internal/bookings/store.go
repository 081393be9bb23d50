// Package bookings holds the in-memory booking collection, its selection
// state and the queries the workbench runs over it. A Store is loaded from
// and saved to an injected storage backend; it is not safe for concurrent
// use.
package bookings

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"freightbill/internal/layout"
	"freightbill/internal/logger"
	"freightbill/internal/money"
	"freightbill/internal/storage"
	"freightbill/pkg/models"
)

// StatusAll disables the status filter.
const StatusAll = "ALL"

// Store is the booking collection plus the settings persisted alongside it.
type Store struct {
	backend  storage.Backend
	state    *storage.State
	selected map[string]struct{}
	log      zerolog.Logger
}

// NewStore creates an empty store bound to backend. Call Load to read the
// persisted state.
func NewStore(backend storage.Backend) *Store {
	return &Store{
		backend:  backend,
		state:    storage.NewState(),
		selected: map[string]struct{}{},
		log:      logger.WithComponent("booking-store"),
	}
}

// Load replaces the in-memory state with the persisted one and clears the
// selection.
func (s *Store) Load(ctx context.Context) error {
	const op = "Load"

	st, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.state = st
	s.selected = map[string]struct{}{}

	s.log.Debug().Int("bookings", len(st.Bookings)).Msg("Booking store loaded")
	return nil
}

// Save persists the current state.
func (s *Store) Save(ctx context.Context) error {
	const op = "Save"

	if err := s.backend.Save(ctx, s.state); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Records returns a copy of the collection in insertion order.
func (s *Store) Records() []models.BookingRecord {
	out := make([]models.BookingRecord, len(s.state.Bookings))
	copy(out, s.state.Bookings)
	return out
}

// Len returns the number of bookings.
func (s *Store) Len() int {
	return len(s.state.Bookings)
}

// Append adds records to the end of the collection. Nothing is merged or
// deduplicated.
func (s *Store) Append(records ...models.BookingRecord) {
	s.state.Bookings = append(s.state.Bookings, records...)
	s.log.Debug().
		Int("appended", len(records)).
		Int("total", len(s.state.Bookings)).
		Msg("Bookings appended")
}

// ManualEntry is the data for a single booking typed in by hand.
type ManualEntry struct {
	Customer        string
	BookingDate     string
	CustomerRef     string
	GoPort          string
	GiPort          string
	Trucker         string
	BookingNo       string
	BeneficiaryName string
	ReeferNumber    string
	GensetNo        string
	ShipperAddress  string
	Status          string
	Rate            string
	VAT             string
	Remarks         string
}

// Add creates a record from a manual entry with a fresh id and appends it.
func (s *Store) Add(e ManualEntry) models.BookingRecord {
	rec := models.BookingRecord{
		ID:              uuid.NewString(),
		Customer:        strings.TrimSpace(e.Customer),
		BookingDate:     strings.TrimSpace(e.BookingDate),
		CustomerRef:     strings.TrimSpace(e.CustomerRef),
		GoPort:          strings.TrimSpace(e.GoPort),
		GiPort:          strings.TrimSpace(e.GiPort),
		Trucker:         strings.TrimSpace(e.Trucker),
		BookingNo:       strings.TrimSpace(e.BookingNo),
		BeneficiaryName: strings.TrimSpace(e.BeneficiaryName),
		ReeferNumber:    strings.TrimSpace(e.ReeferNumber),
		GensetNo:        strings.TrimSpace(e.GensetNo),
		ShipperAddress:  strings.TrimSpace(e.ShipperAddress),
		Status:          strings.TrimSpace(e.Status),
		Rate:            strings.TrimSpace(e.Rate),
		VAT:             strings.TrimSpace(e.VAT),
		Remarks:         strings.TrimSpace(e.Remarks),
	}
	rec.RateValue = money.ParseValue(rec.Rate)
	rec.VATValue = money.ParseValue(rec.VAT)
	s.Append(rec)
	return rec
}

// ClearAll empties the collection and the selection. Confirmation is the
// caller's job.
func (s *Store) ClearAll() {
	n := len(s.state.Bookings)
	s.state.Bookings = []models.BookingRecord{}
	s.selected = map[string]struct{}{}
	s.log.Warn().Int("removed", n).Msg("Booking collection cleared")
}

// Find returns the record with id.
func (s *Store) Find(id string) (models.BookingRecord, bool) {
	for _, r := range s.state.Bookings {
		if r.ID == id {
			return r, true
		}
	}
	return models.BookingRecord{}, false
}

// FindByBookingNo returns every record sharing bookingNo, in store order.
// Surrounding whitespace is ignored; a blank number matches nothing.
func (s *Store) FindByBookingNo(bookingNo string) []models.BookingRecord {
	key := strings.TrimSpace(bookingNo)
	if key == "" {
		return nil
	}
	var out []models.BookingRecord
	for _, r := range s.state.Bookings {
		if strings.TrimSpace(r.BookingNo) == key {
			out = append(out, r)
		}
	}
	return out
}

// StampInvoice marks the records with ids as billed under invNo and returns
// how many were updated.
func (s *Store) StampInvoice(ids []string, invNo, invDate, dueDate string) int {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	n := 0
	for i := range s.state.Bookings {
		if _, ok := want[s.state.Bookings[i].ID]; !ok {
			continue
		}
		s.state.Bookings[i].InvNo = invNo
		s.state.Bookings[i].InvDate = invDate
		s.state.Bookings[i].InvDueDate = dueDate
		n++
	}
	return n
}

// Profile returns the issuer profile.
func (s *Store) Profile() models.UserProfile {
	return s.state.Profile
}

// SetProfile replaces the issuer profile.
func (s *Store) SetProfile(p models.UserProfile) {
	s.state.Profile = p
}

// Template returns a copy of the active template configuration.
func (s *Store) Template() layout.TemplateConfig {
	return s.state.Template.Clone()
}

// SetTemplate normalizes and stores the template configuration.
func (s *Store) SetTemplate(t layout.TemplateConfig) {
	s.state.Template = t.Normalize()
}

// CustomerSettings returns the settings saved for a customer, if any.
func (s *Store) CustomerSettings(customer string) (models.CustomerSettings, bool) {
	cs, ok := s.state.Customers[customer]
	return cs, ok
}

// SetCustomerSettings stores settings for a customer.
func (s *Store) SetCustomerSettings(customer string, cs models.CustomerSettings) {
	if s.state.Customers == nil {
		s.state.Customers = map[string]models.CustomerSettings{}
	}
	s.state.Customers[customer] = cs
}
