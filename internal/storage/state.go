// Package storage persists the workbench state: the booking collection,
// the issuer profile, the invoice template and per-customer settings.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"freightbill/internal/layout"
	"freightbill/internal/money"
	"freightbill/pkg/models"
)

// CurrentVersion is the schema version written by Save.
// Version 0 is a bare JSON array of bookings.
const CurrentVersion = 1

// State is everything the workbench persists.
type State struct {
	Version   int                                `json:"version"`
	Bookings  []models.BookingRecord             `json:"bookings"`
	Profile   models.UserProfile                 `json:"profile"`
	Template  layout.TemplateConfig              `json:"template"`
	Customers map[string]models.CustomerSettings `json:"customers"`
}

// NewState returns the empty state used when nothing has been persisted.
func NewState() *State {
	return &State{
		Version:   CurrentVersion,
		Bookings:  []models.BookingRecord{},
		Template:  layout.DefaultTemplate(),
		Customers: map[string]models.CustomerSettings{},
	}
}

// Backend loads and saves State.
type Backend interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, s *State) error
	Close() error
}

// Open returns the backend for driver ("json" or "sqlite") at path.
func Open(driver, path string) (Backend, error) {
	switch driver {
	case "json":
		return NewFileBackend(path), nil
	case "sqlite":
		b, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

type stateJSON struct {
	Version   int                                `json:"version"`
	Bookings  []models.BookingRecord             `json:"bookings"`
	Profile   models.UserProfile                 `json:"profile"`
	Template  json.RawMessage                    `json:"template"`
	Customers map[string]models.CustomerSettings `json:"customers"`
}

// Decode reads persisted state of any known version and fills every missing
// part with its default.
func Decode(data []byte) (*State, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return NewState(), nil
	}

	if data[0] == '[' {
		var bookings []models.BookingRecord
		if err := json.Unmarshal(data, &bookings); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
		s := NewState()
		s.Bookings = normalizeBookings(bookings)
		return s, nil
	}

	var raw stateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if raw.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, raw.Version)
	}

	s := NewState()
	s.Bookings = normalizeBookings(raw.Bookings)
	s.Profile = raw.Profile
	if len(raw.Customers) > 0 {
		s.Customers = raw.Customers
	}
	if len(raw.Template) > 0 && string(raw.Template) != "null" {
		if err := json.Unmarshal(raw.Template, &s.Template); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
	}
	return s, nil
}

// Encode writes state at CurrentVersion.
func Encode(s *State) ([]byte, error) {
	out := *s
	out.Version = CurrentVersion
	if out.Bookings == nil {
		out.Bookings = []models.BookingRecord{}
	}
	if out.Customers == nil {
		out.Customers = map[string]models.CustomerSettings{}
	}
	return json.MarshalIndent(out, "", "  ")
}

// normalizeBookings re-derives numeric values that older files left out.
func normalizeBookings(in []models.BookingRecord) []models.BookingRecord {
	if in == nil {
		return []models.BookingRecord{}
	}
	for i := range in {
		if strings.TrimSpace(in[i].ID) == "" {
			in[i].ID = uuid.NewString()
		}
		if in[i].RateValue == 0 && in[i].Rate != "" {
			in[i].RateValue = money.ParseValue(in[i].Rate)
		}
		if in[i].VATValue == 0 && in[i].VAT != "" {
			in[i].VATValue = money.ParseValue(in[i].VAT)
		}
	}
	return in
}
