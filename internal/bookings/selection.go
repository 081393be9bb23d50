package bookings

import (
	"strings"

	"freightbill/pkg/models"
)

// group returns the ids that select and deselect together with rec: every
// record sharing its trimmed booking number, or rec alone when it has none.
func (s *Store) group(rec models.BookingRecord) []string {
	if !rec.HasBookingNo() {
		return []string{rec.ID}
	}
	key := strings.TrimSpace(rec.BookingNo)
	var ids []string
	for _, r := range s.state.Bookings {
		if strings.TrimSpace(r.BookingNo) == key {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		ids = []string{rec.ID}
	}
	return ids
}

// ToggleSelection flips the selection of rec's booking group. A fully
// selected group is deselected; a partly or wholly unselected group is
// selected in full.
func (s *Store) ToggleSelection(rec models.BookingRecord) {
	ids := s.group(rec)

	all := true
	for _, id := range ids {
		if _, ok := s.selected[id]; !ok {
			all = false
			break
		}
	}

	for _, id := range ids {
		if all {
			delete(s.selected, id)
		} else {
			s.selected[id] = struct{}{}
		}
	}

	s.log.Debug().
		Str("booking_no", rec.BookingNo).
		Int("group_size", len(ids)).
		Bool("selected", !all).
		Msg("Selection toggled")
}

// IsSelected reports whether the record with id is selected.
func (s *Store) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// Selected returns the selected records in store order.
func (s *Store) Selected() []models.BookingRecord {
	var out []models.BookingRecord
	for _, r := range s.state.Bookings {
		if _, ok := s.selected[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// ClearSelection deselects everything.
func (s *Store) ClearSelection() {
	s.selected = map[string]struct{}{}
}
