package bookings

import (
	"sort"
	"strings"

	"freightbill/pkg/models"
)

// Filter narrows the collection. Zero values match everything.
type Filter struct {
	Search string // matched against customer, booking no, equipment, invoice no and reference
	Status string // StatusAll or a token contained in the record's status
	Port   string // token contained in the origin or destination port
}

// Matches applies the three predicates; all must hold.
func (f Filter) Matches(r models.BookingRecord) bool {
	return f.matchesSearch(r) && f.matchesStatus(r) && f.matchesPort(r)
}

func (f Filter) matchesSearch(r models.BookingRecord) bool {
	term := strings.ToLower(f.Search)
	if term == "" {
		return true
	}
	for _, v := range []string{r.Customer, r.BookingNo, r.ReeferNumber, r.InvNo, r.CustomerRef} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func (f Filter) matchesStatus(r models.BookingRecord) bool {
	status := strings.ToUpper(f.Status)
	if status == "" || status == StatusAll {
		return true
	}
	return strings.Contains(strings.ToUpper(r.Status), status)
}

func (f Filter) matchesPort(r models.BookingRecord) bool {
	port := strings.ToUpper(f.Port)
	if port == "" {
		return true
	}
	return strings.Contains(strings.ToUpper(r.GoPort), port) ||
		strings.Contains(strings.ToUpper(r.GiPort), port)
}

// Filter returns the matching records in store order.
func (s *Store) Filter(f Filter) []models.BookingRecord {
	var out []models.BookingRecord
	for _, r := range s.state.Bookings {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// CustomerAggregate summarizes one customer's bookings.
type CustomerAggregate struct {
	Customer        string
	Count           int
	TotalRate       float64
	LastBookingDate string
	Records         []models.BookingRecord
}

// CustomerAggregates groups bookings by customer name, sorted by total rate
// descending. LastBookingDate is the lexically greatest booking date, which
// is only the most recent one for ISO formatted dates.
func (s *Store) CustomerAggregates() []CustomerAggregate {
	index := map[string]int{}
	var out []CustomerAggregate
	for _, r := range s.state.Bookings {
		i, ok := index[r.Customer]
		if !ok {
			i = len(out)
			index[r.Customer] = i
			out = append(out, CustomerAggregate{Customer: r.Customer})
		}
		agg := &out[i]
		agg.Count++
		agg.TotalRate += r.RateValue
		if r.BookingDate > agg.LastBookingDate {
			agg.LastBookingDate = r.BookingDate
		}
		agg.Records = append(agg.Records, r)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].TotalRate > out[b].TotalRate
	})
	return out
}
