// Package layout holds the declarative invoice document configuration:
// which sections appear and in what order, which optional fields are shown,
// and which visual theme is applied.
package layout

import "strings"

// SectionID identifies one block of the invoice document.
type SectionID string

const (
	SectionHeader    SectionID = "header"
	SectionParties   SectionID = "parties"
	SectionTable     SectionID = "table"
	SectionTotals    SectionID = "totals"
	SectionSignature SectionID = "signature"
	SectionFooter    SectionID = "footer"
)

// DefaultSectionOrder is the baseline order; every section appears exactly once.
var DefaultSectionOrder = []SectionID{
	SectionHeader,
	SectionParties,
	SectionTable,
	SectionTotals,
	SectionSignature,
	SectionFooter,
}

// ParseSectionID resolves a section name case-insensitively.
func ParseSectionID(s string) (SectionID, bool) {
	id := SectionID(strings.ToLower(strings.TrimSpace(s)))
	if id.Valid() {
		return id, true
	}
	return "", false
}

// Valid reports whether id is one of the fixed section identifiers.
func (id SectionID) Valid() bool {
	switch id {
	case SectionHeader, SectionParties, SectionTable, SectionTotals, SectionSignature, SectionFooter:
		return true
	}
	return false
}

// SectionSet is the in-memory form of the hidden-section set.
type SectionSet map[SectionID]struct{}

// NewSectionSet builds a set from ids, ignoring unknown identifiers.
func NewSectionSet(ids ...SectionID) SectionSet {
	set := make(SectionSet, len(ids))
	for _, id := range ids {
		if id.Valid() {
			set[id] = struct{}{}
		}
	}
	return set
}

// Has reports membership.
func (s SectionSet) Has(id SectionID) bool {
	_, ok := s[id]
	return ok
}

// List returns the members in DefaultSectionOrder order.
func (s SectionSet) List() []SectionID {
	out := make([]SectionID, 0, len(s))
	for _, id := range DefaultSectionOrder {
		if s.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
