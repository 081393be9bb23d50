package layout

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FieldVisibility gates optional pieces of information on the document.
// The key set is fixed; JSON keys match the names accepted by Set.
type FieldVisibility struct {
	ShowLogo            bool `json:"showLogo"`
	ShowCompanyName     bool `json:"showCompanyName"`
	ShowIssuerAddress   bool `json:"showIssuerAddress"`
	ShowTaxID           bool `json:"showTaxId"`
	ShowEmail           bool `json:"showEmail"`
	ShowInvoiceNumber   bool `json:"showInvoiceNumber"`
	ShowDate            bool `json:"showDate"`
	ShowDueDate         bool `json:"showDueDate"`
	ShowCustomerAddress bool `json:"showCustomerAddress"`
	ShowBeneficiary     bool `json:"showBeneficiary"`
	ShowBookingDate     bool `json:"showBookingDate"`
	ShowCustomerRef     bool `json:"showCustomerRef"`
	ShowEquipment       bool `json:"showEquipment"`
	ShowPorts           bool `json:"showPorts"`
	ShowTrucker         bool `json:"showTrucker"`
	ShowVAT             bool `json:"showVat"`
	ShowSubtotal        bool `json:"showSubtotal"`
	ShowNotes           bool `json:"showNotes"`
	ShowSignature       bool `json:"showSignature"`
	ShowWatermark       bool `json:"showWatermark"`
	ShowFooterText      bool `json:"showFooterText"`
}

// DefaultFields shows everything except the watermark.
func DefaultFields() FieldVisibility {
	return FieldVisibility{
		ShowLogo:            true,
		ShowCompanyName:     true,
		ShowIssuerAddress:   true,
		ShowTaxID:           true,
		ShowEmail:           true,
		ShowInvoiceNumber:   true,
		ShowDate:            true,
		ShowDueDate:         true,
		ShowCustomerAddress: true,
		ShowBeneficiary:     true,
		ShowBookingDate:     true,
		ShowCustomerRef:     true,
		ShowEquipment:       true,
		ShowPorts:           true,
		ShowTrucker:         true,
		ShowVAT:             true,
		ShowSubtotal:        true,
		ShowNotes:           true,
		ShowSignature:       true,
		ShowWatermark:       false,
		ShowFooterText:      true,
	}
}

func (f *FieldVisibility) toggles() map[string]*bool {
	return map[string]*bool{
		"showLogo":            &f.ShowLogo,
		"showCompanyName":     &f.ShowCompanyName,
		"showIssuerAddress":   &f.ShowIssuerAddress,
		"showTaxId":           &f.ShowTaxID,
		"showEmail":           &f.ShowEmail,
		"showInvoiceNumber":   &f.ShowInvoiceNumber,
		"showDate":            &f.ShowDate,
		"showDueDate":         &f.ShowDueDate,
		"showCustomerAddress": &f.ShowCustomerAddress,
		"showBeneficiary":     &f.ShowBeneficiary,
		"showBookingDate":     &f.ShowBookingDate,
		"showCustomerRef":     &f.ShowCustomerRef,
		"showEquipment":       &f.ShowEquipment,
		"showPorts":           &f.ShowPorts,
		"showTrucker":         &f.ShowTrucker,
		"showVat":             &f.ShowVAT,
		"showSubtotal":        &f.ShowSubtotal,
		"showNotes":           &f.ShowNotes,
		"showSignature":       &f.ShowSignature,
		"showWatermark":       &f.ShowWatermark,
		"showFooterText":      &f.ShowFooterText,
	}
}

// Set changes one toggle by key. It returns false for unknown keys.
func (f *FieldVisibility) Set(key string, v bool) bool {
	p, ok := f.toggles()[key]
	if !ok {
		return false
	}
	*p = v
	return true
}

// Keys returns the toggle names in sorted order.
func (f *FieldVisibility) Keys() []string {
	t := f.toggles()
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TemplateConfig is the declarative rendering configuration of an invoice.
type TemplateConfig struct {
	SectionOrder   []SectionID
	HiddenSections SectionSet
	Fields         FieldVisibility
	Theme          Theme
}

// DefaultTemplate returns the baseline configuration.
func DefaultTemplate() TemplateConfig {
	order := make([]SectionID, len(DefaultSectionOrder))
	copy(order, DefaultSectionOrder)
	return TemplateConfig{
		SectionOrder:   order,
		HiddenSections: NewSectionSet(),
		Fields:         DefaultFields(),
		Theme:          DefaultTheme,
	}
}

// Normalize enforces the configuration invariants: the section order holds
// every section exactly once (unknown and duplicate ids are dropped, missing
// ids are appended in default order), the hidden set only holds ids from the
// order, and the theme is a known one.
func (c TemplateConfig) Normalize() TemplateConfig {
	seen := make(map[SectionID]bool, len(DefaultSectionOrder))
	order := make([]SectionID, 0, len(DefaultSectionOrder))
	for _, id := range c.SectionOrder {
		if !id.Valid() || seen[id] {
			continue
		}
		seen[id] = true
		order = append(order, id)
	}
	for _, id := range DefaultSectionOrder {
		if !seen[id] {
			order = append(order, id)
		}
	}

	hidden := NewSectionSet()
	for id := range c.HiddenSections {
		if id.Valid() {
			hidden[id] = struct{}{}
		}
	}

	theme, _ := ParseTheme(string(c.Theme))

	return TemplateConfig{
		SectionOrder:   order,
		HiddenSections: hidden,
		Fields:         c.Fields,
		Theme:          theme,
	}
}

// Clone returns a deep copy so invoice snapshots never share the hidden set
// or order slice with the live configuration.
func (c TemplateConfig) Clone() TemplateConfig {
	order := make([]SectionID, len(c.SectionOrder))
	copy(order, c.SectionOrder)
	hidden := make(SectionSet, len(c.HiddenSections))
	for id := range c.HiddenSections {
		hidden[id] = struct{}{}
	}
	return TemplateConfig{SectionOrder: order, HiddenSections: hidden, Fields: c.Fields, Theme: c.Theme}
}

// Visible reports whether a section is rendered.
func (c TemplateConfig) Visible(id SectionID) bool {
	return !c.HiddenSections.Has(id)
}

type templateJSON struct {
	SectionOrder   []SectionID     `json:"sectionOrder"`
	HiddenSections json.RawMessage `json:"hiddenSections,omitempty"`
	Fields         json.RawMessage `json:"fields,omitempty"`
	Theme          Theme           `json:"theme"`
}

// MarshalJSON writes the hidden set as an ordered, duplicate-free list.
func (c TemplateConfig) MarshalJSON() ([]byte, error) {
	hidden, err := json.Marshal(c.HiddenSections.List())
	if err != nil {
		return nil, err
	}
	fields, err := json.Marshal(c.Fields)
	if err != nil {
		return nil, err
	}
	return json.Marshal(templateJSON{
		SectionOrder:   c.SectionOrder,
		HiddenSections: hidden,
		Fields:         fields,
		Theme:          c.Theme,
	})
}

// UnmarshalJSON accepts the hidden set either as a list of ids or as an
// object keyed by id, fills missing field toggles with their defaults and
// normalizes the result.
func (c *TemplateConfig) UnmarshalJSON(data []byte) error {
	var raw templateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("template config: %w", err)
	}

	fields := DefaultFields()
	if len(raw.Fields) > 0 && string(raw.Fields) != "null" {
		if err := json.Unmarshal(raw.Fields, &fields); err != nil {
			return fmt.Errorf("template config fields: %w", err)
		}
	}

	hidden, err := decodeSectionSet(raw.HiddenSections)
	if err != nil {
		return err
	}

	*c = TemplateConfig{
		SectionOrder:   raw.SectionOrder,
		HiddenSections: hidden,
		Fields:         fields,
		Theme:          raw.Theme,
	}.Normalize()
	return nil
}

func decodeSectionSet(raw json.RawMessage) (SectionSet, error) {
	set := NewSectionSet()
	if len(raw) == 0 || string(raw) == "null" {
		return set, nil
	}

	var list []SectionID
	if err := json.Unmarshal(raw, &list); err == nil {
		return NewSectionSet(list...), nil
	}

	var obj map[SectionID]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("template config hiddenSections: %w", err)
	}
	for id, v := range obj {
		if string(v) == "false" {
			continue
		}
		if id.Valid() {
			set[id] = struct{}{}
		}
	}
	return set, nil
}
