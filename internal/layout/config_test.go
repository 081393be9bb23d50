package layout

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeRepairsSectionOrder(t *testing.T) {
	cfg := TemplateConfig{
		SectionOrder:   []SectionID{SectionTotals, "bogus", SectionTable, SectionTotals},
		HiddenSections: SectionSet{"bogus": {}, SectionFooter: {}},
		Theme:          "neon",
	}.Normalize()

	want := []SectionID{SectionTotals, SectionTable, SectionHeader, SectionParties, SectionSignature, SectionFooter}
	if !reflect.DeepEqual(cfg.SectionOrder, want) {
		t.Fatalf("expected order %v, got %v", want, cfg.SectionOrder)
	}
	if len(cfg.HiddenSections) != 1 || !cfg.HiddenSections.Has(SectionFooter) {
		t.Fatalf("expected only footer hidden, got %v", cfg.HiddenSections.List())
	}
	if cfg.Theme != DefaultTheme {
		t.Fatalf("expected theme %q, got %q", DefaultTheme, cfg.Theme)
	}
}

func TestTemplateJSONRoundTrip(t *testing.T) {
	cfg := DefaultTemplate()
	cfg.HiddenSections = NewSectionSet(SectionTotals, SectionHeader)
	cfg.Fields.ShowVAT = false
	cfg.Theme = ThemeMaritime

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	list, ok := raw["hiddenSections"].([]any)
	if !ok || len(list) != 2 || list[0] != "header" || list[1] != "totals" {
		t.Fatalf("expected hiddenSections stored as ordered list, got %v", raw["hiddenSections"])
	}

	var back TemplateConfig
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, cfg) {
		t.Fatalf("expected %+v, got %+v", cfg, back)
	}
}

func TestUnmarshalAcceptsSetShapedHiddenSections(t *testing.T) {
	var cfg TemplateConfig
	data := []byte(`{"sectionOrder":["header"],"hiddenSections":{"totals":true,"footer":false,"nope":true},"theme":"MODERN"}`)
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !cfg.HiddenSections.Has(SectionTotals) || cfg.HiddenSections.Has(SectionFooter) || len(cfg.HiddenSections) != 1 {
		t.Fatalf("expected only totals hidden, got %v", cfg.HiddenSections.List())
	}
	if len(cfg.SectionOrder) != len(DefaultSectionOrder) {
		t.Fatalf("expected full section order, got %v", cfg.SectionOrder)
	}
	if cfg.Theme != ThemeModern {
		t.Fatalf("expected modern theme, got %q", cfg.Theme)
	}
	if cfg.Fields != DefaultFields() {
		t.Fatalf("expected default fields when absent, got %+v", cfg.Fields)
	}
}

func TestUnmarshalFillsMissingFieldToggles(t *testing.T) {
	var cfg TemplateConfig
	if err := json.Unmarshal([]byte(`{"fields":{"showVat":false}}`), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.Fields.ShowVAT {
		t.Fatal("expected showVat to be false")
	}
	if !cfg.Fields.ShowSignature || cfg.Fields.ShowWatermark {
		t.Fatalf("expected defaults for unspecified toggles, got %+v", cfg.Fields)
	}
}

func TestFieldVisibilitySet(t *testing.T) {
	f := DefaultFields()
	if !f.Set("showWatermark", true) || !f.ShowWatermark {
		t.Fatal("expected showWatermark to be enabled")
	}
	if f.Set("showEverything", true) {
		t.Fatal("expected unknown key to be rejected")
	}
	if got := len(f.Keys()); got != 21 {
		t.Fatalf("expected 21 toggles, got %d", got)
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in   string
		want Theme
		ok   bool
	}{
		{"classic", ThemeClassic, true},
		{" Corporate ", ThemeCorporate, true},
		{"", DefaultTheme, false},
		{"vaporwave", DefaultTheme, false},
	}
	for _, tt := range tests {
		got, ok := ParseTheme(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseTheme(%q): expected (%q, %v), got (%q, %v)", tt.in, tt.want, tt.ok, got, ok)
		}
	}
	if StyleFor("unknown").Name != DefaultTheme {
		t.Fatal("expected unknown theme to resolve to default style")
	}
}
