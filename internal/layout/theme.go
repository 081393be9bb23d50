package layout

import "strings"

// Theme names a fixed visual style bundle. Themes never affect data.
type Theme string

const (
	ThemeClassic   Theme = "classic"
	ThemeModern    Theme = "modern"
	ThemeMinimal   Theme = "minimal"
	ThemeCorporate Theme = "corporate"
	ThemeMaritime  Theme = "maritime"
)

// DefaultTheme is used whenever a stored theme is missing or unknown.
const DefaultTheme = ThemeClassic

// Themes lists every supported theme.
var Themes = []Theme{ThemeClassic, ThemeModern, ThemeMinimal, ThemeCorporate, ThemeMaritime}

// Style is the visual treatment for a theme. Colors are #rrggbb.
type Style struct {
	Name         Theme
	PrimaryColor string
	AccentColor  string
	TextColor    string
	MutedColor   string
	HeaderFill   string
	FontFamily   string // CSS font family
	PDFFont      string // gofpdf core font
	BorderWidth  float64
	Uppercase    bool // uppercase section titles
}

var styles = map[Theme]Style{
	ThemeClassic: {
		Name: ThemeClassic, PrimaryColor: "#1f2937", AccentColor: "#b45309",
		TextColor: "#111827", MutedColor: "#6b7280", HeaderFill: "#f3f4f6",
		FontFamily: "Georgia", PDFFont: "Times", BorderWidth: 0.3,
	},
	ThemeModern: {
		Name: ThemeModern, PrimaryColor: "#2563eb", AccentColor: "#0ea5e9",
		TextColor: "#0f172a", MutedColor: "#64748b", HeaderFill: "#eff6ff",
		FontFamily: "Inter", PDFFont: "Helvetica", BorderWidth: 0.2, Uppercase: true,
	},
	ThemeMinimal: {
		Name: ThemeMinimal, PrimaryColor: "#111111", AccentColor: "#111111",
		TextColor: "#111111", MutedColor: "#888888", HeaderFill: "#ffffff",
		FontFamily: "Helvetica", PDFFont: "Helvetica", BorderWidth: 0.1,
	},
	ThemeCorporate: {
		Name: ThemeCorporate, PrimaryColor: "#14532d", AccentColor: "#16a34a",
		TextColor: "#052e16", MutedColor: "#4b5563", HeaderFill: "#dcfce7",
		FontFamily: "Arial", PDFFont: "Arial", BorderWidth: 0.4, Uppercase: true,
	},
	ThemeMaritime: {
		Name: ThemeMaritime, PrimaryColor: "#0c4a6e", AccentColor: "#f59e0b",
		TextColor: "#082f49", MutedColor: "#475569", HeaderFill: "#e0f2fe",
		FontFamily: "Verdana", PDFFont: "Courier", BorderWidth: 0.5, Uppercase: true,
	},
}

// ParseTheme resolves a theme name. Unknown names fall back to DefaultTheme
// and report false.
func ParseTheme(s string) (Theme, bool) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := styles[t]; ok {
		return t, true
	}
	return DefaultTheme, false
}

// StyleFor returns the style bundle of t, or the default theme's bundle.
func StyleFor(t Theme) Style {
	if s, ok := styles[t]; ok {
		return s
	}
	return styles[DefaultTheme]
}
