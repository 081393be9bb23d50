package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"freightbill/internal/layout"
	"freightbill/internal/logger"
	"freightbill/pkg/models"
)

// Format is an output encoding of a rendered invoice.
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// Formats lists every supported output format.
var Formats = []Format{FormatHTML, FormatPDF, FormatJSON}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Renderer writes invoices in any supported format.
type Renderer struct {
	html *htmlWriter
	log  zerolog.Logger
}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		html: newHTMLWriter(),
		log:  logger.WithComponent("invoice-render"),
	}
}

// Write renders inv through tpl and writes it to w in format f. JSON output
// is the invoice snapshot itself; the other formats write the projected
// document.
func (r *Renderer) Write(w io.Writer, inv *models.Invoice, tpl layout.TemplateConfig, f Format) error {
	const op = "Write"

	if inv == nil {
		return &RenderError{Op: op, Format: f, Err: ErrNoInvoice}
	}

	var err error
	switch f {
	case FormatJSON:
		err = writeJSON(w, inv)
	case FormatHTML:
		err = r.html.write(w, Build(inv, tpl))
	case FormatPDF:
		err = writePDF(w, Build(inv, tpl))
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		r.log.Error().Err(err).Str("format", string(f)).Str("invoice_number", inv.InvoiceNumber).Msg("Render failed")
		return &RenderError{Op: op, Format: f, Err: err}
	}

	r.log.Debug().
		Str("format", string(f)).
		Str("invoice_number", inv.InvoiceNumber).
		Str("theme", string(tpl.Theme)).
		Msg("Invoice rendered")
	return nil
}

func writeJSON(w io.Writer, inv *models.Invoice) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(inv)
}
