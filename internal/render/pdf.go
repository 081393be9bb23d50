package render

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10.0
	pdfPageWidth  = 190.0
	pdfLineHeight = 5.0
	pdfBreakAt    = 280.0
)

type pdfWriter struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	style pdfStyle
}

type pdfStyle struct {
	font        string
	primary     [3]int
	accent      [3]int
	text        [3]int
	muted       [3]int
	fill        [3]int
	borderWidth float64
}

func writePDF(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle("Invoice "+doc.InvoiceNumber, true)
	pdf.AddPage()

	pw := &pdfWriter{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
		style: pdfStyle{
			font:        doc.Style.PDFFont,
			primary:     hexRGB(doc.Style.PrimaryColor),
			accent:      hexRGB(doc.Style.AccentColor),
			text:        hexRGB(doc.Style.TextColor),
			muted:       hexRGB(doc.Style.MutedColor),
			fill:        hexRGB(doc.Style.HeaderFill),
			borderWidth: doc.Style.BorderWidth,
		},
	}
	if pw.style.font == "" {
		pw.style.font = "Helvetica"
	}
	pdf.SetLineWidth(pw.style.borderWidth)

	if doc.Watermark != "" {
		pw.watermark(doc.Watermark)
	}

	for _, sec := range doc.Sections {
		if sec.Title != "" {
			pw.title(sec.Title)
		}
		switch {
		case sec.Header != nil:
			pw.header(sec.Header)
		case sec.Parties != nil:
			pw.parties(sec.Parties)
		case sec.Table != nil:
			pw.table(sec.Table)
		case sec.Totals != nil:
			pw.totals(sec.Totals)
		case sec.Signature != nil:
			pw.signature(sec.Signature)
		case sec.Footer != nil:
			pw.footer(sec.Footer)
		}
		pdf.Ln(4)
	}

	return pdf.Output(w)
}

func (p *pdfWriter) color(c [3]int) {
	p.pdf.SetTextColor(c[0], c[1], c[2])
}

func (p *pdfWriter) watermark(text string) {
	p.pdf.SetFont(p.style.font, "B", 72)
	p.color([3]int{235, 235, 235})
	p.pdf.TransformBegin()
	p.pdf.TransformRotate(30, 105, 150)
	p.pdf.Text(40, 170, p.tr(text))
	p.pdf.TransformEnd()
	p.pdf.SetXY(pdfMargin, pdfMargin)
}

func (p *pdfWriter) title(text string) {
	p.pdf.SetFont(p.style.font, "B", 11)
	p.color(p.style.primary)
	p.pdf.SetDrawColor(p.style.accent[0], p.style.accent[1], p.style.accent[2])
	p.pdf.CellFormat(pdfPageWidth, 7, p.tr(text), "B", 1, "L", false, 0, "")
	p.pdf.Ln(1)
}

func (p *pdfWriter) line(text string, style string, align string) {
	if text == "" {
		return
	}
	p.pdf.SetFont(p.style.font, style, 10)
	p.pdf.CellFormat(pdfPageWidth, pdfLineHeight, p.tr(text), "", 1, align, false, 0, "")
}

// image draws a PNG or JPEG from disk. Missing or unsupported files are
// skipped so a stale logo path never fails the document.
func (p *pdfWriter) image(ref string, x, y, w float64) bool {
	if ref == "" {
		return false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(ref), "."))
	if ext == "jpeg" {
		ext = "jpg"
	}
	if ext != "png" && ext != "jpg" {
		return false
	}
	if _, err := os.Stat(ref); err != nil {
		return false
	}
	p.pdf.ImageOptions(ref, x, y, w, 0, false, gofpdf.ImageOptions{ImageType: ext, ReadDpi: true}, 0, "")
	return true
}

func (p *pdfWriter) header(h *HeaderBlock) {
	top := p.pdf.GetY()
	if p.image(h.LogoRef, pdfMargin, top, 30) {
		p.pdf.SetY(top + 20)
	}

	p.color(p.style.text)
	p.line(h.CompanyName, "B", "L")
	p.color(p.style.muted)
	p.line(h.IssuerAddress, "", "L")
	if h.TaxID != "" {
		p.line("Tax ID: "+h.TaxID, "", "L")
	}
	p.line(h.Email, "", "L")
	bottom := p.pdf.GetY()

	p.pdf.SetY(top)
	p.color(p.style.text)
	p.line(h.InvoiceNumber, "B", "R")
	if h.Date != "" {
		p.line("Date: "+h.Date, "", "R")
	}
	if h.DueDate != "" {
		p.line("Due: "+h.DueDate, "", "R")
	}
	if p.pdf.GetY() < bottom {
		p.pdf.SetY(bottom)
	}
}

func (p *pdfWriter) parties(b *PartiesBlock) {
	p.color(p.style.text)
	p.line(b.CustomerName, "B", "L")
	p.color(p.style.muted)
	p.line(b.CustomerAddress, "", "L")
	if b.BeneficiaryName != "" {
		p.color(p.style.text)
		p.line("Beneficiary: "+b.BeneficiaryName, "", "L")
	}
}

func columnWidths(cols []Column) []float64 {
	widths := make([]float64, len(cols))
	var fixed float64
	flex := 0
	for i, c := range cols {
		switch c.Key {
		case "rate", "vat":
			widths[i] = 28
			fixed += 28
		case "bookingDate":
			widths[i] = 22
			fixed += 22
		default:
			flex++
		}
	}
	if flex > 0 {
		share := (pdfPageWidth - fixed) / float64(flex)
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = share
			}
		}
	}
	return widths
}

func (p *pdfWriter) table(t *TableBlock) {
	widths := columnWidths(t.Columns)
	s := p.style

	p.pdf.SetFont(s.font, "B", 9)
	p.pdf.SetFillColor(s.fill[0], s.fill[1], s.fill[2])
	p.pdf.SetDrawColor(s.muted[0], s.muted[1], s.muted[2])
	p.color(s.primary)
	for i, c := range t.Columns {
		align := "L"
		if c.Right {
			align = "R"
		}
		ln := 0
		if i == len(t.Columns)-1 {
			ln = 1
		}
		p.pdf.CellFormat(widths[i], 7, p.tr(c.Title), "1", ln, align, true, 0, "")
	}

	p.pdf.SetFont(s.font, "", 9)
	p.color(s.text)
	for _, row := range t.Rows {
		lines := 1
		for _, cell := range row.Cells {
			if len(cell) > lines {
				lines = len(cell)
			}
		}
		h := float64(lines) * pdfLineHeight

		x, y := p.pdf.GetXY()
		if y+h > pdfBreakAt {
			p.pdf.AddPage()
			x, y = p.pdf.GetXY()
		}
		for i, cell := range row.Cells {
			p.pdf.Rect(x, y, widths[i], h, "D")
			align := "L"
			if t.Columns[i].Right {
				align = "R"
			}
			for j, v := range cell {
				p.pdf.SetXY(x, y+float64(j)*pdfLineHeight)
				p.pdf.CellFormat(widths[i], pdfLineHeight, p.tr(v), "", 0, align, false, 0, "")
			}
			x += widths[i]
		}
		p.pdf.SetXY(pdfMargin, y+h)
	}
}

func (p *pdfWriter) totals(t *TotalsBlock) {
	for i, l := range t.Lines {
		style := ""
		p.color(p.style.text)
		if i == len(t.Lines)-1 {
			style = "B"
			p.color(p.style.primary)
		}
		p.pdf.SetFont(p.style.font, style, 10)
		p.pdf.CellFormat(pdfPageWidth-40, 6, p.tr(l.Label), "", 0, "R", false, 0, "")
		p.pdf.CellFormat(40, 6, p.tr(l.Text), "", 1, "R", false, 0, "")
	}
}

func (p *pdfWriter) signature(b *SignatureBlock) {
	if b.Notes != "" {
		p.color(p.style.muted)
		p.pdf.SetFont(p.style.font, "I", 9)
		p.pdf.MultiCell(pdfPageWidth, pdfLineHeight, p.tr(b.Notes), "", "L", false)
		p.pdf.Ln(2)
	}
	top := p.pdf.GetY()
	if p.image(b.SignatureRef, pdfMargin, top, 40) {
		p.pdf.SetY(top + 18)
	}
	p.color(p.style.text)
	p.line(b.Name, "", "L")
}

func (p *pdfWriter) footer(f *FooterBlock) {
	p.color(p.style.muted)
	p.pdf.SetFont(p.style.font, "", 8)
	p.pdf.MultiCell(pdfPageWidth, 4, p.tr(f.Text), "T", "C", false)
}

// hexRGB parses #rrggbb, returning black for anything else.
func hexRGB(s string) [3]int {
	var rgb [3]int
	if !hexColorPattern.MatchString(s) {
		return rgb
	}
	for i := 0; i < 3; i++ {
		v, _ := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		rgb[i] = int(v)
	}
	return rgb
}
