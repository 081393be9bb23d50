package render

import (
	"html/template"
	"io"
	"regexp"
	"strconv"
)

const invoiceHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.InvoiceNumber}}</title>
  <style>
    :root {
      --primary: {{.Style.PrimaryColor}};
      --accent: {{.Style.AccentColor}};
      --text: {{.Style.TextColor}};
      --muted: {{.Style.MutedColor}};
      --fill: {{.Style.HeaderFill}};
      --font: "{{.Style.FontFamily}}";
      --border: {{borderPx .Style.BorderWidth}};
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px;
      font-family: var(--font), "Helvetica Neue", Arial, sans-serif;
      color: var(--text);
      background: #ffffff;
    }
    .invoice { max-width: 860px; margin: 0 auto; position: relative; }
    .watermark {
      position: absolute;
      top: 40%;
      width: 100%;
      text-align: center;
      font-size: 96px;
      color: var(--muted);
      opacity: 0.12;
      transform: rotate(-30deg);
      pointer-events: none;
    }
    .section { margin-bottom: 24px; }
    .title {
      color: var(--primary);
      font-size: 12px;
      letter-spacing: 0.04em;
      border-bottom: var(--border) solid var(--accent);
      margin-bottom: 8px;
    }
    .header { display: flex; justify-content: space-between; }
    .header img { max-height: 56px; }
    .muted { color: var(--muted); font-size: 13px; }
    table { width: 100%; border-collapse: collapse; font-size: 13px; }
    th, td {
      padding: 8px;
      border-bottom: var(--border) solid var(--muted);
      text-align: left;
      vertical-align: top;
    }
    th { background: var(--fill); color: var(--primary); }
    .num { text-align: right; white-space: nowrap; }
    .totals { margin-left: auto; width: 320px; }
    .totals .grand { font-weight: bold; color: var(--primary); }
    .signature img { max-height: 64px; }
    .footer { font-size: 12px; color: var(--muted); text-align: center; }
  </style>
</head>
<body>
  <div class="invoice">
    {{if .Watermark}}<div class="watermark">{{.Watermark}}</div>{{end}}
    {{range .Sections}}
    <div class="section {{.ID}}">
      {{if .Title}}<div class="title">{{.Title}}</div>{{end}}
      {{with .Header}}
      <div class="header">
        <div>
          {{if .LogoRef}}<img src="{{.LogoRef}}" alt="Company logo" />{{end}}
          {{if .CompanyName}}<div><strong>{{.CompanyName}}</strong></div>{{end}}
          {{if .IssuerAddress}}<div class="muted">{{.IssuerAddress}}</div>{{end}}
          {{if .TaxID}}<div class="muted">Tax ID: {{.TaxID}}</div>{{end}}
          {{if .Email}}<div class="muted">{{.Email}}</div>{{end}}
        </div>
        <div class="num">
          {{if .InvoiceNumber}}<div><strong>{{.InvoiceNumber}}</strong></div>{{end}}
          {{if .Date}}<div>Date: {{.Date}}</div>{{end}}
          {{if .DueDate}}<div>Due: {{.DueDate}}</div>{{end}}
        </div>
      </div>
      {{end}}
      {{with .Parties}}
      <div><strong>{{.CustomerName}}</strong></div>
      {{if .CustomerAddress}}<div class="muted">{{.CustomerAddress}}</div>{{end}}
      {{if .BeneficiaryName}}<div>Beneficiary: {{.BeneficiaryName}}</div>{{end}}
      {{end}}
      {{with .Table}}{{$cols := .Columns}}
      <table>
        <thead>
          <tr>{{range .Columns}}<th{{if .Right}} class="num"{{end}}>{{.Title}}</th>{{end}}</tr>
        </thead>
        <tbody>
          {{range .Rows}}
          <tr>
            {{range $i, $cell := .Cells}}<td{{if (index $cols $i).Right}} class="num"{{end}}>{{range $j, $v := $cell}}{{if $j}}<br />{{end}}{{$v}}{{end}}</td>{{end}}
          </tr>
          {{end}}
        </tbody>
      </table>
      {{end}}
      {{with .Totals}}{{$lines := .Lines}}
      <table class="totals">
        {{range $i, $l := .Lines}}
        <tr{{if last $i $lines}} class="grand"{{end}}><td>{{$l.Label}}</td><td class="num">{{$l.Text}}</td></tr>
        {{end}}
      </table>
      {{end}}
      {{with .Signature}}
      <div class="signature">
        {{if .Notes}}<p class="muted">{{.Notes}}</p>{{end}}
        {{if .SignatureRef}}<img src="{{.SignatureRef}}" alt="Signature" />{{end}}
        {{if .Name}}<div>{{.Name}}</div>{{end}}
      </div>
      {{end}}
      {{with .Footer}}<div class="footer">{{.Text}}</div>{{end}}
    </div>
    {{end}}
  </div>
</body>
</html>
`

var (
	hexColorPattern  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	fontFamilyFilter = regexp.MustCompile(`^[A-Za-z0-9 \-]+$`)
)

type htmlWriter struct {
	tpl *template.Template
}

func newHTMLWriter() *htmlWriter {
	funcs := template.FuncMap{
		"borderPx": borderPx,
		"last":     func(i int, lines []TotalLine) bool { return i == len(lines)-1 },
	}
	return &htmlWriter{
		tpl: template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceHTMLTemplate)),
	}
}

func (h *htmlWriter) write(w io.Writer, doc Document) error {
	s := &doc.Style
	s.PrimaryColor = sanitizeColor(s.PrimaryColor, "#111827")
	s.AccentColor = sanitizeColor(s.AccentColor, s.PrimaryColor)
	s.TextColor = sanitizeColor(s.TextColor, "#111827")
	s.MutedColor = sanitizeColor(s.MutedColor, "#6b7280")
	s.HeaderFill = sanitizeColor(s.HeaderFill, "#ffffff")
	if !fontFamilyFilter.MatchString(s.FontFamily) {
		s.FontFamily = "Helvetica"
	}
	return h.tpl.Execute(w, doc)
}

func sanitizeColor(c, fallback string) string {
	if hexColorPattern.MatchString(c) {
		return c
	}
	return fallback
}

// borderPx converts a border width in millimetres to whole CSS pixels.
func borderPx(mm float64) template.CSS {
	px := int(mm*4 + 0.5)
	if px < 1 {
		px = 1
	}
	return template.CSS(strconv.Itoa(px) + "px")
}
