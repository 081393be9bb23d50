package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"freightbill/internal/manifest"
	"freightbill/pkg/models"
)

func history() []models.BookingRecord {
	return []models.BookingRecord{
		{
			ID: "bk-1", Customer: "Acme, Ltd", BookingDate: "2026-02-01", CustomerRef: "PO-9",
			GoPort: "ALX", GiPort: "DAM", Trucker: "Sami", BookingNo: "BK-1",
			BeneficiaryName: "Acme Egypt", ReeferNumber: "RF1", GensetNo: "GS1",
			ShipperAddress: "1 Dock St, Alexandria", Status: "DONE",
			Rate: "$1,234.50", RateValue: 1234.5, VAT: "14%", VATValue: 14,
			Remarks: "late pickup", InvNo: "INV-1", InvDate: "2026-02-02", InvDueDate: "2026-03-04",
		},
		{ID: "bk-2", Customer: "Nile Co", BookingNo: "BK-2", Rate: "N/A"},
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		f    Format
		want string
	}{
		{"history", FormatCSV, "history.csv"},
		{"history.csv", FormatCSV, "history.csv"},
		{"History.CSV", FormatCSV, "History.CSV"},
		{"history.csv", FormatXLSX, "history.csv.xlsx"},
	}
	for _, tt := range tests {
		if got := FileName(tt.name, tt.f); got != tt.want {
			t.Errorf("FileName(%q, %s) = %q, expected %q", tt.name, tt.f, got, tt.want)
		}
	}
}

func TestWriteCSVQuoting(t *testing.T) {
	var buf bytes.Buffer
	recs := []models.BookingRecord{{ID: "x", Customer: `Say "hi"`, Remarks: "a,b"}}
	if err := WriteCSV(&buf, recs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != strings.Join(models.BookingFieldNames, ",") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], `"Say ""hi"""`) || !strings.Contains(lines[1], `"a,b"`) {
		t.Fatalf("expected quoted values, got %q", lines[1])
	}
}

func TestCSVRoundTripThroughImport(t *testing.T) {
	var buf bytes.Buffer
	src := history()
	if err := WriteCSV(&buf, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := manifest.Parse(buf.String(), time.Now()).Records
	if len(got) != len(src) {
		t.Fatalf("expected %d records, got %d", len(src), len(got))
	}
	for i := range src {
		want := src[i]
		want.ID = got[i].ID
		if got[i] != want {
			t.Fatalf("record %d differs:\n got  %+v\n want %+v", i, got[i], want)
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, history()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(historySheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "customer" || rows[1][1] != "Acme, Ltd" {
		t.Fatalf("unexpected cells: %v / %v", rows[0], rows[1])
	}
	if v, _ := f.GetCellValue(historySheet, "O2"); v != "1234.5" {
		t.Fatalf("expected numeric rateValue 1234.5, got %q", v)
	}
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter()

	path, err := e.ExportFile(dir, "audit", FormatCSV, history())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "audit.csv") {
		t.Fatalf("unexpected path %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file written: %v", err)
	}

	if _, err := e.ExportFile(dir, "audit", Format("ods"), history()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "audit.ods")); !os.IsNotExist(err) {
		t.Fatal("failed export must not leave a file behind")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("XLSX"); err != nil || f != FormatXLSX {
		t.Fatalf("expected xlsx, got %q, %v", f, err)
	}
	if _, err := ParseFormat("pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
