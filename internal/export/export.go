// Package export writes the booking history for audit: CSV with the record's
// field names as header, which re-imports through the manifest engine, and
// an XLSX workbook of the same table.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"freightbill/internal/logger"
	"freightbill/pkg/models"
)

// Format is a history export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned for unknown export formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FileName returns name with the format's extension appended when missing.
func FileName(name string, f Format) string {
	ext := "." + string(f)
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name
	}
	return name + ext
}

// Exporter writes history exports to disk.
type Exporter struct {
	log zerolog.Logger
}

// NewExporter creates an exporter.
func NewExporter() *Exporter {
	return &Exporter{log: logger.WithComponent("history-export")}
}

// ExportFile writes records to dir/name in format f and returns the path.
func (e *Exporter) ExportFile(dir, name string, f Format, records []models.BookingRecord) (string, error) {
	const op = "ExportFile"

	path := filepath.Join(dir, FileName(name, f))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%s: create %s: %w", op, path, err)
	}

	switch f {
	case FormatCSV:
		err = WriteCSV(out, records)
	case FormatXLSX:
		err = WriteXLSX(out, records)
	default:
		err = ErrUnsupportedFormat
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	e.log.Info().
		Str("path", path).
		Str("format", string(f)).
		Int("records", len(records)).
		Msg("History exported")
	return path, nil
}
