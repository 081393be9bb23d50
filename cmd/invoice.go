package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"freightbill/internal/bookings"
	"freightbill/internal/invoice"
	"freightbill/internal/layout"
	"freightbill/internal/logger"
	"freightbill/internal/render"
	"freightbill/pkg/models"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Create an invoice from selected bookings",
	Long: `Select bookings by booking number or id, assemble an invoice and render it.

Selection works per booking: naming one record of a booking selects every
record that shares its booking number. The invoice takes its customer and
beneficiary from the first selected booking. Subtotal and VAT are the sums of
the selected rates and VAT amounts.

Creating the invoice stamps its number onto every selected booking, marking
them SETTLED. Use --dry-run to preview without stamping.

Blank invoice fields fall back to the customer's saved settings, then to
FREIGHTBILL_CURRENCY and FREIGHTBILL_DUE_DAYS.`,
	Example: `  # Invoice two bookings as PDF
  freightbill invoice --booking BK-7 --booking BK-9 --format pdf

  # Custom number and notes, HTML to a chosen file
  freightbill invoice --booking BK-7 --number INV-2026-001 --notes "Bank transfer only" -o inv.html

  # Preview with another theme without marking anything settled
  freightbill invoice --booking BK-7 --theme maritime --dry-run`,
	Args: cobra.NoArgs,
	RunE: runInvoice,
}

func init() {
	rootCmd.AddCommand(invoiceCmd)

	invoiceCmd.Flags().StringSlice("booking", nil, "Booking number to include (repeatable)")
	invoiceCmd.Flags().StringSlice("id", nil, "Booking record id to include (repeatable)")
	invoiceCmd.Flags().String("number", "", "Invoice number (default: generated from the current time)")
	invoiceCmd.Flags().String("date", "", "Invoice date, YYYY-MM-DD (default: today)")
	invoiceCmd.Flags().String("due-date", "", "Due date, YYYY-MM-DD (default: date + due days)")
	invoiceCmd.Flags().Int("due-days", 0, "Payment terms in days")
	invoiceCmd.Flags().String("address", "", "Customer address (default: saved settings, then shipper address)")
	invoiceCmd.Flags().String("currency", "", "Currency code")
	invoiceCmd.Flags().String("notes", "", "Notes printed above the signature")
	invoiceCmd.Flags().String("theme", "", "Theme override for this invoice")
	invoiceCmd.Flags().StringP("format", "f", string(render.FormatHTML), "Output format (html|pdf|json)")
	invoiceCmd.Flags().StringP("output", "o", "", "Output file path (default: <output dir>/<invoice number>.<format>)")
	invoiceCmd.Flags().Bool("dry-run", false, "Render without stamping bookings or saving")
}

func runInvoice(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")

	bookingNos, _ := cmd.Flags().GetStringSlice("booking")
	ids, _ := cmd.Flags().GetStringSlice("id")
	formatName, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	themeName, _ := cmd.Flags().GetString("theme")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if len(bookingNos) == 0 && len(ids) == 0 {
		return fmt.Errorf("select at least one booking with --booking or --id")
	}

	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	ctx, cancel := createCommandContext(log)
	defer cancel()

	wb, err := openWorkbench(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer wb.close()

	if err := selectBookings(wb.store, bookingNos, ids, log); err != nil {
		return err
	}

	selected := wb.store.Selected()
	for _, r := range selected {
		if r.Settled() {
			log.Warn().
				Str("id", r.ID).
				Str("booking_no", r.BookingNo).
				Str("inv_no", r.InvNo).
				Msg("Booking already invoiced, it will be re-stamped")
		}
	}

	cfg := invoiceConfigFromFlags(cmd)
	if cs, ok := wb.store.CustomerSettings(selected[0].Customer); ok {
		cfg = cfg.WithCustomerDefaults(cs)
	}
	if cfg.Currency == "" {
		cfg.Currency = appConfig.Currency
	}
	if cfg.DueDays == 0 {
		cfg.DueDays = appConfig.DueDays
	}

	tpl := wb.store.Template()
	if themeName != "" {
		theme, ok := layout.ParseTheme(themeName)
		if !ok {
			return fmt.Errorf("unknown theme %q (available: %s)", themeName, themeList())
		}
		tpl.Theme = theme
	}

	var inv *models.Invoice
	if dryRun {
		inv, _ = invoice.Assemble(selected, cfg, tpl, wb.store.Profile(), time.Now())
	} else {
		var ok bool
		inv, ok = invoice.NewAssembler().Finalize(wb.store, cfg, tpl, wb.store.Profile())
		if !ok {
			return errors.New("nothing selected")
		}
	}

	if outputPath == "" {
		outputPath = filepath.Join(appConfig.OutputDir, safeFileName(inv.InvoiceNumber)+format.Ext())
	}
	if err := writeInvoice(outputPath, inv, format); err != nil {
		return err
	}

	if !dryRun {
		if err := wb.save(ctx); err != nil {
			return err
		}
	}

	fmt.Printf("Invoice %s for %s: %d items, total %s %s\n",
		inv.InvoiceNumber, inv.CustomerName, len(inv.Items), inv.Total.StringFixed(2), inv.Currency)
	if dryRun {
		fmt.Println("Dry run: bookings were not stamped")
	}
	fmt.Printf("Written to %s\n", outputPath)
	return nil
}

// selectBookings selects the named booking groups and records. Already
// selected records are left alone so repeated flags never deselect.
func selectBookings(store *bookings.Store, bookingNos, ids []string, log zerolog.Logger) error {
	for _, no := range bookingNos {
		no = strings.TrimSpace(no)
		recs := store.FindByBookingNo(no)
		if no == "" || len(recs) == 0 {
			return fmt.Errorf("no bookings with booking number %q", no)
		}
		if !store.IsSelected(recs[0].ID) {
			store.ToggleSelection(recs[0])
		}
	}
	for _, id := range ids {
		rec, ok := store.Find(strings.TrimSpace(id))
		if !ok {
			return fmt.Errorf("no booking with id %q", id)
		}
		if !store.IsSelected(rec.ID) {
			store.ToggleSelection(rec)
		}
	}

	log.Debug().
		Int("selected", len(store.Selected())).
		Msg("Bookings selected")
	return nil
}

func invoiceConfigFromFlags(cmd *cobra.Command) invoice.Config {
	flags := cmd.Flags()
	var cfg invoice.Config
	cfg.InvoiceNumber, _ = flags.GetString("number")
	cfg.Date, _ = flags.GetString("date")
	cfg.DueDate, _ = flags.GetString("due-date")
	cfg.DueDays, _ = flags.GetInt("due-days")
	cfg.CustomerAddress, _ = flags.GetString("address")
	cfg.Currency, _ = flags.GetString("currency")
	cfg.Notes, _ = flags.GetString("notes")
	return cfg
}

// writeInvoice renders inv to path, creating the parent directory.
func writeInvoice(path string, inv *models.Invoice, format render.Format) error {
	log := logger.WithInvoice("invoice", inv.InvoiceNumber)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("Failed to create output file")
		return fmt.Errorf("failed to create output file: %w", err)
	}

	err = render.NewRenderer().Write(out, inv, inv.Template, format)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		if errors.Is(err, render.ErrUnsupportedFormat) {
			return fmt.Errorf("unsupported format %q", format)
		}
		return fmt.Errorf("failed to render invoice: %w", err)
	}

	log.Info().
		Str("file", path).
		Str("format", string(format)).
		Msg("Invoice written")
	return nil
}

// safeFileName replaces characters that cannot appear in file names.
func safeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, s)
}

func themeList() string {
	names := make([]string, len(layout.Themes))
	for i, t := range layout.Themes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
