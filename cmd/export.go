package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"freightbill/internal/bookings"
	"freightbill/internal/export"
	"freightbill/internal/logger"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the booking history as CSV or XLSX",
	Long: `Write the booking history for audit or backup. The CSV header uses the
booking field names, so an exported file imports back unchanged (ids are
regenerated). Filters narrow the export the same way they narrow "list".`,
	Example: `  # Full history as history.csv in the output directory
  freightbill export

  # One customer's bookings as a workbook
  freightbill export --search acme --format xlsx --name acme-2026`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("format", string(export.FormatCSV), "Export format (csv|xlsx)")
	exportCmd.Flags().String("name", "history", "File name; the extension is added when missing")
	exportCmd.Flags().String("dir", "", "Output directory (default: FREIGHTBILL_OUTPUT_DIR)")
	exportCmd.Flags().String("search", "", "Free-text search")
	exportCmd.Flags().String("status", bookings.StatusAll, "Operational status filter")
	exportCmd.Flags().String("port", "", "Port filter")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	formatName, _ := cmd.Flags().GetString("format")
	name, _ := cmd.Flags().GetString("name")
	dir, _ := cmd.Flags().GetString("dir")
	search, _ := cmd.Flags().GetString("search")
	status, _ := cmd.Flags().GetString("status")
	port, _ := cmd.Flags().GetString("port")

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if dir == "" {
		dir = appConfig.OutputDir
	}

	ctx, cancel := createCommandContext(log)
	defer cancel()

	wb, err := openWorkbench(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer wb.close()

	records := wb.store.Filter(bookings.Filter{Search: search, Status: status, Port: port})
	path, err := export.NewExporter().ExportFile(dir, name, format, records)
	if err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("Export failed")
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("Exported %d bookings to %s\n", len(records), path)
	return nil
}
