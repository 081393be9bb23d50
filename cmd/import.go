package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"freightbill/internal/logger"
	"freightbill/internal/manifest"
)

var importCmd = &cobra.Command{
	Use:   "import [manifest.csv...]",
	Short: "Import booking manifests into the history",
	Long: `Import one or more CSV booking manifests.

The header row is detected among the first rows of the file, and columns are
matched by name (customer, booking no, rate, vat, reefer, genset, ports,
trucker, ...), so exports from different spreadsheets import without
configuration. Unparseable amounts become 0 and rows without a customer are
skipped. Imported bookings are appended; nothing is merged.

Use "-" to read a manifest from standard input.`,
	Example: `  # Import one manifest
  freightbill import march-bookings.csv

  # Import several manifests at once
  freightbill import week1.csv week2.csv

  # Parse without saving
  freightbill import march-bookings.csv --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Bool("dry-run", false, "Parse and report without saving")
}

func runImport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("import")

	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx, cancel := createCommandContext(log)
	defer cancel()

	wb, err := openWorkbench(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer wb.close()

	importer := manifest.NewImporter()
	total := 0
	for _, path := range args {
		text, err := readManifest(path)
		if err != nil {
			log.Error().
				Err(err).
				Str("file", path).
				Msg("Failed to read manifest")
			return fmt.Errorf("failed to read manifest %s: %w", path, err)
		}

		records := importer.Import(text)
		if len(records) == 0 {
			fmt.Printf("%s: no bookings found (check that the file has a customer column)\n", path)
			continue
		}

		wb.store.Append(records...)
		total += len(records)
		fmt.Printf("%s: %d bookings\n", path, len(records))
	}

	if dryRun {
		fmt.Printf("Dry run: %d bookings parsed, nothing saved\n", total)
		return nil
	}
	if total == 0 {
		return nil
	}
	if err := wb.save(ctx); err != nil {
		return err
	}

	log.Info().
		Int("imported", total).
		Int("files", len(args)).
		Int("history", wb.store.Len()).
		Msg("Import completed")
	fmt.Printf("Imported %d bookings (%d in history)\n", total, wb.store.Len())
	return nil
}

func readManifest(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
