package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"freightbill/internal/config"
	"freightbill/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "freightbill",
	Short: "Freight billing workbench - turn booking manifests into invoices",
	Long: `freightbill is a single-user billing workbench for freight forwarders.

It imports booking manifests exported from operations spreadsheets, keeps a
local booking history, assembles invoices from selected bookings and renders
them as HTML, PDF or JSON using a configurable template and theme.

State lives in a local JSON file or SQLite database (see FREIGHTBILL_STORE_DRIVER
and FREIGHTBILL_STORE_PATH).`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("freightbill executed")

		fmt.Println("Welcome to freightbill!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

// appConfig is set by Execute before any command runs.
var appConfig = config.Default()

// Execute runs the CLI with cfg as the application configuration.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")

	if cfg != nil {
		appConfig = cfg
	}

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("store", "", "State file or database path (default: FREIGHTBILL_STORE_PATH)")
	rootCmd.PersistentFlags().String("driver", "", "State backend, json or sqlite (default: FREIGHTBILL_STORE_DRIVER)")
}
