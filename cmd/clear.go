package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"freightbill/internal/logger"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire booking history",
	Long: `Remove every booking from the history. Profile, template and customer
settings are kept. This cannot be undone; export the history first if you
need it.`,
	Example: `  freightbill export --name backup && freightbill clear --yes`,
	Args:    cobra.NoArgs,
	RunE:    runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().Bool("yes", false, "Confirm deletion [REQUIRED]")
}

func runClear(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("clear")

	confirmed, _ := cmd.Flags().GetBool("yes")
	if !confirmed {
		return fmt.Errorf("refusing to delete the booking history without --yes")
	}

	ctx, cancel := createCommandContext(log)
	defer cancel()

	wb, err := openWorkbench(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer wb.close()

	n := wb.store.Len()
	wb.store.ClearAll()
	if err := wb.save(ctx); err != nil {
		return err
	}

	fmt.Printf("Deleted %d bookings\n", n)
	return nil
}
