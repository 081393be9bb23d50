package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"freightbill/internal/bookings"
	"freightbill/internal/logger"
	"freightbill/pkg/models"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookings in the history",
	Long: `List the booking history in import order.

--search matches customer, booking no, reefer number, invoice no and
reference. --status matches the operational status column, --port matches
either port, and --billing narrows to PENDING or SETTLED bookings.`,
	Example: `  # Everything not invoiced yet
  freightbill list --billing pending

  # One customer's bookings through Alexandria as JSON
  freightbill list --search acme --port ALX --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("search", "", "Free-text search")
	listCmd.Flags().String("status", bookings.StatusAll, "Operational status filter (ALL for everything)")
	listCmd.Flags().String("port", "", "Port filter")
	listCmd.Flags().String("billing", "", "Billing status filter (pending|settled)")
	listCmd.Flags().Bool("json", false, "Output as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("list")

	search, _ := cmd.Flags().GetString("search")
	status, _ := cmd.Flags().GetString("status")
	port, _ := cmd.Flags().GetString("port")
	billing, _ := cmd.Flags().GetString("billing")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	billing = strings.ToUpper(strings.TrimSpace(billing))
	if billing != "" && billing != models.BillingPending && billing != models.BillingSettled {
		return fmt.Errorf("invalid --billing %q: must be pending or settled", billing)
	}

	ctx, cancel := createCommandContext(log)
	defer cancel()

	wb, err := openWorkbench(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer wb.close()

	records := wb.store.Filter(bookings.Filter{Search: search, Status: status, Port: port})
	if billing != "" {
		kept := records[:0]
		for _, r := range records {
			if r.BillingStatus() == billing {
				kept = append(kept, r)
			}
		}
		records = kept
	}

	log.Debug().
		Int("matched", len(records)).
		Int("total", wb.store.Len()).
		Msg("Bookings filtered")

	if jsonOutput {
		if records == nil {
			records = []models.BookingRecord{}
		}
		return printJSON(records)
	}

	if len(records) == 0 {
		fmt.Println("No bookings match.")
		return nil
	}

	table := newTable(nil, "ID", "Customer", "Date", "Booking No", "Reefer", "Route", "Rate", "VAT", "Billing", "Invoice")
	for _, r := range records {
		table.Append([]string{
			r.ID, r.Customer, r.BookingDate, r.BookingNo, r.ReeferNumber,
			strings.Trim(r.GoPort+" > "+r.GiPort, " >"),
			fmt.Sprintf("%.2f", r.RateValue), fmt.Sprintf("%.2f", r.VATValue),
			r.BillingStatus(), r.InvNo,
		})
	}
	table.Render()
	fmt.Printf("%d of %d bookings\n", len(records), wb.store.Len())
	return nil
}
