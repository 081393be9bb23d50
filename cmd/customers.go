package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"freightbill/internal/logger"
	"freightbill/pkg/models"
)

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Summarize bookings per customer",
	Long: `Show each customer's booking count, total rate and most recent booking
date, highest total first. Use "customers set" to store invoice defaults for a
customer.`,
	Args: cobra.NoArgs,
	RunE: runCustomers,
}

var customersSetCmd = &cobra.Command{
	Use:   "set [customer]",
	Short: "Store invoice defaults for a customer",
	Long: `Save the billing address, currency, notes and payment terms used as
defaults whenever an invoice is created for this customer. Flags that are not
given keep their saved value.`,
	Example: `  freightbill customers set "Acme" --address "1 Dock St, Alexandria" --currency EGP --due-days 15`,
	Args:    cobra.ExactArgs(1),
	RunE:    runCustomersSet,
}

func init() {
	rootCmd.AddCommand(customersCmd)
	customersCmd.AddCommand(customersSetCmd)

	customersCmd.Flags().Bool("json", false, "Output as JSON")

	customersSetCmd.Flags().String("address", "", "Billing address")
	customersSetCmd.Flags().String("currency", "", "Invoice currency (ISO 4217)")
	customersSetCmd.Flags().String("notes", "", "Default invoice notes")
	customersSetCmd.Flags().Int("due-days", 0, "Payment terms in days")
}

// customerSummary is the JSON form of a customer aggregate.
type customerSummary struct {
	Customer        string                   `json:"customer"`
	Count           int                      `json:"count"`
	TotalRate       float64                  `json:"totalRate"`
	LastBookingDate string                   `json:"lastBookingDate"`
	Settings        *models.CustomerSettings `json:"settings,omitempty"`
}

func runCustomers(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customers")

	jsonOutput, _ := cmd.Flags().GetBool("json")

	ctx, cancel := createCommandContext(log)
	defer cancel()

	wb, err := openWorkbench(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer wb.close()

	aggs := wb.store.CustomerAggregates()
	summaries := make([]customerSummary, 0, len(aggs))
	for _, a := range aggs {
		s := customerSummary{
			Customer:        a.Customer,
			Count:           a.Count,
			TotalRate:       a.TotalRate,
			LastBookingDate: a.LastBookingDate,
		}
		if cs, ok := wb.store.CustomerSettings(a.Customer); ok {
			s.Settings = &cs
		}
		summaries = append(summaries, s)
	}

	if jsonOutput {
		return printJSON(summaries)
	}
	if len(summaries) == 0 {
		fmt.Println("No customers yet. Import a manifest first.")
		return nil
	}

	table := newTable(nil, "Customer", "Bookings", "Total Rate", "Last Booking", "Currency", "Terms")
	for _, s := range summaries {
		currency, terms := "", ""
		if s.Settings != nil {
			currency = s.Settings.Currency
			if s.Settings.DueDays > 0 {
				terms = strconv.Itoa(s.Settings.DueDays) + "d"
			}
		}
		table.Append([]string{
			s.Customer, strconv.Itoa(s.Count), fmt.Sprintf("%.2f", s.TotalRate),
			s.LastBookingDate, currency, terms,
		})
	}
	table.Render()
	return nil
}

func runCustomersSet(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customers")
	customer := strings.TrimSpace(args[0])
	if customer == "" {
		return fmt.Errorf("customer name must not be empty")
	}

	ctx, cancel := createCommandContext(log)
	defer cancel()

	wb, err := openWorkbench(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer wb.close()

	cs, _ := wb.store.CustomerSettings(customer)
	flags := cmd.Flags()
	if flags.Changed("address") {
		cs.Address, _ = flags.GetString("address")
	}
	if flags.Changed("currency") {
		c, _ := flags.GetString("currency")
		cs.Currency = strings.ToUpper(strings.TrimSpace(c))
	}
	if flags.Changed("notes") {
		cs.Notes, _ = flags.GetString("notes")
	}
	if flags.Changed("due-days") {
		cs.DueDays, _ = flags.GetInt("due-days")
		if cs.DueDays < 0 {
			return fmt.Errorf("--due-days must not be negative")
		}
	}

	wb.store.SetCustomerSettings(customer, cs)
	if err := wb.save(ctx); err != nil {
		return err
	}

	log.Info().
		Str("customer", customer).
		Str("currency", cs.Currency).
		Int("due_days", cs.DueDays).
		Msg("Customer settings saved")
	fmt.Printf("Saved settings for %s\n", customer)
	return nil
}
