package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"freightbill/internal/bookings"
	"freightbill/internal/logger"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a single booking by hand",
	Long: `Add one booking to the history without a manifest. Amounts accept the same
formats as imports ("$1,234.50", "14%", "N/A").`,
	Example: `  freightbill add --customer "Acme" --booking-no BK-7 --reefer RF123 --rate '$500' --vat '14%'`,
	Args:    cobra.NoArgs,
	RunE:    runAdd,
}

// addFlags maps flag names to the manual entry fields they fill.
var addFlags = []struct {
	name  string
	usage string
	field func(e *bookings.ManualEntry) *string
}{
	{"customer", "Customer name [REQUIRED]", func(e *bookings.ManualEntry) *string { return &e.Customer }},
	{"date", "Booking date", func(e *bookings.ManualEntry) *string { return &e.BookingDate }},
	{"ref", "Customer reference / PO", func(e *bookings.ManualEntry) *string { return &e.CustomerRef }},
	{"go-port", "Gate-out / origin port", func(e *bookings.ManualEntry) *string { return &e.GoPort }},
	{"gi-port", "Gate-in / destination port", func(e *bookings.ManualEntry) *string { return &e.GiPort }},
	{"trucker", "Trucker", func(e *bookings.ManualEntry) *string { return &e.Trucker }},
	{"booking-no", "Booking number", func(e *bookings.ManualEntry) *string { return &e.BookingNo }},
	{"beneficiary", "Beneficiary name", func(e *bookings.ManualEntry) *string { return &e.BeneficiaryName }},
	{"reefer", "Reefer / container number", func(e *bookings.ManualEntry) *string { return &e.ReeferNumber }},
	{"genset", "Genset number", func(e *bookings.ManualEntry) *string { return &e.GensetNo }},
	{"address", "Shipper address", func(e *bookings.ManualEntry) *string { return &e.ShipperAddress }},
	{"status", "Operational status", func(e *bookings.ManualEntry) *string { return &e.Status }},
	{"rate", "Rate as written", func(e *bookings.ManualEntry) *string { return &e.Rate }},
	{"vat", "VAT as written", func(e *bookings.ManualEntry) *string { return &e.VAT }},
	{"remarks", "Remarks", func(e *bookings.ManualEntry) *string { return &e.Remarks }},
}

func init() {
	rootCmd.AddCommand(addCmd)

	for _, f := range addFlags {
		addCmd.Flags().String(f.name, "", f.usage)
	}
	addCmd.MarkFlagRequired("customer")
}

func runAdd(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("add")

	var entry bookings.ManualEntry
	for _, f := range addFlags {
		v, _ := cmd.Flags().GetString(f.name)
		*f.field(&entry) = v
	}
	if strings.TrimSpace(entry.Customer) == "" {
		return fmt.Errorf("--customer must not be empty")
	}

	ctx, cancel := createCommandContext(log)
	defer cancel()

	wb, err := openWorkbench(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer wb.close()

	rec := wb.store.Add(entry)
	if err := wb.save(ctx); err != nil {
		return err
	}

	log.Info().
		Str("id", rec.ID).
		Str("customer", rec.Customer).
		Str("booking_no", rec.BookingNo).
		Float64("rate", rec.RateValue).
		Msg("Booking added")
	fmt.Printf("Added booking %s for %s (rate %.2f)\n", rec.ID, rec.Customer, rec.RateValue)
	return nil
}
