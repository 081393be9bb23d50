package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"freightbill/internal/logger"
	"freightbill/pkg/models"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit the issuer profile printed on invoices",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the issuer profile",
	Long: `Update the issuer identity printed in the invoice header and signature.
Flags that are not given keep their saved value. Logo and signature are paths
to PNG or JPEG files.`,
	Example: `  freightbill profile set --company "Delta Freight" --name "Mona Adel" --email billing@delta.example --logo ./logo.png`,
	Args:    cobra.NoArgs,
	RunE:    runProfileSet,
}

var profileFlags = []struct {
	name  string
	usage string
	field func(p *models.UserProfile) *string
}{
	{"name", "Signatory name", func(p *models.UserProfile) *string { return &p.Name }},
	{"company", "Company name", func(p *models.UserProfile) *string { return &p.CompanyName }},
	{"address", "Company address", func(p *models.UserProfile) *string { return &p.Address }},
	{"tax-id", "Tax registration number", func(p *models.UserProfile) *string { return &p.TaxID }},
	{"email", "Billing email", func(p *models.UserProfile) *string { return &p.Email }},
	{"signature", "Signature image path", func(p *models.UserProfile) *string { return &p.SignatureRef }},
	{"logo", "Logo image path", func(p *models.UserProfile) *string { return &p.LogoRef }},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd)

	for _, f := range profileFlags {
		profileSetCmd.Flags().String(f.name, "", f.usage)
	}
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("profile")

	ctx, cancel := createCommandContext(log)
	defer cancel()

	wb, err := openWorkbench(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer wb.close()

	return printJSON(wb.store.Profile())
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("profile")

	ctx, cancel := createCommandContext(log)
	defer cancel()

	wb, err := openWorkbench(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer wb.close()

	profile := wb.store.Profile()
	changed := 0
	for _, f := range profileFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		*f.field(&profile), _ = cmd.Flags().GetString(f.name)
		changed++
	}
	if changed == 0 {
		return fmt.Errorf("nothing to update; see --help for the available fields")
	}

	wb.store.SetProfile(profile)
	if err := wb.save(ctx); err != nil {
		return err
	}

	log.Info().Int("fields", changed).Msg("Profile updated")
	return printJSON(profile)
}
