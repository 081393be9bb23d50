package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"freightbill/internal/layout"
	"freightbill/internal/logger"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Show or edit the invoice template",
	Long: `The template controls which invoice sections are printed and in which order,
which fields appear inside them, and the visual theme. It never changes which
bookings are billed or any amount.

Sections: header, parties, table, totals, signature, footer.`,
	Args: cobra.NoArgs,
	RunE: runTemplateShow,
}

var templateSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change section order, visibility, fields or theme",
	Example: `  # Put totals above the table and hide the footer
  freightbill template set --order header,parties,totals,table,signature,footer --hide footer

  # Switch theme and drop VAT columns
  freightbill template set --theme maritime --field showVat=false`,
	Args: cobra.NoArgs,
	RunE: runTemplateSet,
}

var templateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default template",
	Args:  cobra.NoArgs,
	RunE:  runTemplateReset,
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateSetCmd, templateResetCmd)

	templateSetCmd.Flags().StringSlice("order", nil, "Section order; missing sections are appended")
	templateSetCmd.Flags().StringSlice("hide", nil, "Sections to hide")
	templateSetCmd.Flags().StringSlice("show", nil, "Sections to show again")
	templateSetCmd.Flags().String("theme", "", "Theme ("+themeList()+")")
	templateSetCmd.Flags().StringToString("field", nil, "Field toggles, e.g. showVat=false")
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("template")

	ctx, cancel := createCommandContext(log)
	defer cancel()

	wb, err := openWorkbench(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer wb.close()

	return printJSON(wb.store.Template())
}

func parseSections(names []string) ([]layout.SectionID, error) {
	ids := make([]layout.SectionID, 0, len(names))
	for _, n := range names {
		id, ok := layout.ParseSectionID(n)
		if !ok {
			return nil, fmt.Errorf("unknown section %q", n)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func runTemplateSet(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("template")

	order, _ := cmd.Flags().GetStringSlice("order")
	hide, _ := cmd.Flags().GetStringSlice("hide")
	show, _ := cmd.Flags().GetStringSlice("show")
	themeName, _ := cmd.Flags().GetString("theme")
	fields, _ := cmd.Flags().GetStringToString("field")

	ctx, cancel := createCommandContext(log)
	defer cancel()

	wb, err := openWorkbench(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer wb.close()

	tpl := wb.store.Template()

	if len(order) > 0 {
		ids, err := parseSections(order)
		if err != nil {
			return err
		}
		tpl.SectionOrder = ids
	}

	hidden, err := parseSections(hide)
	if err != nil {
		return err
	}
	for _, id := range hidden {
		tpl.HiddenSections[id] = struct{}{}
	}
	shown, err := parseSections(show)
	if err != nil {
		return err
	}
	for _, id := range shown {
		delete(tpl.HiddenSections, id)
	}

	if themeName != "" {
		theme, ok := layout.ParseTheme(themeName)
		if !ok {
			return fmt.Errorf("unknown theme %q (available: %s)", themeName, themeList())
		}
		tpl.Theme = theme
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := strconv.ParseBool(fields[k])
		if err != nil {
			return fmt.Errorf("field %s: expected true or false, got %q", k, fields[k])
		}
		if !tpl.Fields.Set(k, v) {
			return fmt.Errorf("unknown field %q (available: %s)", k, strings.Join(tpl.Fields.Keys(), ", "))
		}
	}

	wb.store.SetTemplate(tpl)
	if err := wb.save(ctx); err != nil {
		return err
	}

	saved := wb.store.Template()
	log.Info().
		Str("theme", string(saved.Theme)).
		Int("hidden", len(saved.HiddenSections)).
		Msg("Template updated")
	return printJSON(saved)
}

func runTemplateReset(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("template")

	ctx, cancel := createCommandContext(log)
	defer cancel()

	wb, err := openWorkbench(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer wb.close()

	wb.store.SetTemplate(layout.DefaultTemplate())
	if err := wb.save(ctx); err != nil {
		return err
	}
	fmt.Println("Template reset to defaults")
	return nil
}
