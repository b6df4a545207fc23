package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scribe-bot/scribe/internal/airtable"
	"github.com/scribe-bot/scribe/internal/catalog"
	"github.com/scribe-bot/scribe/internal/config"
	"github.com/scribe-bot/scribe/internal/template"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect the active template catalog",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := buildCatalog()
		if err != nil {
			return err
		}

		defs, err := cat.ListAll(cmd.Context())
		if err != nil {
			return err
		}
		if len(defs) == 0 {
			fmt.Println("catalog is empty")
			return nil
		}

		rows := make([][]string, 0, len(defs))
		for _, category := range catalog.Categories(defs) {
			for _, def := range catalog.InCategory(defs, category) {
				fields := strings.Join(def.RequiredFields, ", ")
				if fields == "" {
					fields = "-"
				}
				rows = append(rows, []string{def.ID, category, def.DisplayName, fields})
			}
		}
		return writeTable(cmd.OutOrStdout(), []string{"ID", "CATEGORY", "NAME", "FIELDS"}, rows)
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one template definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := buildCatalog()
		if err != nil {
			return err
		}

		def, err := cat.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:       %s\n", def.ID)
		fmt.Printf("Category: %s\n", def.Category)
		fmt.Printf("Name:     %s\n", def.DisplayName)
		fmt.Printf("Fields:   %s\n", strings.Join(def.RequiredFields, ", "))

		placeholders := template.Placeholders(template.Parse(def.Body))
		fmt.Printf("Placeholders: %s\n", strings.Join(placeholders, ", "))
		fmt.Printf("\n%s\n", def.Body)
		return nil
	},
}

func buildCatalog() (catalog.Catalog, error) {
	switch cfg.Catalog.Source {
	case config.BackendAirtable:
		client := airtable.NewClient(cfg.Airtable.APIKey, cfg.Airtable.BaseID)
		return catalog.NewAirtableCatalog(client, cfg.Airtable.SamplesTable), nil
	case config.BackendFile:
		return catalog.NewFileCatalog(cfg.Catalog.Dir), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
}
