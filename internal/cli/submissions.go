package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scribe-bot/scribe/internal/db"
)

var (
	submissionsUser  string
	submissionsLimit int
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Inspect the local submission archive",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived submissions for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer database.Close()

		if _, err := database.MigrateUp(cmd.Context()); err != nil {
			return err
		}

		repo := db.NewSubmissionRepository(database)
		submissions, err := repo.ListByUser(cmd.Context(), submissionsUser, submissionsLimit)
		if err != nil {
			return err
		}
		if len(submissions) == 0 {
			fmt.Println("no submissions")
			return nil
		}

		rows := make([][]string, 0, len(submissions))
		for _, sub := range submissions {
			rows = append(rows, []string{
				sub.CreatedAtString(), sub.ID, sub.TemplateID, fmt.Sprint(len(sub.Fields)),
			})
		}
		return writeTable(cmd.OutOrStdout(), []string{"CREATED", "ID", "TEMPLATE", "FIELDS"}, rows)
	},
}

var submissionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one archived submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer database.Close()

		if _, err := database.MigrateUp(cmd.Context()); err != nil {
			return err
		}

		sub, err := db.NewSubmissionRepository(database).Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:       %s\n", sub.ID)
		fmt.Printf("Template: %s\n", sub.TemplateID)
		fmt.Printf("User:     %s\n", sub.UserID)
		fmt.Printf("Created:  %s\n", sub.CreatedAtString())
		for name, value := range sub.Fields {
			fmt.Printf("  %s: %s\n", name, value)
		}
		fmt.Printf("\n%s\n", sub.RenderedText)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submissionsCmd)
	submissionsCmd.AddCommand(submissionsListCmd)
	submissionsCmd.AddCommand(submissionsShowCmd)

	submissionsListCmd.Flags().StringVar(&submissionsUser, "user", "", "user identity (required)")
	submissionsListCmd.Flags().IntVar(&submissionsLimit, "limit", 20, "max submissions to list")
	submissionsListCmd.MarkFlagRequired("user")
}
