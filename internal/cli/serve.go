package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scribe-bot/scribe/internal/botd"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		daemon, err := botd.New(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return daemon.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
