package cli

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kindly/internal/app"
)

// NewServeCommand бот и ежедневные задачи cron до SIGINT/SIGTERM
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the daily jobs",
		Long: `Run the Telegram bot with the day-start job and the daily reminder.

Requires TG_TOKEN and TG_CHAT_ID.

Example:
  TG_TOKEN=... TG_CHAT_ID=... kindly serve --db ./kindly.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}

			application, err := app.New(cfg)
			if err != nil {
				return err
			}

			if err := application.Start(); err != nil {
				application.Stop()
				return err
			}
			defer application.Stop()

			waitForShutdown()
			log.Println("👋 Приложение завершает работу")
			return nil
		},
	}
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
