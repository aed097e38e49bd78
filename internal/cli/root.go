package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"kindly/internal/app"
	"kindly/internal/config"
	"kindly/internal/database"
	"kindly/internal/services"
)

// RootOptions общие флаги всех команд
type RootOptions struct {
	Database string

	// Now подменяет часы в тестах
	Now func() time.Time
}

func (o *RootOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// config читает окружение; --db важнее DB_PATH
func (o *RootOptions) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.Database != "" {
		cfg.Database.Path = o.Database
	}
	return cfg, nil
}

// openServices для локальных команд, БД закрывает вызывающий
func (o *RootOptions) openServices() (*services.ServiceManager, *database.Database, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, nil, err
	}
	return app.NewServices(cfg)
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kindly",
		Short:         "Kindly - one act of kindness a day",
		Long:          "Suggests one act of kindness per day, tracks completions and streaks, and writes monthly summaries.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides DB_PATH)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTodayCommand(opts))
	cmd.AddCommand(NewDoneCommand(opts))
	cmd.AddCommand(NewStreakCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}

// Execute при ошибке завершает процесс с кодом 1
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
