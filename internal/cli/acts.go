package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"kindly/internal/kindness"
	"kindly/internal/services"
	"kindly/internal/utils"
)

func NewTodayCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's act of kindness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, db, err := opts.openServices()
			if err != nil {
				return err
			}
			defer db.Close()

			now := opts.now()
			out := cmd.OutOrStdout()
			act, err := sm.Today(now)
			if errors.Is(err, kindness.ErrNoActsAvailable) {
				fmt.Fprintln(out, services.PlaceholderActTitle)
				return nil
			}
			if err != nil {
				return err
			}

			day := sm.Day(now)
			fmt.Fprintf(out, "%s  %s\n", day, act.Title)
			if act.Description != "" {
				fmt.Fprintf(out, "    %s\n", act.Description)
			}
			if sm.IsCompleted(day) {
				fmt.Fprintln(out, "✅ done")
			} else {
				fmt.Fprintln(out, "⬜ not done yet")
			}
			printStreak(out, sm.Streak(now))
			return nil
		},
	}
}

// NewDoneCommand аргументы склеиваются в текст размышления
func NewDoneCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done [reflection]",
		Short: "Mark today's act as done",
		Long: `Mark today's act of kindness as done, with an optional reflection.

Marking the same day twice keeps the first record.

Example:
  kindly done held the door for a neighbour`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, db, err := opts.openServices()
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := sm.Complete(opts.now(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Added {
				fmt.Fprintf(out, "✅ %s\n", res.Record.ActTitle)
			} else {
				fmt.Fprintln(out, "☑️ already done today")
			}
			printStreak(out, res.Streak)
			return nil
		},
	}
}

func NewStreakCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show current and longest streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, db, err := opts.openServices()
			if err != nil {
				return err
			}
			defer db.Close()

			printStreak(cmd.OutOrStdout(), sm.Streak(opts.now()))
			return nil
		},
	}
}

type AddOptions struct {
	*RootOptions
	Description string
}

// NewAddCommand пользовательский акт, ID генерируется
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add your own act of kindness",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, db, err := opts.openServices()
			if err != nil {
				return err
			}
			defer db.Close()

			act, err := sm.AddCustomAct(strings.Join(args, " "), opts.Description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "➕ %s (%s)\n", act.Title, act.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "optional description")

	return cmd
}

type ResetOptions struct {
	*RootOptions
	Yes bool
}

// NewResetCommand без --yes ничего не делает
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear completions and streaks",
		Long:  "Clear all completions, the longest streak and today's selection. Monthly summaries and custom acts are kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.Yes {
				return errors.New("refusing to reset without --yes")
			}

			sm, db, err := opts.openServices()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := sm.Reset(opts.now()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "🧹 progress reset")
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm the reset")

	return cmd
}

func printStreak(w io.Writer, s kindness.StreakState) {
	fmt.Fprintf(w, "%s streak: %d (longest %d)\n", utils.GetStreakEmoji(s.Current), s.Current, s.Longest)
}
