package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"kindly/internal/kindness"
)

type SummaryOptions struct {
	*RootOptions
	Month int
	Year  int
	Regen bool
}

// NewSummaryCommand без --month список сводок, с --month одна сводка
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummaryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "List or show monthly summaries",
		Long: `List all monthly summaries, or show one month.

With --regen the month is generated again from the ledger. Highlights are
sampled anew each time.

Example:
  kindly summary
  kindly summary --month 3 --year 2025
  kindly summary --month 3 --year 2025 --regen`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.Month, "month", 0, "month 1-12")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "year (default: current year)")
	cmd.Flags().BoolVar(&opts.Regen, "regen", false, "regenerate the summary")

	return cmd
}

func runSummary(opts *SummaryOptions, out io.Writer) error {
	if opts.Month == 0 && opts.Regen {
		return errors.New("--regen needs --month")
	}

	sm, db, err := opts.openServices()
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.Month == 0 {
		list := sm.Summaries()
		if len(list) == 0 {
			fmt.Fprintln(out, "📭 no summaries yet")
			return nil
		}
		for _, s := range list {
			fmt.Fprintf(out, "%s  %d acts, longest streak %d\n", s.Key(), s.TotalActs, s.LongestStreak)
		}
		return nil
	}

	now := opts.now()
	year := opts.Year
	if year == 0 {
		year = sm.Day(now).Year
	}
	key := kindness.MonthKey{Year: year, Month: time.Month(opts.Month)}
	if !key.Valid() {
		return fmt.Errorf("invalid month %d", opts.Month)
	}

	var summary kindness.MonthlySummary
	if opts.Regen {
		summary, err = sm.RegenerateSummary(key, now)
		if errors.Is(err, kindness.ErrNoData) {
			return fmt.Errorf("no completions in %s", key)
		}
		if err != nil {
			return err
		}
	} else {
		var ok bool
		if summary, ok = sm.Summary(key); !ok {
			return fmt.Errorf("no summary for %s, run with --regen", key)
		}
	}

	printSummary(out, summary)
	return nil
}

func printSummary(w io.Writer, s kindness.MonthlySummary) {
	fmt.Fprintf(w, "%s %d\n", s.MonthName(), s.Year)
	fmt.Fprintf(w, "acts: %d\n", s.TotalActs)
	fmt.Fprintf(w, "longest streak: %d\n", s.LongestStreak)
	for _, h := range s.HighlightedActs {
		fmt.Fprintf(w, "  • %s %s\n", h.Day, h.Title)
		if h.Reflection != "" {
			fmt.Fprintf(w, "    %s\n", h.Reflection)
		}
	}
	fmt.Fprintln(w, s.GrowthMessage)
}
