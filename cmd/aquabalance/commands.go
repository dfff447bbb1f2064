package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/TobiasBrasser/aquabalance/internal/calculator"
	"github.com/TobiasBrasser/aquabalance/internal/export"
	"github.com/TobiasBrasser/aquabalance/internal/models"
	"github.com/TobiasBrasser/aquabalance/internal/tracker"
)

const barWidth = 20

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your body metrics and daily target",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the stored profile and target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p, ok := c.app.Profile(cmd.Context())
			if !ok {
				fmt.Fprintln(out, "No profile saved yet. Run 'aquabalance profile set --weight <kg>'.")
				return nil
			}
			fmt.Fprintf(out, "Weight:    %g kg\n", p.WeightKg)
			if p.HeightCm > 0 {
				fmt.Fprintf(out, "Height:    %g cm\n", p.HeightCm)
			}
			fmt.Fprintf(out, "Activity:  %g\n", p.ActivityLevel)
			fmt.Fprintf(out, "Climate:   %g\n", p.Climate)
			fmt.Fprintf(out, "Gender:    %s\n", p.Gender)
			if t, ok := c.app.Tracker().Target(); ok {
				printTarget(out, t)
			}
			return nil
		},
	}

	var weight, height, activity, climate, gender string
	set := &cobra.Command{
		Use:   "set",
		Short: "Save body metrics and compute the daily target",
		Long: `Save body metrics and compute the daily target.

Activity and climate are the extra liters per day:
  activity: 0 (none), 0.2, 0.4, 0.5, 1 (very active)
  climate:  0 (temperate), 0.2 (hot)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := calculator.ParseProfile(weight, height, activity, climate, gender)
			if err != nil {
				return err
			}
			target, state, err := c.app.ComputeTarget(cmd.Context(), p)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printTarget(out, target)
			printProgress(out, state)
			return nil
		},
	}
	set.Flags().StringVar(&weight, "weight", "", "body weight in kg (required)")
	set.Flags().StringVar(&height, "height", "", "body height in cm")
	set.Flags().StringVar(&activity, "activity", "0", "activity level in liters")
	set.Flags().StringVar(&climate, "climate", "0", "climate adjustment in liters")
	set.Flags().StringVar(&gender, "gender", "male", "male or female")

	cmd.AddCommand(show, set)
	return cmd
}

func (c *cli) logCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log <amount>",
		Short: "Log consumed water, e.g. 0.25, 0,3 or 250ml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.app.Tracker().AddString(cmd.Context(), args[0])
			if errors.Is(err, tracker.ErrNotLogging) {
				return fmt.Errorf("%w: run 'aquabalance profile set' first", err)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printProgress(out, res.State)
			if res.GoalReached {
				fmt.Fprintln(out, "Daily goal reached!")
			}
			return nil
		},
	}
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printProgress(cmd.OutOrStdout(), c.app.Tracker().State())
			return nil
		},
	}
}

func (c *cli) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Switch to editing; logging resumes after 'profile set'",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := c.app.Tracker().BeginEditing(cmd.Context())
			if err != nil {
				return err
			}
			printProgress(cmd.OutOrStdout(), state)
			return nil
		},
	}
}

func (c *cli) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Set the logged amount back to zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := c.app.Tracker().Reset(cmd.Context())
			if err != nil {
				return err
			}
			printProgress(cmd.OutOrStdout(), state)
			return nil
		},
	}
}

func (c *cli) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and export the intake history",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List history entries, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := c.app.Tracker().History()
			if limit > 0 && limit < len(entries) {
				entries = entries[len(entries)-limit:]
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No entries yet.")
				return nil
			}
			for _, e := range entries {
				at := "-"
				if t := e.Time(); !t.IsZero() {
					at = t.Local().Format("2006-01-02 15:04")
				}
				kind := "entry"
				if e.IsReset() {
					kind = "reset"
				}
				fmt.Fprintf(out, "%-16s  %-5s  %5.2f L  %s\n", at, kind, e.LoggedAmount, e.ID)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "show only the most recent entries")

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Show totals and per-day intake",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printSummary(cmd.OutOrStdout(), c.app.Summary())
			return nil
		},
	}

	var format, output string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the history as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "csv" && format != "xlsx" {
				return fmt.Errorf("unknown format %q, want csv or xlsx", format)
			}
			if format == "xlsx" && output == "" {
				output = fmt.Sprintf("aquabalance_%s.xlsx", time.Now().Format("2006-01-02"))
			}

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			entries := c.app.Tracker().History()
			var err error
			if format == "xlsx" {
				err = export.WriteXLSX(w, entries, c.app.Summary())
			} else {
				err = export.WriteCSV(w, entries)
			}
			if err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", len(entries), output)
			}
			return nil
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout for csv)")

	cmd.AddCommand(list, summary, exportCmd)
	return cmd
}

func printTarget(w io.Writer, t models.IntakeTarget) {
	fmt.Fprintf(w, "Daily target: %s L\n", t.Individual())
	if t.RecommendedLiters > 0 {
		fmt.Fprintf(w, "Reference:    %s L\n", t.Recommended())
	}
}

func printProgress(w io.Writer, s models.ProgressState) {
	filled := int(s.Fraction()*barWidth + 0.5)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)
	fmt.Fprintf(w, "[%s] %.2f / %.2f L (%.0f%%)\n", bar, s.LoggedLiters, s.CapacityLiters, s.Fraction()*100)
	if s.Phase == models.PhaseEditing {
		fmt.Fprintln(w, "Editing: run 'aquabalance profile set' to resume logging.")
	}
}

func printSummary(w io.Writer, s calculator.Summary) {
	fmt.Fprintf(w, "Total:         %.2f L\n", s.TotalLiters)
	fmt.Fprintf(w, "Entries:       %d\n", s.Entries)
	fmt.Fprintf(w, "Average entry: %.2f L\n", s.AverageEntryLiters)
	fmt.Fprintf(w, "Daily average: %.2f L\n", s.DailyAverageLiters)
	for _, d := range s.Days {
		fmt.Fprintf(w, "  %s %s  %5.2f L\n", d.Label, d.Date.Format("01-02"), d.Liters)
	}
}
