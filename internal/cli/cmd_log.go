package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/planner/internal/models"
)

func newLogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record and read daily status logs",
	}
	cmd.AddCommand(newLogAddCmd(a))
	cmd.AddCommand(newLogListCmd(a))
	return cmd
}

func newLogAddCmd(a *app) *cobra.Command {
	var (
		date string
		in   models.NewDailyLog
	)

	cmd := &cobra.Command{
		Use:   "add <project>",
		Short: "Add a daily log entry (date defaults to today)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if date != "" {
				d, err := models.ParseDate(date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				in.LogDate = d.Ptr()
			}
			in = in.Trimmed()
			if in.IsEmpty() {
				return errors.New("enter at least one log field, e.g. --decisions")
			}
			p, err := a.resolveProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			l, err := a.store.AddDailyLog(cmd.Context(), p.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s for %s (#%d)\n", l.LogDate, p.Name, l.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&date, "date", "", "log date YYYY-MM-DD (default today)")
	f.StringVar(&in.ActivitiesUS, "activities-us", "", "US team activities")
	f.StringVar(&in.ActivitiesIndia, "activities-india", "", "India team activities")
	f.StringVar(&in.BlockersUS, "blockers-us", "", "US team blockers")
	f.StringVar(&in.BlockersIndia, "blockers-india", "", "India team blockers")
	f.StringVar(&in.Decisions, "decisions", "", "key decisions")
	f.StringVar(&in.NextStepsUS, "next-us", "", "US team next steps")
	f.StringVar(&in.NextStepsIndia, "next-india", "", "India team next steps")
	return cmd
}

func newLogListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project>",
		Short: "Print a project's daily logs, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolveProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			logs, err := a.store.ListDailyLogsForProject(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(logs) == 0 {
				fmt.Fprintf(out, "No daily logs for %s\n", p.Name)
				return nil
			}
			for i, l := range logs {
				if i > 0 {
					fmt.Fprintln(out)
				}
				writeLog(out, l)
			}
			return nil
		},
	}
}

func writeLog(w io.Writer, l models.DailyLog) {
	fmt.Fprintf(w, "=== %s (#%d, recorded %s) ===\n", l.LogDate, l.ID, l.CreatedAt.Local().Format("15:04"))
	for _, f := range l.Fields() {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		fmt.Fprintf(w, "%s:\n", f.Label)
		for _, line := range strings.Split(f.Value, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}
