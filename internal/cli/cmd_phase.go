package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgienger/planner/internal/db"
	"github.com/tgienger/planner/internal/models"
)

func newPhaseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "phase",
		Aliases: []string{"phases"},
		Short:   "Add phases to a project",
	}
	cmd.AddCommand(newPhaseAddCmd(a))
	return cmd
}

func newPhaseAddCmd(a *app) *cobra.Command {
	var description, start, end string

	cmd := &cobra.Command{
		Use:   "add <project> <name>",
		Short: "Add a phase to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := optionalDate("--start", start)
			if err != nil {
				return err
			}
			endDate, err := optionalDate("--end", end)
			if err != nil {
				return err
			}
			if startDate != nil && endDate != nil && endDate.Before(startDate.Time) {
				return fmt.Errorf("%w: --end %s is before --start %s", db.ErrInvalidDates, endDate, startDate)
			}

			p, err := a.resolveProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ph, err := a.store.AddPhase(cmd.Context(), p.ID, args[1], description, startDate, endDate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added phase #%d %s to %s (%s -> %s)\n", ph.ID, ph.Name, p.Name,
				models.FormatDate(ph.StartDate, "N/A"), models.FormatDate(ph.EndDate, "N/A"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "phase description")
	cmd.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "end date YYYY-MM-DD")
	return cmd
}

func newEpicCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "epic",
		Aliases: []string{"epics"},
		Short:   "Add epics to a phase",
	}
	cmd.AddCommand(newEpicAddCmd(a))
	return cmd
}

func newEpicAddCmd(a *app) *cobra.Command {
	var description, status string

	cmd := &cobra.Command{
		Use:   "add <phase-id> <name>",
		Short: "Add an epic to a phase (ids are shown by plan show)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			phaseID, err := parseID(args[0])
			if err != nil {
				return err
			}
			var epicStatus models.EpicStatus
			if status != "" {
				if epicStatus, err = models.ParseProjectStatus(status); err != nil {
					return err
				}
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			e, err := store.AddEpic(cmd.Context(), phaseID, args[1], description, epicStatus)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added epic #%d %s [%s] to phase #%d\n", e.ID, e.Name, e.Status, phaseID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "epic description")
	cmd.Flags().StringVar(&status, "status", "", "Planned, In Progress, Completed or On Hold (default Planned)")
	return cmd
}

// optionalDate parses value as YYYY-MM-DD; empty means no date
func optionalDate(flag, value string) (*models.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", flag, err)
	}
	return d.Ptr(), nil
}
