package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/tgienger/planner/internal/models"
)

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   "Create, inspect and delete projects",
	}
	cmd.AddCommand(newProjectCreateCmd(a))
	cmd.AddCommand(newProjectListCmd(a))
	cmd.AddCommand(newProjectShowCmd(a))
	cmd.AddCommand(newProjectDeleteCmd(a))
	cmd.AddCommand(newProjectStatusCmd(a))
	return cmd
}

func newProjectCreateCmd(a *app) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := models.ParseDate(start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			endDate, err := models.ParseDate(end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			p, err := store.CreateProject(cmd.Context(), args[0], startDate, endDate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project #%d %s (%s -> %s)\n", p.ID, p.Name, p.StartDate, p.TargetEndDate)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&end, "end", "", "target end date YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newProjectListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			projects, err := store.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects yet. Create one with: planner project create <name> --start ... --end ...")
				return nil
			}

			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10), p.Name, string(p.Status),
					p.StartDate.String(), p.TargetEndDate.String(),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "NAME", "STATUS", "START", "TARGET END"}, rows)
			return nil
		},
	}
}

func newProjectShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project>",
		Short: "Show a project and its plan counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolveProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			counts, err := a.store.CountPlan(cmd.Context(), p.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project:    #%d %s\n", p.ID, p.Name)
			fmt.Fprintf(out, "Status:     %s\n", p.Status)
			fmt.Fprintf(out, "Dates:      %s -> %s\n", p.StartDate, p.TargetEndDate)
			if p.Theme != nil {
				fmt.Fprintf(out, "Theme:      %s\n", *p.Theme)
			}
			fmt.Fprintf(out, "Plan:       %d phases, %d epics, %d tasks, %d subtasks\n",
				counts.Phases, counts.Epics, counts.Tasks, counts.SubTasks)
			fmt.Fprintf(out, "Daily logs: %d\n", counts.DailyLogs)
			return nil
		},
	}
}

func newProjectDeleteCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <project>",
		Short: "Delete a project with its whole plan and logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolveProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !force {
				return fmt.Errorf("refusing to delete %q without --force", p.Name)
			}
			if err := a.store.DeleteProject(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project #%d %s\n", p.ID, p.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "confirm deletion")
	return cmd
}

func newProjectStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <project> <status>",
		Short: "Set a project's status (Planned, In Progress, Completed, On Hold)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := models.ParseProjectStatus(args[1])
			if err != nil {
				return err
			}
			p, err := a.resolveProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.store.SetProjectStatus(cmd.Context(), p.ID, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Project #%d %s is now %s\n", p.ID, p.Name, status)
			return nil
		},
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}
