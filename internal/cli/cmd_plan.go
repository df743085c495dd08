package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgienger/planner/internal/plan"
)

func newPlanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Populate or print a project's plan",
	}
	cmd.AddCommand(newPlanPopulateCmd(a))
	cmd.AddCommand(newPlanShowCmd(a))
	return cmd
}

func newPlanPopulateCmd(a *app) *cobra.Command {
	var appendPlan bool

	cmd := &cobra.Command{
		Use:   "populate <project>",
		Short: "Add the standard three-phase delivery plan to a project",
		Long: `Adds 3 phases, 7 epics and 28 tasks to the project. Dates are offsets
from the project's start date and assignees come from the TEAM_MEMBERS
section of the property file.

A project that already has phases is left alone unless --append is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolveProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			props, err := a.loadProps()
			if err != nil {
				return err
			}

			gen := plan.NewGenerator(a.store, a.logger)
			res, err := gen.Populate(cmd.Context(), p, plan.TeamFromProperties(props), plan.Options{Append: appendPlan})
			if errors.Is(err, plan.ErrAlreadyPopulated) {
				return fmt.Errorf("%w (use --append to add another copy)", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", res, p.Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&appendPlan, "append", false, "add the template even if the project already has phases")
	return cmd
}

func newPlanShowCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <project>",
		Short: "Print the plan tree as text or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolveProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tree, err := a.store.LoadPlan(cmd.Context(), p.ID)
			if err != nil {
				return err
			}

			switch format {
			case "text":
				return plan.WriteText(cmd.OutOrStdout(), tree)
			case "yaml":
				return plan.WriteYAML(cmd.OutOrStdout(), tree)
			default:
				return fmt.Errorf("unknown format %q (want text or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "text", "output format: text or yaml")
	return cmd
}
