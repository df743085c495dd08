package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tgienger/planner/internal/models"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "List, add and update tasks",
	}
	cmd.AddCommand(newTaskListCmd(a))
	cmd.AddCommand(newTaskAddCmd(a))
	cmd.AddCommand(newTaskStatusCmd(a))
	return cmd
}

func newTaskListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project>",
		Short: "List a project's tasks by due date, then priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolveProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tasks, err := a.store.ListTasksForProject(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has no tasks\n", p.Name)
				return nil
			}

			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				rows = append(rows, []string{
					strconv.FormatInt(t.ID, 10), t.Name, t.AssignedTo,
					string(t.Priority), string(t.Status), models.FormatDate(t.DueDate, "N/A"),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "TASK", "ASSIGNED TO", "PRIORITY", "STATUS", "DUE"}, rows)
			return nil
		},
	}
}

func newTaskAddCmd(a *app) *cobra.Command {
	var (
		description string
		assignee    string
		priority    string
		due         string
		link        string
	)

	cmd := &cobra.Command{
		Use:   "add <epic-id> <name>",
		Short: "Add a task to an epic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			epicID, err := parseID(args[0])
			if err != nil {
				return err
			}
			in := models.NewTask{Name: args[1], Description: description, AssignedTo: assignee}
			if priority != "" {
				if in.Priority, err = models.ParsePriority(priority); err != nil {
					return err
				}
			}
			if in.DueDate, err = optionalDate("--due", due); err != nil {
				return err
			}
			if link != "" {
				in.ExternalLink = &link
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			t, err := store.AddTask(cmd.Context(), epicID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d %s [%s, %s]\n", t.ID, t.Name, t.Priority, t.Status)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "who the task is assigned to")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "High, Medium or Low (default Medium)")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD")
	cmd.Flags().StringVar(&link, "link", "", "external tracker link")
	return cmd
}

func newTaskStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id> <status>",
		Short: "Set a task's status (To Do, In Progress, Done, Blocked)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := models.ParseTaskStatus(args[1])
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			t, err := store.UpdateTaskStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task #%d %s is now %s (completed %s)\n",
				t.ID, t.Name, t.Status, models.FormatDate(t.CompletedDate, "N/A"))
			return nil
		},
	}
}

func newSubTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtask",
		Aliases: []string{"subtasks", "st"},
		Short:   "Add and update subtasks",
	}
	cmd.AddCommand(newSubTaskAddCmd(a))
	cmd.AddCommand(newSubTaskStatusCmd(a))
	return cmd
}

func newSubTaskAddCmd(a *app) *cobra.Command {
	var description, assignee string

	cmd := &cobra.Command{
		Use:   "add <task-id> <name>",
		Short: "Add a subtask to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			s, err := store.AddSubTask(cmd.Context(), taskID, models.NewSubTask{
				Name:        args[1],
				Description: description,
				AssignedTo:  assignee,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added subtask #%d %s to task #%d\n", s.ID, s.Name, taskID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "subtask description")
	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "who the subtask is assigned to")
	return cmd
}

func newSubTaskStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <subtask-id> <status>",
		Short: "Set a subtask's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := models.ParseTaskStatus(args[1])
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			s, err := store.UpdateSubTaskStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subtask #%d %s is now %s\n", s.ID, s.Name, s.Status)
			return nil
		},
	}
}
