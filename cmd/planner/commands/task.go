package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskmaster/planner/internal/application"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/ports"
)

// NewTaskCommand creates the task command with subcommands
func NewTaskCommand() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage to-do tasks",
	}

	addCmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, _ := cmd.Flags().GetString("priority")
			due, _ := cmd.Flags().GetString("due")

			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				task, err := p.Tasks.AddTask(ctx, ports.CreateTaskRequest{
					Text:     args[0],
					Priority: entities.Priority(priority),
					Due:      due,
				})
				if err != nil {
					return explain(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added task %s\n", task.ID)
				return nil
			})
		},
	}
	addCmd.Flags().String("priority", "", "Priority (low, medium, high)")
	addCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			search, _ := cmd.Flags().GetString("search")

			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				tasks, err := p.Tasks.ListTasks(ctx, ports.TaskFilter{
					Status: ports.TaskStatus(status),
					Search: search,
				})
				if err != nil {
					return explain(err)
				}
				if len(tasks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tasks")
					return nil
				}

				now := time.Now()
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "\tID\tTASK\tPRIORITY\tDUE")
				for _, t := range tasks {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", check(t.Done), t.ID, t.Text, t.Priority, formatDue(t.Due, now))
				}
				return tw.Flush()
			})
		},
	}
	listCmd.Flags().String("status", string(ports.TaskStatusAll), "Filter by status (all, active, done)")
	listCmd.Flags().String("search", "", "Case-insensitive text search")

	doneCmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's done flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				task, err := p.Tasks.ToggleTask(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", check(task.Done), task.Text)
				return nil
			})
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req ports.UpdateTaskRequest
			if cmd.Flags().Changed("text") {
				v, _ := cmd.Flags().GetString("text")
				req.Text = &v
			}
			if cmd.Flags().Changed("priority") {
				v, _ := cmd.Flags().GetString("priority")
				priority := entities.Priority(v)
				req.Priority = &priority
			}
			if cmd.Flags().Changed("due") {
				v, _ := cmd.Flags().GetString("due")
				req.Due = &v
			}

			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				task, err := p.Tasks.UpdateTask(ctx, args[0], req)
				if err != nil {
					return explain(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", task.ID)
				return nil
			})
		},
	}
	editCmd.Flags().String("text", "", "New text")
	editCmd.Flags().String("priority", "", "New priority")
	editCmd.Flags().String("due", "", "New due date; empty clears it")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				if err := p.Tasks.RemoveTask(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
				return nil
			})
		},
	}

	taskCmd.AddCommand(addCmd, listCmd, doneCmd, editCmd, rmCmd)
	return taskCmd
}
