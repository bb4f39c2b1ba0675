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

// NewAssignmentCommand creates the assignment command with subcommands
func NewAssignmentCommand() *cobra.Command {
	assignmentCmd := &cobra.Command{
		Use:     "assignment",
		Aliases: []string{"hw"},
		Short:   "Manage assignments",
	}

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			due, _ := cmd.Flags().GetString("due")
			priority, _ := cmd.Flags().GetString("priority")
			notes, _ := cmd.Flags().GetString("notes")

			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				a, err := p.Assignments.AddAssignment(ctx, ports.CreateAssignmentRequest{
					Title:    args[0],
					Subject:  subject,
					Due:      due,
					Priority: entities.Priority(priority),
					Notes:    notes,
				})
				if err != nil {
					return explain(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added assignment %s\n", a.ID)
				return nil
			})
		},
	}
	addCmd.Flags().String("subject", "", "Subject (required)")
	addCmd.Flags().String("due", "", "Due date (YYYY-MM-DD, required)")
	addCmd.Flags().String("priority", "", "Priority (low, medium, high)")
	addCmd.Flags().String("notes", "", "Notes")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments by due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, _ := cmd.Flags().GetBool("pending")

			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				var filter ports.AssignmentFilter
				if pending {
					done := false
					filter.Done = &done
				}

				assignments, err := p.Assignments.ListAssignments(ctx, filter)
				if err != nil {
					return err
				}
				if len(assignments) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No assignments")
					return nil
				}

				now := time.Now()
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "\tID\tTITLE\tSUBJECT\tPRIORITY\tDUE")
				for _, a := range assignments {
					due := a.Due
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", check(a.Done), a.ID, a.Title, a.Subject, a.Priority, formatDue(&due, now))
				}
				return tw.Flush()
			})
		},
	}
	listCmd.Flags().Bool("pending", false, "Only assignments not yet done")

	toggleCmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle an assignment's done flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				a, err := p.Assignments.ToggleAssignment(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", check(a.Done), a.Title)
				return nil
			})
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				if err := p.Assignments.RemoveAssignment(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted assignment %s\n", args[0])
				return nil
			})
		},
	}

	assignmentCmd.AddCommand(addCmd, listCmd, toggleCmd, rmCmd)
	return assignmentCmd
}
