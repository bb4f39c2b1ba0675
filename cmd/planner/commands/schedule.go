package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskmaster/planner/internal/application"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/ports"
)

// NewScheduleCommand creates the schedule command with subcommands
func NewScheduleCommand() *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage the weekly class schedule",
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, _ := cmd.Flags().GetString("day")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			location, _ := cmd.Flags().GetString("location")

			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				entry, err := p.Schedule.AddEntry(ctx, ports.CreateScheduleEntryRequest{
					Name:     args[0],
					Day:      entities.Weekday(day),
					Start:    start,
					End:      end,
					Location: location,
				})
				if err != nil {
					return explain(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added class %s\n", entry.ID)
				return nil
			})
		},
	}
	addCmd.Flags().String("day", "", "Day of week (Mon..Sun)")
	addCmd.Flags().String("start", "", "Start time (HH:MM)")
	addCmd.Flags().String("end", "", "End time (HH:MM)")
	addCmd.Flags().String("location", "", "Room or location")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the week, or one day with --day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, _ := cmd.Flags().GetString("day")

			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				out := cmd.OutOrStdout()

				if day != "" {
					d := entities.Weekday(day)
					entries, err := p.Schedule.ListEntries(ctx, ports.ScheduleFilter{Day: &d})
					if err != nil {
						return explain(err)
					}
					return printDay(cmd, ports.DaySchedule{Day: d, Entries: entries})
				}

				week, err := p.Schedule.Week(ctx)
				if err != nil {
					return err
				}
				for i, col := range week {
					if i > 0 {
						fmt.Fprintln(out)
					}
					if err := printDay(cmd, col); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	listCmd.Flags().String("day", "", "Only this day (Mon..Sun)")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				if err := p.Schedule.RemoveEntry(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted class %s\n", args[0])
				return nil
			})
		},
	}

	scheduleCmd.AddCommand(addCmd, listCmd, rmCmd)
	return scheduleCmd
}

func printDay(cmd *cobra.Command, col ports.DaySchedule) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", col.Day)
	if len(col.Entries) == 0 {
		fmt.Fprintln(out, "  No classes")
		return nil
	}

	tw := newTable(out)
	for _, e := range col.Entries {
		fmt.Fprintf(tw, "  %s-%s\t%s\t%s\t%s\n", e.Start, e.End, e.Name, e.Location, e.ID)
	}
	return tw.Flush()
}
