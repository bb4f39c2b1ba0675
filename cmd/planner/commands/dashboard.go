package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskmaster/planner/internal/application"
	"github.com/taskmaster/planner/internal/infrastructure/storage"
	"github.com/taskmaster/planner/internal/ports"
)

// NewDashboardCommand creates the dashboard command
func NewDashboardCommand() *cobra.Command {
	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show pending work, due-soon assignments and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			watch, _ := cmd.Flags().GetBool("watch")

			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				if err := renderDashboard(ctx, cmd, p); err != nil {
					return err
				}
				if !watch {
					return nil
				}
				return watchDashboard(ctx, cmd, p)
			})
		},
	}

	dashboardCmd.Flags().Bool("watch", false, "Keep refreshing until interrupted")
	return dashboardCmd
}

func renderDashboard(ctx context.Context, cmd *cobra.Command, p *application.Planner) error {
	summary, err := p.Dashboard.Summary(ctx)
	if err != nil {
		return err
	}
	printSummary(cmd, summary)
	return nil
}

// watchDashboard re-renders on the refresh period and whenever another
// process changes the profile.
func watchDashboard(ctx context.Context, cmd *cobra.Command, p *application.Planner) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	refresh := make(chan struct{}, 1)
	trigger := func() {
		select {
		case refresh <- struct{}{}:
		default:
		}
	}

	stopRefresh, err := p.RefreshEvery(0, trigger)
	if err != nil {
		return err
	}
	defer func() { _ = stopRefresh() }()

	if err := p.Store.Watch(ctx, func(string) { trigger() }); err != nil && !errors.Is(err, storage.ErrWatchUnsupported) {
		p.Logger.WithError(err).Warn("Watching the profile failed, relying on periodic refresh")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-refresh:
			fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")
			if err := renderDashboard(ctx, cmd, p); err != nil {
				return err
			}
		}
	}
}

func printSummary(cmd *cobra.Command, s *ports.DashboardSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Pending tasks:   %d\n", s.PendingTasks)
	fmt.Fprintf(out, "Due soon:        %d\n", s.DueSoon)
	fmt.Fprintf(out, "Study time:      %dm\n", s.StudyMinutes)
	fmt.Fprintf(out, "Progress:        %d%% complete\n", s.CompletionPercent)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Upcoming")

	if len(s.Upcoming) == 0 {
		fmt.Fprintln(out, "  No upcoming items")
		return
	}

	tw := newTable(out)
	for _, it := range s.Upcoming {
		due := it.Due
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", it.Title, it.Type, formatDue(&due, s.GeneratedAt))
	}
	_ = tw.Flush()
}
