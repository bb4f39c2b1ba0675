package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskmaster/planner/internal/application"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/ports"
)

// NewTimerCommand creates the focus timer command
func NewTimerCommand() *cobra.Command {
	timerCmd := &cobra.Command{
		Use:     "timer",
		Aliases: []string{"pomodoro"},
		Short:   "Work/break focus timer",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one work phase followed by a break",
		Long:  "Run one work phase followed by its break. Interrupting pauses the timer and prints the time left.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				d := p.Durations()
				if cmd.Flags().Changed("work") {
					d.WorkMinutes, _ = cmd.Flags().GetInt("work")
				}
				if cmd.Flags().Changed("break") {
					d.BreakMinutes, _ = cmd.Flags().GetInt("break")
				}
				return runTimer(ctx, cmd, p, d)
			})
		},
	}
	runCmd.Flags().Int("work", 0, "Work minutes (default from config)")
	runCmd.Flags().Int("break", 0, "Break minutes (default from config)")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show completed sessions and configured durations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				count, err := p.Timer.Count(ctx)
				if err != nil {
					return err
				}
				d := p.Durations()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Completed sessions: %d\n", count)
				fmt.Fprintf(out, "Work/break:         %dm/%dm\n", d.WorkMinutes, d.BreakMinutes)
				return nil
			})
		},
	}

	timerCmd.AddCommand(runCmd, statusCmd)
	return timerCmd
}

func runTimer(ctx context.Context, cmd *cobra.Command, p *application.Planner, d ports.Durations) error {
	out := cmd.OutOrStdout()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	finished := make(chan struct{})
	var once sync.Once

	unsubscribePhase := p.Timer.OnPhaseComplete(func(e ports.PhaseEvent) {
		fmt.Fprintf(out, "\n%s (sessions: %d)\n", e.Message, e.Count)
	})
	defer unsubscribePhase()

	unsubscribeTick := p.Timer.OnTick(func(s ports.TimerSnapshot) {
		if !s.Running {
			once.Do(func() { close(finished) })
			return
		}
		fmt.Fprintf(out, "\r%-5s %s", s.Mode, entities.FormatClock(s.DisplaySeconds))
	})
	defer unsubscribeTick()

	snap, err := p.Timer.Start(ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%-5s %s", snap.Mode, entities.FormatClock(snap.DisplaySeconds))

	select {
	case <-sigCtx.Done():
		snap := p.Timer.Pause()
		fmt.Fprintf(out, "\nPaused in %s with %s left\n", snap.Mode, entities.FormatClock(snap.RemainingSeconds))
	case <-finished:
	}
	return nil
}
