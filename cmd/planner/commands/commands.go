package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/taskmaster/planner/internal/application"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/config"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
)

// Build information, set with -ldflags
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
	GitCommit = "development"
)

// NewRootCommand creates the planner command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "planner",
		Short:        "StudyFlow study planner",
		Long:         `StudyFlow keeps tasks, a weekly class schedule, assignments and a focus timer in a local profile.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default ./planner.yaml)")

	// Add commands
	rootCmd.AddCommand(NewTaskCommand())
	rootCmd.AddCommand(NewScheduleCommand())
	rootCmd.AddCommand(NewAssignmentCommand())
	rootCmd.AddCommand(NewTimerCommand())
	rootCmd.AddCommand(NewDashboardCommand())
	rootCmd.AddCommand(NewStatsCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print planner version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "StudyFlow planner v%s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
		},
	}
}

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show study statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			showMetrics, _ := cmd.Flags().GetBool("metrics")

			return withPlanner(cmd, func(ctx context.Context, p *application.Planner) error {
				summary, err := p.Dashboard.Summary(ctx)
				if err != nil {
					return err
				}
				count, err := p.Timer.Count(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Study time:      %dm\n", summary.StudyMinutes)
				fmt.Fprintf(out, "Sessions:        %d\n", summary.Sessions)
				fmt.Fprintf(out, "Pomodoros:       %d\n", count)
				fmt.Fprintf(out, "Completion:      %d%%\n", summary.CompletionPercent)

				if !showMetrics {
					return nil
				}
				families, err := p.Registry.Gather()
				if err != nil {
					return fmt.Errorf("failed to gather metrics: %w", err)
				}
				fmt.Fprintln(out)
				for _, mf := range families {
					if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
						return fmt.Errorf("failed to write metrics: %w", err)
					}
				}
				return nil
			})
		},
	}

	statsCmd.Flags().Bool("metrics", false, "Also print the metrics collected by this invocation")
	return statsCmd
}

// withPlanner loads configuration, opens the profile and runs fn
func withPlanner(cmd *cobra.Command, fn func(ctx context.Context, p *application.Planner) error) error {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = appLogger.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := application.New(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open planner: %w", err)
	}
	defer func() {
		if err := p.Close(); err != nil {
			appLogger.WithError(err).Warn("Failed to close planner")
		}
	}()

	return fn(ctx, p)
}

// explain turns validation failures into one line per field
func explain(err error) error {
	var verr *entities.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	msg := "invalid input:"
	for _, f := range verr.Fields {
		msg += fmt.Sprintf("\n  %s %s", f.Field, f.Message)
	}
	return errors.New(msg)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func formatDue(due *time.Time, now time.Time) string {
	if due == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", due.Format(entities.DateLayout), humanize.RelTime(*due, now, "ago", "from now"))
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
