package application

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/taskmaster/planner/internal/adapters/repository"
	"github.com/taskmaster/planner/internal/application/events"
	"github.com/taskmaster/planner/internal/application/services"
	"github.com/taskmaster/planner/internal/infrastructure/config"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
	"github.com/taskmaster/planner/internal/infrastructure/scheduler"
	"github.com/taskmaster/planner/internal/infrastructure/storage"
	"github.com/taskmaster/planner/internal/ports"
)

// Planner wires the store, repositories and services for one profile.
type Planner struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    *storage.Store
	Notifier *events.Notifier
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Tasks       ports.TaskService
	Schedule    ports.ScheduleService
	Assignments ports.AssignmentService
	Timer       ports.TimerService
	Dashboard   ports.DashboardService

	scheduler *scheduler.Scheduler
}

// Option customizes New
type Option func(*options)

type options struct {
	clock clockwork.Clock
	store *storage.Store
}

// WithClock sets the clock used for timestamps and due-date windows
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithStore uses an already opened store instead of opening cfg.Storage
func WithStore(s *storage.Store) Option {
	return func(o *options) { o.store = s }
}

// New opens storage and builds every service
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...Option) (*Planner, error) {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logger.NewNop()
	}

	registry := prometheus.NewRegistry()
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(registry)
	}

	store := o.store
	if store == nil {
		var err error
		store, err = storage.Open(ctx, cfg.Storage, log, m)
		if err != nil {
			return nil, err
		}
	}

	sched, err := scheduler.New(nil, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	notifier := events.NewNotifier()

	// Initialize repositories
	taskRepo := repository.NewTaskRepository(store)
	scheduleRepo := repository.NewScheduleRepository(store)
	assignmentRepo := repository.NewAssignmentRepository(store)
	statsRepo := repository.NewStatsRepository(store)
	timerStateRepo := repository.NewTimerStateRepository(store)

	// Initialize services
	timer := services.NewTimerService(timerStateRepo, statsRepo, notifier, log,
		services.WithTickScheduler(sched.NewTicker(cfg.Timer.TickInterval)),
		services.WithTimerClock(o.clock),
		services.WithTimerMetrics(m),
	)
	timer.SetDurations(ports.Durations{
		WorkMinutes:  cfg.Timer.WorkMinutes,
		BreakMinutes: cfg.Timer.BreakMinutes,
	})

	p := &Planner{
		Config:   cfg,
		Logger:   log,
		Store:    store,
		Notifier: notifier,
		Registry: registry,
		Metrics:  m,

		Tasks:       services.NewTaskService(taskRepo, notifier, o.clock, log, m),
		Schedule:    services.NewScheduleService(scheduleRepo, notifier, log, m),
		Assignments: services.NewAssignmentService(assignmentRepo, notifier, log, m),
		Timer:       timer,
		Dashboard:   services.NewDashboardService(taskRepo, assignmentRepo, statsRepo, o.clock, cfg.Dashboard.DueSoonWindow),

		scheduler: sched,
	}

	log.Infow("Planner ready",
		"driver", cfg.Storage.Driver,
		"work_minutes", cfg.Timer.WorkMinutes,
		"break_minutes", cfg.Timer.BreakMinutes,
	)

	return p, nil
}

// Durations returns the configured timer lengths
func (p *Planner) Durations() ports.Durations {
	return ports.Durations{
		WorkMinutes:  p.Config.Timer.WorkMinutes,
		BreakMinutes: p.Config.Timer.BreakMinutes,
	}
}

// RefreshEvery calls fn on the dashboard refresh period until the returned
// stop function is called. A non-positive interval uses the configured one.
func (p *Planner) RefreshEvery(interval time.Duration, fn func()) (func() error, error) {
	if interval <= 0 {
		interval = p.Config.Dashboard.RefreshInterval
	}

	id, err := p.scheduler.Every("dashboard-refresh", interval, fn)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule dashboard refresh: %w", err)
	}
	return func() error { return p.scheduler.Remove(id) }, nil
}

// Close stops the timer and releases the scheduler and store
func (p *Planner) Close() error {
	p.Timer.Pause()
	return multierr.Combine(
		p.scheduler.Shutdown(),
		p.Store.Close(),
	)
}
