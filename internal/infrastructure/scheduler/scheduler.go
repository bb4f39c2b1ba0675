package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/taskmaster/planner/internal/infrastructure/logger"
)

// Scheduler wraps a gocron scheduler for the planner's periodic work: the
// one-second timer tick and the dashboard refresh.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *logger.Logger
}

// New creates and starts a scheduler. A nil clock uses the real clock.
func New(clock clockwork.Clock, log *logger.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.WithComponent("scheduler")

	opts := []gocron.SchedulerOption{gocron.WithLogger(gocronLogger{log})}
	if clock != nil {
		opts = append(opts, gocron.WithClock(clock))
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	s.Start()

	return &Scheduler{scheduler: s, logger: log}, nil
}

// Every runs fn every interval until the returned job is removed.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) (uuid.UUID, error) {
	if interval <= 0 {
		return uuid.Nil, fmt.Errorf("interval must be positive, got %s", interval)
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create %s job: %w", name, err)
	}

	return job.ID(), nil
}

// Remove deletes a job. Unknown ids are ignored.
func (s *Scheduler) Remove(id uuid.UUID) error {
	if err := s.scheduler.RemoveJob(id); err != nil && !errors.Is(err, gocron.ErrJobNotFound) {
		return fmt.Errorf("failed to remove job: %w", err)
	}
	return nil
}

// Shutdown stops all jobs and the scheduler
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

// Ticker drives a single callback at a fixed interval and can be started and
// stopped repeatedly. It satisfies ports.TickScheduler.
type Ticker struct {
	mu        sync.Mutex
	scheduler *Scheduler
	interval  time.Duration
	job       uuid.UUID
	gen       uint64
}

// NewTicker creates a stopped ticker
func (s *Scheduler) NewTicker(interval time.Duration) *Ticker {
	return &Ticker{scheduler: s, interval: interval}
}

// Start schedules tick. A running schedule is replaced.
func (t *Ticker) Start(tick func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.removeLocked()
	t.gen++
	gen := t.gen

	id, err := t.scheduler.Every("timer-tick", t.interval, func() {
		if t.current(gen) {
			tick()
		}
	})
	if err != nil {
		return err
	}
	t.job = id
	return nil
}

// Stop cancels the schedule. It may be called from inside tick.
func (t *Ticker) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	t.removeLocked()
	return nil
}

// removeLocked drops the job in the background; the generation check keeps
// a late run of the old job from calling tick.
func (t *Ticker) removeLocked() {
	if t.job == uuid.Nil {
		return
	}
	id := t.job
	t.job = uuid.Nil
	go func() {
		if err := t.scheduler.Remove(id); err != nil {
			t.scheduler.logger.WithError(err).Warn("Failed to remove tick job")
		}
	}()
}

func (t *Ticker) current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen == gen
}

// gocronLogger routes gocron's messages into the structured logger
type gocronLogger struct {
	l *logger.Logger
}

func (g gocronLogger) Debug(msg string, args ...any) { g.l.Debugw(msg, args...) }
func (g gocronLogger) Info(msg string, args ...any)  { g.l.Infow(msg, args...) }
func (g gocronLogger) Warn(msg string, args ...any)  { g.l.Warnw(msg, args...) }
func (g gocronLogger) Error(msg string, args ...any) { g.l.Errorw(msg, args...) }
