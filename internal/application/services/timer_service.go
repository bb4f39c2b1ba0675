package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/taskmaster/planner/internal/application/events"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/config"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
	"github.com/taskmaster/planner/internal/ports"
)

// Phase completion messages
const (
	WorkCompleteMessage  = "Work session finished! Time for a break."
	BreakCompleteMessage = "Break finished, back to work!"
)

// TimerService is the work/break focus timer. The in-memory state (mode,
// remaining seconds, running) lives on the instance; only the session count
// and stats are persisted.
type TimerService struct {
	mu sync.Mutex

	stateRepo ports.TimerStateRepository
	statsRepo ports.StatsRepository
	scheduler ports.TickScheduler
	notifier  *events.Notifier
	clock     clockwork.Clock
	logger    *logger.Logger
	metrics   *metrics.Metrics

	durations    ports.Durations
	phaseMinutes int
	mode         entities.TimerMode
	remaining    int
	running      bool

	tickObservers  observers[ports.TimerSnapshot]
	phaseObservers observers[ports.PhaseEvent]
}

// TimerOption configures a TimerService
type TimerOption func(*TimerService)

// WithTickScheduler drives Tick from s while the timer runs
func WithTickScheduler(s ports.TickScheduler) TimerOption {
	return func(t *TimerService) { t.scheduler = s }
}

// WithTimerClock sets the clock used to stamp phase events
func WithTimerClock(c clockwork.Clock) TimerOption {
	return func(t *TimerService) { t.clock = c }
}

// WithTimerMetrics records completed phases in m
func WithTimerMetrics(m *metrics.Metrics) TimerOption {
	return func(t *TimerService) { t.metrics = m }
}

// NewTimerService creates an idle timer in work mode
func NewTimerService(stateRepo ports.TimerStateRepository, statsRepo ports.StatsRepository, notifier *events.Notifier, log *logger.Logger, opts ...TimerOption) *TimerService {
	if log == nil {
		log = logger.NewNop()
	}
	t := &TimerService{
		stateRepo: stateRepo,
		statsRepo: statsRepo,
		notifier:  notifier,
		clock:     clockwork.NewRealClock(),
		logger:    log.WithComponent("timer"),
		durations: normalizeDurations(ports.Durations{}),
		mode:      entities.TimerModeWork,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins or resumes the current phase. A phase starting from zero is
// sized from d; a paused phase keeps its remaining time.
func (t *TimerService) Start(ctx context.Context, d ports.Durations) (ports.TimerSnapshot, error) {
	t.mu.Lock()
	t.durations = normalizeDurations(d)
	if t.running {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return snap, nil
	}
	if t.remaining <= 0 {
		t.beginPhaseLocked()
	}
	t.running = true
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.logger.Infow("Timer started", "mode", snap.Mode, "remaining", snap.RemainingSeconds)

	if t.scheduler != nil {
		if err := t.scheduler.Start(func() { t.scheduledTick(ctx) }); err != nil {
			t.mu.Lock()
			t.running = false
			snap = t.snapshotLocked()
			t.mu.Unlock()
			return snap, fmt.Errorf("failed to schedule timer ticks: %w", err)
		}
	}

	return snap, nil
}

// Pause stops the countdown and keeps the remaining time
func (t *TimerService) Pause() ports.TimerSnapshot {
	t.mu.Lock()
	t.running = false
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.stopScheduler()
	return snap
}

// Reset stops the countdown and returns to an idle work phase
func (t *TimerService) Reset(d ports.Durations) ports.TimerSnapshot {
	t.mu.Lock()
	t.durations = normalizeDurations(d)
	t.running = false
	t.remaining = 0
	t.mode = entities.TimerModeWork
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.stopScheduler()
	t.tickObservers.notify(snap)
	return snap
}

// SetDurations changes the configured lengths for phases started afterwards
func (t *TimerService) SetDurations(d ports.Durations) {
	t.mu.Lock()
	t.durations = normalizeDurations(d)
	t.mu.Unlock()
}

// Snapshot returns the current in-memory state
func (t *TimerService) Snapshot() ports.TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Count returns the persisted number of completed work sessions
func (t *TimerService) Count(ctx context.Context) (int, error) {
	state, err := t.stateRepo.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get timer state: %w", err)
	}
	return state.Count, nil
}

// OnTick registers fn for every state change of the countdown
func (t *TimerService) OnTick(fn func(ports.TimerSnapshot)) func() {
	return t.tickObservers.add(fn)
}

// OnPhaseComplete registers fn for completed work and break phases
func (t *TimerService) OnPhaseComplete(fn func(ports.PhaseEvent)) func() {
	return t.phaseObservers.add(fn)
}

// Tick advances a running timer by one second. When a work phase runs out
// the session count and stats are persisted before the timer switches to an
// automatically started break.
func (t *TimerService) Tick(ctx context.Context) (ports.TimerSnapshot, error) {
	t.mu.Lock()
	if !t.running {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return snap, nil
	}

	t.remaining--
	if t.remaining > 0 {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		t.tickObservers.notify(snap)
		return snap, nil
	}

	var (
		event ports.PhaseEvent
		stop  bool
	)
	switch t.mode {
	case entities.TimerModeWork:
		count, stats, err := t.recordWorkSessionLocked(ctx)
		if err != nil {
			t.running = false
			t.remaining = 0
			snap := t.snapshotLocked()
			t.mu.Unlock()
			t.stopScheduler()
			t.logger.WithError(err).Error("Failed to record work session")
			t.tickObservers.notify(snap)
			return snap, err
		}
		event = ports.PhaseEvent{
			Completed:    entities.TimerModeWork,
			Count:        count,
			StudyMinutes: stats.StudyMinutes,
			Message:      WorkCompleteMessage,
			At:           t.clock.Now(),
		}
		t.mode = entities.TimerModeBreak
		t.beginPhaseLocked()
	default:
		state, err := t.stateRepo.Get(ctx)
		if err != nil {
			t.logger.WithError(err).Warn("Failed to read timer state")
		}
		event = ports.PhaseEvent{
			Completed: entities.TimerModeBreak,
			Count:     state.Count,
			Message:   BreakCompleteMessage,
			At:        t.clock.Now(),
		}
		t.mode = entities.TimerModeWork
		t.remaining = 0
		t.running = false
		stop = true
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()

	if stop {
		t.stopScheduler()
	}

	t.metrics.PhaseCompleted(string(event.Completed))
	t.logger.Infow("Timer phase completed", "completed", event.Completed, "count", event.Count)

	if event.Completed == entities.TimerModeWork {
		t.notifier.Publish(events.Change{Collection: entities.KeyTimerState, Op: events.OpUpdate})
		t.notifier.Publish(events.Change{Collection: entities.KeyStats, Op: events.OpUpdate})
	}
	t.phaseObservers.notify(event)
	t.tickObservers.notify(snap)

	return snap, nil
}

// recordWorkSessionLocked persists the session count, then the stats.
func (t *TimerService) recordWorkSessionLocked(ctx context.Context) (int, entities.Stats, error) {
	state, err := t.stateRepo.Get(ctx)
	if err != nil {
		return 0, entities.Stats{}, fmt.Errorf("failed to get timer state: %w", err)
	}
	state.Count++
	if err := t.stateRepo.Save(ctx, state); err != nil {
		return 0, entities.Stats{}, fmt.Errorf("failed to save timer state: %w", err)
	}

	stats, err := t.statsRepo.Get(ctx)
	if err != nil {
		return 0, entities.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	stats.RecordWorkSession(t.phaseMinutes)
	if err := t.statsRepo.Save(ctx, stats); err != nil {
		return 0, entities.Stats{}, fmt.Errorf("failed to save stats: %w", err)
	}

	t.metrics.StudyMinutes(t.phaseMinutes)
	return state.Count, stats, nil
}

func (t *TimerService) scheduledTick(ctx context.Context) {
	if _, err := t.Tick(ctx); err != nil {
		t.logger.WithError(err).Warn("Scheduled tick failed")
	}
}

func (t *TimerService) stopScheduler() {
	if t.scheduler == nil {
		return
	}
	if err := t.scheduler.Stop(); err != nil {
		t.logger.WithError(err).Warn("Failed to stop tick scheduler")
	}
}

// beginPhaseLocked captures the configured length of the current mode.
func (t *TimerService) beginPhaseLocked() {
	t.phaseMinutes = t.minutesLocked(t.mode)
	t.remaining = t.phaseMinutes * 60
}

func (t *TimerService) minutesLocked(mode entities.TimerMode) int {
	if mode == entities.TimerModeBreak {
		return t.durations.BreakMinutes
	}
	return t.durations.WorkMinutes
}

func (t *TimerService) snapshotLocked() ports.TimerSnapshot {
	display := t.remaining
	if display <= 0 {
		display = t.minutesLocked(t.mode) * 60
	}
	return ports.TimerSnapshot{
		Mode:             t.mode,
		RemainingSeconds: t.remaining,
		Running:          t.running,
		DisplaySeconds:   display,
	}
}

func normalizeDurations(d ports.Durations) ports.Durations {
	if d.WorkMinutes <= 0 {
		d.WorkMinutes = config.DefaultWorkMinutes
	}
	if d.BreakMinutes <= 0 {
		d.BreakMinutes = config.DefaultBreakMinutes
	}
	return d
}

// observers is an ordered set of callbacks.
type observers[T any] struct {
	mu     sync.Mutex
	nextID uint64
	fns    map[uint64]func(T)
}

func (o *observers[T]) add(fn func(T)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fns == nil {
		o.fns = make(map[uint64]func(T))
	}
	o.nextID++
	id := o.nextID
	o.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.fns, id)
			o.mu.Unlock()
		})
	}
}

func (o *observers[T]) notify(v T) {
	o.mu.Lock()
	ids := make([]uint64, 0, len(o.fns))
	for id := range o.fns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, o.fns[id])
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
