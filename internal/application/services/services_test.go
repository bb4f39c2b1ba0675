package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/taskmaster/planner/internal/adapters/repository"
	"github.com/taskmaster/planner/internal/application/events"
	"github.com/taskmaster/planner/internal/infrastructure/storage"
)

// testNow is a Thursday.
var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

type fixture struct {
	ctx      context.Context
	backend  *storage.MemoryBackend
	store    *storage.Store
	notifier *events.Notifier
	clock    fakeClock

	tasks       *TaskService
	schedule    *ScheduleService
	assignments *AssignmentService
	dashboard   *DashboardService

	mu      sync.Mutex
	changes []events.Change
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithQuota(t, 0)
}

func newFixtureWithQuota(t *testing.T, quota int64) *fixture {
	t.Helper()

	backend := storage.NewMemoryBackend()
	store := storage.New(backend, quota, nil, nil)
	clock := clockwork.NewFakeClockAt(testNow)

	f := &fixture{
		ctx:      context.Background(),
		backend:  backend,
		store:    store,
		notifier: events.NewNotifier(),
		clock:    clock,
	}
	unsubscribe := f.notifier.Subscribe(func(c events.Change) {
		f.mu.Lock()
		f.changes = append(f.changes, c)
		f.mu.Unlock()
	})
	t.Cleanup(unsubscribe)

	taskRepo := repository.NewTaskRepository(store)
	scheduleRepo := repository.NewScheduleRepository(store)
	assignmentRepo := repository.NewAssignmentRepository(store)
	statsRepo := repository.NewStatsRepository(store)

	f.tasks = NewTaskService(taskRepo, f.notifier, clock, nil, nil)
	f.schedule = NewScheduleService(scheduleRepo, f.notifier, nil, nil)
	f.assignments = NewAssignmentService(assignmentRepo, f.notifier, nil, nil)
	f.dashboard = NewDashboardService(taskRepo, assignmentRepo, statsRepo, clock, DefaultDueSoonWindow)
	return f
}

func (f *fixture) published() []events.Change {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Change(nil), f.changes...)
}

func ptr[T any](v T) *T { return &v }
