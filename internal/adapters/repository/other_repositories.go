package repository

import (
	"context"
	"fmt"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/storage"
	"github.com/taskmaster/planner/internal/ports"
)

// ScheduleRepositoryImpl implements the ScheduleRepository interface
type ScheduleRepositoryImpl struct {
	entries collection[entities.ScheduleEntry]
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(store *storage.Store) ports.ScheduleRepository {
	return &ScheduleRepositoryImpl{
		entries: collection[entities.ScheduleEntry]{
			store:    store,
			key:      entities.KeySchedule,
			notFound: entities.ErrScheduleEntryNotFound,
		},
	}
}

func (r *ScheduleRepositoryImpl) Create(ctx context.Context, entry *entities.ScheduleEntry) error {
	return r.entries.create(ctx, *entry)
}

func (r *ScheduleRepositoryImpl) GetByID(ctx context.Context, id string) (*entities.ScheduleEntry, error) {
	return r.entries.get(ctx, id)
}

func (r *ScheduleRepositoryImpl) Update(ctx context.Context, id string, mutate func(*entities.ScheduleEntry) error) (*entities.ScheduleEntry, error) {
	return r.entries.update(ctx, id, mutate)
}

func (r *ScheduleRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.entries.delete(ctx, id)
}

func (r *ScheduleRepositoryImpl) List(ctx context.Context, filter ports.ScheduleFilter) ([]entities.ScheduleEntry, error) {
	return r.entries.list(ctx, filter.Matches)
}

// AssignmentRepositoryImpl implements the AssignmentRepository interface
type AssignmentRepositoryImpl struct {
	assignments collection[entities.Assignment]
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(store *storage.Store) ports.AssignmentRepository {
	return &AssignmentRepositoryImpl{
		assignments: collection[entities.Assignment]{
			store:    store,
			key:      entities.KeyAssignments,
			notFound: entities.ErrAssignmentNotFound,
		},
	}
}

func (r *AssignmentRepositoryImpl) Create(ctx context.Context, assignment *entities.Assignment) error {
	return r.assignments.create(ctx, *assignment)
}

func (r *AssignmentRepositoryImpl) GetByID(ctx context.Context, id string) (*entities.Assignment, error) {
	return r.assignments.get(ctx, id)
}

func (r *AssignmentRepositoryImpl) Update(ctx context.Context, id string, mutate func(*entities.Assignment) error) (*entities.Assignment, error) {
	return r.assignments.update(ctx, id, mutate)
}

func (r *AssignmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.assignments.delete(ctx, id)
}

func (r *AssignmentRepositoryImpl) List(ctx context.Context, filter ports.AssignmentFilter) ([]entities.Assignment, error) {
	return r.assignments.list(ctx, filter.Matches)
}

// StatsRepositoryImpl implements the StatsRepository interface
type StatsRepositoryImpl struct {
	store *storage.Store
}

func NewStatsRepository(store *storage.Store) ports.StatsRepository {
	return &StatsRepositoryImpl{store: store}
}

func (r *StatsRepositoryImpl) Get(ctx context.Context) (entities.Stats, error) {
	stats, err := storage.Load(ctx, r.store, entities.KeyStats, entities.Stats{})
	if err != nil {
		return entities.Stats{}, fmt.Errorf("load stats: %w", err)
	}
	return clampStats(stats), nil
}

func (r *StatsRepositoryImpl) Save(ctx context.Context, stats entities.Stats) error {
	if err := r.store.Save(ctx, entities.KeyStats, clampStats(stats)); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

// TimerStateRepositoryImpl implements the TimerStateRepository interface
type TimerStateRepositoryImpl struct {
	store *storage.Store
}

func NewTimerStateRepository(store *storage.Store) ports.TimerStateRepository {
	return &TimerStateRepositoryImpl{store: store}
}

func (r *TimerStateRepositoryImpl) Get(ctx context.Context) (entities.TimerState, error) {
	state, err := storage.Load(ctx, r.store, entities.KeyTimerState, entities.TimerState{})
	if err != nil {
		return entities.TimerState{}, fmt.Errorf("load timer state: %w", err)
	}
	if state.Count < 0 {
		state.Count = 0
	}
	return state, nil
}

func (r *TimerStateRepositoryImpl) Save(ctx context.Context, state entities.TimerState) error {
	if err := r.store.Save(ctx, entities.KeyTimerState, state); err != nil {
		return fmt.Errorf("save timer state: %w", err)
	}
	return nil
}

// clampStats keeps hand-edited documents from carrying negative totals.
func clampStats(s entities.Stats) entities.Stats {
	if s.StudyMinutes < 0 {
		s.StudyMinutes = 0
	}
	if s.Sessions < 0 {
		s.Sessions = 0
	}
	return s
}
