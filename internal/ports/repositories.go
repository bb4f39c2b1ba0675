package ports

import (
	"context"
	"strings"

	"github.com/taskmaster/planner/internal/domain/entities"
)

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id string) (*entities.Task, error)
	Update(ctx context.Context, id string, mutate func(*entities.Task) error) (*entities.Task, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TaskFilter) ([]entities.Task, error)
}

// ScheduleRepository defines the interface for schedule entry data operations
type ScheduleRepository interface {
	Create(ctx context.Context, entry *entities.ScheduleEntry) error
	GetByID(ctx context.Context, id string) (*entities.ScheduleEntry, error)
	Update(ctx context.Context, id string, mutate func(*entities.ScheduleEntry) error) (*entities.ScheduleEntry, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ScheduleFilter) ([]entities.ScheduleEntry, error)
}

// AssignmentRepository defines the interface for assignment data operations
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *entities.Assignment) error
	GetByID(ctx context.Context, id string) (*entities.Assignment, error)
	Update(ctx context.Context, id string, mutate func(*entities.Assignment) error) (*entities.Assignment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter AssignmentFilter) ([]entities.Assignment, error)
}

// StatsRepository reads and replaces the aggregate stats document
type StatsRepository interface {
	Get(ctx context.Context) (entities.Stats, error)
	Save(ctx context.Context, stats entities.Stats) error
}

// TimerStateRepository reads and replaces the persisted timer counter
type TimerStateRepository interface {
	Get(ctx context.Context) (entities.TimerState, error)
	Save(ctx context.Context, state entities.TimerState) error
}

// TaskStatus selects tasks by completion in list views
type TaskStatus string

const (
	TaskStatusAll    TaskStatus = "all"
	TaskStatusActive TaskStatus = "active"
	TaskStatusDone   TaskStatus = "done"
)

// Filter types for repository queries
type TaskFilter struct {
	Status TaskStatus
	Search string
}

type ScheduleFilter struct {
	Day *entities.Weekday
}

type AssignmentFilter struct {
	Done *bool
}

// Matches reports whether task passes the filter. Search is a
// case-insensitive substring match on the task text.
func (f TaskFilter) Matches(task entities.Task) bool {
	switch f.Status {
	case TaskStatusActive:
		if task.Done {
			return false
		}
	case TaskStatusDone:
		if !task.Done {
			return false
		}
	}
	if f.Search != "" && !containsFold(task.Text, f.Search) {
		return false
	}
	return true
}

func (f ScheduleFilter) Matches(entry entities.ScheduleEntry) bool {
	return f.Day == nil || entry.Day == *f.Day
}

func (f AssignmentFilter) Matches(a entities.Assignment) bool {
	return f.Done == nil || a.Done == *f.Done
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case "", TaskStatusAll, TaskStatusActive, TaskStatusDone:
		return true
	default:
		return false
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}
