package ports

import (
	"context"
	"time"

	"github.com/taskmaster/planner/internal/domain/entities"
)

// TaskService interface for task operations
type TaskService interface {
	AddTask(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	GetTask(ctx context.Context, id string) (*entities.Task, error)
	UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*entities.Task, error)
	RemoveTask(ctx context.Context, id string) error
	ToggleTask(ctx context.Context, id string) (*entities.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]entities.Task, error)
}

// ScheduleService interface for weekly class schedule operations
type ScheduleService interface {
	AddEntry(ctx context.Context, req CreateScheduleEntryRequest) (*entities.ScheduleEntry, error)
	UpdateEntry(ctx context.Context, id string, req UpdateScheduleEntryRequest) (*entities.ScheduleEntry, error)
	RemoveEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context, filter ScheduleFilter) ([]entities.ScheduleEntry, error)
	Week(ctx context.Context) ([]DaySchedule, error)
}

// AssignmentService interface for assignment operations
type AssignmentService interface {
	AddAssignment(ctx context.Context, req CreateAssignmentRequest) (*entities.Assignment, error)
	UpdateAssignment(ctx context.Context, id string, req UpdateAssignmentRequest) (*entities.Assignment, error)
	RemoveAssignment(ctx context.Context, id string) error
	ToggleAssignment(ctx context.Context, id string) (*entities.Assignment, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]entities.Assignment, error)
}

// TimerService interface for the focus timer
type TimerService interface {
	Start(ctx context.Context, d Durations) (TimerSnapshot, error)
	Pause() TimerSnapshot
	Reset(d Durations) TimerSnapshot
	Tick(ctx context.Context) (TimerSnapshot, error)
	SetDurations(d Durations)
	Snapshot() TimerSnapshot
	Count(ctx context.Context) (int, error)
	OnTick(fn func(TimerSnapshot)) func()
	OnPhaseComplete(fn func(PhaseEvent)) func()
}

// DashboardService interface for derived cross-collection views
type DashboardService interface {
	PendingCount(ctx context.Context) (int, error)
	DueSoonCount(ctx context.Context) (int, error)
	CompletionPercent(ctx context.Context) (int, error)
	UpcomingFeed(ctx context.Context) ([]UpcomingItem, error)
	Summary(ctx context.Context) (*DashboardSummary, error)
}

// TickScheduler drives TimerService.Tick at a fixed period while the timer runs
type TickScheduler interface {
	Start(tick func()) error
	Stop() error
}

// Request/Response Types

// Task related types
type CreateTaskRequest struct {
	Text     string            `json:"text" validate:"required,max=500"`
	Priority entities.Priority `json:"priority" validate:"omitempty,priority"`
	Due      string            `json:"due" validate:"omitempty,date"`
}

// UpdateTaskRequest patches a task. A non-nil empty Due clears the due date.
type UpdateTaskRequest struct {
	Text     *string            `json:"text"`
	Priority *entities.Priority `json:"priority"`
	Due      *string            `json:"due"`
	Done     *bool              `json:"done"`
}

// Schedule related types
type CreateScheduleEntryRequest struct {
	Name     string           `json:"name" validate:"required,max=200"`
	Day      entities.Weekday `json:"day" validate:"required,weekday"`
	Start    string           `json:"start" validate:"required,clock"`
	End      string           `json:"end" validate:"required,clock"`
	Location string           `json:"location" validate:"max=200"`
}

type UpdateScheduleEntryRequest struct {
	Name     *string           `json:"name"`
	Day      *entities.Weekday `json:"day"`
	Start    *string           `json:"start"`
	End      *string           `json:"end"`
	Location *string           `json:"location"`
}

// Assignment related types
type CreateAssignmentRequest struct {
	Title    string            `json:"title" validate:"required,max=200"`
	Subject  string            `json:"subject" validate:"required,max=200"`
	Due      string            `json:"due" validate:"required,date"`
	Priority entities.Priority `json:"priority" validate:"omitempty,priority"`
	Notes    string            `json:"notes" validate:"max=2000"`
}

type UpdateAssignmentRequest struct {
	Title    *string            `json:"title"`
	Subject  *string            `json:"subject"`
	Due      *string            `json:"due"`
	Priority *entities.Priority `json:"priority"`
	Notes    *string            `json:"notes"`
	Done     *bool              `json:"done"`
}

// DaySchedule is one column of the weekly grid
type DaySchedule struct {
	Day     entities.Weekday         `json:"day"`
	Entries []entities.ScheduleEntry `json:"entries"`
}

// Timer related types

// Durations are the configured phase lengths in minutes
type Durations struct {
	WorkMinutes  int `json:"workMinutes"`
	BreakMinutes int `json:"breakMinutes"`
}

// TimerSnapshot is a copy of the timer's in-memory state
type TimerSnapshot struct {
	Mode             entities.TimerMode `json:"mode"`
	RemainingSeconds int                `json:"remainingSeconds"`
	Running          bool               `json:"running"`
	// DisplaySeconds is what a clock face shows: the remaining time, or the
	// full configured length of the current phase when idle at zero.
	DisplaySeconds int `json:"displaySeconds"`
}

// PhaseEvent is emitted when a work or break phase runs out
type PhaseEvent struct {
	Completed    entities.TimerMode `json:"completed"`
	Count        int                `json:"count"`
	StudyMinutes int                `json:"studyMinutes"`
	Message      string             `json:"message"`
	At           time.Time          `json:"at"`
}

// Dashboard related types

// UpcomingItem is one row of the upcoming feed
type UpcomingItem struct {
	Type  string    `json:"type"`
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Due   time.Time `json:"due"`
}

// Upcoming item types
const (
	UpcomingTask       = "Task"
	UpcomingAssignment = "Assignment"
)

// DashboardSummary bundles every dashboard figure
type DashboardSummary struct {
	PendingTasks      int            `json:"pendingTasks"`
	DueSoon           int            `json:"dueSoon"`
	CompletionPercent int            `json:"completionPercent"`
	StudyMinutes      int            `json:"studyMinutes"`
	Sessions          int            `json:"sessions"`
	Upcoming          []UpcomingItem `json:"upcoming"`
	GeneratedAt       time.Time      `json:"generatedAt"`
}
