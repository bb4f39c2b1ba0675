package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/ports"
)

// DefaultDueSoonWindow is how far ahead an item counts as due soon.
const DefaultDueSoonWindow = 7 * 24 * time.Hour

// DashboardService derives cross-collection views. Every call re-reads the
// repositories; nothing is cached.
type DashboardService struct {
	taskRepo       ports.TaskRepository
	assignmentRepo ports.AssignmentRepository
	statsRepo      ports.StatsRepository
	clock          clockwork.Clock
	window         time.Duration
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(taskRepo ports.TaskRepository, assignmentRepo ports.AssignmentRepository, statsRepo ports.StatsRepository, clock clockwork.Clock, window time.Duration) *DashboardService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if window <= 0 {
		window = DefaultDueSoonWindow
	}
	return &DashboardService{
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		statsRepo:      statsRepo,
		clock:          clock,
		window:         window,
	}
}

// PendingCount counts undone tasks
func (s *DashboardService) PendingCount(ctx context.Context) (int, error) {
	tasks, err := s.taskRepo.List(ctx, ports.TaskFilter{Status: ports.TaskStatusActive})
	if err != nil {
		return 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return len(tasks), nil
}

// DueSoonCount counts undone assignments due within the window. Overdue
// assignments are included.
func (s *DashboardService) DueSoonCount(ctx context.Context) (int, error) {
	assignments, err := s.undoneAssignments(ctx)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	count := 0
	for i := range assignments {
		if assignments[i].DueWithin(now, s.window) {
			count++
		}
	}
	return count, nil
}

// CompletionPercent is the rounded share of done tasks and assignments
// together; 0 when both collections are empty.
func (s *DashboardService) CompletionPercent(ctx context.Context) (int, error) {
	tasks, err := s.taskRepo.List(ctx, ports.TaskFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	assignments, err := s.assignmentRepo.List(ctx, ports.AssignmentFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to list assignments: %w", err)
	}
	return completionPercent(tasks, assignments), nil
}

// UpcomingFeed lists undone tasks with a due date and undone assignments due
// within the window, ordered by due date.
func (s *DashboardService) UpcomingFeed(ctx context.Context) ([]ports.UpcomingItem, error) {
	tasks, err := s.taskRepo.List(ctx, ports.TaskFilter{Status: ports.TaskStatusActive})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	assignments, err := s.undoneAssignments(ctx)
	if err != nil {
		return nil, err
	}
	return upcomingFeed(tasks, assignments, s.clock.Now(), s.window), nil
}

// Summary computes every dashboard figure from one read of each collection
func (s *DashboardService) Summary(ctx context.Context) (*ports.DashboardSummary, error) {
	tasks, err := s.taskRepo.List(ctx, ports.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	assignments, err := s.assignmentRepo.List(ctx, ports.AssignmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	stats, err := s.statsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	now := s.clock.Now()
	summary := &ports.DashboardSummary{
		CompletionPercent: completionPercent(tasks, assignments),
		StudyMinutes:      stats.StudyMinutes,
		Sessions:          stats.Sessions,
		GeneratedAt:       now,
	}

	active := make([]entities.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Done {
			active = append(active, t)
		}
	}
	summary.PendingTasks = len(active)

	pending := make([]entities.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if !a.Done {
			pending = append(pending, a)
		}
	}
	for i := range pending {
		if pending[i].DueWithin(now, s.window) {
			summary.DueSoon++
		}
	}
	summary.Upcoming = upcomingFeed(active, pending, now, s.window)

	return summary, nil
}

func (s *DashboardService) undoneAssignments(ctx context.Context) ([]entities.Assignment, error) {
	done := false
	assignments, err := s.assignmentRepo.List(ctx, ports.AssignmentFilter{Done: &done})
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func completionPercent(tasks []entities.Task, assignments []entities.Assignment) int {
	total := len(tasks) + len(assignments)
	if total == 0 {
		total = 1
	}
	done := 0
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}
	for _, a := range assignments {
		if a.Done {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// upcomingFeed expects undone items only. Tasks are appended first so the
// stable sort keeps them ahead of assignments with the same due date.
func upcomingFeed(tasks []entities.Task, assignments []entities.Assignment, now time.Time, window time.Duration) []ports.UpcomingItem {
	items := make([]ports.UpcomingItem, 0, len(tasks)+len(assignments))
	for i := range tasks {
		t := &tasks[i]
		if !t.DueWithin(now, window) {
			continue
		}
		items = append(items, ports.UpcomingItem{
			Type:  ports.UpcomingTask,
			ID:    t.ID,
			Title: t.Text,
			Due:   *t.Due,
		})
	}
	for i := range assignments {
		a := &assignments[i]
		if !a.DueWithin(now, window) {
			continue
		}
		items = append(items, ports.UpcomingItem{
			Type:  ports.UpcomingAssignment,
			ID:    a.ID,
			Title: a.Title,
			Due:   a.Due,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Due.Before(items[j].Due)
	})
	return items
}
