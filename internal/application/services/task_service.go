package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/taskmaster/planner/internal/application/events"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
	"github.com/taskmaster/planner/internal/ports"
)

// TaskService handles task-related operations
type TaskService struct {
	taskRepo ports.TaskRepository
	clock    clockwork.Clock
	changes  changeRecorder
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, notifier *events.Notifier, clock clockwork.Clock, log *logger.Logger, m *metrics.Metrics) *TaskService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TaskService{
		taskRepo: taskRepo,
		clock:    clock,
		changes:  newChangeRecorder(entities.KeyTasks, notifier, log, m),
	}
}

// AddTask validates and stores a new task
func (s *TaskService) AddTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	req.Text = strings.TrimSpace(req.Text)
	req.Due = strings.TrimSpace(req.Due)

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	task := &entities.Task{
		ID:       entities.NewID("t"),
		Text:     req.Text,
		Priority: defaultPriority(req.Priority),
		Created:  s.clock.Now().UTC().Round(0),
	}
	if req.Due != "" {
		due, err := entities.ParseDate(req.Due)
		if err != nil {
			return nil, entities.NewValidationError("due", "must be a date (YYYY-MM-DD)")
		}
		task.Due = &due
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.changes.record(events.OpAdd, task.ID)

	return task, nil
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// UpdateTask patches a task's text, priority, due date or status
func (s *TaskService) UpdateTask(ctx context.Context, id string, req ports.UpdateTaskRequest) (*entities.Task, error) {
	updated, err := s.taskRepo.Update(ctx, id, func(task *entities.Task) error {
		draft := ports.CreateTaskRequest{
			Text:     task.Text,
			Priority: task.Priority,
		}
		if task.Due != nil {
			draft.Due = task.Due.Format(time.RFC3339)
		}
		if req.Text != nil {
			draft.Text = *trimmed(req.Text)
		}
		if req.Priority != nil {
			draft.Priority = *req.Priority
		}
		if req.Due != nil {
			draft.Due = *trimmed(req.Due)
		}

		if err := validateRequest(draft); err != nil {
			return err
		}

		task.Text = draft.Text
		task.Priority = defaultPriority(draft.Priority)
		if req.Due != nil {
			if draft.Due == "" {
				task.Due = nil
			} else {
				due, err := entities.ParseDate(draft.Due)
				if err != nil {
					return entities.NewValidationError("due", "must be a date (YYYY-MM-DD)")
				}
				task.Due = &due
			}
		}
		if req.Done != nil {
			task.Done = *req.Done
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.changes.record(events.OpUpdate, id)

	return updated, nil
}

// RemoveTask deletes a task
func (s *TaskService) RemoveTask(ctx context.Context, id string) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.changes.record(events.OpRemove, id)

	return nil
}

// ToggleTask flips a task's done flag
func (s *TaskService) ToggleTask(ctx context.Context, id string) (*entities.Task, error) {
	updated, err := s.taskRepo.Update(ctx, id, func(task *entities.Task) error {
		task.ToggleDone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	s.changes.record(events.OpToggle, id)

	return updated, nil
}

// ListTasks returns tasks in stored order
func (s *TaskService) ListTasks(ctx context.Context, filter ports.TaskFilter) ([]entities.Task, error) {
	if !filter.Status.IsValid() {
		return nil, entities.NewValidationError("status", "must be one of all, active, done")
	}

	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}
