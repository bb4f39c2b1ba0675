package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/taskmaster/planner/internal/application/events"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
	"github.com/taskmaster/planner/internal/ports"
)

// AssignmentService handles assignment operations
type AssignmentService struct {
	assignmentRepo ports.AssignmentRepository
	changes        changeRecorder
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(assignmentRepo ports.AssignmentRepository, notifier *events.Notifier, log *logger.Logger, m *metrics.Metrics) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		changes:        newChangeRecorder(entities.KeyAssignments, notifier, log, m),
	}
}

// AddAssignment validates and stores a new assignment
func (s *AssignmentService) AddAssignment(ctx context.Context, req ports.CreateAssignmentRequest) (*entities.Assignment, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Due = strings.TrimSpace(req.Due)
	req.Notes = strings.TrimSpace(req.Notes)

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	due, err := entities.ParseDate(req.Due)
	if err != nil {
		return nil, entities.NewValidationError("due", "must be a date (YYYY-MM-DD)")
	}

	assignment := &entities.Assignment{
		ID:       entities.NewID("a"),
		Title:    req.Title,
		Subject:  req.Subject,
		Due:      due,
		Priority: defaultPriority(req.Priority),
		Notes:    req.Notes,
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.changes.record(events.OpAdd, assignment.ID)

	return assignment, nil
}

// UpdateAssignment patches an assignment
func (s *AssignmentService) UpdateAssignment(ctx context.Context, id string, req ports.UpdateAssignmentRequest) (*entities.Assignment, error) {
	updated, err := s.assignmentRepo.Update(ctx, id, func(a *entities.Assignment) error {
		draft := ports.CreateAssignmentRequest{
			Title:    a.Title,
			Subject:  a.Subject,
			Due:      a.Due.Format(time.RFC3339),
			Priority: a.Priority,
			Notes:    a.Notes,
		}
		if req.Title != nil {
			draft.Title = *trimmed(req.Title)
		}
		if req.Subject != nil {
			draft.Subject = *trimmed(req.Subject)
		}
		if req.Due != nil {
			draft.Due = *trimmed(req.Due)
		}
		if req.Priority != nil {
			draft.Priority = *req.Priority
		}
		if req.Notes != nil {
			draft.Notes = *trimmed(req.Notes)
		}

		if err := validateRequest(draft); err != nil {
			return err
		}

		a.Title = draft.Title
		a.Subject = draft.Subject
		a.Priority = defaultPriority(draft.Priority)
		a.Notes = draft.Notes
		if req.Due != nil {
			due, err := entities.ParseDate(draft.Due)
			if err != nil {
				return entities.NewValidationError("due", "must be a date (YYYY-MM-DD)")
			}
			a.Due = due
		}
		if req.Done != nil {
			a.Done = *req.Done
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	s.changes.record(events.OpUpdate, id)

	return updated, nil
}

// RemoveAssignment deletes an assignment
func (s *AssignmentService) RemoveAssignment(ctx context.Context, id string) error {
	if err := s.assignmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	s.changes.record(events.OpRemove, id)

	return nil
}

// ToggleAssignment flips an assignment's done flag
func (s *AssignmentService) ToggleAssignment(ctx context.Context, id string) (*entities.Assignment, error) {
	updated, err := s.assignmentRepo.Update(ctx, id, func(a *entities.Assignment) error {
		a.ToggleDone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle assignment: %w", err)
	}

	s.changes.record(events.OpToggle, id)

	return updated, nil
}

// ListAssignments returns assignments ordered by due date; equal due dates
// keep their stored order.
func (s *AssignmentService) ListAssignments(ctx context.Context, filter ports.AssignmentFilter) ([]entities.Assignment, error) {
	assignments, err := s.assignmentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].Due.Before(assignments[j].Due)
	})
	return assignments, nil
}
