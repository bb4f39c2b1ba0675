package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/taskmaster/planner/internal/application/events"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
	"github.com/taskmaster/planner/internal/ports"
)

// ScheduleService handles the weekly class schedule
type ScheduleService struct {
	scheduleRepo ports.ScheduleRepository
	changes      changeRecorder
}

// NewScheduleService creates a new schedule service
func NewScheduleService(scheduleRepo ports.ScheduleRepository, notifier *events.Notifier, log *logger.Logger, m *metrics.Metrics) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		changes:      newChangeRecorder(entities.KeySchedule, notifier, log, m),
	}
}

// AddEntry validates and stores a class. Overlapping entries are allowed.
func (s *ScheduleService) AddEntry(ctx context.Context, req ports.CreateScheduleEntryRequest) (*entities.ScheduleEntry, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	req.Start = strings.TrimSpace(req.Start)
	req.End = strings.TrimSpace(req.End)

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	entry := &entities.ScheduleEntry{
		ID:       entities.NewID("c"),
		Name:     req.Name,
		Day:      req.Day,
		Location: req.Location,
	}
	if err := applyClock(entry, req.Start, req.End); err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create schedule entry: %w", err)
	}

	s.changes.record(events.OpAdd, entry.ID)

	return entry, nil
}

// UpdateEntry patches a class
func (s *ScheduleService) UpdateEntry(ctx context.Context, id string, req ports.UpdateScheduleEntryRequest) (*entities.ScheduleEntry, error) {
	updated, err := s.scheduleRepo.Update(ctx, id, func(entry *entities.ScheduleEntry) error {
		draft := ports.CreateScheduleEntryRequest{
			Name:     entry.Name,
			Day:      entry.Day,
			Start:    entry.Start,
			End:      entry.End,
			Location: entry.Location,
		}
		if req.Name != nil {
			draft.Name = *trimmed(req.Name)
		}
		if req.Day != nil {
			draft.Day = *req.Day
		}
		if req.Start != nil {
			draft.Start = *trimmed(req.Start)
		}
		if req.End != nil {
			draft.End = *trimmed(req.End)
		}
		if req.Location != nil {
			draft.Location = *trimmed(req.Location)
		}

		if err := validateRequest(draft); err != nil {
			return err
		}

		entry.Name = draft.Name
		entry.Day = draft.Day
		entry.Location = draft.Location
		return applyClock(entry, draft.Start, draft.End)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update schedule entry: %w", err)
	}

	s.changes.record(events.OpUpdate, id)

	return updated, nil
}

// RemoveEntry deletes a class
func (s *ScheduleService) RemoveEntry(ctx context.Context, id string) error {
	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete schedule entry: %w", err)
	}

	s.changes.record(events.OpRemove, id)

	return nil
}

// ListEntries returns entries ordered by weekday, then start time
func (s *ScheduleService) ListEntries(ctx context.Context, filter ports.ScheduleFilter) ([]entities.ScheduleEntry, error) {
	if filter.Day != nil && !filter.Day.IsValid() {
		return nil, entities.NewValidationError("day", "must be one of Mon, Tue, Wed, Thu, Fri, Sat, Sun")
	}

	entries, err := s.scheduleRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule entries: %w", err)
	}

	sortEntries(entries)
	return entries, nil
}

// Week groups all entries into Mon..Sun columns
func (s *ScheduleService) Week(ctx context.Context) ([]ports.DaySchedule, error) {
	entries, err := s.ListEntries(ctx, ports.ScheduleFilter{})
	if err != nil {
		return nil, err
	}

	week := make([]ports.DaySchedule, 0, len(entities.Weekdays))
	for _, day := range entities.Weekdays {
		col := ports.DaySchedule{Day: day, Entries: []entities.ScheduleEntry{}}
		for _, e := range entries {
			if e.Day == day {
				col.Entries = append(col.Entries, e)
			}
		}
		week = append(week, col)
	}
	return week, nil
}

func applyClock(entry *entities.ScheduleEntry, start, end string) error {
	verr := &entities.ValidationError{}

	s, err := entities.NormalizeClock(start)
	if err != nil {
		verr.Add("start", "must be a time of day (HH:MM)")
	}
	e, err := entities.NormalizeClock(end)
	if err != nil {
		verr.Add("end", "must be a time of day (HH:MM)")
	}
	if verr.HasErrors() {
		return verr
	}

	entry.Start = s
	entry.End = e
	return nil
}

// sortEntries orders by weekday, then by zero-padded start time. Stored
// times are always zero-padded, so string order is time order.
func sortEntries(entries []entities.ScheduleEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := dayIndex(entries[i].Day), dayIndex(entries[j].Day)
		if di != dj {
			return di < dj
		}
		return entries[i].Start < entries[j].Start
	})
}

func dayIndex(d entities.Weekday) int {
	for i, day := range entities.Weekdays {
		if day == d {
			return i
		}
	}
	return len(entities.Weekdays)
}
