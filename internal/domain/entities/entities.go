package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound          = errors.New("task not found")
	ErrScheduleEntryNotFound = errors.New("schedule entry not found")
	ErrAssignmentNotFound    = errors.New("assignment not found")
	ErrDuplicateID           = errors.New("duplicate id")
	ErrValidation            = errors.New("validation failed")
)

// Document keys under which each collection is persisted.
const (
	KeyTasks       = "tasks"
	KeySchedule    = "schedule"
	KeyAssignments = "assignments"
	KeyTimerState  = "timerState"
	KeyStats       = "stats"
)

// Enums and types
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// Weekdays lists the days in display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

type TimerMode string

const (
	TimerModeWork  TimerMode = "work"
	TimerModeBreak TimerMode = "break"
)

// Task represents a to-do item
type Task struct {
	ID       string     `json:"id"`
	Text     string     `json:"text"`
	Priority Priority   `json:"priority"`
	Due      *time.Time `json:"due"`
	Done     bool       `json:"done"`
	Created  time.Time  `json:"created"`
}

// ScheduleEntry represents a recurring weekly class
type ScheduleEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Day      Weekday `json:"day"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Location string  `json:"location"`
}

// Assignment represents coursework with a mandatory due date
type Assignment struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Subject  string    `json:"subject"`
	Due      time.Time `json:"due"`
	Priority Priority  `json:"priority"`
	Notes    string    `json:"notes"`
	Done     bool      `json:"done"`
}

// TimerState is the persisted part of the focus timer.
type TimerState struct {
	Count int `json:"count"`
}

// Stats holds aggregate study statistics.
type Stats struct {
	StudyMinutes int `json:"studyMinutes"`
	Sessions     int `json:"sessions"`
}

// NewID returns a collection-unique identifier with the given kind prefix.
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Identity accessors used by the generic collection repository.
func (t Task) GetID() string          { return t.ID }
func (s ScheduleEntry) GetID() string { return s.ID }
func (a Assignment) GetID() string    { return a.ID }

// Business logic methods for Task
func (t *Task) ToggleDone() {
	t.Done = !t.Done
}

func (t *Task) HasDue() bool {
	return t.Due != nil
}

// DueWithin reports whether the task has a due date no further than window from now.
// Overdue tasks are within any window.
func (t *Task) DueWithin(now time.Time, window time.Duration) bool {
	if t.Due == nil {
		return false
	}
	return t.Due.Sub(now) <= window
}

// Business logic methods for Assignment
func (a *Assignment) ToggleDone() {
	a.Done = !a.Done
}

func (a *Assignment) DueWithin(now time.Time, window time.Duration) bool {
	return a.Due.Sub(now) <= window
}

func (a *Assignment) IsOverdue(now time.Time) bool {
	return !a.Done && now.After(a.Due)
}

// Business logic methods for Stats
func (s *Stats) RecordWorkSession(minutes int) {
	s.StudyMinutes += minutes
	s.Sessions++
}

// Utility methods
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (d Weekday) IsValid() bool {
	for _, day := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

func (m TimerMode) IsValid() bool {
	return m == TimerModeWork || m == TimerModeBreak
}
