package entities

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewID_PrefixAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		id := NewID("t")
		require.True(t, strings.HasPrefix(id, "t_"))
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestTask_ToggleDoneTwiceRestores(t *testing.T) {
	task := Task{ID: "t_1", Text: "Read", Priority: PriorityLow}
	task.ToggleDone()
	require.True(t, task.Done)
	task.ToggleDone()
	require.False(t, task.Done)
}

func TestTask_DueWithin(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour

	var noDue Task
	require.False(t, noDue.DueWithin(now, week))

	past := now.Add(-48 * time.Hour)
	require.True(t, (&Task{Due: &past}).DueWithin(now, week))

	edge := now.Add(week)
	require.True(t, (&Task{Due: &edge}).DueWithin(now, week))

	far := now.Add(week + time.Second)
	require.False(t, (&Task{Due: &far}).DueWithin(now, week))
}

func TestAssignment_IsOverdue(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	a := Assignment{Due: now.Add(-time.Hour)}
	require.True(t, a.IsOverdue(now))
	a.Done = true
	require.False(t, a.IsOverdue(now))
}

func TestStats_RecordWorkSession(t *testing.T) {
	var s Stats
	s.RecordWorkSession(25)
	s.RecordWorkSession(1)
	require.Equal(t, Stats{StudyMinutes: 26, Sessions: 2}, s)
}

func TestEnumValidity(t *testing.T) {
	require.True(t, PriorityHigh.IsValid())
	require.False(t, Priority("critical").IsValid())
	require.True(t, Sunday.IsValid())
	require.False(t, Weekday("Monday").IsValid())
	require.True(t, TimerModeBreak.IsValid())
	require.False(t, TimerMode("idle").IsValid())
}

func TestValidationError_WrapsSentinel(t *testing.T) {
	verr := NewValidationError("text", "is required")
	verr.Add("priority", "must be one of low medium high")

	var err error = verr
	require.True(t, errors.Is(err, ErrValidation))
	require.True(t, verr.HasErrors())
	require.Equal(t, "validation failed: text is required; priority must be one of low medium high", err.Error())
}
