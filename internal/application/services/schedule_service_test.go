package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/ports"
)

func TestListEntries_OrdersWithinDayByStart(t *testing.T) {
	f := newFixture(t)

	late, err := f.schedule.AddEntry(f.ctx, ports.CreateScheduleEntryRequest{
		Name: "Calculus", Day: entities.Monday, Start: "09:00", End: "10:00",
	})
	require.NoError(t, err)
	early, err := f.schedule.AddEntry(f.ctx, ports.CreateScheduleEntryRequest{
		Name: "Physics", Day: entities.Monday, Start: "8:30", End: "9:15", Location: "Lab 2",
	})
	require.NoError(t, err)
	require.Equal(t, "08:30", early.Start)
	require.Equal(t, "09:15", early.End)
	require.True(t, strings.HasPrefix(early.ID, "c_"))

	mon := entities.Monday
	entries, err := f.schedule.ListEntries(f.ctx, ports.ScheduleFilter{Day: &mon})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, early.ID, entries[0].ID)
	require.Equal(t, late.ID, entries[1].ID)
}

func TestListEntries_OrdersByWeekday(t *testing.T) {
	f := newFixture(t)

	for _, req := range []ports.CreateScheduleEntryRequest{
		{Name: "Art", Day: entities.Friday, Start: "08:00", End: "09:00"},
		{Name: "Bio", Day: entities.Monday, Start: "14:00", End: "15:00"},
		{Name: "Chem", Day: entities.Wednesday, Start: "07:00", End: "08:00"},
	} {
		_, err := f.schedule.AddEntry(f.ctx, req)
		require.NoError(t, err)
	}

	entries, err := f.schedule.ListEntries(f.ctx, ports.ScheduleFilter{})
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	require.Equal(t, []string{"Bio", "Chem", "Art"}, names)
}

func TestAddEntry_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.schedule.AddEntry(f.ctx, ports.CreateScheduleEntryRequest{
		Name: "Calculus", Day: "Monday", Start: "25:00", End: "",
	})
	require.ErrorIs(t, err, entities.ErrValidation)

	var verr *entities.ValidationError
	require.ErrorAs(t, err, &verr)

	fields := map[string]bool{}
	for _, fe := range verr.Fields {
		fields[fe.Field] = true
	}
	require.Equal(t, map[string]bool{"day": true, "start": true, "end": true}, fields)
}

func TestUpdateEntry(t *testing.T) {
	f := newFixture(t)

	entry, err := f.schedule.AddEntry(f.ctx, ports.CreateScheduleEntryRequest{
		Name: "Calculus", Day: entities.Monday, Start: "09:00", End: "10:00",
	})
	require.NoError(t, err)

	updated, err := f.schedule.UpdateEntry(f.ctx, entry.ID, ports.UpdateScheduleEntryRequest{
		Day:   ptr(entities.Tuesday),
		Start: ptr("9:30"),
	})
	require.NoError(t, err)
	require.Equal(t, entities.Tuesday, updated.Day)
	require.Equal(t, "09:30", updated.Start)
	require.Equal(t, "10:00", updated.End)
	require.Equal(t, "Calculus", updated.Name)

	_, err = f.schedule.UpdateEntry(f.ctx, entry.ID, ports.UpdateScheduleEntryRequest{Day: ptr(entities.Weekday("Funday"))})
	require.ErrorIs(t, err, entities.ErrValidation)

	_, err = f.schedule.UpdateEntry(f.ctx, "c_missing", ports.UpdateScheduleEntryRequest{Name: ptr("x")})
	require.ErrorIs(t, err, entities.ErrScheduleEntryNotFound)
}

func TestWeek_GroupsAllDays(t *testing.T) {
	f := newFixture(t)

	_, err := f.schedule.AddEntry(f.ctx, ports.CreateScheduleEntryRequest{
		Name: "Yoga", Day: entities.Sunday, Start: "10:00", End: "11:00",
	})
	require.NoError(t, err)

	week, err := f.schedule.Week(f.ctx)
	require.NoError(t, err)
	require.Len(t, week, 7)
	require.Equal(t, entities.Monday, week[0].Day)
	require.Empty(t, week[0].Entries)
	require.Equal(t, entities.Sunday, week[6].Day)
	require.Len(t, week[6].Entries, 1)
}

func TestRemoveEntry(t *testing.T) {
	f := newFixture(t)

	entry, err := f.schedule.AddEntry(f.ctx, ports.CreateScheduleEntryRequest{
		Name: "Calculus", Day: entities.Monday, Start: "09:00", End: "10:00",
	})
	require.NoError(t, err)

	require.NoError(t, f.schedule.RemoveEntry(f.ctx, entry.ID))
	require.ErrorIs(t, f.schedule.RemoveEntry(f.ctx, entry.ID), entities.ErrScheduleEntryNotFound)

	entries, err := f.schedule.ListEntries(f.ctx, ports.ScheduleFilter{})
	require.NoError(t, err)
	require.Empty(t, entries)
}
