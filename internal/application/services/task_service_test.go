package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/planner/internal/application/events"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/storage"
	"github.com/taskmaster/planner/internal/ports"
)

func TestAddTask_ListRoundTrip(t *testing.T) {
	f := newFixture(t)

	task, err := f.tasks.AddTask(f.ctx, ports.CreateTaskRequest{
		Text:     "  Read ch.3 ",
		Priority: entities.PriorityHigh,
		Due:      "2026-10-16",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(task.ID, "t_"))

	due := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	want := entities.Task{
		ID:       task.ID,
		Text:     "Read ch.3",
		Priority: entities.PriorityHigh,
		Due:      &due,
		Created:  testNow,
	}

	got, err := f.tasks.ListTasks(f.ctx, ports.TaskFilter{})
	require.NoError(t, err)
	if diff := cmp.Diff([]entities.Task{want}, got); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, []events.Change{{Collection: entities.KeyTasks, Op: events.OpAdd, ID: task.ID}}, f.published())
}

func TestAddTask_Defaults(t *testing.T) {
	f := newFixture(t)

	task, err := f.tasks.AddTask(f.ctx, ports.CreateTaskRequest{Text: "Laundry"})
	require.NoError(t, err)
	require.Equal(t, entities.PriorityMedium, task.Priority)
	require.Nil(t, task.Due)
	require.False(t, task.Done)
}

func TestAddTask_ValidationRefusesWrite(t *testing.T) {
	tests := []struct {
		name  string
		req   ports.CreateTaskRequest
		field string
	}{
		{"blank text", ports.CreateTaskRequest{Text: "   "}, "text"},
		{"unknown priority", ports.CreateTaskRequest{Text: "x", Priority: "urgent"}, "priority"},
		{"bad due", ports.CreateTaskRequest{Text: "x", Due: "next week"}, "due"},
		{"too long", ports.CreateTaskRequest{Text: strings.Repeat("a", 501)}, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.tasks.AddTask(f.ctx, tt.req)
			require.ErrorIs(t, err, entities.ErrValidation)

			var verr *entities.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tt.field, verr.Fields[0].Field)

			_, ok, err := f.backend.Read(f.ctx, entities.KeyTasks)
			require.NoError(t, err)
			require.False(t, ok)
			require.Empty(t, f.published())
		})
	}
}

func TestToggleTask_TwiceRestores(t *testing.T) {
	f := newFixture(t)

	task, err := f.tasks.AddTask(f.ctx, ports.CreateTaskRequest{Text: "Essay"})
	require.NoError(t, err)

	toggled, err := f.tasks.ToggleTask(f.ctx, task.ID)
	require.NoError(t, err)
	require.True(t, toggled.Done)

	restored, err := f.tasks.ToggleTask(f.ctx, task.ID)
	require.NoError(t, err)
	require.False(t, restored.Done)

	got, err := f.tasks.GetTask(f.ctx, task.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(task, got); diff != "" {
		t.Fatalf("task changed after double toggle (-want +got):\n%s", diff)
	}
}

func TestUpdateTask(t *testing.T) {
	f := newFixture(t)

	task, err := f.tasks.AddTask(f.ctx, ports.CreateTaskRequest{Text: "Draft", Due: "2026-10-20"})
	require.NoError(t, err)

	updated, err := f.tasks.UpdateTask(f.ctx, task.ID, ports.UpdateTaskRequest{
		Text:     ptr(" Final draft "),
		Priority: ptr(entities.PriorityLow),
		Due:      ptr(""),
	})
	require.NoError(t, err)
	require.Equal(t, "Final draft", updated.Text)
	require.Equal(t, entities.PriorityLow, updated.Priority)
	require.Nil(t, updated.Due)
	require.Equal(t, task.Created, updated.Created)

	_, err = f.tasks.UpdateTask(f.ctx, task.ID, ports.UpdateTaskRequest{Text: ptr("  ")})
	require.ErrorIs(t, err, entities.ErrValidation)

	got, err := f.tasks.GetTask(f.ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, "Final draft", got.Text)
}

func TestRemoveTask(t *testing.T) {
	f := newFixture(t)

	task, err := f.tasks.AddTask(f.ctx, ports.CreateTaskRequest{Text: "Gone"})
	require.NoError(t, err)

	require.NoError(t, f.tasks.RemoveTask(f.ctx, task.ID))
	require.ErrorIs(t, f.tasks.RemoveTask(f.ctx, task.ID), entities.ErrTaskNotFound)

	_, err = f.tasks.ToggleTask(f.ctx, task.ID)
	require.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestListTasks_Filters(t *testing.T) {
	f := newFixture(t)

	a, err := f.tasks.AddTask(f.ctx, ports.CreateTaskRequest{Text: "Read Chapter 3"})
	require.NoError(t, err)
	_, err = f.tasks.AddTask(f.ctx, ports.CreateTaskRequest{Text: "Buy milk"})
	require.NoError(t, err)
	_, err = f.tasks.ToggleTask(f.ctx, a.ID)
	require.NoError(t, err)

	done, err := f.tasks.ListTasks(f.ctx, ports.TaskFilter{Status: ports.TaskStatusDone})
	require.NoError(t, err)
	require.Len(t, done, 1)
	require.Equal(t, a.ID, done[0].ID)

	found, err := f.tasks.ListTasks(f.ctx, ports.TaskFilter{Search: "chapter"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = f.tasks.ListTasks(f.ctx, ports.TaskFilter{Status: "later"})
	require.ErrorIs(t, err, entities.ErrValidation)
}

func TestListTasks_CorruptDocumentIsEmpty(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.backend.Write(context.Background(), entities.KeyTasks, []byte("{not json")))

	tasks, err := f.tasks.ListTasks(f.ctx, ports.TaskFilter{})
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestAddTask_QuotaExceeded(t *testing.T) {
	f := newFixtureWithQuota(t, 64)

	_, err := f.tasks.AddTask(f.ctx, ports.CreateTaskRequest{Text: strings.Repeat("x", 100)})
	require.ErrorIs(t, err, storage.ErrQuotaExceeded)
	require.Empty(t, f.published())

	tasks, err := f.tasks.ListTasks(f.ctx, ports.TaskFilter{})
	require.NoError(t, err)
	require.Empty(t, tasks)
}
