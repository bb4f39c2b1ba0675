package repository

import (
	"context"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/storage"
	"github.com/taskmaster/planner/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	tasks collection[entities.Task]
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(store *storage.Store) ports.TaskRepository {
	return &TaskRepositoryImpl{
		tasks: collection[entities.Task]{
			store:    store,
			key:      entities.KeyTasks,
			notFound: entities.ErrTaskNotFound,
		},
	}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	return r.tasks.create(ctx, *task)
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	return r.tasks.get(ctx, id)
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, id string, mutate func(*entities.Task) error) (*entities.Task, error) {
	return r.tasks.update(ctx, id, mutate)
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.tasks.delete(ctx, id)
}

// List returns matching tasks in stored order
func (r *TaskRepositoryImpl) List(ctx context.Context, filter ports.TaskFilter) ([]entities.Task, error) {
	return r.tasks.list(ctx, filter.Matches)
}
