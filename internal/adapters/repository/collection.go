package repository

import (
	"context"
	"fmt"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/storage"
)

type identifiable interface {
	GetID() string
}

// collection is one persisted slice of entities. Every mutation reads the
// whole document, transforms it, and writes the whole document back.
type collection[T identifiable] struct {
	store    *storage.Store
	key      string
	notFound error
}

func (c *collection[T]) all(ctx context.Context) ([]T, error) {
	items, err := storage.Load(ctx, c.store, c.key, []T{})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	return items, nil
}

func (c *collection[T]) list(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := c.all(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (c *collection[T]) get(ctx context.Context, id string) (*T, error) {
	items, err := c.all(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].GetID() == id {
			return &items[i], nil
		}
	}
	return nil, c.notFound
}

func (c *collection[T]) create(ctx context.Context, item T) error {
	items, err := c.all(ctx)
	if err != nil {
		return err
	}

	for _, existing := range items {
		if existing.GetID() == item.GetID() {
			return fmt.Errorf("create %s %s: %w", c.key, item.GetID(), entities.ErrDuplicateID)
		}
	}

	items = append(items, item)
	if err := c.store.Save(ctx, c.key, items); err != nil {
		return fmt.Errorf("create %s: %w", c.key, err)
	}
	return nil
}

// update applies mutate to a copy of the item; nothing is written if mutate fails.
func (c *collection[T]) update(ctx context.Context, id string, mutate func(*T) error) (*T, error) {
	items, err := c.all(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range items {
		if items[i].GetID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, c.notFound
	}

	updated := items[idx]
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	if updated.GetID() != id {
		return nil, fmt.Errorf("update %s %s: id is immutable", c.key, id)
	}

	items[idx] = updated
	if err := c.store.Save(ctx, c.key, items); err != nil {
		return nil, fmt.Errorf("update %s: %w", c.key, err)
	}
	return &updated, nil
}

func (c *collection[T]) delete(ctx context.Context, id string) error {
	items, err := c.all(ctx)
	if err != nil {
		return err
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		if item.GetID() != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return c.notFound
	}

	if err := c.store.Save(ctx, c.key, kept); err != nil {
		return fmt.Errorf("delete %s: %w", c.key, err)
	}
	return nil
}
