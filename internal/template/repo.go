// Package template manages the daily-action template catalog.
package template

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"agentpulse/internal/model"
)

var ErrNotFound = errors.New("template not found")

// ListFilter narrows catalog reads.
type ListFilter struct {
	// Active: nil = don't care, otherwise filter by IsActive.
	Active *bool
	// TriggerType: empty = any.
	TriggerType model.TriggerType
}

type Repo interface {
	Create(ctx context.Context, t model.TaskTemplate) (model.TaskTemplate, error)
	Get(ctx context.Context, id string) (model.TaskTemplate, error)
	Update(ctx context.Context, t model.TaskTemplate) (model.TaskTemplate, error)
	// Deactivate archives a template; the catalog never hard-deletes.
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]model.TaskTemplate, error)
}

// Active is a convenience for ListFilter{Active: &true}.
func Active() ListFilter {
	active := true
	return ListFilter{Active: &active}
}

type MemoryRepo struct {
	mu        sync.RWMutex
	templates map[string]model.TaskTemplate
	order     []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{templates: map[string]model.TaskTemplate{}}
}

func (r *MemoryRepo) Create(ctx context.Context, t model.TaskTemplate) (model.TaskTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, exists := r.templates[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.templates[t.ID] = t
	return t, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (model.TaskTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[id]
	if !ok {
		return model.TaskTemplate{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) Update(ctx context.Context, t model.TaskTemplate) (model.TaskTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.templates[t.ID]
	if !ok {
		return model.TaskTemplate{}, ErrNotFound
	}
	t.CreatedAt = cur.CreatedAt
	t.UpdatedAt = time.Now()
	r.templates[t.ID] = t
	return t, nil
}

func (r *MemoryRepo) Deactivate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.templates[id]
	if !ok {
		return ErrNotFound
	}
	t.IsActive = false
	t.UpdatedAt = time.Now()
	r.templates[id] = t
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]model.TaskTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.TaskTemplate, 0, len(r.templates))
	for _, id := range r.order {
		t := r.templates[id]
		if filter.Active != nil && t.IsActive != *filter.Active {
			continue
		}
		if filter.TriggerType != "" && t.TriggerType != filter.TriggerType {
			continue
		}
		out = append(out, t)
	}

	// Catalog order is insertion order; keep reads deterministic anyway.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Seed inserts templates that do not already exist, keeping their given IDs.
func (r *MemoryRepo) Seed(ctx context.Context, templates []model.TaskTemplate) error {
	for _, t := range templates {
		r.mu.RLock()
		_, exists := r.templates[t.ID]
		r.mu.RUnlock()
		if exists {
			continue
		}
		if _, err := r.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
