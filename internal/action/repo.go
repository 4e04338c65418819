// Package action stores generated daily actions and the status changes users
// make against them.
package action

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"agentpulse/internal/model"
)

var (
	ErrNotFound = errors.New("action not found")
	// ErrDuplicateDay means a generated batch already exists for the
	// (user, date) pair. Backed by the generation_runs marker table in
	// the SQL stores so two racing generation runs cannot both write.
	ErrDuplicateDay = errors.New("generated actions already exist for this day")
)

type Repo interface {
	// BulkCreate persists one generation batch atomically.
	BulkCreate(ctx context.Context, actions []model.DailyAction) ([]model.DailyAction, error)
	// ListGenerated returns generated=true rows for the user and date.
	// The engine's idempotency check.
	ListGenerated(ctx context.Context, userID, actionDate string) ([]model.DailyAction, error)
	// ListForDay returns every action for the user and date, highest
	// priority weight first.
	ListForDay(ctx context.Context, userID, actionDate string) ([]model.DailyAction, error)
	Get(ctx context.Context, id string) (model.DailyAction, error)
	UpdateStatus(ctx context.Context, id string, status model.ActionStatus) (model.DailyAction, error)
}

type MemoryRepo struct {
	mu      sync.RWMutex
	actions map[string]model.DailyAction
	order   []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{actions: map[string]model.DailyAction{}}
}

func (r *MemoryRepo) BulkCreate(ctx context.Context, actions []model.DailyAction) ([]model.DailyAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Same at-most-once rule the SQL stores enforce with the
	// generation_runs marker table.
	for _, a := range actions {
		if !a.Generated {
			continue
		}
		for _, existing := range r.actions {
			if existing.Generated && existing.UserID == a.UserID && existing.ActionDate == a.ActionDate {
				return nil, ErrDuplicateDay
			}
		}
		break
	}

	now := time.Now()
	out := make([]model.DailyAction, 0, len(actions))
	for _, a := range actions {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.CreatedAt = now
		a.UpdatedAt = now
		r.actions[a.ID] = a
		r.order = append(r.order, a.ID)
		out = append(out, a)
	}
	return out, nil
}

func (r *MemoryRepo) ListGenerated(ctx context.Context, userID, actionDate string) ([]model.DailyAction, error) {
	return r.list(userID, actionDate, true)
}

func (r *MemoryRepo) ListForDay(ctx context.Context, userID, actionDate string) ([]model.DailyAction, error) {
	out, err := r.list(userID, actionDate, false)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight() > out[j].Weight()
	})
	return out, nil
}

func (r *MemoryRepo) list(userID, actionDate string, generatedOnly bool) ([]model.DailyAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.DailyAction
	for _, id := range r.order {
		a := r.actions[id]
		if a.UserID != userID || a.ActionDate != actionDate {
			continue
		}
		if generatedOnly && !a.Generated {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (model.DailyAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.actions[id]
	if !ok {
		return model.DailyAction{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id string, status model.ActionStatus) (model.DailyAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.actions[id]
	if !ok {
		return model.DailyAction{}, ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	r.actions[id] = a
	return a, nil
}
