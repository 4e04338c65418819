package action

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"agentpulse/internal/model"
)

// SQLRepo persists daily actions in the relational store.
type SQLRepo struct {
	db *sql.DB
}

func NewSQLRepo(db *sql.DB) *SQLRepo {
	return &SQLRepo{db: db}
}

const actionColumns = `id, user_id, action_date, action_type, title, description,
	priority, status, is_recurring, generated, category, pulse_impact,
	display_category, priority_weight, impact_area, metadata, created_at, updated_at`

func (r *SQLRepo) BulkCreate(ctx context.Context, actions []model.DailyAction) ([]model.DailyAction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	// Claim the run before writing any rows. The primary key on
	// generation_runs is what stops a concurrent run from inserting a
	// second batch for the same user and day.
	claimed := map[[2]string]bool{}
	for _, a := range actions {
		if !a.Generated {
			continue
		}
		key := [2]string{a.UserID, a.ActionDate}
		if claimed[key] {
			continue
		}
		claimed[key] = true
		_, err := tx.ExecContext(ctx,
			`INSERT INTO generation_runs (user_id, action_date, created_at) VALUES ($1,$2,$3)`,
			a.UserID, a.ActionDate, now)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrDuplicateDay
			}
			return nil, err
		}
	}

	out := make([]model.DailyAction, 0, len(actions))
	for _, a := range actions {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.CreatedAt = now
		a.UpdatedAt = now

		meta := ""
		if a.Source != nil {
			b, err := json.Marshal(a.Source)
			if err != nil {
				return nil, err
			}
			meta = string(b)
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO daily_actions (`+actionColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
			a.ID, a.UserID, a.ActionDate, a.ActionType, a.Title, a.Description,
			a.Priority, string(a.Status), a.IsRecurring, a.Generated, a.Category, a.PulseImpact,
			a.DisplayCategory, a.PriorityWeight, a.ImpactArea, meta, a.CreatedAt, a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLRepo) ListGenerated(ctx context.Context, userID, actionDate string) ([]model.DailyAction, error) {
	return r.list(ctx, `SELECT `+actionColumns+` FROM daily_actions
		WHERE user_id = $1 AND action_date = $2 AND generated
		ORDER BY priority_weight DESC, created_at`, userID, actionDate)
}

func (r *SQLRepo) ListForDay(ctx context.Context, userID, actionDate string) ([]model.DailyAction, error) {
	return r.list(ctx, `SELECT `+actionColumns+` FROM daily_actions
		WHERE user_id = $1 AND action_date = $2
		ORDER BY priority_weight DESC, created_at`, userID, actionDate)
}

func (r *SQLRepo) list(ctx context.Context, query string, args ...any) ([]model.DailyAction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DailyAction
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLRepo) Get(ctx context.Context, id string) (model.DailyAction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+actionColumns+` FROM daily_actions WHERE id = $1`, id)
	return scanAction(row)
}

func (r *SQLRepo) UpdateStatus(ctx context.Context, id string, status model.ActionStatus) (model.DailyAction, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE daily_actions SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), time.Now().UTC())
	if err != nil {
		return model.DailyAction{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.DailyAction{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAction(row rowScanner) (model.DailyAction, error) {
	var a model.DailyAction
	var status, meta string
	err := row.Scan(&a.ID, &a.UserID, &a.ActionDate, &a.ActionType, &a.Title, &a.Description,
		&a.Priority, &status, &a.IsRecurring, &a.Generated, &a.Category, &a.PulseImpact,
		&a.DisplayCategory, &a.PriorityWeight, &a.ImpactArea, &meta, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DailyAction{}, ErrNotFound
	}
	if err != nil {
		return model.DailyAction{}, err
	}
	a.Status = model.ActionStatus(status)
	if meta != "" {
		var src model.SourceMeta
		if err := json.Unmarshal([]byte(meta), &src); err == nil {
			a.Source = &src
		}
	}
	return a, nil
}

// isUniqueViolation recognizes the generation_runs primary key firing on
// either driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
