package template

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"agentpulse/internal/model"
)

// SQLRepo persists the catalog in the relational store. Statements use $N
// placeholders, accepted by both supported drivers.
type SQLRepo struct {
	db *sql.DB
}

func NewSQLRepo(db *sql.DB) *SQLRepo {
	return &SQLRepo{db: db}
}

const templateColumns = `id, trigger_type, trigger_value, sub_category, is_active,
	title, description, category, action_type, priority, priority_weight,
	pulse_impact, display_category, impact_area, created_at, updated_at`

func (r *SQLRepo) Create(ctx context.Context, t model.TaskTemplate) (model.TaskTemplate, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `INSERT INTO task_templates (`+templateColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		t.ID, string(t.TriggerType), t.TriggerValue, string(t.SubCategory), t.IsActive,
		t.Title, t.Description, t.Category, t.ActionType, t.Priority, t.PriorityWeight,
		t.PulseImpact, t.DisplayCategory, t.ImpactArea, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return model.TaskTemplate{}, err
	}
	return t, nil
}

func (r *SQLRepo) Get(ctx context.Context, id string) (model.TaskTemplate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM task_templates WHERE id = $1`, id)
	return scanTemplate(row)
}

func (r *SQLRepo) Update(ctx context.Context, t model.TaskTemplate) (model.TaskTemplate, error) {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE task_templates SET
		trigger_type = $2, trigger_value = $3, sub_category = $4, is_active = $5,
		title = $6, description = $7, category = $8, action_type = $9,
		priority = $10, priority_weight = $11, pulse_impact = $12,
		display_category = $13, impact_area = $14, updated_at = $15
		WHERE id = $1`,
		t.ID, string(t.TriggerType), t.TriggerValue, string(t.SubCategory), t.IsActive,
		t.Title, t.Description, t.Category, t.ActionType,
		t.Priority, t.PriorityWeight, t.PulseImpact,
		t.DisplayCategory, t.ImpactArea, t.UpdatedAt)
	if err != nil {
		return model.TaskTemplate{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.TaskTemplate{}, ErrNotFound
	}
	return r.Get(ctx, t.ID)
}

func (r *SQLRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE task_templates SET is_active = FALSE, updated_at = $2 WHERE id = $1`,
		id, time.Now().UTC())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepo) List(ctx context.Context, filter ListFilter) ([]model.TaskTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM task_templates WHERE 1=1`
	var args []any
	if filter.Active != nil {
		args = append(args, *filter.Active)
		query += ` AND is_active = $1`
	}
	if filter.TriggerType != "" {
		args = append(args, string(filter.TriggerType))
		if len(args) == 1 {
			query += ` AND trigger_type = $1`
		} else {
			query += ` AND trigger_type = $2`
		}
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TaskTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Seed inserts templates that do not already exist, keeping their given IDs.
func (r *SQLRepo) Seed(ctx context.Context, templates []model.TaskTemplate) error {
	for _, t := range templates {
		_, err := r.Get(ctx, t.ID)
		if err == nil {
			continue
		}
		if err != ErrNotFound {
			return err
		}
		if _, err := r.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (model.TaskTemplate, error) {
	var t model.TaskTemplate
	var triggerType, subCategory string
	err := row.Scan(&t.ID, &triggerType, &t.TriggerValue, &subCategory, &t.IsActive,
		&t.Title, &t.Description, &t.Category, &t.ActionType, &t.Priority, &t.PriorityWeight,
		&t.PulseImpact, &t.DisplayCategory, &t.ImpactArea, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.TaskTemplate{}, ErrNotFound
	}
	if err != nil {
		return model.TaskTemplate{}, err
	}
	t.TriggerType = model.TriggerType(triggerType)
	t.SubCategory = model.InitiativeCadence(subCategory)
	return t, nil
}
