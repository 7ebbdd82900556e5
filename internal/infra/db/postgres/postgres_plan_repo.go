package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"biolink-saas/internal/domain"
	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Ensure interface compliance
var _ repository.PlanRepository = (*PostgresPlanRepo)(nil)

type PostgresPlanRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPlanRepo(pool *pgxpool.Pool) *PostgresPlanRepo {
	return &PostgresPlanRepo{pool: pool}
}

func (r *PostgresPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	const sql = `
INSERT INTO plans (id, name, settings, status, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
  SET name     = EXCLUDED.name,
      settings = EXCLUDED.settings,
      status   = EXCLUDED.status;
`
	settings, err := json.Marshal(plan.Settings)
	if err != nil {
		return fmt.Errorf("marshal plan settings: %w", err)
	}
	_, err = execSQL(ctx, r.pool, tx, sql,
		plan.ID, plan.Name, settings, string(plan.Status), plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Save plan: %w", err)
	}
	return nil
}

func (r *PostgresPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	const sql = `
SELECT id, name, settings, status, created_at
  FROM plans
 WHERE id = $1;
`
	p, err := scanPlan(pickRow(ctx, r.pool, tx, sql, id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("FindByID plan: %w", err)
	}
	return p, nil
}

func (r *PostgresPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	const sql = `
SELECT id, name, settings, status, created_at
  FROM plans
 ORDER BY created_at, id;
`
	rows, err := queryRows(ctx, r.pool, tx, sql)
	if err != nil {
		return nil, fmt.Errorf("ListAll plans: %w", err)
	}
	defer rows.Close()
	var out []*model.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPlan(row pgx.Row) (*model.Plan, error) {
	var (
		p        model.Plan
		settings []byte
		status   string
	)
	if err := row.Scan(&p.ID, &p.Name, &settings, &status, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Status = model.PlanStatus(status)
	if err := json.Unmarshal(settings, &p.Settings); err != nil {
		return nil, fmt.Errorf("%w: plan settings: %v", domain.ErrReadDatabaseRow, err)
	}
	return &p, nil
}
