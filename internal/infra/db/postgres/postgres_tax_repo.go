package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/repository"
)

var _ repository.TaxRepository = (*PostgresTaxRepo)(nil)

type PostgresTaxRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresTaxRepo(pool *pgxpool.Pool) *PostgresTaxRepo {
	return &PostgresTaxRepo{pool: pool}
}

func (r *PostgresTaxRepo) Create(ctx context.Context, tx repository.Tx, t *model.Tax) error {
	const q = `
INSERT INTO taxes (id, internal_name, name, description, value, value_type, type, billing_type, countries, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);`
	var countries []byte
	if len(t.Countries) > 0 {
		b, err := json.Marshal(t.Countries)
		if err != nil {
			return fmt.Errorf("marshal countries: %w", err)
		}
		countries = b
	}
	_, err := execSQL(ctx, r.pool, tx, q,
		t.ID, t.InternalName, t.Name, t.Description, t.Value,
		string(t.ValueType), string(t.Type), string(t.BillingType), countries, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create tax: %w", err)
	}
	return nil
}

func (r *PostgresTaxRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Tax, error) {
	const q = `
SELECT id, internal_name, name, description, value, value_type, type, billing_type, countries, created_at
  FROM taxes
 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, fmt.Errorf("list taxes: %w", err)
	}
	defer rows.Close()
	var out []*model.Tax
	for rows.Next() {
		var (
			t                           model.Tax
			valueType, typ, billingType string
			countries                   []byte
		)
		if err := rows.Scan(&t.ID, &t.InternalName, &t.Name, &t.Description, &t.Value,
			&valueType, &typ, &billingType, &countries, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.ValueType = model.TaxValueType(valueType)
		t.Type = model.TaxType(typ)
		t.BillingType = model.TaxBillingType(billingType)
		if len(countries) > 0 {
			if err := json.Unmarshal(countries, &t.Countries); err != nil {
				return nil, fmt.Errorf("decode countries: %w", err)
			}
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
