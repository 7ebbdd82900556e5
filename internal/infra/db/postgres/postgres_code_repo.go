package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"biolink-saas/internal/domain"
	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/repository"
)

var _ repository.CodeRepository = (*PostgresCodeRepo)(nil)

type PostgresCodeRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCodeRepo(pool *pgxpool.Pool) *PostgresCodeRepo {
	return &PostgresCodeRepo{pool: pool}
}

func (r *PostgresCodeRepo) Save(ctx context.Context, tx repository.Tx, c *model.RedemptionCode) error {
	const q = `
INSERT INTO codes (id, code, type, plan_id, days, discount, quantity, redeemed, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);`
	_, err := execSQL(ctx, r.pool, tx, q,
		c.ID, c.Code, string(c.Type), c.PlanID, c.Days, c.Discount, c.Quantity, c.Redeemed, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("save code: %w", err)
	}
	return nil
}

func (r *PostgresCodeRepo) FindRedeemable(ctx context.Context, tx repository.Tx, code string) (*model.RedemptionCode, error) {
	const q = `
SELECT id, code, type, COALESCE(plan_id, ''), days, discount, quantity, redeemed, created_at
  FROM codes
 WHERE code = $1 AND type = 'redeemable' AND redeemed < quantity;`
	var (
		c   model.RedemptionCode
		typ string
	)
	err := pickRow(ctx, r.pool, tx, q, code).Scan(
		&c.ID, &c.Code, &typ, &c.PlanID, &c.Days, &c.Discount, &c.Quantity, &c.Redeemed, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find redeemable code: %w", err)
	}
	c.Type = model.CodeType(typ)
	return &c, nil
}

func (r *PostgresCodeRepo) HasRedeemed(ctx context.Context, tx repository.Tx, userID, codeID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM redeemed_codes WHERE code_id=$1 AND user_id=$2);`
	var ok bool
	if err := pickRow(ctx, r.pool, tx, q, codeID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("has redeemed: %w", err)
	}
	return ok, nil
}

// ClaimRedemption records the redemption first so a concurrent duplicate
// blocks on the unique index, then takes one unit of quantity only if any is left.
func (r *PostgresCodeRepo) ClaimRedemption(ctx context.Context, tx repository.Tx, codeID, userID string, at time.Time) (*model.RedemptionRecord, error) {
	t, err := requireTx(tx)
	if err != nil {
		return nil, err
	}
	rec := &model.RedemptionRecord{
		ID:     ulid.Make().String(),
		CodeID: codeID,
		UserID: userID,
		Date:   at,
	}

	const insertQ = `
INSERT INTO redeemed_codes (id, code_id, user_id, date)
VALUES ($1,$2,$3,$4)
ON CONFLICT (code_id, user_id) DO NOTHING;`
	ct, err := t.Exec(ctx, insertQ, rec.ID, rec.CodeID, rec.UserID, rec.Date)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyRedeemed
		}
		return nil, fmt.Errorf("insert redemption: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, domain.ErrAlreadyRedeemed
	}

	const claimQ = `
UPDATE codes SET redeemed = redeemed + 1
 WHERE id = $1 AND type = 'redeemable' AND redeemed < quantity;`
	ct, err = t.Exec(ctx, claimQ, codeID)
	if err != nil {
		return nil, fmt.Errorf("increment redeemed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, domain.ErrInvalidCode
	}
	return rec, nil
}
