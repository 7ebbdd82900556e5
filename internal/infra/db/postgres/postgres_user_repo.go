package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"biolink-saas/internal/domain"
	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

const userColumns = `
id, email, name, language, plan_id, plan_expiration_date, plan_settings,
plan_expiry_reminder, payment_processor, payment_subscription_id, created_at`

func (r *PostgresUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (
  id, email, name, language, plan_id, plan_expiration_date, plan_settings,
  plan_expiry_reminder, payment_processor, payment_subscription_id, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
) ON CONFLICT (id) DO UPDATE SET
  email=$2, name=$3, language=$4, plan_id=$5, plan_expiration_date=$6, plan_settings=$7,
  plan_expiry_reminder=$8, payment_processor=$9, payment_subscription_id=$10;
`
	settings, err := json.Marshal(u.PlanSettings)
	if err != nil {
		return fmt.Errorf("marshal plan settings: %w", err)
	}
	_, err = execSQL(ctx, r.pool, tx, q,
		u.ID, u.Email, u.Name, u.Language, u.PlanID, u.PlanExpirationDate, settings,
		u.PlanExpiryReminder, u.PaymentProcessor, u.PaymentSubscriptionID, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id=$1;`
	return scanUser(pickRow(ctx, r.pool, tx, q, id))
}

func (r *PostgresUserRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	t, err := requireTx(tx)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + userColumns + ` FROM users WHERE id=$1 FOR UPDATE;`
	return scanUser(t.QueryRow(ctx, q, id))
}

func (r *PostgresUserRepo) UpdatePlan(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
UPDATE users
   SET plan_id=$2, plan_expiration_date=$3, plan_settings=$4, plan_expiry_reminder=$5
 WHERE id=$1;`
	settings, err := json.Marshal(u.PlanSettings)
	if err != nil {
		return fmt.Errorf("marshal plan settings: %w", err)
	}
	ct, err := execSQL(ctx, r.pool, tx, q, u.ID, u.PlanID, u.PlanExpirationDate, settings, u.PlanExpiryReminder)
	if err != nil {
		return fmt.Errorf("update user plan: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepo) ClearSubscription(ctx context.Context, tx repository.Tx, userID string) error {
	ct, err := execSQL(ctx, r.pool, tx,
		`UPDATE users SET payment_subscription_id='' WHERE id=$1;`, userID)
	if err != nil {
		return fmt.Errorf("clear subscription: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepo) FindExpiringWithoutReminder(ctx context.Context, tx repository.Tx, from, to time.Time) ([]*model.User, error) {
	q := `SELECT ` + userColumns + `
  FROM users
 WHERE plan_expiry_reminder = false
   AND plan_id <> 'free'
   AND plan_expiration_date >= $1 AND plan_expiration_date < $2
 ORDER BY plan_expiration_date;`
	rows, err := queryRows(ctx, r.pool, tx, q, from, to)
	if err != nil {
		return nil, fmt.Errorf("find expiring users: %w", err)
	}
	defer rows.Close()
	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresUserRepo) MarkReminded(ctx context.Context, tx repository.Tx, userID string, expiresAt time.Time) (bool, error) {
	const q = `
UPDATE users SET plan_expiry_reminder = true
 WHERE id = $1 AND plan_expiration_date = $2 AND plan_expiry_reminder = false;`
	ct, err := execSQL(ctx, r.pool, tx, q, userID, expiresAt)
	if err != nil {
		return false, fmt.Errorf("mark reminded: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u        model.User
		settings []byte
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Language, &u.PlanID, &u.PlanExpirationDate, &settings,
		&u.PlanExpiryReminder, &u.PaymentProcessor, &u.PaymentSubscriptionID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &u.PlanSettings); err != nil {
			return nil, fmt.Errorf("%w: plan_settings: %v", domain.ErrReadDatabaseRow, err)
		}
	}
	return &u, nil
}
