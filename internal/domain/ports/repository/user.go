package repository

import (
	"context"
	"time"

	"biolink-saas/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	// FindByIDForUpdate locks the user row until tx ends. tx must be a transaction.
	FindByIDForUpdate(ctx context.Context, tx Tx, id string) (*model.User, error)
	// UpdatePlan writes plan id, expiration, settings snapshot and reminder flag.
	UpdatePlan(ctx context.Context, tx Tx, u *model.User) error
	// ClearSubscription drops the recurring billing reference.
	ClearSubscription(ctx context.Context, tx Tx, userID string) error
	// FindExpiringWithoutReminder returns users whose plan expires in [from, to)
	// and who have not been reminded yet.
	FindExpiringWithoutReminder(ctx context.Context, tx Tx, from, to time.Time) ([]*model.User, error)
	// MarkReminded flags the user as reminded for the expiration expiresAt. It
	// reports false when the row no longer matches, e.g. a redemption moved the
	// expiration or reset the flag after the reminder was selected.
	MarkReminded(ctx context.Context, tx Tx, userID string, expiresAt time.Time) (bool, error)
}
