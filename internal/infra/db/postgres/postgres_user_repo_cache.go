package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/repository"
	"biolink-saas/internal/infra/metrics"
	red "biolink-saas/internal/infra/redis"
)

var _ repository.UserRepository = (*userRepoCacheDecorator)(nil)

// userRepoCacheDecorator caches FindByID outside transactions. Entries are
// tagged with the user's cache tag so one InvalidateTag evicts everything
// derived from that user.
type userRepoCacheDecorator struct {
	inner repository.UserRepository
	cache *red.TagCache
	ttl   time.Duration
}

func NewUserRepoCacheDecorator(inner repository.UserRepository, cache *red.TagCache, ttl time.Duration) repository.UserRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &userRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

func userKey(id string) string { return fmt.Sprintf("user:id:%s", id) }

func (d *userRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}
	key := userKey(id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var user model.User
		if json.Unmarshal([]byte(val), &user) == nil {
			metrics.IncCacheRequest("user", "hit")
			return &user, nil
		}
	} else if err != red.Nil {
		metrics.IncCacheRequest("user", "error")
	}

	metrics.IncCacheRequest("user", "miss")
	user, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	bytes, _ := json.Marshal(user)
	_ = d.cache.Set(ctx, key, bytes, d.ttl, model.UserCacheTag(user.ID))
	return user, nil
}

// Locked reads are never served from cache.
func (d *userRepoCacheDecorator) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	return d.inner.FindByIDForUpdate(ctx, tx, id)
}

// Writes evict the user's tag. Callers that write inside a transaction must
// invalidate again after commit.
func (d *userRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if err := d.inner.Save(ctx, tx, u); err != nil {
		return err
	}
	d.evict(ctx, u.ID)
	return nil
}

func (d *userRepoCacheDecorator) UpdatePlan(ctx context.Context, tx repository.Tx, u *model.User) error {
	if err := d.inner.UpdatePlan(ctx, tx, u); err != nil {
		return err
	}
	d.evict(ctx, u.ID)
	return nil
}

func (d *userRepoCacheDecorator) ClearSubscription(ctx context.Context, tx repository.Tx, userID string) error {
	if err := d.inner.ClearSubscription(ctx, tx, userID); err != nil {
		return err
	}
	d.evict(ctx, userID)
	return nil
}

func (d *userRepoCacheDecorator) MarkReminded(ctx context.Context, tx repository.Tx, userID string, expiresAt time.Time) (bool, error) {
	ok, err := d.inner.MarkReminded(ctx, tx, userID, expiresAt)
	if err != nil {
		return false, err
	}
	if ok {
		d.evict(ctx, userID)
	}
	return ok, nil
}

// Pass-through methods that don't need caching
func (d *userRepoCacheDecorator) FindExpiringWithoutReminder(ctx context.Context, tx repository.Tx, from, to time.Time) ([]*model.User, error) {
	return d.inner.FindExpiringWithoutReminder(ctx, tx, from, to)
}

func (d *userRepoCacheDecorator) evict(ctx context.Context, userID string) {
	if err := d.cache.InvalidateTag(ctx, model.UserCacheTag(userID)); err != nil {
		metrics.IncCacheInvalidation("error")
		return
	}
	metrics.IncCacheInvalidation("ok")
}
