//go:build !integration

package postgres

import (
	"context"
	"time"

	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/repository"
	red "biolink-saas/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerPlanRepo mocks the database repository that the Plan decorator wraps.
type mockInnerPlanRepo struct {
	SaveFunc     func(ctx context.Context, tx repository.Tx, plan *model.Plan) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error)
	ListAllFunc  func(ctx context.Context, tx repository.Tx) ([]*model.Plan, error)
}

func (m *mockInnerPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	return m.SaveFunc(ctx, tx, plan)
}
func (m *mockInnerPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	return m.ListAllFunc(ctx, tx)
}

// mockInnerUserRepo mocks the database repository that the User decorator wraps.
type mockInnerUserRepo struct {
	SaveFunc                        func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindByIDFunc                    func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	FindByIDForUpdateFunc           func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	UpdatePlanFunc                  func(ctx context.Context, tx repository.Tx, u *model.User) error
	ClearSubscriptionFunc           func(ctx context.Context, tx repository.Tx, userID string) error
	FindExpiringWithoutReminderFunc func(ctx context.Context, tx repository.Tx, from, to time.Time) ([]*model.User, error)
	MarkRemindedFunc                func(ctx context.Context, tx repository.Tx, userID string, expiresAt time.Time) (bool, error)
}

func (m *mockInnerUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	return m.SaveFunc(ctx, tx, u)
}
func (m *mockInnerUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerUserRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	return m.FindByIDForUpdateFunc(ctx, tx, id)
}
func (m *mockInnerUserRepo) UpdatePlan(ctx context.Context, tx repository.Tx, u *model.User) error {
	return m.UpdatePlanFunc(ctx, tx, u)
}
func (m *mockInnerUserRepo) ClearSubscription(ctx context.Context, tx repository.Tx, userID string) error {
	return m.ClearSubscriptionFunc(ctx, tx, userID)
}
func (m *mockInnerUserRepo) FindExpiringWithoutReminder(ctx context.Context, tx repository.Tx, from, to time.Time) ([]*model.User, error) {
	return m.FindExpiringWithoutReminderFunc(ctx, tx, from, to)
}
func (m *mockInnerUserRepo) MarkReminded(ctx context.Context, tx repository.Tx, userID string, expiresAt time.Time) (bool, error) {
	return m.MarkRemindedFunc(ctx, tx, userID, expiresAt)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc      func(ctx context.Context, key string) (string, error)
	SetFunc      func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc      func(ctx context.Context, keys ...string) error
	PingFunc     func(ctx context.Context) error
	IncrFunc     func(ctx context.Context, key string) (int64, error)
	ExpireFunc   func(ctx context.Context, key string, expiration time.Duration) error
	SAddFunc     func(ctx context.Context, key string, members ...string) error
	SMembersFunc func(ctx context.Context, key string) ([]string, error)
	CloseFunc    func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc == nil {
		return nil
	}
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	if m.ExpireFunc == nil {
		return nil
	}
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) SAdd(ctx context.Context, key string, members ...string) error {
	if m.SAddFunc == nil {
		return nil
	}
	return m.SAddFunc(ctx, key, members...)
}
func (m *mockRedisClient) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.SMembersFunc == nil {
		return nil, nil
	}
	return m.SMembersFunc(ctx, key)
}
func (m *mockRedisClient) Close() error { return m.CloseFunc() }
