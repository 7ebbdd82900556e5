package web

import (
	"context"
	"errors"
	"sync"
	"time"

	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/usecase"
)

// ---- use case fakes ----

type fakeRedemptionUC struct {
	mu        sync.Mutex
	redeemErr error
	checkErr  error
	quote     *usecase.CodeQuote
	redeemed  []string // userID:code
	checked   []string
}

func (f *fakeRedemptionUC) CheckCode(ctx context.Context, userID, code string) (*usecase.CodeQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, userID+":"+code)
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	return f.quote, nil
}

func (f *fakeRedemptionUC) Redeem(ctx context.Context, userID, code string) (*usecase.RedemptionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redeemed = append(f.redeemed, userID+":"+code)
	if f.redeemErr != nil {
		return nil, f.redeemErr
	}
	return &usecase.RedemptionResult{UserID: userID, PlanID: "pro", ExpiresAt: time.Now()}, nil
}

type fakeSubUC struct {
	calls []string
	err   error
}

func (f *fakeSubUC) CancelSubscription(ctx context.Context, userID string) error {
	f.calls = append(f.calls, userID)
	return f.err
}

type fakeAccountUC struct {
	view *usecase.AccountPlan
	err  error
}

func (f *fakeAccountUC) AccountPlan(ctx context.Context, userID string) (*usecase.AccountPlan, error) {
	if f.err != nil {
		return nil, f.err
	}
	v := *f.view
	v.UserID = userID
	return &v, nil
}

type fakeBiolinkUC struct {
	lastSearch string
	lastLang   string
	blocks     []usecase.BlockView
}

func (f *fakeBiolinkUC) ListBlocks(ctx context.Context, userID, search, acceptLanguage string) ([]usecase.BlockView, error) {
	f.lastSearch = search
	f.lastLang = acceptLanguage
	return f.blocks, nil
}

type fakeTaxUC struct {
	inputs []usecase.TaxInput
	err    error
	taxes  []*model.Tax
}

func (f *fakeTaxUC) Create(ctx context.Context, in usecase.TaxInput) (*model.Tax, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	t := &model.Tax{ID: "t1", Name: in.Name, InternalName: in.InternalName}
	f.taxes = append(f.taxes, t)
	return t, nil
}

func (f *fakeTaxUC) List(ctx context.Context) ([]*model.Tax, error) { return f.taxes, nil }

// ---- redis fake for the rate limiter ----

type counterRedis struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newCounterRedis() *counterRedis { return &counterRedis{counts: map[string]int64{}} }

func (c *counterRedis) Ping(ctx context.Context) error { return nil }
func (c *counterRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (c *counterRedis) Get(ctx context.Context, key string) (string, error) { return "", nil }
func (c *counterRedis) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key]++
	return c.counts[key], nil
}
func (c *counterRedis) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}
func (c *counterRedis) Del(ctx context.Context, keys ...string) error                 { return nil }
func (c *counterRedis) SAdd(ctx context.Context, key string, members ...string) error { return nil }
func (c *counterRedis) SMembers(ctx context.Context, key string) ([]string, error)    { return nil, nil }
func (c *counterRedis) Close() error                                                  { return nil }

var errBoomWeb = errors.New("boom")
