//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"biolink-saas/internal/domain"
	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/adapter"
	"biolink-saas/internal/domain/ports/repository"
	"biolink-saas/internal/infra/i18n"
)

// =============================
// In-memory store
// =============================

// memStore backs every mock repository so MockTxManager can snapshot and
// restore all of them together, like a database rollback.
type memStore struct {
	mu      sync.Mutex
	users   map[string]model.User
	plans   map[string]model.Plan
	codes   map[string]model.RedemptionCode // by code string
	records []model.RedemptionRecord
	taxes   []model.Tax
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]model.User{},
		plans: map[string]model.Plan{},
		codes: map[string]model.RedemptionCode{},
	}
}

type memSnapshot struct {
	users   map[string]model.User
	codes   map[string]model.RedemptionCode
	records []model.RedemptionRecord
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		users:   make(map[string]model.User, len(s.users)),
		codes:   make(map[string]model.RedemptionCode, len(s.codes)),
		records: append([]model.RedemptionRecord(nil), s.records...),
	}
	for k, v := range s.users {
		v.PlanSettings = v.PlanSettings.Clone()
		snap.users[k] = v
	}
	for k, v := range s.codes {
		snap.codes[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.codes = snap.codes
	s.records = snap.records
}

func (s *memStore) user(id string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *memStore) code(code string) model.RedemptionCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[code]
}

func (s *memStore) recordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// =============================
// Repositories
// =============================

// ---- Mock UserRepository ----

type MockUserRepo struct {
	s *memStore

	FindByIDFunc   func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	UpdatePlanFunc func(ctx context.Context, tx repository.Tx, u *model.User) error
	MarkCalls      []string
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo(s *memStore) *MockUserRepo { return &MockUserRepo{s: s} }

func (r *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	if cp.ID == "" {
		cp.ID = uuid.NewString()
		u.ID = cp.ID
	}
	cp.PlanSettings = u.PlanSettings.Clone()
	r.s.users[cp.ID] = cp
	return nil
}

func (r *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.PlanSettings = u.PlanSettings.Clone()
	return &u, nil
}

// FindByIDForUpdate reads the store directly; locked reads never see FindByIDFunc.
func (r *MockUserRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.PlanSettings = u.PlanSettings.Clone()
	return &u, nil
}

func (r *MockUserRepo) UpdatePlan(ctx context.Context, tx repository.Tx, u *model.User) error {
	if r.UpdatePlanFunc != nil {
		return r.UpdatePlanFunc(ctx, tx, u)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.PlanID = u.PlanID
	cur.PlanExpirationDate = u.PlanExpirationDate
	cur.PlanSettings = u.PlanSettings.Clone()
	cur.PlanExpiryReminder = u.PlanExpiryReminder
	r.s.users[u.ID] = cur
	return nil
}

func (r *MockUserRepo) ClearSubscription(ctx context.Context, tx repository.Tx, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.PaymentSubscriptionID = ""
	r.s.users[userID] = cur
	return nil
}

func (r *MockUserRepo) FindExpiringWithoutReminder(ctx context.Context, tx repository.Tx, from, to time.Time) ([]*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.User
	for _, u := range r.s.users {
		if u.PlanExpiryReminder || u.PlanID == model.PlanFree {
			continue
		}
		if !u.PlanExpirationDate.Before(from) && u.PlanExpirationDate.Before(to) {
			cp := u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlanExpirationDate.Before(out[j].PlanExpirationDate) })
	return out, nil
}

func (r *MockUserRepo) MarkReminded(ctx context.Context, tx repository.Tx, userID string, expiresAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.MarkCalls = append(r.MarkCalls, userID)
	cur, ok := r.s.users[userID]
	if !ok || cur.PlanExpiryReminder || !cur.PlanExpirationDate.Equal(expiresAt) {
		return false, nil
	}
	cur.PlanExpiryReminder = true
	r.s.users[userID] = cur
	return true, nil
}

// ---- Mock PlanRepository ----

type MockPlanRepo struct {
	s *memStore
}

var _ repository.PlanRepository = (*MockPlanRepo)(nil)

func NewMockPlanRepo(s *memStore) *MockPlanRepo { return &MockPlanRepo{s: s} }

func (r *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.Plan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.plans[p.ID] = *p
	return nil
}

func (r *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *MockPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Plan, 0, len(r.s.plans))
	for _, p := range r.s.plans {
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- Mock CodeRepository ----

type MockCodeRepo struct {
	s *memStore

	FindRedeemableFunc func(ctx context.Context, tx repository.Tx, code string) (*model.RedemptionCode, error)
	ClaimCalls         int
}

var _ repository.CodeRepository = (*MockCodeRepo)(nil)

func NewMockCodeRepo(s *memStore) *MockCodeRepo { return &MockCodeRepo{s: s} }

func (r *MockCodeRepo) Save(ctx context.Context, tx repository.Tx, c *model.RedemptionCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.codes[c.Code]; ok {
		return domain.ErrAlreadyExists
	}
	r.s.codes[c.Code] = *c
	return nil
}

func (r *MockCodeRepo) FindRedeemable(ctx context.Context, tx repository.Tx, code string) (*model.RedemptionCode, error) {
	if r.FindRedeemableFunc != nil {
		return r.FindRedeemableFunc(ctx, tx, code)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.codes[code]
	if !ok || !c.IsRedeemable() {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *MockCodeRepo) HasRedeemed(ctx context.Context, tx repository.Tx, userID, codeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.records {
		if rec.UserID == userID && rec.CodeID == codeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MockCodeRepo) ClaimRedemption(ctx context.Context, tx repository.Tx, codeID, userID string, at time.Time) (*model.RedemptionRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.ClaimCalls++
	for _, rec := range r.s.records {
		if rec.UserID == userID && rec.CodeID == codeID {
			return nil, domain.ErrAlreadyRedeemed
		}
	}
	for k, c := range r.s.codes {
		if c.ID != codeID {
			continue
		}
		if !c.IsRedeemable() {
			return nil, domain.ErrInvalidCode
		}
		c.Redeemed++
		r.s.codes[k] = c
		rec := model.RedemptionRecord{ID: uuid.NewString(), CodeID: codeID, UserID: userID, Date: at}
		r.s.records = append(r.s.records, rec)
		return &rec, nil
	}
	return nil, domain.ErrInvalidCode
}

// ---- Mock TaxRepository ----

type MockTaxRepo struct {
	s *memStore
}

var _ repository.TaxRepository = (*MockTaxRepo)(nil)

func NewMockTaxRepo(s *memStore) *MockTaxRepo { return &MockTaxRepo{s: s} }

func (r *MockTaxRepo) Create(ctx context.Context, tx repository.Tx, t *model.Tax) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.taxes = append(r.s.taxes, *t)
	return nil
}

func (r *MockTaxRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Tax, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Tax, len(r.s.taxes))
	for i := range r.s.taxes {
		cp := r.s.taxes[i]
		out[i] = &cp
	}
	return out, nil
}

// =============================
// Adapters
// =============================

// ---- Mock SubscriptionManager ----

type MockSubscriptions struct {
	mu    sync.Mutex
	Calls []string
	Err   error
}

func (m *MockSubscriptions) CancelSubscription(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, userID)
	return m.Err
}

// ---- Mock BillingProvider ----

type MockBillingProvider struct {
	NameValue string
	Cancelled []string
	Err       error
}

var _ adapter.BillingProvider = (*MockBillingProvider)(nil)

func (m *MockBillingProvider) Name() string { return m.NameValue }

func (m *MockBillingProvider) Cancel(ctx context.Context, ref string) error {
	m.Cancelled = append(m.Cancelled, ref)
	return m.Err
}

// ---- Mock CacheInvalidator ----

type MockCache struct {
	mu          sync.Mutex
	Invalidated []string
	Err         error
}

var _ adapter.CacheInvalidator = (*MockCache)(nil)

func (m *MockCache) InvalidateTag(ctx context.Context, tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidated = append(m.Invalidated, tag)
	return m.Err
}

// ---- Mock Mailer ----

type MockMailer struct {
	mu      sync.Mutex
	Sent    []adapter.Email
	FailFor map[string]error
	// OnSend runs after a successful send, outside the mailer lock.
	OnSend func(e adapter.Email)
}

var _ adapter.Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, e adapter.Email) error {
	m.mu.Lock()
	if err, ok := m.FailFor[e.To]; ok {
		m.mu.Unlock()
		return err
	}
	m.Sent = append(m.Sent, e)
	hook := m.OnSend
	m.mu.Unlock()
	if hook != nil {
		hook(e)
	}
	return nil
}

// =============================
// Infra helpers for tests
// =============================

// ---- Mock TransactionManager ----

// MockTxManager restores the memStore when fn fails, mirroring a rollback.
type MockTxManager struct {
	s       *memStore
	Calls   int
	Options []pgx.TxOptions
}

func NewMockTxManager(s *memStore) *MockTxManager {
	return &MockTxManager{s: s}
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.Calls++
	m.Options = append(m.Options, txOpt)
	snap := m.s.snapshot()
	if err := fn(ctx, repository.NoTX); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

var errBoom = errors.New("boom")

// newTestLogger creates a silent zerolog.Logger for use in tests.
// It writes to io.Discard to prevent logs from cluttering test output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// --- Test i18n bundle

func newTestBundle() *i18n.Bundle {
	testFS := fstest.MapFS{
		"locales/en.yaml": {Data: []byte(`
biolink.block.link: "Link"
biolink.block.heading: "Heading"
biolink.block.youtube: "YouTube"
reminder.subject: "Your %s plan expires soon"
reminder.body: "Hello %s, your %s plan expires on %s."
`)},
		"locales/de.yaml": {Data: []byte(`
biolink.block.link: "Link"
biolink.block.heading: "Überschrift"
biolink.block.youtube: "YouTube"
reminder.subject: "Dein Tarif %s läuft bald ab"
reminder.body: "Hallo %s, dein Tarif %s läuft am %s ab."
`)},
	}
	b, err := i18n.NewBundle(testFS, "en")
	if err != nil {
		panic(err)
	}
	return b
}
