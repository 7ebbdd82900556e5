package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"biolink-saas/internal/domain"
	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/adapter"
	"biolink-saas/internal/domain/ports/repository"
	ucport "biolink-saas/internal/domain/ports/usecase"
	"biolink-saas/internal/infra/logging"
	"biolink-saas/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// CodeQuote is what a user would get by redeeming a code.
type CodeQuote struct {
	CodeID   string
	PlanID   string
	PlanName string
	Days     int
	Discount int
}

// RedemptionResult describes the entitlement written by a successful redemption.
type RedemptionResult struct {
	UserID      string
	PlanID      string
	PlanName    string
	ExpiresAt   time.Time
	PlanChanged bool
	Record      *model.RedemptionRecord
}

// RedemptionUseCase validates and applies redeemable codes.
type RedemptionUseCase interface {
	// CheckCode runs every validation Redeem runs, without side effects.
	CheckCode(ctx context.Context, userID, code string) (*CodeQuote, error)
	// Redeem grants the code's plan to the user. Errors: domain.ErrCodesDisabled,
	// domain.ErrInvalidCode, domain.ErrInvalidPlan, domain.ErrAlreadyRedeemed,
	// domain.ErrSubscriptionCancellation, or an infrastructure error.
	Redeem(ctx context.Context, userID, code string) (*RedemptionResult, error)
}

var _ RedemptionUseCase = (*redemptionUC)(nil)

type redemptionUC struct {
	users   repository.UserRepository
	codes   repository.CodeRepository
	plans   PlanUseCase
	subs    ucport.SubscriptionManager
	tm      repository.TransactionManager
	cache   adapter.CacheInvalidator
	enabled bool
	now     func() time.Time
	log     *zerolog.Logger
}

type RedemptionOption func(*redemptionUC)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) RedemptionOption {
	return func(uc *redemptionUC) { uc.now = now }
}

// NewRedemptionUseCase constructs the use case. enabled mirrors the payment
// and codes feature toggles; when false every call returns ErrCodesDisabled.
func NewRedemptionUseCase(
	users repository.UserRepository,
	codes repository.CodeRepository,
	plans PlanUseCase,
	subs ucport.SubscriptionManager,
	tm repository.TransactionManager,
	cache adapter.CacheInvalidator,
	enabled bool,
	logger *zerolog.Logger,
	opts ...RedemptionOption,
) RedemptionUseCase {
	uc := &redemptionUC{
		users:   users,
		codes:   codes,
		plans:   plans,
		subs:    subs,
		tm:      tm,
		cache:   cache,
		enabled: enabled,
		now:     time.Now,
		log:     logger,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

func (r *redemptionUC) CheckCode(ctx context.Context, userID, code string) (*CodeQuote, error) {
	defer logging.TraceDuration(r.log, "RedemptionUC.CheckCode")()

	c, plan, err := r.validate(ctx, userID, code)
	if err != nil {
		metrics.IncCodeCheck(outcomeOf(err))
		return nil, err
	}
	metrics.IncCodeCheck("valid")
	return &CodeQuote{
		CodeID:   c.ID,
		PlanID:   plan.ID,
		PlanName: plan.Name,
		Days:     c.Days,
		Discount: c.Discount,
	}, nil
}

func (r *redemptionUC) Redeem(ctx context.Context, userID, code string) (*RedemptionResult, error) {
	defer logging.TraceDuration(r.log, "RedemptionUC.Redeem")()
	log := logging.With(ctx, r.log)

	res, err := r.redeem(ctx, userID, code)
	planChanged := res != nil && res.PlanChanged
	if err != nil {
		metrics.IncCodeRedemption(outcomeOf(err), planChanged)
		ev := log.Debug()
		if outcomeOf(err) == "error" {
			ev = log.Error()
		}
		ev.Err(err).Str("code", logging.Redact(code, false)).Msg("redemption rejected")
		return nil, err
	}
	metrics.IncCodeRedemption("success", planChanged)
	log.Info().
		Str("plan_id", res.PlanID).
		Time("expires_at", res.ExpiresAt).
		Bool("plan_changed", res.PlanChanged).
		Msg("code redeemed")
	return res, nil
}

func (r *redemptionUC) redeem(ctx context.Context, userID, code string) (*RedemptionResult, error) {
	c, plan, err := r.validate(ctx, userID, code)
	if err != nil {
		return nil, err
	}
	user, err := r.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	// A plan switch requires the old recurring subscription to be cancelled first.
	cancelled := user.PlanID != plan.ID
	if cancelled {
		if err := r.cancel(ctx, userID); err != nil {
			return &RedemptionResult{PlanChanged: true}, err
		}
	}

	res, err := r.apply(ctx, userID, c, plan, cancelled)
	if errors.Is(err, errStalePlan) {
		// user moved off the code's plan after the unlocked read
		if err := r.cancel(ctx, userID); err != nil {
			return &RedemptionResult{PlanChanged: true}, err
		}
		res, err = r.apply(ctx, userID, c, plan, true)
	}
	if err != nil {
		return &RedemptionResult{PlanChanged: cancelled}, err
	}

	invalidateUser(ctx, r.cache, userID, logging.With(ctx, r.log))
	return res, nil
}

// errStalePlan aborts the entitlement transaction when the locked row would
// switch plans without a prior cancellation.
var errStalePlan = errors.New("user plan changed since it was read")

func (r *redemptionUC) cancel(ctx context.Context, userID string) error {
	err := r.subs.CancelSubscription(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrSubscriptionCancellation) {
		err = fmt.Errorf("%w: %w", domain.ErrSubscriptionCancellation, err)
	}
	return err
}

// apply runs the claim and the entitlement write in one transaction.
func (r *redemptionUC) apply(ctx context.Context, userID string, c *model.RedemptionCode, plan *model.Plan, cancelled bool) (*RedemptionResult, error) {
	res := &RedemptionResult{UserID: userID, PlanID: plan.ID, PlanName: plan.Name}
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := r.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		locked, err := r.users.FindByIDForUpdate(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}
		res.PlanChanged = locked.PlanID != plan.ID
		if res.PlanChanged && !cancelled {
			return errStalePlan
		}
		now := r.now()
		rec, err := r.codes.ClaimRedemption(ctx, tx, c.ID, userID, now)
		if err != nil {
			return err
		}
		applyEntitlement(locked, c, plan, now)
		if err := r.users.UpdatePlan(ctx, tx, locked); err != nil {
			return fmt.Errorf("update entitlement: %w", err)
		}
		res.ExpiresAt = locked.PlanExpirationDate
		res.Record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// validate resolves the code and its plan and rejects codes the user already used.
func (r *redemptionUC) validate(ctx context.Context, userID, code string) (*model.RedemptionCode, *model.Plan, error) {
	if !r.enabled {
		return nil, nil, domain.ErrCodesDisabled
	}
	code = model.NormalizeCode(code)
	if code == "" {
		return nil, nil, domain.ErrInvalidCode
	}

	c, err := r.codes.FindRedeemable(ctx, repository.NoTX, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrInvalidCode
		}
		return nil, nil, err
	}
	if !c.IsRedeemable() {
		return nil, nil, domain.ErrInvalidCode
	}
	plan, err := r.plans.GetPlanByID(ctx, c.PlanID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrInvalidPlan
		}
		return nil, nil, err
	}
	used, err := r.codes.HasRedeemed(ctx, repository.NoTX, userID, c.ID)
	if err != nil {
		return nil, nil, err
	}
	if used {
		return nil, nil, domain.ErrAlreadyRedeemed
	}
	return c, plan, nil
}

// applyEntitlement moves u onto plan for c.Days calendar days. Days stack on
// the current expiration only when the plan does not change.
func applyEntitlement(u *model.User, c *model.RedemptionCode, plan *model.Plan, now time.Time) {
	base := now
	if u.PlanID == plan.ID {
		base = u.PlanExpirationDate
	}
	u.PlanID = plan.ID
	u.PlanExpirationDate = base.AddDate(0, 0, c.Days)
	u.PlanSettings = plan.Settings.Clone()
	u.PlanExpiryReminder = false
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrCodesDisabled):
		return "disabled"
	case errors.Is(err, domain.ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, domain.ErrInvalidPlan):
		return "invalid_plan"
	case errors.Is(err, domain.ErrAlreadyRedeemed):
		return "already_used"
	case errors.Is(err, domain.ErrSubscriptionCancellation):
		return "cancellation_failed"
	default:
		return "error"
	}
}
