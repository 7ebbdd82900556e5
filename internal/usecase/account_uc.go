package usecase

import (
	"context"
	"errors"
	"time"

	"biolink-saas/internal/domain"
	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/repository"
)

// AccountPlan is the account page view of a user's entitlement.
type AccountPlan struct {
	UserID                   string             `json:"user_id"`
	PlanID                   string             `json:"plan_id"`
	PlanName                 string             `json:"plan_name"`
	ExpiresAt                time.Time          `json:"plan_expiration_date"`
	Settings                 model.PlanSettings `json:"plan_settings"`
	HasRecurringSubscription bool               `json:"has_recurring_subscription"`
	PaymentProcessor         string             `json:"payment_processor,omitempty"`
}

type AccountUseCase interface {
	AccountPlan(ctx context.Context, userID string) (*AccountPlan, error)
}

var _ AccountUseCase = (*accountUC)(nil)

type accountUC struct {
	users repository.UserRepository
	plans PlanUseCase
}

func NewAccountUseCase(users repository.UserRepository, plans PlanUseCase) AccountUseCase {
	return &accountUC{users: users, plans: plans}
}

func (a *accountUC) AccountPlan(ctx context.Context, userID string) (*AccountPlan, error) {
	u, err := a.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	view := &AccountPlan{
		UserID:                   u.ID,
		PlanID:                   u.PlanID,
		PlanName:                 u.PlanID,
		ExpiresAt:                u.PlanExpirationDate,
		Settings:                 u.PlanSettings,
		HasRecurringSubscription: u.HasRecurringSubscription(),
		PaymentProcessor:         u.PaymentProcessor,
	}
	// free and custom plans are not in the catalog
	p, err := a.plans.GetPlanByID(ctx, u.PlanID)
	switch {
	case err == nil:
		view.PlanName = p.Name
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return view, nil
}
