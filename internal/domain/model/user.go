package model

import (
	"strings"
	"time"

	"biolink-saas/internal/domain"

	"github.com/google/uuid"
)

// User is an account holder. Plan fields hold the user's single active
// entitlement; PlanSettings is a snapshot of the plan settings taken when the
// entitlement was granted, so later catalog edits do not leak into it.
type User struct {
	ID                    string
	Email                 string
	Name                  string
	Language              string
	PlanID                string
	PlanExpirationDate    time.Time
	PlanSettings          PlanSettings
	PlanExpiryReminder    bool
	PaymentProcessor      string // "" when the user never had a recurring subscription
	PaymentSubscriptionID string
	CreatedAt             time.Time
}

func NewUser(id, email, name string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:                 id,
		Email:              email,
		Name:               strings.TrimSpace(name),
		Language:           "en",
		PlanID:             PlanFree,
		PlanExpirationDate: now,
		PlanSettings:       DefaultPlanSettings(),
		CreatedAt:          now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }

// HasRecurringSubscription reports whether a payment provider still bills the user.
func (u *User) HasRecurringSubscription() bool {
	return u.PaymentSubscriptionID != ""
}

// UserCacheTag is the tag every cache entry derived from this user is stored under.
func UserCacheTag(userID string) string { return "user_id=" + userID }
