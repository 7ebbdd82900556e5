package model

import (
	"strings"
	"time"

	"biolink-saas/internal/domain"

	"github.com/google/uuid"
)

type CodeType string

const (
	CodeTypeDiscount   CodeType = "discount"
	CodeTypeRedeemable CodeType = "redeemable"
)

// RedemptionCode grants Days of PlanID to whoever redeems it, at most
// Quantity times in total and once per user.
type RedemptionCode struct {
	ID        string
	Code      string
	Type      CodeType
	PlanID    string
	Days      int
	Discount  int // percent
	Quantity  int
	Redeemed  int
	CreatedAt time.Time
}

// NewRedeemableCode validates and constructs a redeemable code.
func NewRedeemableCode(code, planID string, days, discount, quantity int) (*RedemptionCode, error) {
	code = NormalizeCode(code)
	if code == "" || planID == "" || days <= 0 || quantity <= 0 || discount < 0 || discount > 100 {
		return nil, domain.ErrInvalidArgument
	}
	return &RedemptionCode{
		ID:        uuid.NewString(),
		Code:      code,
		Type:      CodeTypeRedeemable,
		PlanID:    planID,
		Days:      days,
		Discount:  discount,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}, nil
}

// IsRedeemable reports whether c can still be redeemed. Stores filter on the same rule.
func (c *RedemptionCode) IsRedeemable() bool {
	return c != nil && c.Type == CodeTypeRedeemable && c.Redeemed < c.Quantity
}

// NormalizeCode trims user input. Codes are matched case-sensitively.
func NormalizeCode(s string) string {
	return strings.TrimSpace(s)
}

// RedemptionRecord is the append-only log entry proving UserID redeemed CodeID.
type RedemptionRecord struct {
	ID     string
	CodeID string
	UserID string
	Date   time.Time
}
