package repository

import (
	"context"
	"time"

	"biolink-saas/internal/domain/model"
)

// CodeRepository is the port for redemption codes and their redemption log.
type CodeRepository interface {
	// Save creates a code.
	Save(ctx context.Context, tx Tx, code *model.RedemptionCode) error
	// FindRedeemable returns a code only when its type is redeemable and it
	// still has remaining quantity; otherwise domain.ErrNotFound.
	FindRedeemable(ctx context.Context, tx Tx, code string) (*model.RedemptionCode, error)
	// HasRedeemed reports whether userID already redeemed codeID.
	HasRedeemed(ctx context.Context, tx Tx, userID, codeID string) (bool, error)
	// ClaimRedemption appends the redemption record and increments the code's
	// redeemed count. It returns domain.ErrAlreadyRedeemed when a record for
	// (codeID, userID) exists and domain.ErrInvalidCode when the code is
	// exhausted. Must run inside the caller's transaction.
	ClaimRedemption(ctx context.Context, tx Tx, codeID, userID string, at time.Time) (*model.RedemptionRecord, error)
}
