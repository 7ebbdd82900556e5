package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid database execution context")

	// Redemption workflow
	ErrCodesDisabled            = errors.New("code redemption is disabled")
	ErrInvalidCode              = errors.New("code invalid")
	ErrAlreadyRedeemed          = errors.New("code already used")
	ErrInvalidPlan              = errors.New("plan invalid")
	ErrSubscriptionCancellation = errors.New("subscription cancellation failed")
	ErrUnknownPaymentProcessor  = errors.New("unknown payment processor")
)
