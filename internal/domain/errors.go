package domain

import "errors"

// Errors returned by repositories. Services translate them into API errors.
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("record already exists")
	ErrSubscriptionActive = errors.New("subscription is still active")
	ErrConsumeRejected    = errors.New("subscription no longer permits this download")
	ErrOrderNotPending    = errors.New("payment order is not pending")
)
