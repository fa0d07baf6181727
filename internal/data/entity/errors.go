package entity

import "errors"

// Domain error taxonomy. Services wrap these with fmt.Errorf("...: %w", err)
// and handlers map them to HTTP responses with errors.Is.
var (
	// ErrValidation marks bad input; never retried.
	ErrValidation = errors.New("validation failed")

	// ErrStateConflict marks a lost concurrent transition race. The caller
	// may re-read the row and decide what to do.
	ErrStateConflict = errors.New("state conflict")

	// ErrInvalidTransition marks a status edge outside the booking state
	// machine. This is an integration bug, logged loudly.
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrSeatUnavailable    = errors.New("seat unavailable")
	ErrInsufficientPoints = errors.New("insufficient loyalty points")

	ErrPromotionNotFound  = errors.New("promotion not found")
	ErrPromotionExpired   = errors.New("promotion expired")
	ErrPromotionInactive  = errors.New("promotion inactive")
	ErrUsageLimitExceeded = errors.New("promotion usage limit exceeded")
	ErrMinPurchaseNotMet  = errors.New("promotion minimum purchase not met")

	ErrPaymentNotRefundable = errors.New("payment not refundable")
	ErrRefundExceedsPayment = errors.New("refund exceeds refundable amount")

	// ErrProvider marks a transient payment provider failure, retried with
	// backoff at the orchestrator boundary before surfacing.
	ErrProvider      = errors.New("payment provider error")
	ErrPaymentFailed = errors.New("payment failed")

	ErrNotFound = errors.New("not found")
)
