package usecase

import "errors"

var (
	ErrUnauthorized               = errors.New("unauthorized")
	ErrInvalidPlan                = errors.New("invalid plan")
	ErrPlanMismatch               = errors.New("order does not match plan")
	ErrOrderCreationFailed        = errors.New("order creation failed")
	ErrOrderLookupFailed          = errors.New("order lookup failed")
	ErrIncompleteVerificationData = errors.New("incomplete verification data")
	ErrDuplicatePayment           = errors.New("payment already processed")
	ErrInvalidSignature           = errors.New("invalid payment signature")
	ErrProfileNotFound            = errors.New("profile not found")
	ErrConcurrencyConflict        = errors.New("concurrent update conflict")
	ErrGatewayNotConfigured       = errors.New("payment gateway not configured")
)
