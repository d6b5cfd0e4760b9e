package services

import "errors"

// Typed failures returned by the service layer. Routes map these onto the
// stable error kinds in utils; anything else surfaces as internal.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
