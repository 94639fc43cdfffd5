package util

import "errors"

// Common application-specific errors. Services return these (possibly
// wrapped); the HTTP layer maps them onto status codes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input provided")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrSymbolNotFound     = errors.New("unknown stock symbol")
	ErrQuoteUnavailable   = errors.New("quote service unavailable")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrUnauthorized       = errors.New("unauthorized")
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
