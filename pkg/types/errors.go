package types

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidEmail indicates the address failed syntax validation.
	ErrInvalidEmail = errors.New("go-swagdesk: invalid email address")
	// ErrDomainNotAllowed indicates the address is outside the admin domain.
	ErrDomainNotAllowed = errors.New("go-swagdesk: email domain not allowed")
	// ErrMissingFields indicates a required field was blank.
	ErrMissingFields = errors.New("go-swagdesk: missing required fields")
	// ErrInvalidCodeFormat indicates the code is not six decimal digits.
	ErrInvalidCodeFormat = errors.New("go-swagdesk: code must be six digits")
	// ErrInvalidOrExpiredCode merges wrong, expired, and already-consumed
	// codes into one externally visible failure so callers cannot probe
	// which of the three happened.
	ErrInvalidOrExpiredCode = errors.New("go-swagdesk: invalid or expired code")
	// ErrRateLimited is the sentinel matched by errors.Is against
	// RateLimitError values.
	ErrRateLimited = errors.New("go-swagdesk: rate limited")
	// ErrStoreUnavailable wraps storage failures crossing the module boundary.
	ErrStoreUnavailable = errors.New("go-swagdesk: session store unavailable")

	// ErrRequestNotFound indicates the swag request does not exist.
	ErrRequestNotFound = errors.New("go-swagdesk: request not found")
	// ErrRequestAlreadyApproved indicates the request was approved earlier.
	ErrRequestAlreadyApproved = errors.New("go-swagdesk: request already approved")

	// ErrMissingSessionRepository occurs when session persistence is unavailable.
	ErrMissingSessionRepository = errors.New("go-swagdesk: missing session repository")
	// ErrMissingRequestRepository occurs when request persistence is unavailable.
	ErrMissingRequestRepository = errors.New("go-swagdesk: missing request repository")
	// ErrMissingMailer occurs when no mailer was supplied.
	ErrMissingMailer = errors.New("go-swagdesk: missing mailer")
	// ErrMissingActivityRepository occurs when the audit read side is unavailable.
	ErrMissingActivityRepository = errors.New("go-swagdesk: missing activity repository")
	// ErrMissingRateLimiter occurs when no rate limiter was supplied.
	ErrMissingRateLimiter = errors.New("go-swagdesk: missing rate limiter")
	// ErrMissingAdminDomain occurs when the admin domain is not configured.
	ErrMissingAdminDomain = errors.New("go-swagdesk: missing admin domain")
	// ErrServiceNotReady indicates the service has not been fully configured.
	ErrServiceNotReady = errors.New("go-swagdesk: service not ready")
)

// RateLimitError reports that a window limit was hit and carries the
// retry-after hint callers surface to clients.
type RateLimitError struct {
	Scope      string
	RetryAfter time.Duration
}

// Error implements error.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("go-swagdesk: %s rate limited, retry after %s", e.Scope, e.RetryAfter)
}

// Is lets errors.Is(err, ErrRateLimited) match RateLimitError values.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// WrapStoreError tags an underlying storage failure with ErrStoreUnavailable
// so callers can branch on the kind without losing the cause.
func WrapStoreError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
