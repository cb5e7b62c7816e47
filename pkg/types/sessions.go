package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LoginSession captures one row of the admin_sessions table. A row starts as
// a pending one-time code and, once verified, carries the session token. The
// code is cleared when the token is set and never comes back.
type LoginSession struct {
	ID               uuid.UUID
	Email            string
	Code             string
	IssuedAt         time.Time
	CodeExpiresAt    time.Time
	SessionToken     string
	SessionExpiresAt time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Verified reports whether the row carries a minted session token.
func (s LoginSession) Verified() bool {
	return s.SessionToken != ""
}

// SessionRepository persists login codes and minted sessions. The rows double
// as the rate limiter's event log, so nothing here keeps in-process state and
// expiry is always enforced by predicate, never by sweep.
type SessionRepository interface {
	// CreateCode persists a freshly issued one-time code with no session
	// fields set.
	CreateCode(ctx context.Context, session LoginSession) (*LoginSession, error)
	// FindActiveCode returns the most recently issued row matching the email
	// and exact code whose code has not expired and whose token is unset.
	// A nil result means no such row exists.
	FindActiveCode(ctx context.Context, email, code string, now time.Time) (*LoginSession, error)
	// ConsumeCode sets the session token and expiry on the identified row and
	// clears the code, guarded so an already-consumed or expired row is not
	// touched. The guard failure surfaces as an expected-count violation.
	ConsumeCode(ctx context.Context, id uuid.UUID, token string, sessionExpiresAt, now time.Time) error
	// DeletePendingCodes removes unconsumed rows for the email, keeping the
	// identified row.
	DeletePendingCodes(ctx context.Context, email string, keep uuid.UUID) error
	// GetByToken returns the row carrying the session token, nil when absent.
	GetByToken(ctx context.Context, token string) (*LoginSession, error)
	// DeleteByToken removes the row carrying the token. Deleting a token that
	// does not exist is not an error.
	DeleteByToken(ctx context.Context, token string) error
	// CountIssuedSince counts rows for the email issued at or after since.
	CountIssuedSince(ctx context.Context, email string, since time.Time) (int, error)
	// CountExpiredUnconsumedSince counts rows for the email issued at or
	// after since whose code expired without a session token ever being set.
	CountExpiredUnconsumedSince(ctx context.Context, email string, since, now time.Time) (int, error)
	// DeleteExpired removes rows whose code and session have both lapsed
	// before the cutoff. Used by the retention sweep, never by the auth core.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}
