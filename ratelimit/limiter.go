package ratelimit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-swagdesk/pkg/types"
)

// Defaults applied when the config leaves a knob unset.
const (
	DefaultIssuanceLimit      = 5
	DefaultIssuanceWindow     = time.Hour
	DefaultVerificationLimit  = 5
	DefaultVerificationWindow = 15 * time.Minute
	DefaultRetryAfter         = time.Hour
)

// Scope names reported on limit violations.
const (
	ScopeIssuance     = "issuance"
	ScopeVerification = "verification"
)

// CounterSource exposes the per-email counters the limiter reads. The session
// repository satisfies this directly since issued codes double as the event
// log.
type CounterSource interface {
	CountIssuedSince(ctx context.Context, email string, since time.Time) (int, error)
	CountExpiredUnconsumedSince(ctx context.Context, email string, since, now time.Time) (int, error)
}

// Config wires the limiter.
type Config struct {
	Counters           CounterSource
	Clock              types.Clock
	IssuanceLimit      int
	IssuanceWindow     time.Duration
	VerificationLimit  int
	VerificationWindow time.Duration
	RetryAfter         time.Duration
}

// Limiter enforces the per-email issuance and verification budgets. The check
// and the subsequent write are deliberately not transactional: a concurrent
// burst can land one extra code, which is acceptable for this admin surface.
type Limiter struct {
	counters           CounterSource
	clock              types.Clock
	issuanceLimit      int
	issuanceWindow     time.Duration
	verificationLimit  int
	verificationWindow time.Duration
	retryAfter         time.Duration
}

// New constructs a limiter, filling zero-valued knobs with defaults.
func New(cfg Config) (*Limiter, error) {
	if cfg.Counters == nil {
		return nil, errors.New("ratelimit: counters required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	limiter := &Limiter{
		counters:           cfg.Counters,
		clock:              clock,
		issuanceLimit:      cfg.IssuanceLimit,
		issuanceWindow:     cfg.IssuanceWindow,
		verificationLimit:  cfg.VerificationLimit,
		verificationWindow: cfg.VerificationWindow,
		retryAfter:         cfg.RetryAfter,
	}
	if limiter.issuanceLimit <= 0 {
		limiter.issuanceLimit = DefaultIssuanceLimit
	}
	if limiter.issuanceWindow <= 0 {
		limiter.issuanceWindow = DefaultIssuanceWindow
	}
	if limiter.verificationLimit <= 0 {
		limiter.verificationLimit = DefaultVerificationLimit
	}
	if limiter.verificationWindow <= 0 {
		limiter.verificationWindow = DefaultVerificationWindow
	}
	if limiter.retryAfter <= 0 {
		limiter.retryAfter = DefaultRetryAfter
	}
	return limiter, nil
}

// CheckIssuance reports how many issuance slots remain for the email after
// the next issue. A RateLimitError is returned once the window budget is
// spent.
func (l *Limiter) CheckIssuance(ctx context.Context, email string) (int, error) {
	email = normalizeEmail(email)
	now := l.clock.Now()
	count, err := l.counters.CountIssuedSince(ctx, email, now.Add(-l.issuanceWindow))
	if err != nil {
		return 0, err
	}
	if count >= l.issuanceLimit {
		return 0, &types.RateLimitError{Scope: ScopeIssuance, RetryAfter: l.retryAfter}
	}
	remaining := l.issuanceLimit - count - 1
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// CheckVerification counts expired, never-consumed codes in the window. Too
// many indicates guessing or an abandoned inbox, so verification is paused.
func (l *Limiter) CheckVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	now := l.clock.Now()
	count, err := l.counters.CountExpiredUnconsumedSince(ctx, email, now.Add(-l.verificationWindow), now)
	if err != nil {
		return err
	}
	if count >= l.verificationLimit {
		return &types.RateLimitError{Scope: ScopeVerification, RetryAfter: l.retryAfter}
	}
	return nil
}

// MaxWindow returns the widest limiter window. Retention sweeps must not
// delete rows younger than this or the counters undercount.
func (l *Limiter) MaxWindow() time.Duration {
	if l.issuanceWindow > l.verificationWindow {
		return l.issuanceWindow
	}
	return l.verificationWindow
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
