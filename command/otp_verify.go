package command

import (
	"context"
	"strings"
	"time"

	gocommand "github.com/goliatone/go-command"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-swagdesk/pkg/otp"
	"github.com/goliatone/go-swagdesk/pkg/types"
)

// DefaultSessionTTL bounds a minted admin session. Fixed at verification
// time, never extended by use.
const DefaultSessionTTL = 24 * time.Hour

var defaultTokenGenerator types.TokenGenerator = otp.TokenGenerator{}

// OTPVerifyInput exchanges an emailed code for a session token.
type OTPVerifyInput struct {
	Email  string
	Code   string
	Result *OTPVerifyResult
}

// Type implements gocommand.Message.
func (OTPVerifyInput) Type() string {
	return "command.auth.otp.verify"
}

// Validate implements gocommand.Message.
func (input OTPVerifyInput) Validate() error {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Code) == "" {
		return types.ErrMissingFields
	}
	return nil
}

// OTPVerifyResult exposes the minted session credential.
type OTPVerifyResult struct {
	Token     string
	ExpiresAt time.Time
}

// OTPVerifyConfig holds dependencies for verification.
type OTPVerifyConfig struct {
	Sessions   types.SessionRepository
	Limiter    RateLimiter
	Tokens     types.TokenGenerator
	Clock      types.Clock
	Logger     types.Logger
	Activity   types.ActivitySink
	Hooks      types.Hooks
	SessionTTL time.Duration
}

// OTPVerifyCommand validates codes and mints session tokens.
type OTPVerifyCommand struct {
	sessions   types.SessionRepository
	limiter    RateLimiter
	tokens     types.TokenGenerator
	clock      types.Clock
	logger     types.Logger
	sink       types.ActivitySink
	hooks      types.Hooks
	sessionTTL time.Duration
}

// NewOTPVerifyCommand constructs the verification handler.
func NewOTPVerifyCommand(cfg OTPVerifyConfig) (*OTPVerifyCommand, error) {
	if cfg.Sessions == nil {
		return nil, types.ErrMissingSessionRepository
	}
	if cfg.Limiter == nil {
		return nil, types.ErrMissingRateLimiter
	}
	sessionTTL := cfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = defaultTokenGenerator
	}
	return &OTPVerifyCommand{
		sessions:   cfg.Sessions,
		limiter:    cfg.Limiter,
		tokens:     tokens,
		clock:      safeClock(cfg.Clock),
		logger:     safeLogger(cfg.Logger),
		sink:       safeActivitySink(cfg.Activity),
		hooks:      safeHooks(cfg.Hooks),
		sessionTTL: sessionTTL,
	}, nil
}

var _ gocommand.Commander[OTPVerifyInput] = (*OTPVerifyCommand)(nil)

// Execute checks the code against the most recent live record and mints the
// session. Wrong, expired, and already-consumed codes all collapse into
// ErrInvalidOrExpiredCode so a caller cannot probe which it was.
func (c *OTPVerifyCommand) Execute(ctx context.Context, input OTPVerifyInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	email := normalizeEmail(input.Email)
	code := strings.TrimSpace(input.Code)
	if !validCode(code) {
		return types.ErrInvalidCodeFormat
	}

	if err := c.limiter.CheckVerification(ctx, email); err != nil {
		return err
	}

	verifiedAt := now(c.clock)
	session, err := c.sessions.FindActiveCode(ctx, email, code, verifiedAt)
	if err != nil {
		return types.WrapStoreError(err)
	}
	if session == nil {
		return types.ErrInvalidOrExpiredCode
	}

	token, err := c.tokens.Token()
	if err != nil {
		return err
	}
	expiresAt := verifiedAt.Add(c.sessionTTL)
	if err := c.sessions.ConsumeCode(ctx, session.ID, token, expiresAt, verifiedAt); err != nil {
		// a concurrent verify won the row between the read and the update
		if repository.IsSQLExpectedCountViolation(err) {
			return types.ErrInvalidOrExpiredCode
		}
		return types.WrapStoreError(err)
	}

	// best-effort: drop the other unconsumed codes for this email
	if err := c.sessions.DeletePendingCodes(ctx, email, session.ID); err != nil {
		c.logger.Error("pending code cleanup failed", err, "email", email)
	}

	event := types.SessionEvent{
		Email:      email,
		Token:      token,
		ExpiresAt:  expiresAt,
		OccurredAt: verifiedAt,
	}
	record := types.ActivityRecord{
		Verb:       "auth.session.minted",
		ObjectType: "admin_session",
		ObjectID:   session.ID.String(),
		Channel:    "auth",
		Email:      email,
		Data: map[string]any{
			"session_expires_at": expiresAt,
		},
		OccurredAt: verifiedAt,
	}
	logActivity(ctx, c.sink, record)
	emitActivityHook(ctx, c.hooks, record)
	emitSessionMintedHook(ctx, c.hooks, event)

	if input.Result != nil {
		input.Result.Token = token
		input.Result.ExpiresAt = expiresAt
	}
	return nil
}

func validCode(code string) bool {
	if len(code) != otp.CodeDigits {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
