package command

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-swagdesk/pkg/otp"
	"github.com/goliatone/go-swagdesk/pkg/types"
)

var defaultCodeGenerator types.CodeGenerator = otp.CodeGenerator{}

// DefaultCodeTTL bounds how long an issued code can be verified.
const DefaultCodeTTL = 10 * time.Minute

const defaultIssueSubject = "Your admin login code"

// RateLimiter is the slice of the limiter the auth commands consume.
type RateLimiter interface {
	CheckIssuance(ctx context.Context, email string) (int, error)
	CheckVerification(ctx context.Context, email string) error
}

// OTPIssueInput requests a one-time login code for an admin email.
type OTPIssueInput struct {
	Email  string
	Result *OTPIssueResult
}

// Type implements gocommand.Message.
func (OTPIssueInput) Type() string {
	return "command.auth.otp.issue"
}

// Validate implements gocommand.Message.
func (input OTPIssueInput) Validate() error {
	if strings.TrimSpace(input.Email) == "" {
		return ErrEmailRequired
	}
	return nil
}

// OTPIssueResult reports the remaining issuance budget after this issue.
type OTPIssueResult struct {
	Remaining int
}

// OTPIssueConfig holds dependencies for code issuance.
type OTPIssueConfig struct {
	Sessions    types.SessionRepository
	Limiter     RateLimiter
	Mailer      types.Mailer
	Codes       types.CodeGenerator
	Clock       types.Clock
	Logger      types.Logger
	Activity    types.ActivitySink
	Hooks       types.Hooks
	AdminDomain string
	CodeTTL     time.Duration
	Subject     string
}

// OTPIssueCommand mints, persists, and emails one-time login codes.
type OTPIssueCommand struct {
	sessions    types.SessionRepository
	limiter     RateLimiter
	mailer      types.Mailer
	codes       types.CodeGenerator
	clock       types.Clock
	logger      types.Logger
	sink        types.ActivitySink
	hooks       types.Hooks
	adminDomain string
	codeTTL     time.Duration
	subject     string
}

// NewOTPIssueCommand constructs the issuance handler.
func NewOTPIssueCommand(cfg OTPIssueConfig) (*OTPIssueCommand, error) {
	if cfg.Sessions == nil {
		return nil, types.ErrMissingSessionRepository
	}
	if cfg.Limiter == nil {
		return nil, types.ErrMissingRateLimiter
	}
	if strings.TrimSpace(cfg.AdminDomain) == "" {
		return nil, types.ErrMissingAdminDomain
	}
	codeTTL := cfg.CodeTTL
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	subject := cfg.Subject
	if subject == "" {
		subject = defaultIssueSubject
	}
	codes := cfg.Codes
	if codes == nil {
		codes = defaultCodeGenerator
	}
	return &OTPIssueCommand{
		sessions:    cfg.Sessions,
		limiter:     cfg.Limiter,
		mailer:      cfg.Mailer,
		codes:       codes,
		clock:       safeClock(cfg.Clock),
		logger:      safeLogger(cfg.Logger),
		sink:        safeActivitySink(cfg.Activity),
		hooks:       safeHooks(cfg.Hooks),
		adminDomain: strings.ToLower(strings.TrimSpace(cfg.AdminDomain)),
		codeTTL:     codeTTL,
		subject:     subject,
	}, nil
}

var _ gocommand.Commander[OTPIssueInput] = (*OTPIssueCommand)(nil)

// Execute validates the address, enforces the issuance budget, persists a new
// code, and dispatches it. Email dispatch failure is logged but never
// surfaced: the record exists, and the caller cannot distinguish a slow inbox
// from a failed send anyway.
func (c *OTPIssueCommand) Execute(ctx context.Context, input OTPIssueInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	email := normalizeEmail(input.Email)
	if !validEmail(email) {
		return types.ErrInvalidEmail
	}
	if !strings.HasSuffix(email, "@"+c.adminDomain) {
		return types.ErrDomainNotAllowed
	}

	remaining, err := c.limiter.CheckIssuance(ctx, email)
	if err != nil {
		return err
	}

	code, err := c.codes.Code()
	if err != nil {
		return err
	}

	issuedAt := now(c.clock)
	session, err := c.sessions.CreateCode(ctx, types.LoginSession{
		Email:         email,
		Code:          code,
		IssuedAt:      issuedAt,
		CodeExpiresAt: issuedAt.Add(c.codeTTL),
	})
	if err != nil {
		return types.WrapStoreError(err)
	}

	if c.mailer != nil {
		msg := types.Message{
			To:      email,
			Subject: c.subject,
			HTML:    issueEmailBody(code, c.codeTTL),
		}
		if sendErr := c.mailer.Send(ctx, msg); sendErr != nil {
			c.logger.Error("otp email dispatch failed", sendErr, "email", email)
		}
	}

	record := types.ActivityRecord{
		Verb:       "auth.otp.issued",
		ObjectType: "admin_session",
		ObjectID:   session.ID.String(),
		Channel:    "auth",
		Email:      email,
		Data: map[string]any{
			"limit_remaining": remaining,
		},
		OccurredAt: issuedAt,
	}
	logActivity(ctx, c.sink, record)
	emitActivityHook(ctx, c.hooks, record)
	emitOTPIssuedHook(ctx, c.hooks, email)

	if input.Result != nil {
		input.Result.Remaining = remaining
	}
	return nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

func issueEmailBody(code string, ttl time.Duration) string {
	minutes := int(ttl.Round(time.Minute) / time.Minute)
	return fmt.Sprintf(
		"<p>Your admin login code is:</p><h2>%s</h2><p>It expires in %d minutes.</p>",
		code, minutes,
	)
}
