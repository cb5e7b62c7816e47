// Package service wires the repositories, rate limiter, and command/query
// handlers into a single facade hosts embed in their applications.
package service

import (
	"context"
	"strings"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-swagdesk/command"
	"github.com/goliatone/go-swagdesk/pkg/types"
	"github.com/goliatone/go-swagdesk/query"
	"github.com/goliatone/go-swagdesk/ratelimit"
	"github.com/goliatone/go-swagdesk/settings"
)

// Service is the entry point for go-swagdesk. It owns the configured
// settings, the rate limiter, and the command/query facades.
type Service struct {
	cfg          Config
	settings     settings.Settings
	limiter      *ratelimit.Limiter
	activityRepo types.ActivityRepository
	commands     Commands
	queries      Queries
}

// Commands exposes the service command handlers.
type Commands struct {
	IssueOTP       *command.OTPIssueCommand
	VerifyOTP      *command.OTPVerifyCommand
	EndSession     *command.SessionLogoutCommand
	SubmitRequest  *command.RequestSubmitCommand
	ApproveRequest *command.RequestApproveCommand
	DeleteRequest  *command.RequestDeleteCommand
	RetentionSweep *command.RetentionSweepCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	ValidateSession *query.SessionValidateQuery
	RequestList     *query.RequestListQuery
	RequestExport   *query.RequestExportQuery
	ActivityFeed    *query.ActivityFeedQuery
}

// Config captures all dependencies so callers can provide their own
// instances (bun repositories, cached wrappers, hooks, etc.).
type Config struct {
	Sessions types.SessionRepository
	Requests types.SwagRequestRepository
	// Activity receives audit records from every workflow. Optional; when it
	// also implements types.ActivityRepository the feed query reads from it.
	Activity types.ActivitySink
	// ActivityLog overrides the read side of the audit trail.
	ActivityLog types.ActivityRepository
	Mailer      types.Mailer
	SecureLinks types.SecureLinkManager
	// StatusRoute names the securelink route embedded in approval emails.
	StatusRoute string
	Gate        featuregate.FeatureGate
	Hooks       types.Hooks
	Clock       types.Clock
	Logger      types.Logger
	// Codes and Tokens override the crypto/rand generators, mainly in tests.
	Codes  types.CodeGenerator
	Tokens types.TokenGenerator
	// AdminDomain is required unless settings overrides carry it.
	AdminDomain string
	// Overrides merges over the built-in defaults, see the settings package
	// for the key set.
	Overrides map[string]any
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) (*Service, error) {
	cfg = normalizeConfig(cfg)
	if cfg.Sessions == nil {
		return nil, types.ErrMissingSessionRepository
	}
	if cfg.Requests == nil {
		return nil, types.ErrMissingRequestRepository
	}

	resolved, err := settings.Resolve(cfg.Overrides)
	if err != nil {
		return nil, err
	}
	if resolved.AdminDomain == "" {
		resolved.AdminDomain = strings.ToLower(strings.TrimSpace(cfg.AdminDomain))
	}
	if resolved.AdminDomain == "" {
		return nil, types.ErrMissingAdminDomain
	}

	limiter, err := ratelimit.New(ratelimit.Config{
		Counters:           cfg.Sessions,
		Clock:              cfg.Clock,
		IssuanceLimit:      resolved.IssuanceLimit,
		IssuanceWindow:     resolved.IssuanceWindow,
		VerificationLimit:  resolved.VerificationLimit,
		VerificationWindow: resolved.VerificationWindow,
		RetryAfter:         resolved.RetryAfter,
	})
	if err != nil {
		return nil, err
	}

	activityRepo := cfg.ActivityLog
	if activityRepo == nil {
		if repo, ok := cfg.Activity.(types.ActivityRepository); ok {
			activityRepo = repo
		}
	}

	s := &Service{
		cfg:          cfg,
		settings:     resolved,
		limiter:      limiter,
		activityRepo: activityRepo,
	}
	if s.commands, err = s.buildCommands(); err != nil {
		return nil, err
	}
	if s.queries, err = s.buildQueries(); err != nil {
		return nil, err
	}
	return s, nil
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Settings returns the resolved runtime configuration.
func (s *Service) Settings() settings.Settings {
	return s.settings
}

// Limiter exposes the rate limiter so transports can share its budgets.
func (s *Service) Limiter() *ratelimit.Limiter {
	if s == nil {
		return nil
	}
	return s.limiter
}

// ActivitySink returns the configured sink so transports can emit activity
// records for auxiliary workflows (e.g. CRUD controllers).
func (s *Service) ActivitySink() types.ActivitySink {
	if s == nil {
		return nil
	}
	return s.cfg.Activity
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil &&
		s.cfg.Sessions != nil &&
		s.cfg.Requests != nil &&
		s.limiter != nil &&
		s.commands.IssueOTP != nil &&
		s.queries.ValidateSession != nil
}

// HealthCheck surfaces missing configuration to upstream transports. The
// audit feed query is optional and deliberately not part of readiness.
func (s *Service) HealthCheck(context.Context) error {
	if !s.Ready() {
		return types.ErrServiceNotReady
	}
	if s.cfg.Sessions == nil {
		return types.ErrMissingSessionRepository
	}
	if s.cfg.Requests == nil {
		return types.ErrMissingRequestRepository
	}
	if s.limiter == nil {
		return types.ErrMissingRateLimiter
	}
	return nil
}

func (s *Service) buildCommands() (Commands, error) {
	issue, err := command.NewOTPIssueCommand(command.OTPIssueConfig{
		Sessions:    s.cfg.Sessions,
		Limiter:     s.limiter,
		Mailer:      s.cfg.Mailer,
		Codes:       s.cfg.Codes,
		Clock:       s.cfg.Clock,
		Logger:      s.cfg.Logger,
		Activity:    s.cfg.Activity,
		Hooks:       s.cfg.Hooks,
		AdminDomain: s.settings.AdminDomain,
		CodeTTL:     s.settings.CodeTTL,
		Subject:     s.settings.IssueSubject,
	})
	if err != nil {
		return Commands{}, err
	}
	verify, err := command.NewOTPVerifyCommand(command.OTPVerifyConfig{
		Sessions:   s.cfg.Sessions,
		Limiter:    s.limiter,
		Tokens:     s.cfg.Tokens,
		Clock:      s.cfg.Clock,
		Logger:     s.cfg.Logger,
		Activity:   s.cfg.Activity,
		Hooks:      s.cfg.Hooks,
		SessionTTL: s.settings.SessionTTL,
	})
	if err != nil {
		return Commands{}, err
	}
	logout, err := command.NewSessionLogoutCommand(command.SessionLogoutConfig{
		Sessions: s.cfg.Sessions,
		Clock:    s.cfg.Clock,
		Activity: s.cfg.Activity,
		Hooks:    s.cfg.Hooks,
	})
	if err != nil {
		return Commands{}, err
	}
	submit, err := command.NewRequestSubmitCommand(command.RequestSubmitConfig{
		Requests: s.cfg.Requests,
		Gate:     s.cfg.Gate,
		Clock:    s.cfg.Clock,
		Activity: s.cfg.Activity,
		Hooks:    s.cfg.Hooks,
	})
	if err != nil {
		return Commands{}, err
	}
	approve, err := command.NewRequestApproveCommand(command.RequestApproveConfig{
		Requests:    s.cfg.Requests,
		Mailer:      s.cfg.Mailer,
		SecureLinks: s.cfg.SecureLinks,
		StatusRoute: s.cfg.StatusRoute,
		Clock:       s.cfg.Clock,
		Logger:      s.cfg.Logger,
		Activity:    s.cfg.Activity,
		Hooks:       s.cfg.Hooks,
		Subject:     s.settings.ApproveSubject,
	})
	if err != nil {
		return Commands{}, err
	}
	del, err := command.NewRequestDeleteCommand(command.RequestDeleteConfig{
		Requests: s.cfg.Requests,
		Clock:    s.cfg.Clock,
		Activity: s.cfg.Activity,
		Hooks:    s.cfg.Hooks,
	})
	if err != nil {
		return Commands{}, err
	}
	sweep, err := command.NewRetentionSweepCommand(command.RetentionSweepConfig{
		Sessions:  s.cfg.Sessions,
		Requests:  s.cfg.Requests,
		Clock:     s.cfg.Clock,
		Logger:    s.cfg.Logger,
		Activity:  s.cfg.Activity,
		Retention: s.settings.Retention,
	})
	if err != nil {
		return Commands{}, err
	}

	return Commands{
		IssueOTP:       issue,
		VerifyOTP:      verify,
		EndSession:     logout,
		SubmitRequest:  submit,
		ApproveRequest: approve,
		DeleteRequest:  del,
		RetentionSweep: sweep,
	}, nil
}

func (s *Service) buildQueries() (Queries, error) {
	validate, err := query.NewSessionValidateQuery(query.SessionValidateConfig{
		Sessions: s.cfg.Sessions,
		Clock:    s.cfg.Clock,
	})
	if err != nil {
		return Queries{}, err
	}
	list, err := query.NewRequestListQuery(s.cfg.Requests)
	if err != nil {
		return Queries{}, err
	}
	export, err := query.NewRequestExportQuery(query.RequestExportConfig{
		Requests: s.cfg.Requests,
		Gate:     s.cfg.Gate,
	})
	if err != nil {
		return Queries{}, err
	}

	queries := Queries{
		ValidateSession: validate,
		RequestList:     list,
		RequestExport:   export,
	}
	if s.activityRepo != nil {
		feed, err := query.NewActivityFeedQuery(s.activityRepo)
		if err != nil {
			return Queries{}, err
		}
		queries.ActivityFeed = feed
	}
	return queries, nil
}
