// Package crudguard gates go-crud operations behind the admin session. The
// adapter pulls the bearer token the transport stored on the request context,
// checks it against the session store, and hands the validated session back
// to the calling service for attribution.
package crudguard

import (
	"context"
	"fmt"

	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-swagdesk/pkg/authctx"
	"github.com/goliatone/go-swagdesk/pkg/types"
)

const (
	textCodeSessionInvalid  = "SESSION_INVALID"
	textCodeSessionLookup   = "SESSION_LOOKUP_FAILED"
	textCodeMissingPolicy   = "ACCESS_POLICY_MISSING"
	textCodeMissingContext  = "CONTEXT_MISSING"
	textCodeMissingSessions = "SESSION_SOURCE_MISSING"
)

// SessionSource is the subset of the session repository the guard needs.
type SessionSource interface {
	GetByToken(ctx context.Context, token string) (*types.LoginSession, error)
}

// Config drives Adapter construction.
type Config struct {
	Sessions       SessionSource
	Clock          types.Clock
	Logger         types.Logger
	PolicyMap      map[crud.CrudOperation]Access
	FallbackAccess Access
}

// Adapter turns go-crud operations into session checks.
type Adapter struct {
	sessions       SessionSource
	clock          types.Clock
	logger         types.Logger
	policyMap      map[crud.CrudOperation]Access
	fallbackAccess Access
}

// GuardInput captures per-request parameters supplied by transports.
type GuardInput struct {
	Context   crud.Context
	Operation crud.CrudOperation
	Bypass    *BypassConfig
}

// GuardResult reports the validated session returned by the adapter. Session
// is nil for public operations and bypassed calls.
type GuardResult struct {
	Email        string
	Session      *types.LoginSession
	Operation    crud.CrudOperation
	Bypassed     bool
	BypassReason string
}

// BypassConfig explicitly allows guard skips for whitelisted routes (e.g.
// schema exports). It must never be enabled by default.
type BypassConfig struct {
	Enabled bool
	Reason  string
}

// NewAdapter constructs a guard adapter and validates the supplied config.
func NewAdapter(cfg Config) (*Adapter, error) {
	if cfg.Sessions == nil {
		return nil, goerrors.New("go-swagdesk: session source is required", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeMissingSessions)
	}
	if len(cfg.PolicyMap) == 0 && cfg.FallbackAccess == "" {
		return nil, goerrors.New("go-swagdesk: policy map or fallback access must be provided", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeMissingPolicy)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}

	return &Adapter{
		sessions:       cfg.Sessions,
		clock:          clock,
		logger:         logger,
		policyMap:      clonePolicyMap(cfg.PolicyMap),
		fallbackAccess: cfg.FallbackAccess,
	}, nil
}

// Enforce resolves the required access level, optionally bypasses, and
// finally validates the caller's session token against the store. The
// validated session rides back on the result so services can attribute
// activity without a second lookup.
func (a *Adapter) Enforce(in GuardInput) (GuardResult, error) {
	if in.Context == nil {
		return GuardResult{}, goerrors.New("go-swagdesk: crudguard requires a context", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeMissingContext)
	}

	if in.Bypass != nil && in.Bypass.Enabled {
		a.logger.Info("crudguard: bypassing session enforcement", "operation", string(in.Operation), "reason", in.Bypass.Reason)
		return GuardResult{
			Operation:    in.Operation,
			Bypassed:     true,
			BypassReason: in.Bypass.Reason,
		}, nil
	}

	access, err := a.accessForOperation(in.Operation)
	if err != nil {
		return GuardResult{}, err
	}
	if access == AccessPublic {
		return GuardResult{Operation: in.Operation}, nil
	}

	ctx := in.Context.UserContext()
	token, err := authctx.ResolveSessionToken(ctx)
	if err != nil {
		return GuardResult{}, err
	}

	session, err := a.sessions.GetByToken(ctx, token)
	if err != nil {
		return GuardResult{}, goerrors.Wrap(err, goerrors.CategoryInternal, "go-swagdesk: session lookup failed").
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeSessionLookup)
	}
	if session == nil || !session.SessionExpiresAt.After(a.clock.Now()) {
		return GuardResult{}, goerrors.New("go-swagdesk: session token invalid or expired", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized).
			WithTextCode(textCodeSessionInvalid)
	}

	return GuardResult{
		Email:     session.Email,
		Session:   session,
		Operation: in.Operation,
	}, nil
}

func (a *Adapter) accessForOperation(op crud.CrudOperation) (Access, error) {
	if access, ok := a.policyMap[op]; ok && access != "" {
		return access, nil
	}
	if a.fallbackAccess != "" {
		return a.fallbackAccess, nil
	}
	return "", goerrors.New(fmt.Sprintf("go-swagdesk: no access level configured for %s", op), goerrors.CategoryInternal).
		WithCode(goerrors.CodeInternal).
		WithTextCode(textCodeMissingPolicy)
}
