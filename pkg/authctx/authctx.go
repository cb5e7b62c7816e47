// Package authctx moves the admin session token through request contexts.
// Transports store the raw bearer token before invoking guarded services;
// the guard swaps it for the validated session so downstream code can read
// the admin identity without re-querying the store.
package authctx

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-swagdesk/pkg/types"
)

const (
	textCodeTokenMissing   = "SESSION_TOKEN_MISSING"
	textCodeSessionMissing = "SESSION_MISSING"
)

type contextKey int

const (
	sessionTokenKey contextKey = iota
	sessionKey
)

// WithSessionToken stores the raw bearer token on the context.
func WithSessionToken(ctx context.Context, token string) context.Context {
	token = strings.TrimSpace(token)
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionTokenKey, token)
}

// SessionToken returns the raw bearer token stored by the transport.
func SessionToken(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	token, ok := ctx.Value(sessionTokenKey).(string)
	return token, ok && token != ""
}

// ResolveSessionToken returns the bearer token or an unauthorized error when
// the transport never stored one.
func ResolveSessionToken(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", errors.New("go-swagdesk: missing request context", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeTokenMissing)
	}
	if token, ok := SessionToken(ctx); ok {
		return token, nil
	}
	return "", errors.New("go-swagdesk: session token not found on request", errors.CategoryAuth).
		WithCode(errors.CodeUnauthorized).
		WithTextCode(textCodeTokenMissing)
}

// WithSession stores the validated session after guard evaluation.
func WithSession(ctx context.Context, session *types.LoginSession) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext returns the validated session stored by the guard.
func SessionFromContext(ctx context.Context) (*types.LoginSession, bool) {
	if ctx == nil {
		return nil, false
	}
	session, ok := ctx.Value(sessionKey).(*types.LoginSession)
	return session, ok && session != nil
}

// ResolveSession returns the validated session or an unauthorized error when
// no guard ran for this request.
func ResolveSession(ctx context.Context) (*types.LoginSession, error) {
	if session, ok := SessionFromContext(ctx); ok {
		return session, nil
	}
	return nil, errors.New("go-swagdesk: validated session not found on request", errors.CategoryAuth).
		WithCode(errors.CodeUnauthorized).
		WithTextCode(textCodeSessionMissing)
}

// AdminEmail returns the email of the validated session, empty when absent.
// Activity records use it to attribute admin actions.
func AdminEmail(ctx context.Context) string {
	if session, ok := SessionFromContext(ctx); ok {
		return session.Email
	}
	return ""
}
