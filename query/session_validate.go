// Package query exposes go-command compatible read-side handlers: session
// validation, request listings, exports, and the activity feed.
package query

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-swagdesk/pkg/types"
)

// SessionValidateInput checks whether a session token is live.
type SessionValidateInput struct {
	Token string
}

// Type implements gocommand.Message.
func (SessionValidateInput) Type() string {
	return "query.auth.session.validate"
}

// Validate implements gocommand.Message. A blank token is a valid question
// with a false answer, not an error.
func (SessionValidateInput) Validate() error {
	return nil
}

// SessionValidateQuery answers token validity checks.
type SessionValidateQuery struct {
	sessions types.SessionRepository
	clock    types.Clock
}

// SessionValidateConfig holds dependencies for validation.
type SessionValidateConfig struct {
	Sessions types.SessionRepository
	Clock    types.Clock
}

// NewSessionValidateQuery constructs the validator.
func NewSessionValidateQuery(cfg SessionValidateConfig) (*SessionValidateQuery, error) {
	if cfg.Sessions == nil {
		return nil, types.ErrMissingSessionRepository
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	return &SessionValidateQuery{sessions: cfg.Sessions, clock: clock}, nil
}

var _ gocommand.Querier[SessionValidateInput, bool] = (*SessionValidateQuery)(nil)

// Query reports whether the token names an unexpired session. Expiry is
// absolute: set when the session was minted, never extended by use. An empty
// token short-circuits to false without touching the store.
func (q *SessionValidateQuery) Query(ctx context.Context, input SessionValidateInput) (bool, error) {
	token := strings.TrimSpace(input.Token)
	if token == "" {
		return false, nil
	}
	session, err := q.sessions.GetByToken(ctx, token)
	if err != nil {
		return false, types.WrapStoreError(err)
	}
	if session == nil {
		return false, nil
	}
	return session.SessionExpiresAt.After(q.clock.Now()), nil
}
