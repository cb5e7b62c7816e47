package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-swagdesk/pkg/types"
)

// SessionLogoutInput revokes a session token.
type SessionLogoutInput struct {
	Token string
}

// Type implements gocommand.Message.
func (SessionLogoutInput) Type() string {
	return "command.auth.session.logout"
}

// Validate implements gocommand.Message. An empty token is fine: logout is
// unconditional and idempotent.
func (SessionLogoutInput) Validate() error {
	return nil
}

// SessionLogoutConfig holds dependencies for logout.
type SessionLogoutConfig struct {
	Sessions types.SessionRepository
	Clock    types.Clock
	Activity types.ActivitySink
	Hooks    types.Hooks
}

// SessionLogoutCommand deletes session records by token.
type SessionLogoutCommand struct {
	sessions types.SessionRepository
	clock    types.Clock
	sink     types.ActivitySink
	hooks    types.Hooks
}

// NewSessionLogoutCommand constructs the logout handler.
func NewSessionLogoutCommand(cfg SessionLogoutConfig) (*SessionLogoutCommand, error) {
	if cfg.Sessions == nil {
		return nil, types.ErrMissingSessionRepository
	}
	return &SessionLogoutCommand{
		sessions: cfg.Sessions,
		clock:    safeClock(cfg.Clock),
		sink:     safeActivitySink(cfg.Activity),
		hooks:    safeHooks(cfg.Hooks),
	}, nil
}

var _ gocommand.Commander[SessionLogoutInput] = (*SessionLogoutCommand)(nil)

// Execute deletes the record for the token. Deleting a token that does not
// exist succeeds; an empty token issues no query at all.
func (c *SessionLogoutCommand) Execute(ctx context.Context, input SessionLogoutInput) error {
	token := strings.TrimSpace(input.Token)
	if token == "" {
		return nil
	}

	session, err := c.sessions.GetByToken(ctx, token)
	if err != nil {
		return types.WrapStoreError(err)
	}
	if err := c.sessions.DeleteByToken(ctx, token); err != nil {
		return types.WrapStoreError(err)
	}
	if session == nil {
		return nil
	}

	endedAt := now(c.clock)
	event := types.SessionEvent{
		Email:      session.Email,
		Token:      token,
		ExpiresAt:  session.SessionExpiresAt,
		OccurredAt: endedAt,
	}
	record := types.ActivityRecord{
		Verb:       "auth.session.ended",
		ObjectType: "admin_session",
		ObjectID:   session.ID.String(),
		Channel:    "auth",
		Email:      session.Email,
		OccurredAt: endedAt,
	}
	logActivity(ctx, c.sink, record)
	emitActivityHook(ctx, c.hooks, record)
	emitSessionEndedHook(ctx, c.hooks, event)
	return nil
}
