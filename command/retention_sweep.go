package command

import (
	"context"
	"time"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-swagdesk/pkg/types"
)

// DefaultRetention is how long rows live before a sweep may remove them.
const DefaultRetention = 30 * 24 * time.Hour

// MinRetention keeps sweeps from eating rows the rate limiter still counts.
const MinRetention = time.Hour

// RetentionSweepInput triggers a retention pass over sessions and requests.
type RetentionSweepInput struct {
	Result *RetentionSweepResult
}

// Type implements gocommand.Message.
func (RetentionSweepInput) Type() string {
	return "command.retention.sweep"
}

// Validate implements gocommand.Message.
func (RetentionSweepInput) Validate() error {
	return nil
}

// RetentionSweepResult reports how many rows each sweep removed.
type RetentionSweepResult struct {
	SessionsRemoved int
	RequestsRemoved int
}

// RetentionSweepConfig holds dependencies for the sweep.
type RetentionSweepConfig struct {
	Sessions  types.SessionRepository
	Requests  types.SwagRequestRepository
	Clock     types.Clock
	Logger    types.Logger
	Activity  types.ActivitySink
	Retention time.Duration
}

// RetentionSweepCommand removes aged rows. The core never runs this on a
// timer; hosts schedule it externally.
type RetentionSweepCommand struct {
	sessions  types.SessionRepository
	requests  types.SwagRequestRepository
	clock     types.Clock
	logger    types.Logger
	sink      types.ActivitySink
	retention time.Duration
}

// NewRetentionSweepCommand constructs the sweep handler.
func NewRetentionSweepCommand(cfg RetentionSweepConfig) (*RetentionSweepCommand, error) {
	if cfg.Sessions == nil {
		return nil, types.ErrMissingSessionRepository
	}
	retention := cfg.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	if retention < MinRetention {
		retention = MinRetention
	}
	return &RetentionSweepCommand{
		sessions:  cfg.Sessions,
		requests:  cfg.Requests,
		clock:     safeClock(cfg.Clock),
		logger:    safeLogger(cfg.Logger),
		sink:      safeActivitySink(cfg.Activity),
		retention: retention,
	}, nil
}

var _ gocommand.Commander[RetentionSweepInput] = (*RetentionSweepCommand)(nil)

// Execute deletes lapsed session rows and aged requests in one pass.
func (c *RetentionSweepCommand) Execute(ctx context.Context, input RetentionSweepInput) error {
	sweptAt := now(c.clock)
	cutoff := sweptAt.Add(-c.retention)

	sessionsRemoved, err := c.sessions.DeleteExpired(ctx, cutoff)
	if err != nil {
		return types.WrapStoreError(err)
	}

	requestsRemoved := 0
	if c.requests != nil {
		requestsRemoved, err = c.requests.DeleteRequestsBefore(ctx, cutoff)
		if err != nil {
			return types.WrapStoreError(err)
		}
	}

	if sessionsRemoved > 0 || requestsRemoved > 0 {
		c.logger.Info("retention sweep completed",
			"sessions_removed", sessionsRemoved,
			"requests_removed", requestsRemoved)
		logActivity(ctx, c.sink, types.ActivityRecord{
			Verb:       "retention.swept",
			ObjectType: "retention",
			Channel:    "maintenance",
			Data: map[string]any{
				"sessions_removed": sessionsRemoved,
				"requests_removed": requestsRemoved,
			},
			OccurredAt: sweptAt,
		})
	}

	if input.Result != nil {
		input.Result.SessionsRemoved = sessionsRemoved
		input.Result.RequestsRemoved = requestsRemoved
	}
	return nil
}
