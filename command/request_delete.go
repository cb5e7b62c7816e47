package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-swagdesk/pkg/types"
	"github.com/google/uuid"
)

// RequestDeleteInput removes a swag request.
type RequestDeleteInput struct {
	RequestID uuid.UUID
}

// Type implements gocommand.Message.
func (RequestDeleteInput) Type() string {
	return "command.request.delete"
}

// Validate implements gocommand.Message.
func (input RequestDeleteInput) Validate() error {
	if input.RequestID == uuid.Nil {
		return ErrRequestIDRequired
	}
	return nil
}

// RequestDeleteConfig holds dependencies for deletion.
type RequestDeleteConfig struct {
	Requests types.SwagRequestRepository
	Clock    types.Clock
	Activity types.ActivitySink
	Hooks    types.Hooks
}

// RequestDeleteCommand removes requests an administrator declined.
type RequestDeleteCommand struct {
	requests types.SwagRequestRepository
	clock    types.Clock
	sink     types.ActivitySink
	hooks    types.Hooks
}

// NewRequestDeleteCommand constructs the deletion handler.
func NewRequestDeleteCommand(cfg RequestDeleteConfig) (*RequestDeleteCommand, error) {
	if cfg.Requests == nil {
		return nil, types.ErrMissingRequestRepository
	}
	return &RequestDeleteCommand{
		requests: cfg.Requests,
		clock:    safeClock(cfg.Clock),
		sink:     safeActivitySink(cfg.Activity),
		hooks:    safeHooks(cfg.Hooks),
	}, nil
}

var _ gocommand.Commander[RequestDeleteInput] = (*RequestDeleteCommand)(nil)

// Execute deletes the request, reporting a missing row as not found.
func (c *RequestDeleteCommand) Execute(ctx context.Context, input RequestDeleteInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	request, err := c.requests.GetRequestByID(ctx, input.RequestID)
	if err != nil {
		return types.WrapStoreError(err)
	}
	if request == nil {
		return types.ErrRequestNotFound
	}

	if err := c.requests.DeleteRequest(ctx, input.RequestID); err != nil {
		if repository.IsSQLExpectedCountViolation(err) {
			return types.ErrRequestNotFound
		}
		return types.WrapStoreError(err)
	}

	deletedAt := now(c.clock)
	event := types.RequestEvent{
		RequestID:  request.ID,
		Email:      request.Email,
		Status:     request.Status,
		OccurredAt: deletedAt,
	}
	record := types.ActivityRecord{
		Verb:       "request.deleted",
		ObjectType: "swag_request",
		ObjectID:   request.ID.String(),
		Channel:    "review",
		Email:      request.Email,
		OccurredAt: deletedAt,
	}
	logActivity(ctx, c.sink, record)
	emitActivityHook(ctx, c.hooks, record)
	emitRequestHook(ctx, c.hooks, event)
	return nil
}
