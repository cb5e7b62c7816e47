package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-swagdesk/pkg/types"
)

// RequestSubmitInput captures a public swag request submission.
type RequestSubmitInput struct {
	RequesterName string
	Email         string
	AddressLine1  string
	AddressLine2  string
	City          string
	Country       string
	PostalCode    string
	Item          string
	Size          string
	Result        *RequestSubmitResult
}

// Type implements gocommand.Message.
func (RequestSubmitInput) Type() string {
	return "command.request.submit"
}

// Validate implements gocommand.Message.
func (input RequestSubmitInput) Validate() error {
	required := []string{
		input.RequesterName,
		input.Email,
		input.AddressLine1,
		input.City,
		input.Country,
		input.PostalCode,
		input.Item,
	}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return types.ErrMissingFields
		}
	}
	return nil
}

// RequestSubmitResult exposes the stored request.
type RequestSubmitResult struct {
	Request *types.SwagRequest
}

// RequestSubmitConfig holds dependencies for intake.
type RequestSubmitConfig struct {
	Requests types.SwagRequestRepository
	Gate     featuregate.FeatureGate
	Clock    types.Clock
	Activity types.ActivitySink
	Hooks    types.Hooks
}

// RequestSubmitCommand stores publicly submitted swag requests.
type RequestSubmitCommand struct {
	requests types.SwagRequestRepository
	gate     featuregate.FeatureGate
	clock    types.Clock
	sink     types.ActivitySink
	hooks    types.Hooks
}

// NewRequestSubmitCommand constructs the intake handler.
func NewRequestSubmitCommand(cfg RequestSubmitConfig) (*RequestSubmitCommand, error) {
	if cfg.Requests == nil {
		return nil, types.ErrMissingRequestRepository
	}
	return &RequestSubmitCommand{
		requests: cfg.Requests,
		gate:     cfg.Gate,
		clock:    safeClock(cfg.Clock),
		sink:     safeActivitySink(cfg.Activity),
		hooks:    safeHooks(cfg.Hooks),
	}, nil
}

var _ gocommand.Commander[RequestSubmitInput] = (*RequestSubmitCommand)(nil)

// Execute validates fields, consults the intake gate, and persists a pending
// request.
func (c *RequestSubmitCommand) Execute(ctx context.Context, input RequestSubmitInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	email := normalizeEmail(input.Email)
	if !validEmail(email) {
		return types.ErrInvalidEmail
	}

	enabled, err := FeatureEnabled(ctx, c.gate, FeatureRequestsIntake, email)
	if err != nil {
		return err
	}
	if !enabled {
		return ErrIntakeDisabled
	}

	submittedAt := now(c.clock)
	created, err := c.requests.CreateRequest(ctx, types.SwagRequest{
		RequesterName: strings.TrimSpace(input.RequesterName),
		Email:         email,
		AddressLine1:  strings.TrimSpace(input.AddressLine1),
		AddressLine2:  strings.TrimSpace(input.AddressLine2),
		City:          strings.TrimSpace(input.City),
		Country:       strings.ToUpper(strings.TrimSpace(input.Country)),
		PostalCode:    strings.TrimSpace(input.PostalCode),
		Item:          strings.TrimSpace(input.Item),
		Size:          strings.TrimSpace(input.Size),
		Status:        types.RequestStatusPending,
		CreatedAt:     submittedAt,
	})
	if err != nil {
		return types.WrapStoreError(err)
	}

	event := types.RequestEvent{
		RequestID:  created.ID,
		Email:      email,
		Status:     types.RequestStatusPending,
		OccurredAt: submittedAt,
	}
	record := types.ActivityRecord{
		Verb:       "request.submitted",
		ObjectType: "swag_request",
		ObjectID:   created.ID.String(),
		Channel:    "intake",
		Email:      email,
		Data: map[string]any{
			"item": created.Item,
		},
		OccurredAt: submittedAt,
	}
	logActivity(ctx, c.sink, record)
	emitActivityHook(ctx, c.hooks, record)
	emitRequestHook(ctx, c.hooks, event)

	if input.Result != nil {
		input.Result.Request = created
	}
	return nil
}
