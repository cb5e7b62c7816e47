package command

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-swagdesk/pkg/types"
	"github.com/google/uuid"
)

const defaultApproveSubject = "Your swag request was approved"

// RequestApproveInput approves a pending swag request.
type RequestApproveInput struct {
	RequestID uuid.UUID
	Result    *RequestApproveResult
}

// Type implements gocommand.Message.
func (RequestApproveInput) Type() string {
	return "command.request.approve"
}

// Validate implements gocommand.Message.
func (input RequestApproveInput) Validate() error {
	if input.RequestID == uuid.Nil {
		return ErrRequestIDRequired
	}
	return nil
}

// RequestApproveResult exposes the approved request.
type RequestApproveResult struct {
	Request *types.SwagRequest
}

// RequestApproveConfig holds dependencies for approval.
type RequestApproveConfig struct {
	Requests    types.SwagRequestRepository
	Mailer      types.Mailer
	SecureLinks types.SecureLinkManager
	StatusRoute string
	Clock       types.Clock
	Logger      types.Logger
	Activity    types.ActivitySink
	Hooks       types.Hooks
	Subject     string
}

// RequestApproveCommand flips pending requests to approved and notifies the
// requester.
type RequestApproveCommand struct {
	requests    types.SwagRequestRepository
	mailer      types.Mailer
	secureLinks types.SecureLinkManager
	statusRoute string
	clock       types.Clock
	logger      types.Logger
	sink        types.ActivitySink
	hooks       types.Hooks
	subject     string
}

// NewRequestApproveCommand constructs the approval handler.
func NewRequestApproveCommand(cfg RequestApproveConfig) (*RequestApproveCommand, error) {
	if cfg.Requests == nil {
		return nil, types.ErrMissingRequestRepository
	}
	subject := cfg.Subject
	if subject == "" {
		subject = defaultApproveSubject
	}
	return &RequestApproveCommand{
		requests:    cfg.Requests,
		mailer:      cfg.Mailer,
		secureLinks: cfg.SecureLinks,
		statusRoute: cfg.StatusRoute,
		clock:       safeClock(cfg.Clock),
		logger:      safeLogger(cfg.Logger),
		sink:        safeActivitySink(cfg.Activity),
		hooks:       safeHooks(cfg.Hooks),
		subject:     subject,
	}, nil
}

var _ gocommand.Commander[RequestApproveInput] = (*RequestApproveCommand)(nil)

// Execute approves the request. The guarded update keeps a concurrent double
// approval from landing twice; the notification email is best-effort.
func (c *RequestApproveCommand) Execute(ctx context.Context, input RequestApproveInput) error {
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
	if request.Status == types.RequestStatusApproved {
		return types.ErrRequestAlreadyApproved
	}

	approvedAt := now(c.clock)
	if err := c.requests.ApproveRequest(ctx, input.RequestID, approvedAt); err != nil {
		if repository.IsSQLExpectedCountViolation(err) {
			return types.ErrRequestAlreadyApproved
		}
		return types.WrapStoreError(err)
	}
	request.Status = types.RequestStatusApproved
	request.ApprovedAt = approvedAt

	if c.mailer != nil {
		msg := types.Message{
			To:      request.Email,
			Subject: c.subject,
			HTML:    c.approveEmailBody(request),
		}
		if sendErr := c.mailer.Send(ctx, msg); sendErr != nil {
			c.logger.Error("approval email dispatch failed", sendErr,
				"request_id", request.ID.String(), "email", request.Email)
		}
	}

	event := types.RequestEvent{
		RequestID:  request.ID,
		Email:      request.Email,
		Status:     types.RequestStatusApproved,
		OccurredAt: approvedAt,
	}
	record := types.ActivityRecord{
		Verb:       "request.approved",
		ObjectType: "swag_request",
		ObjectID:   request.ID.String(),
		Channel:    "review",
		Email:      request.Email,
		Data: map[string]any{
			"item": request.Item,
		},
		OccurredAt: approvedAt,
	}
	logActivity(ctx, c.sink, record)
	emitActivityHook(ctx, c.hooks, record)
	emitRequestHook(ctx, c.hooks, event)

	if input.Result != nil {
		input.Result.Request = request
	}
	return nil
}

func (c *RequestApproveCommand) approveEmailBody(request *types.SwagRequest) string {
	body := fmt.Sprintf(
		"<p>Good news! Your request for <strong>%s</strong> was approved and will ship to %s, %s.</p>",
		request.Item, request.City, request.Country,
	)
	if c.secureLinks != nil && c.statusRoute != "" {
		link, err := c.secureLinks.Generate(c.statusRoute, types.SecureLinkPayload{
			"request_id": request.ID.String(),
			"email":      request.Email,
		})
		if err != nil {
			c.logger.Error("status link generation failed", err,
				"request_id", request.ID.String())
		} else {
			body += fmt.Sprintf(`<p><a href="%s">Track your shipment status</a></p>`, link)
		}
	}
	return body
}
