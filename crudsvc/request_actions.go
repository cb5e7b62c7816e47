package crudsvc

import (
	"net/http"

	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-swagdesk/requests"
	"github.com/google/uuid"
)

// RequestApproveAction registers POST /swag-requests/approve so admins can
// flip a pending request and trigger the notification email.
func RequestApproveAction(service *RequestService) crud.Action[*requests.Record] {
	return crud.Action[*requests.Record]{
		Name:   "approve",
		Method: http.MethodPost,
		Target: crud.ActionTargetCollection,
		Path:   "/swag-requests/approve",
		Handler: func(ctx crud.ActionContext[*requests.Record]) error {
			if service == nil {
				return goerrors.New("request service missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
			}
			var payload struct {
				RequestID string `json:"request_id"`
			}
			if err := ctx.BodyParser(&payload); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid approve payload").WithCode(goerrors.CodeBadRequest)
			}
			requestID, err := uuid.Parse(payload.RequestID)
			if err != nil {
				return goerrors.New("invalid request id", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
			}
			approved, err := service.approveRequest(ctx, requestID)
			if err != nil {
				return err
			}
			return ctx.Status(http.StatusOK).JSON(approved)
		},
	}
}

// RequestExportAction registers GET /swag-requests/export returning every
// matching request without pagination.
func RequestExportAction(service *RequestService) crud.Action[*requests.Record] {
	return crud.Action[*requests.Record]{
		Name:   "export",
		Method: http.MethodGet,
		Target: crud.ActionTargetCollection,
		Path:   "/swag-requests/export",
		Handler: func(ctx crud.ActionContext[*requests.Record]) error {
			if service == nil {
				return goerrors.New("request service missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
			}
			rows, err := service.exportRequests(ctx)
			if err != nil {
				return err
			}
			return ctx.Status(http.StatusOK).JSON(rows)
		},
	}
}
