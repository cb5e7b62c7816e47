package command

import (
	"errors"

	"github.com/goliatone/go-swagdesk/pkg/types"
)

var (
	// ErrEmailRequired indicates the command lacks an email address.
	ErrEmailRequired = errors.New("go-swagdesk: email required")
	// ErrCodeRequired indicates the verification command lacks a code.
	ErrCodeRequired = errors.New("go-swagdesk: code required")
	// ErrRequestIDRequired indicates a request command omits the request id.
	ErrRequestIDRequired = errors.New("go-swagdesk: request id required")
	// ErrIntakeDisabled indicates request submission is disabled via feature gate.
	ErrIntakeDisabled = errors.New("go-swagdesk: request intake disabled")
	// ErrInvalidEmail re-exports the shared syntax failure.
	ErrInvalidEmail = types.ErrInvalidEmail
	// ErrDomainNotAllowed re-exports the shared domain restriction failure.
	ErrDomainNotAllowed = types.ErrDomainNotAllowed
	// ErrInvalidOrExpiredCode re-exports the merged verification failure.
	ErrInvalidOrExpiredCode = types.ErrInvalidOrExpiredCode
	// ErrRequestNotFound re-exports the shared lookup failure.
	ErrRequestNotFound = types.ErrRequestNotFound
	// ErrRequestAlreadyApproved re-exports the shared approval conflict.
	ErrRequestAlreadyApproved = types.ErrRequestAlreadyApproved
)
