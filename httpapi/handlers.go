// Package httpapi exposes the auth and intake workflows as go-router
// handlers. Hosts mount them on whatever routes they like; the handlers only
// translate form input to commands and command errors to HTTP statuses.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-swagdesk/command"
	"github.com/goliatone/go-swagdesk/pkg/types"
	"github.com/goliatone/go-swagdesk/query"
	"github.com/google/uuid"
)

// SessionCookieName carries the session token back to browser clients.
const SessionCookieName = "swagdesk_session"

// Config wires the command/query layer into HTTP handlers.
type Config struct {
	IssueOTP  gocommand.Commander[command.OTPIssueInput]
	VerifyOTP gocommand.Commander[command.OTPVerifyInput]
	Logout    gocommand.Commander[command.SessionLogoutInput]
	Validate  gocommand.Querier[query.SessionValidateInput, bool]
	Submit    gocommand.Commander[command.RequestSubmitInput]
	Approve   gocommand.Commander[command.RequestApproveInput]
	List      gocommand.Querier[types.RequestFilter, types.RequestPage]
	Export    gocommand.Querier[query.RequestExportInput, []types.SwagRequest]
	Logger    types.Logger
	Clock     types.Clock
}

// Handlers builds go-router handler funcs for each workflow.
type Handlers struct {
	cfg    Config
	logger types.Logger
	clock  types.Clock
}

// New constructs the handler set.
func New(cfg Config) *Handlers {
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	return &Handlers{cfg: cfg, logger: logger, clock: clock}
}

// IssueCode handles POST of an admin email and triggers the login code mail.
func (h *Handlers) IssueCode() router.HandlerFunc {
	return func(c router.Context) error {
		result := command.OTPIssueResult{}
		err := h.cfg.IssueOTP.Execute(c.Context(), command.OTPIssueInput{
			Email:  c.FormValue("email"),
			Result: &result,
		})
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(http.StatusAccepted, map[string]any{
			"status":    "code_sent",
			"remaining": result.Remaining,
		})
	}
}

// VerifyCode exchanges an emailed code for a session token. The token is
// returned in the body and mirrored into a cookie for browser clients.
func (h *Handlers) VerifyCode() router.HandlerFunc {
	return func(c router.Context) error {
		result := command.OTPVerifyResult{}
		err := h.cfg.VerifyOTP.Execute(c.Context(), command.OTPVerifyInput{
			Email:  c.FormValue("email"),
			Code:   c.FormValue("code"),
			Result: &result,
		})
		if err != nil {
			return h.fail(c, err)
		}
		c.SetHeader("Set-Cookie", sessionCookie(result.Token, sessionMaxAge(result.ExpiresAt, h.clock.Now())))
		return c.JSON(http.StatusOK, map[string]any{
			"token":      result.Token,
			"expires_at": result.ExpiresAt,
		})
	}
}

// ValidateSession reports whether the supplied token is still live.
func (h *Handlers) ValidateSession() router.HandlerFunc {
	return func(c router.Context) error {
		valid, err := h.cfg.Validate.Query(c.Context(), query.SessionValidateInput{
			Token: c.FormValue("token"),
		})
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"valid": valid})
	}
}

// EndSession revokes the supplied token. Unknown and blank tokens succeed.
func (h *Handlers) EndSession() router.HandlerFunc {
	return func(c router.Context) error {
		err := h.cfg.Logout.Execute(c.Context(), command.SessionLogoutInput{
			Token: c.FormValue("token"),
		})
		if err != nil {
			return h.fail(c, err)
		}
		c.SetHeader("Set-Cookie", sessionCookie("", 0))
		return c.NoContent(http.StatusNoContent)
	}
}

// SubmitRequest handles the public intake form.
func (h *Handlers) SubmitRequest() router.HandlerFunc {
	return func(c router.Context) error {
		result := command.RequestSubmitResult{}
		err := h.cfg.Submit.Execute(c.Context(), command.RequestSubmitInput{
			RequesterName: c.FormValue("requester_name"),
			Email:         c.FormValue("email"),
			AddressLine1:  c.FormValue("address_line1"),
			AddressLine2:  c.FormValue("address_line2"),
			City:          c.FormValue("city"),
			Country:       c.FormValue("country"),
			PostalCode:    c.FormValue("postal_code"),
			Item:          c.FormValue("item"),
			Size:          c.FormValue("size"),
			Result:        &result,
		})
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(http.StatusCreated, result.Request)
	}
}

// ApproveRequest flips the identified request and notifies the requester.
func (h *Handlers) ApproveRequest() router.HandlerFunc {
	return func(c router.Context) error {
		requestID, err := uuid.Parse(c.Param("id", ""))
		if err != nil {
			return c.Status(http.StatusBadRequest).SendString("invalid request id")
		}
		result := command.RequestApproveResult{}
		if err := h.cfg.Approve.Execute(c.Context(), command.RequestApproveInput{
			RequestID: requestID,
			Result:    &result,
		}); err != nil {
			return h.fail(c, err)
		}
		return c.JSON(http.StatusOK, result.Request)
	}
}

// ListRequests returns a page of requests for the admin panel.
func (h *Handlers) ListRequests() router.HandlerFunc {
	return func(c router.Context) error {
		filter := types.RequestFilter{
			Status: types.RequestStatus(strings.ToLower(strings.TrimSpace(c.FormValue("status")))),
			Email:  c.FormValue("email"),
		}
		if limit, err := strconv.Atoi(c.FormValue("limit")); err == nil {
			filter.Pagination.Limit = limit
		}
		if offset, err := strconv.Atoi(c.FormValue("offset")); err == nil {
			filter.Pagination.Offset = offset
		}
		page, err := h.cfg.List.Query(c.Context(), filter)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(http.StatusOK, page)
	}
}

// ExportRequestsCSV streams every matching request as a CSV attachment.
func (h *Handlers) ExportRequestsCSV() router.HandlerFunc {
	return func(c router.Context) error {
		rows, err := h.cfg.Export.Query(c.Context(), query.RequestExportInput{
			Status: types.RequestStatus(strings.ToLower(strings.TrimSpace(c.FormValue("status")))),
		})
		if err != nil {
			return h.fail(c, err)
		}
		data, err := EncodeCSV(rows)
		if err != nil {
			return h.fail(c, err)
		}
		c.SetHeader("Content-Type", "text/csv")
		c.SetHeader("Content-Disposition", `attachment; filename="swag_requests.csv"`)
		return c.Status(http.StatusOK).Send(data)
	}
}

// fail maps command errors to HTTP statuses. Rate limit hits additionally
// carry a Retry-After header.
func (h *Handlers) fail(c router.Context, err error) error {
	var rateErr *types.RateLimitError
	if errors.As(err, &rateErr) {
		c.SetHeader("Retry-After", strconv.Itoa(int(rateErr.RetryAfter.Seconds())))
	}
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", err)
		return c.JSON(status, map[string]any{"error": "internal error"})
	}
	return c.JSON(status, map[string]any{"error": err.Error()})
}

// StatusForError translates module sentinel errors to HTTP status codes.
func StatusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, types.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, types.ErrInvalidOrExpiredCode):
		return http.StatusUnauthorized
	case errors.Is(err, types.ErrDomainNotAllowed),
		errors.Is(err, command.ErrIntakeDisabled):
		return http.StatusForbidden
	case errors.Is(err, types.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrRequestAlreadyApproved):
		return http.StatusConflict
	case errors.Is(err, types.ErrInvalidEmail),
		errors.Is(err, types.ErrMissingFields),
		errors.Is(err, types.ErrInvalidCodeFormat),
		errors.Is(err, command.ErrEmailRequired),
		errors.Is(err, command.ErrCodeRequired),
		errors.Is(err, command.ErrRequestIDRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// sessionMaxAge derives the cookie lifetime from the minted expiry so a host
// that overrides the session TTL gets a matching cookie.
func sessionMaxAge(expiresAt, now time.Time) int {
	if expiresAt.IsZero() {
		return int(command.DefaultSessionTTL.Seconds())
	}
	remaining := int(expiresAt.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

func sessionCookie(token string, maxAge int) string {
	var b strings.Builder
	b.WriteString(SessionCookieName)
	b.WriteString("=")
	b.WriteString(token)
	b.WriteString("; Path=/; Max-Age=")
	b.WriteString(strconv.Itoa(maxAge))
	b.WriteString("; HttpOnly; SameSite=Lax")
	return b.String()
}
