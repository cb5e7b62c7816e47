package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-swagdesk/command"
	"github.com/goliatone/go-swagdesk/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"nil", nil, http.StatusOK},
		{"rate limited", &types.RateLimitError{Scope: "issuance", RetryAfter: time.Hour}, http.StatusTooManyRequests},
		{"bad code", types.ErrInvalidOrExpiredCode, http.StatusUnauthorized},
		{"wrong domain", types.ErrDomainNotAllowed, http.StatusForbidden},
		{"intake disabled", command.ErrIntakeDisabled, http.StatusForbidden},
		{"not found", types.ErrRequestNotFound, http.StatusNotFound},
		{"already approved", types.ErrRequestAlreadyApproved, http.StatusConflict},
		{"bad email", types.ErrInvalidEmail, http.StatusBadRequest},
		{"missing fields", types.ErrMissingFields, http.StatusBadRequest},
		{"bad code format", types.ErrInvalidCodeFormat, http.StatusBadRequest},
		{"store down", types.WrapStoreError(errors.New("timeout")), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.status, StatusForError(tc.err))
		})
	}
}

func TestEncodeCSV(t *testing.T) {
	created := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	approved := created.Add(48 * time.Hour)
	requestID := uuid.New()

	data, err := EncodeCSV([]types.SwagRequest{
		{
			ID:            requestID,
			RequesterName: "Sam Fan",
			Email:         "fan@example.com",
			AddressLine1:  "1 Main St",
			City:          "Lisbon",
			Country:       "PT",
			PostalCode:    "1000-001",
			Item:          "tshirt",
			Size:          "M",
			Status:        types.RequestStatusApproved,
			CreatedAt:     created,
			ApprovedAt:    approved,
		},
		{
			ID:            uuid.New(),
			RequesterName: "Alex Reader",
			Email:         "reader@example.com",
			AddressLine1:  "2 Side St",
			City:          "Porto",
			Country:       "PT",
			PostalCode:    "4000-002",
			Item:          "stickers",
			Status:        types.RequestStatusPending,
			CreatedAt:     created,
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, strings.Join(csvHeader, ","), lines[0])
	require.Contains(t, lines[1], requestID.String())
	require.Contains(t, lines[1], "2025-05-20T10:00:00Z")
	require.Contains(t, lines[1], "2025-05-22T10:00:00Z")
	// pending rows have no approved_at
	require.True(t, strings.HasSuffix(lines[2], ","))
}

func TestEncodeCSVEmpty(t *testing.T) {
	data, err := EncodeCSV(nil)
	require.NoError(t, err)
	require.Equal(t, strings.Join(csvHeader, ",")+"\n", string(data))
}

func TestSessionCookie(t *testing.T) {
	cookie := sessionCookie("tok-123", 86400)
	require.Equal(t, "swagdesk_session=tok-123; Path=/; Max-Age=86400; HttpOnly; SameSite=Lax", cookie)

	cleared := sessionCookie("", 0)
	require.Contains(t, cleared, "Max-Age=0")
}

func TestSessionMaxAgeTracksMintedExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.Equal(t, 12*60*60, sessionMaxAge(now.Add(12*time.Hour), now))
	require.Equal(t, int(command.DefaultSessionTTL.Seconds()), sessionMaxAge(time.Time{}, now))
	require.Equal(t, 0, sessionMaxAge(now.Add(-time.Minute), now))
}
