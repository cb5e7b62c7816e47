package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	got, err := Resolve(nil)
	require.NoError(t, err)

	require.Empty(t, got.AdminDomain)
	require.Equal(t, 10*time.Minute, got.CodeTTL)
	require.Equal(t, 24*time.Hour, got.SessionTTL)
	require.Equal(t, 5, got.IssuanceLimit)
	require.Equal(t, time.Hour, got.IssuanceWindow)
	require.Equal(t, 5, got.VerificationLimit)
	require.Equal(t, 15*time.Minute, got.VerificationWindow)
	require.Equal(t, time.Hour, got.RetryAfter)
	require.Equal(t, 30*24*time.Hour, got.Retention)
	require.Equal(t, "Your admin login code", got.IssueSubject)
}

func TestResolveOverridesWin(t *testing.T) {
	got, err := Resolve(map[string]any{
		KeyAdminDomain:   " Example.COM ",
		KeyCodeTTL:       "5m",
		KeySessionTTL:    12 * time.Hour,
		KeyIssuanceLimit: 10,
		KeyIssueSubject:  "Login code",
	})
	require.NoError(t, err)

	require.Equal(t, "example.com", got.AdminDomain)
	require.Equal(t, 5*time.Minute, got.CodeTTL)
	require.Equal(t, 12*time.Hour, got.SessionTTL)
	require.Equal(t, 10, got.IssuanceLimit)
	require.Equal(t, "Login code", got.IssueSubject)
	// untouched keys keep defaults
	require.Equal(t, 15*time.Minute, got.VerificationWindow)
}

func TestResolveRejectsBadValues(t *testing.T) {
	_, err := Resolve(map[string]any{KeyCodeTTL: "not-a-duration"})
	require.Error(t, err)

	_, err = Resolve(map[string]any{KeyIssuanceLimit: "five"})
	require.Error(t, err)

	_, err = Resolve(map[string]any{KeyAdminDomain: 42})
	require.Error(t, err)
}
