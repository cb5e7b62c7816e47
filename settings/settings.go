// Package settings resolves runtime configuration for go-swagdesk by merging
// layered sources: built-in defaults underneath host-supplied overrides. The
// merged map is decoded into a typed Settings value the service layer wires
// into commands.
package settings

import (
	"fmt"
	"strings"
	"time"

	opts "github.com/goliatone/go-options"
)

// Keys understood by the resolver.
const (
	KeyAdminDomain        = "auth.admin_domain"
	KeyCodeTTL            = "auth.code_ttl"
	KeySessionTTL         = "auth.session_ttl"
	KeyIssuanceLimit      = "auth.issuance_limit"
	KeyIssuanceWindow     = "auth.issuance_window"
	KeyVerificationLimit  = "auth.verification_limit"
	KeyVerificationWindow = "auth.verification_window"
	KeyRetryAfter         = "auth.retry_after"
	KeyRetention          = "retention.window"
	KeyIssueSubject       = "mail.issue_subject"
	KeyApproveSubject     = "mail.approve_subject"
)

// Settings is the decoded runtime configuration.
type Settings struct {
	AdminDomain        string
	CodeTTL            time.Duration
	SessionTTL         time.Duration
	IssuanceLimit      int
	IssuanceWindow     time.Duration
	VerificationLimit  int
	VerificationWindow time.Duration
	RetryAfter         time.Duration
	Retention          time.Duration
	IssueSubject       string
	ApproveSubject     string
}

// Defaults mirrors the module's built-in configuration.
func Defaults() map[string]any {
	return map[string]any{
		KeyCodeTTL:            "10m",
		KeySessionTTL:         "24h",
		KeyIssuanceLimit:      5,
		KeyIssuanceWindow:     "1h",
		KeyVerificationLimit:  5,
		KeyVerificationWindow: "15m",
		KeyRetryAfter:         "1h",
		KeyRetention:          "720h",
		KeyIssueSubject:       "Your admin login code",
		KeyApproveSubject:     "Your swag request was approved",
	}
}

// Resolve merges defaults under the host overrides and decodes the result.
// Overrides may be nil.
func Resolve(overrides map[string]any) (Settings, error) {
	defaultsScope := opts.NewScope("defaults", opts.ScopePrioritySystem,
		opts.WithScopeLabel("Built-in Defaults"))
	layers := []opts.Layer[map[string]any]{
		opts.NewLayer(defaultsScope, Defaults(), opts.WithSnapshotID[map[string]any](defaultsScope.Name)),
	}
	if len(overrides) > 0 {
		hostScope := opts.NewScope("host", opts.ScopePriorityUser,
			opts.WithScopeLabel("Host Overrides"))
		layers = append(layers, opts.NewLayer(hostScope, overrides, opts.WithSnapshotID[map[string]any](hostScope.Name)))
	}

	stack, err := opts.NewStack(layers...)
	if err != nil {
		return Settings{}, err
	}
	merged, err := stack.Merge()
	if err != nil {
		return Settings{}, err
	}
	return decode(merged.Value)
}

func decode(values map[string]any) (Settings, error) {
	out := Settings{}
	var err error
	if out.AdminDomain, err = stringValue(values, KeyAdminDomain); err != nil {
		return Settings{}, err
	}
	out.AdminDomain = strings.ToLower(strings.TrimSpace(out.AdminDomain))
	if out.CodeTTL, err = durationValue(values, KeyCodeTTL); err != nil {
		return Settings{}, err
	}
	if out.SessionTTL, err = durationValue(values, KeySessionTTL); err != nil {
		return Settings{}, err
	}
	if out.IssuanceLimit, err = intValue(values, KeyIssuanceLimit); err != nil {
		return Settings{}, err
	}
	if out.IssuanceWindow, err = durationValue(values, KeyIssuanceWindow); err != nil {
		return Settings{}, err
	}
	if out.VerificationLimit, err = intValue(values, KeyVerificationLimit); err != nil {
		return Settings{}, err
	}
	if out.VerificationWindow, err = durationValue(values, KeyVerificationWindow); err != nil {
		return Settings{}, err
	}
	if out.RetryAfter, err = durationValue(values, KeyRetryAfter); err != nil {
		return Settings{}, err
	}
	if out.Retention, err = durationValue(values, KeyRetention); err != nil {
		return Settings{}, err
	}
	if out.IssueSubject, err = stringValue(values, KeyIssueSubject); err != nil {
		return Settings{}, err
	}
	if out.ApproveSubject, err = stringValue(values, KeyApproveSubject); err != nil {
		return Settings{}, err
	}
	return out, nil
}

func stringValue(values map[string]any, key string) (string, error) {
	raw, ok := values[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("settings: %s must be a string, got %T", key, raw)
	}
	return s, nil
}

func durationValue(values map[string]any, key string) (time.Duration, error) {
	raw, ok := values[key]
	if !ok || raw == nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("settings: %s: %w", key, err)
		}
		return d, nil
	default:
		return 0, fmt.Errorf("settings: %s must be a duration, got %T", key, raw)
	}
}

func intValue(values map[string]any, key string) (int, error) {
	raw, ok := values[key]
	if !ok || raw == nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("settings: %s must be an integer, got %T", key, raw)
	}
}
