package service

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-swagdesk/pkg/types"
	"github.com/goliatone/go-swagdesk/settings"
	"github.com/stretchr/testify/require"
)

type fakeSessionRepo struct {
	types.SessionRepository
}

type fakeRequestRepo struct {
	types.SwagRequestRepository
}

type fakeActivityStore struct {
	records []types.ActivityRecord
}

func (f *fakeActivityStore) Log(_ context.Context, record types.ActivityRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeActivityStore) ListActivity(context.Context, types.ActivityFilter) (types.ActivityPage, error) {
	return types.ActivityPage{Records: f.records, Total: len(f.records)}, nil
}

func TestNewServiceWiresEverything(t *testing.T) {
	sink := &fakeActivityStore{}
	svc, err := New(Config{
		Sessions:    &fakeSessionRepo{},
		Requests:    &fakeRequestRepo{},
		Activity:    sink,
		AdminDomain: "example.com",
		Overrides: map[string]any{
			settings.KeyIssuanceLimit: 3,
			settings.KeySessionTTL:    "12h",
		},
	})
	require.NoError(t, err)
	require.True(t, svc.Ready())
	require.NoError(t, svc.HealthCheck(context.Background()))

	require.NotNil(t, svc.Commands().IssueOTP)
	require.NotNil(t, svc.Commands().VerifyOTP)
	require.NotNil(t, svc.Commands().EndSession)
	require.NotNil(t, svc.Commands().SubmitRequest)
	require.NotNil(t, svc.Commands().ApproveRequest)
	require.NotNil(t, svc.Commands().DeleteRequest)
	require.NotNil(t, svc.Commands().RetentionSweep)

	require.NotNil(t, svc.Queries().ValidateSession)
	require.NotNil(t, svc.Queries().RequestList)
	require.NotNil(t, svc.Queries().RequestExport)
	// the sink doubles as the feed's read side
	require.NotNil(t, svc.Queries().ActivityFeed)

	require.Equal(t, "example.com", svc.Settings().AdminDomain)
	require.Equal(t, 3, svc.Settings().IssuanceLimit)
	require.Equal(t, 12*time.Hour, svc.Settings().SessionTTL)
	require.NotNil(t, svc.Limiter())
	require.Same(t, types.ActivitySink(sink), svc.ActivitySink())
}

func TestNewServiceAdminDomainFromOverrides(t *testing.T) {
	svc, err := New(Config{
		Sessions: &fakeSessionRepo{},
		Requests: &fakeRequestRepo{},
		Overrides: map[string]any{
			settings.KeyAdminDomain: "Corp.Example.COM",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "corp.example.com", svc.Settings().AdminDomain)
}

func TestNewServiceRequiresAdminDomain(t *testing.T) {
	_, err := New(Config{
		Sessions: &fakeSessionRepo{},
		Requests: &fakeRequestRepo{},
	})
	require.ErrorIs(t, err, types.ErrMissingAdminDomain)
}

func TestNewServiceRequiresRepositories(t *testing.T) {
	_, err := New(Config{Requests: &fakeRequestRepo{}, AdminDomain: "example.com"})
	require.ErrorIs(t, err, types.ErrMissingSessionRepository)

	_, err = New(Config{Sessions: &fakeSessionRepo{}, AdminDomain: "example.com"})
	require.ErrorIs(t, err, types.ErrMissingRequestRepository)
}

func TestNewServiceWithoutActivityFeed(t *testing.T) {
	svc, err := New(Config{
		Sessions:    &fakeSessionRepo{},
		Requests:    &fakeRequestRepo{},
		AdminDomain: "example.com",
	})
	require.NoError(t, err)
	require.Nil(t, svc.Queries().ActivityFeed)
	require.True(t, svc.Ready())
}

func TestNewServiceRejectsBadOverrides(t *testing.T) {
	_, err := New(Config{
		Sessions:    &fakeSessionRepo{},
		Requests:    &fakeRequestRepo{},
		AdminDomain: "example.com",
		Overrides: map[string]any{
			settings.KeyCodeTTL: "not-a-duration",
		},
	})
	require.Error(t, err)
}
