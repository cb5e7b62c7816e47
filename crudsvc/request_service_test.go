package crudsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-crud"
	"github.com/goliatone/go-swagdesk/crudguard"
	"github.com/goliatone/go-swagdesk/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var svcNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestRequestServiceCreateDelegatesToSubmit(t *testing.T) {
	requestID := uuid.New()
	submit := &stubSubmitCmd{created: &types.SwagRequest{
		ID:     requestID,
		Email:  "fan@example.com",
		Item:   "tshirt",
		Status: types.RequestStatusPending,
	}}
	guard := &stubGuardAdapter{}
	svc := NewRequestService(RequestServiceConfig{
		Guard:  guard,
		Submit: submit,
	})

	record, err := svc.Create(newTestCrudContext(context.Background()), testRequestRecord(uuid.Nil))
	require.NoError(t, err)
	require.Equal(t, crud.OpCreate, guard.lastOp)
	require.Equal(t, "fan@example.com", submit.lastInput.Email)
	require.Equal(t, "tshirt", submit.lastInput.Item)
	require.Equal(t, requestID, record.ID)
	require.Equal(t, string(types.RequestStatusPending), record.Status)
}

func TestRequestServiceIndexBuildsFilter(t *testing.T) {
	list := &stubListQuery{page: types.RequestPage{
		Requests: []types.SwagRequest{{ID: uuid.New(), Email: "fan@example.com"}},
		Total:    5,
	}}
	guard := &stubGuardAdapter{}
	svc := NewRequestService(RequestServiceConfig{
		Guard: guard,
		List:  list,
	})

	ctx := newTestCrudContext(context.Background())
	ctx.queries["status"] = "pending"
	ctx.queries["email"] = "fan@example.com"
	ctx.queries["limit"] = "2"
	ctx.queries["offset"] = "4"

	records, total, err := svc.Index(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, crud.OpList, guard.lastOp)
	require.Equal(t, types.RequestStatusPending, list.lastFilter.Status)
	require.Equal(t, "fan@example.com", list.lastFilter.Email)
	require.Equal(t, 2, list.lastFilter.Pagination.Limit)
	require.Equal(t, 4, list.lastFilter.Pagination.Offset)
	require.Equal(t, 5, total)
	require.Len(t, records, 1)
}

func TestRequestServiceGuardDenialPropagates(t *testing.T) {
	denied := errors.New("session invalid")
	svc := NewRequestService(RequestServiceConfig{
		Guard: &stubGuardAdapter{err: denied},
		List:  &stubListQuery{},
	})

	_, _, err := svc.Index(newTestCrudContext(context.Background()), nil)
	require.ErrorIs(t, err, denied)
}

func TestRequestServiceShowReturnsRecord(t *testing.T) {
	requestID := uuid.New()
	repo := &stubRequestRepo{request: &types.SwagRequest{ID: requestID, Email: "fan@example.com"}}
	svc := NewRequestService(RequestServiceConfig{
		Guard: &stubGuardAdapter{},
		Repo:  repo,
	})

	record, err := svc.Show(newTestCrudContext(context.Background()), requestID.String(), nil)
	require.NoError(t, err)
	require.Equal(t, requestID, record.ID)
}

func TestRequestServiceShowRejectsBadID(t *testing.T) {
	svc := NewRequestService(RequestServiceConfig{
		Guard: &stubGuardAdapter{},
		Repo:  &stubRequestRepo{},
	})
	_, err := svc.Show(newTestCrudContext(context.Background()), "not-a-uuid", nil)
	require.Error(t, err)
}

func TestRequestServiceShowNotFound(t *testing.T) {
	svc := NewRequestService(RequestServiceConfig{
		Guard: &stubGuardAdapter{},
		Repo:  &stubRequestRepo{},
	})
	_, err := svc.Show(newTestCrudContext(context.Background()), uuid.NewString(), nil)
	require.Error(t, err)
}

func TestRequestServiceDeleteDelegates(t *testing.T) {
	requestID := uuid.New()
	del := &stubDeleteCmd{}
	guard := &stubGuardAdapter{}
	svc := NewRequestService(RequestServiceConfig{
		Guard:  guard,
		Delete: del,
	})

	err := svc.Delete(newTestCrudContext(context.Background()), testRequestRecord(requestID))
	require.NoError(t, err)
	require.Equal(t, crud.OpDelete, guard.lastOp)
	require.Equal(t, requestID, del.lastInput.RequestID)
}

func TestRequestServiceUpdateNotSupported(t *testing.T) {
	svc := NewRequestService(RequestServiceConfig{Guard: &stubGuardAdapter{}})
	_, err := svc.Update(newTestCrudContext(context.Background()), testRequestRecord(uuid.New()))
	require.Error(t, err)
}

func TestRequestServiceApproveDelegates(t *testing.T) {
	requestID := uuid.New()
	approve := &stubApproveCmd{approved: &types.SwagRequest{
		ID:     requestID,
		Status: types.RequestStatusApproved,
	}}
	guard := &stubGuardAdapter{}
	svc := NewRequestService(RequestServiceConfig{
		Guard:   guard,
		Approve: approve,
	})

	record, err := svc.approveRequest(newTestCrudContext(context.Background()), requestID)
	require.NoError(t, err)
	require.Equal(t, crud.OpUpdate, guard.lastOp)
	require.Equal(t, requestID, approve.lastInput.RequestID)
	require.Equal(t, string(types.RequestStatusApproved), record.Status)
}

func TestRequestServiceExportEmitsActivity(t *testing.T) {
	export := &stubExportQuery{rows: []types.SwagRequest{
		{ID: uuid.New()},
		{ID: uuid.New()},
	}}
	emitter := &recordingEmitter{}
	svc := NewRequestService(RequestServiceConfig{
		Guard:  &stubGuardAdapter{result: crudguard.GuardResult{Email: "ops@example.com"}},
		Export: export,
	}, WithActivityEmitter(emitter), WithClock(fixedSvcClock{now: svcNow}))

	ctx := newTestCrudContext(context.Background())
	ctx.queries["status"] = "approved"

	rows, err := svc.exportRequests(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, types.RequestStatusApproved, export.lastInput.Status)
	require.Len(t, emitter.records, 1)
	require.Equal(t, "request.exported", emitter.records[0].Verb)
	require.Equal(t, "ops@example.com", emitter.records[0].Email)
	require.Equal(t, 2, emitter.records[0].Data["count"])
	require.Equal(t, svcNow, emitter.records[0].OccurredAt)
}

func TestActivityServiceIndexBuildsFilter(t *testing.T) {
	feed := &stubFeedQuery{page: types.ActivityPage{
		Records: []types.ActivityRecord{{Verb: "request.approved"}},
		Total:   3,
	}}
	svc := NewActivityService(ActivityServiceConfig{
		Guard:     &stubGuardAdapter{},
		FeedQuery: feed,
	})

	ctx := newTestCrudContext(context.Background())
	ctx.queries["verb"] = "request.approved,request.deleted"
	ctx.queries["email"] = "ops@example.com"

	entries, total, err := svc.Index(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"request.approved", "request.deleted"}, feed.lastFilter.Verbs)
	require.Equal(t, "ops@example.com", feed.lastFilter.Email)
	require.Equal(t, 3, total)
	require.Len(t, entries, 1)
	require.Equal(t, "request.approved", entries[0].Verb)
}

func TestActivityServiceWritesDisabled(t *testing.T) {
	svc := NewActivityService(ActivityServiceConfig{
		Guard:     &stubGuardAdapter{},
		FeedQuery: &stubFeedQuery{},
	})
	_, err := svc.Create(newTestCrudContext(context.Background()), nil)
	require.Error(t, err)
	require.Error(t, svc.Delete(newTestCrudContext(context.Background()), nil))
}
