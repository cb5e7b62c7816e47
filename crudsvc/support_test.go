package crudsvc

import (
	"context"
	"time"

	"github.com/goliatone/go-crud"
	"github.com/goliatone/go-swagdesk/command"
	"github.com/goliatone/go-swagdesk/crudguard"
	"github.com/goliatone/go-swagdesk/pkg/types"
	"github.com/goliatone/go-swagdesk/query"
	"github.com/goliatone/go-swagdesk/requests"
	"github.com/google/uuid"
)

func testRequestRecord(id uuid.UUID) *requests.Record {
	return requests.FromSwagRequest(types.SwagRequest{
		ID:            id,
		RequesterName: "Sam Fan",
		Email:         "fan@example.com",
		AddressLine1:  "1 Main St",
		City:          "Lisbon",
		Country:       "PT",
		PostalCode:    "1000-001",
		Item:          "tshirt",
		Status:        types.RequestStatusPending,
	})
}

type stubGuardAdapter struct {
	result crudguard.GuardResult
	err    error
	lastOp crud.CrudOperation
}

func (s *stubGuardAdapter) Enforce(in crudguard.GuardInput) (crudguard.GuardResult, error) {
	s.lastOp = in.Operation
	if s.err != nil {
		return crudguard.GuardResult{}, s.err
	}
	result := s.result
	result.Operation = in.Operation
	return result, nil
}

type stubSubmitCmd struct {
	created   *types.SwagRequest
	err       error
	lastInput command.RequestSubmitInput
}

func (s *stubSubmitCmd) Execute(_ context.Context, input command.RequestSubmitInput) error {
	s.lastInput = input
	if s.err != nil {
		return s.err
	}
	if input.Result != nil {
		input.Result.Request = s.created
	}
	return nil
}

type stubApproveCmd struct {
	approved  *types.SwagRequest
	err       error
	lastInput command.RequestApproveInput
}

func (s *stubApproveCmd) Execute(_ context.Context, input command.RequestApproveInput) error {
	s.lastInput = input
	if s.err != nil {
		return s.err
	}
	if input.Result != nil {
		input.Result.Request = s.approved
	}
	return nil
}

type stubDeleteCmd struct {
	err       error
	lastInput command.RequestDeleteInput
}

func (s *stubDeleteCmd) Execute(_ context.Context, input command.RequestDeleteInput) error {
	s.lastInput = input
	return s.err
}

type stubListQuery struct {
	page       types.RequestPage
	err        error
	lastFilter types.RequestFilter
}

func (s *stubListQuery) Query(_ context.Context, filter types.RequestFilter) (types.RequestPage, error) {
	s.lastFilter = filter
	if s.err != nil {
		return types.RequestPage{}, s.err
	}
	return s.page, nil
}

type stubExportQuery struct {
	rows      []types.SwagRequest
	err       error
	lastInput query.RequestExportInput
}

func (s *stubExportQuery) Query(_ context.Context, input query.RequestExportInput) ([]types.SwagRequest, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

type stubFeedQuery struct {
	page       types.ActivityPage
	err        error
	lastFilter types.ActivityFilter
}

func (s *stubFeedQuery) Query(_ context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	s.lastFilter = filter
	if s.err != nil {
		return types.ActivityPage{}, s.err
	}
	return s.page, nil
}

type stubRequestRepo struct {
	types.SwagRequestRepository
	request *types.SwagRequest
}

func (s *stubRequestRepo) GetRequestByID(context.Context, uuid.UUID) (*types.SwagRequest, error) {
	return s.request, nil
}

type recordingEmitter struct {
	records []types.ActivityRecord
	err     error
}

func (r *recordingEmitter) Emit(_ context.Context, record types.ActivityRecord) error {
	r.records = append(r.records, record)
	if r.err != nil {
		return r.err
	}
	return nil
}

type fixedSvcClock struct{ now time.Time }

func (c fixedSvcClock) Now() time.Time { return c.now }

type testCrudContext struct {
	ctx     context.Context
	status  int
	queries map[string]string
}

func newTestCrudContext(ctx context.Context) *testCrudContext {
	return &testCrudContext{
		ctx:     ctx,
		queries: map[string]string{},
	}
}

func (t *testCrudContext) UserContext() context.Context {
	return t.ctx
}

func (t *testCrudContext) Params(string, ...string) string {
	return ""
}

func (t *testCrudContext) BodyParser(out any) error {
	return nil
}

func (t *testCrudContext) Query(key string, defaultValue ...string) string {
	if v, ok := t.queries[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (t *testCrudContext) QueryValues(key string) []string {
	if v, ok := t.queries[key]; ok {
		return []string{v}
	}
	return nil
}

func (t *testCrudContext) QueryInt(key string, defaultValue ...int) int {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

func (t *testCrudContext) Queries() map[string]string {
	return t.queries
}

func (t *testCrudContext) Body() []byte {
	return nil
}

func (t *testCrudContext) Status(status int) crud.Response {
	t.status = status
	return t
}

func (t *testCrudContext) JSON(any, ...string) error {
	return nil
}

func (t *testCrudContext) SendStatus(status int) error {
	t.status = status
	return nil
}
