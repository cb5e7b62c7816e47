package crudsvc

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-swagdesk/command"
	"github.com/goliatone/go-swagdesk/crudguard"
	"github.com/goliatone/go-swagdesk/pkg/types"
	"github.com/goliatone/go-swagdesk/query"
	"github.com/goliatone/go-swagdesk/requests"
	"github.com/google/uuid"
)

// RequestServiceConfig wires dependencies for the swag request controller.
type RequestServiceConfig struct {
	Guard   GuardAdapter
	Submit  gocommand.Commander[command.RequestSubmitInput]
	Approve gocommand.Commander[command.RequestApproveInput]
	Delete  gocommand.Commander[command.RequestDeleteInput]
	List    gocommand.Querier[types.RequestFilter, types.RequestPage]
	Export  gocommand.Querier[query.RequestExportInput, []types.SwagRequest]
	Repo    types.SwagRequestRepository
}

// RequestService routes go-crud operations through swag request commands and
// queries so invariants (session guard, intake gate, activity) remain intact.
// Create is the public intake path; everything else requires an admin session.
type RequestService struct {
	guard   GuardAdapter
	submit  gocommand.Commander[command.RequestSubmitInput]
	approve gocommand.Commander[command.RequestApproveInput]
	del     gocommand.Commander[command.RequestDeleteInput]
	list    gocommand.Querier[types.RequestFilter, types.RequestPage]
	export  gocommand.Querier[query.RequestExportInput, []types.SwagRequest]
	repo    types.SwagRequestRepository
	emitter ActivityEmitter
	logger  types.Logger
	clock   types.Clock
}

// NewRequestService constructs the adapter.
func NewRequestService(cfg RequestServiceConfig, opts ...ServiceOption) *RequestService {
	options := applyOptions(opts)
	return &RequestService{
		guard:   cfg.Guard,
		submit:  cfg.Submit,
		approve: cfg.Approve,
		del:     cfg.Delete,
		list:    cfg.List,
		export:  cfg.Export,
		repo:    cfg.Repo,
		emitter: options.emitter,
		logger:  options.logger,
		clock:   options.clock,
	}
}

func (s *RequestService) Create(ctx crud.Context, record *requests.Record) (*requests.Record, error) {
	if s.submit == nil {
		return nil, goerrors.New("request submit command not wired", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	if record == nil {
		return nil, goerrors.New("request payload required", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	if _, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpCreate,
	}); err != nil {
		return nil, err
	}

	domain := requests.ToSwagRequest(record)
	result := command.RequestSubmitResult{}
	input := command.RequestSubmitInput{
		RequesterName: domain.RequesterName,
		Email:         domain.Email,
		AddressLine1:  domain.AddressLine1,
		AddressLine2:  domain.AddressLine2,
		City:          domain.City,
		Country:       domain.Country,
		PostalCode:    domain.PostalCode,
		Item:          domain.Item,
		Size:          domain.Size,
		Result:        &result,
	}
	if err := s.submit.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	if result.Request == nil {
		return nil, goerrors.New("request submit produced no record", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	return requests.FromSwagRequest(*result.Request), nil
}

func (s *RequestService) CreateBatch(crud.Context, []*requests.Record) ([]*requests.Record, error) {
	return nil, notSupported(crud.OpCreateBatch)
}

func (s *RequestService) Update(crud.Context, *requests.Record) (*requests.Record, error) {
	return nil, notSupported(crud.OpUpdate)
}

func (s *RequestService) UpdateBatch(crud.Context, []*requests.Record) ([]*requests.Record, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *RequestService) Delete(ctx crud.Context, record *requests.Record) error {
	if s.del == nil {
		return goerrors.New("request delete command not wired", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	if record == nil || record.ID == uuid.Nil {
		return goerrors.New("request id required", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	if _, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpDelete,
	}); err != nil {
		return err
	}
	return s.del.Execute(ctx.UserContext(), command.RequestDeleteInput{RequestID: record.ID})
}

func (s *RequestService) DeleteBatch(ctx crud.Context, records []*requests.Record) error {
	for _, record := range records {
		if err := s.Delete(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (s *RequestService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*requests.Record, int, error) {
	if s.list == nil {
		return nil, 0, goerrors.New("request list query not wired", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	if _, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	}); err != nil {
		return nil, 0, err
	}

	filter := types.RequestFilter{
		Status: parseRequestStatus(ctx.Query("status")),
		Email:  ctx.Query("email"),
		Since:  queryTime(ctx, "since"),
		Pagination: types.Pagination{
			Limit:  queryInt(ctx, "limit", query.DefaultListLimit),
			Offset: queryInt(ctx, "offset", 0),
		},
	}
	page, err := s.list.Query(ctx.UserContext(), filter)
	if err != nil {
		return nil, 0, err
	}
	records := make([]*requests.Record, 0, len(page.Requests))
	for _, request := range page.Requests {
		records = append(records, requests.FromSwagRequest(request))
	}
	return records, page.Total, nil
}

func (s *RequestService) Show(ctx crud.Context, id string, _ []repository.SelectCriteria) (*requests.Record, error) {
	if s.repo == nil {
		return nil, goerrors.New("request repository missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, goerrors.New("invalid request id", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	if _, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpRead,
	}); err != nil {
		return nil, err
	}
	request, err := s.repo.GetRequestByID(ctx.UserContext(), requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, goerrors.New("request not found", goerrors.CategoryNotFound).WithCode(goerrors.CodeNotFound)
	}
	return requests.FromSwagRequest(*request), nil
}

// approveRequest backs the approve custom action.
func (s *RequestService) approveRequest(ctx crud.Context, id uuid.UUID) (*requests.Record, error) {
	if s.approve == nil {
		return nil, goerrors.New("request approve command not wired", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	if _, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpUpdate,
	}); err != nil {
		return nil, err
	}
	result := command.RequestApproveResult{}
	if err := s.approve.Execute(ctx.UserContext(), command.RequestApproveInput{
		RequestID: id,
		Result:    &result,
	}); err != nil {
		return nil, err
	}
	if result.Request == nil {
		return nil, goerrors.New("request approve produced no record", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	return requests.FromSwagRequest(*result.Request), nil
}

// exportRequests backs the export custom action. The export itself is logged
// here because the query layer stays read-only.
func (s *RequestService) exportRequests(ctx crud.Context) ([]types.SwagRequest, error) {
	if s.export == nil {
		return nil, goerrors.New("request export query not wired", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	})
	if err != nil {
		return nil, err
	}
	rows, err := s.export.Query(ctx.UserContext(), query.RequestExportInput{
		Status: parseRequestStatus(ctx.Query("status")),
		Since:  queryTime(ctx, "since"),
	})
	if err != nil {
		return nil, err
	}
	s.emitExport(ctx.UserContext(), res.Email, len(rows))
	return rows, nil
}

func (s *RequestService) emitExport(ctx context.Context, adminEmail string, count int) {
	if s.emitter == nil {
		return
	}
	record := types.ActivityRecord{
		Verb:       "request.exported",
		ObjectType: "swag_request",
		Channel:    "review",
		Email:      adminEmail,
		Data: map[string]any{
			"count": count,
		},
		OccurredAt: s.clock.Now(),
	}
	if err := s.emitter.Emit(ctx, record); err != nil && s.logger != nil {
		s.logger.Error("request export activity emit failed", err)
	}
}
