package query

import (
	"context"
	"errors"
	"time"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-swagdesk/command"
	"github.com/goliatone/go-swagdesk/pkg/types"
)

// ErrExportDisabled indicates the export surface is disabled via feature gate.
var ErrExportDisabled = errors.New("go-swagdesk: request export disabled")

// RequestExportInput selects which requests to export.
type RequestExportInput struct {
	Status types.RequestStatus
	Since  *time.Time
}

// Type implements gocommand.Message.
func (RequestExportInput) Type() string {
	return "query.request.export"
}

// Validate implements gocommand.Message.
func (RequestExportInput) Validate() error {
	return nil
}

// RequestExportQuery collects the full matching set for CSV rendering.
type RequestExportQuery struct {
	requests types.SwagRequestRepository
	gate     featuregate.FeatureGate
}

// RequestExportConfig holds dependencies for export.
type RequestExportConfig struct {
	Requests types.SwagRequestRepository
	Gate     featuregate.FeatureGate
}

// NewRequestExportQuery constructs the export helper.
func NewRequestExportQuery(cfg RequestExportConfig) (*RequestExportQuery, error) {
	if cfg.Requests == nil {
		return nil, types.ErrMissingRequestRepository
	}
	return &RequestExportQuery{requests: cfg.Requests, gate: cfg.Gate}, nil
}

var _ gocommand.Querier[RequestExportInput, []types.SwagRequest] = (*RequestExportQuery)(nil)

// Query walks all matching pages and returns the combined set. Approval
// screens use paged listings; exports deliberately fetch everything.
func (q *RequestExportQuery) Query(ctx context.Context, input RequestExportInput) ([]types.SwagRequest, error) {
	enabled, err := command.FeatureEnabled(ctx, q.gate, command.FeatureRequestsExport, "")
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, ErrExportDisabled
	}

	var out []types.SwagRequest
	offset := 0
	for {
		page, err := q.requests.ListRequests(ctx, types.RequestFilter{
			Status:     input.Status,
			Since:      input.Since,
			Pagination: types.Pagination{Limit: MaxListLimit, Offset: offset},
		})
		if err != nil {
			return nil, types.WrapStoreError(err)
		}
		out = append(out, page.Requests...)
		if !page.HasMore || len(page.Requests) == 0 {
			break
		}
		offset = page.NextOffset
	}
	return out, nil
}
