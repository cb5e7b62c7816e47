package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-swagdesk/pkg/types"
)

// Listing limits applied when the caller leaves pagination unset.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// RequestListQuery pages through swag requests for the admin review screen.
type RequestListQuery struct {
	requests types.SwagRequestRepository
}

// NewRequestListQuery constructs the listing helper.
func NewRequestListQuery(requests types.SwagRequestRepository) (*RequestListQuery, error) {
	if requests == nil {
		return nil, types.ErrMissingRequestRepository
	}
	return &RequestListQuery{requests: requests}, nil
}

var _ gocommand.Querier[types.RequestFilter, types.RequestPage] = (*RequestListQuery)(nil)

// Query lists requests newest first, clamping the page size.
func (q *RequestListQuery) Query(ctx context.Context, filter types.RequestFilter) (types.RequestPage, error) {
	filter.Pagination = clampPagination(filter.Pagination)
	page, err := q.requests.ListRequests(ctx, filter)
	if err != nil {
		return types.RequestPage{}, types.WrapStoreError(err)
	}
	return page, nil
}

func clampPagination(p types.Pagination) types.Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultListLimit
	}
	if p.Limit > MaxListLimit {
		p.Limit = MaxListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
