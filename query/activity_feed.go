package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-swagdesk/pkg/types"
)

// ActivityFeedQuery renders the paginated audit feed for the admin panel.
type ActivityFeedQuery struct {
	repo types.ActivityRepository
}

// NewActivityFeedQuery constructs the feed query helper.
func NewActivityFeedQuery(repo types.ActivityRepository) (*ActivityFeedQuery, error) {
	if repo == nil {
		return nil, types.ErrMissingActivityRepository
	}
	return &ActivityFeedQuery{repo: repo}, nil
}

var _ gocommand.Querier[types.ActivityFilter, types.ActivityPage] = (*ActivityFeedQuery)(nil)

// Query fetches a page of activity logs via the injected repository. Entries
// were sanitized at write time, so nothing sensitive leaves the store here.
func (q *ActivityFeedQuery) Query(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	page, err := q.repo.ListActivity(ctx, filter)
	if err != nil {
		return types.ActivityPage{}, types.WrapStoreError(err)
	}
	return page, nil
}
