package requests

import (
	"context"
	"errors"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/goliatone/go-swagdesk/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires dependencies for the Bun-backed request store.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type requestStore interface {
	repository.Repository[*Record]
}

// Repository implements types.SwagRequestRepository.
type Repository struct {
	requestStore
	clock types.Clock
	idGen types.IDGenerator
	db    *bun.DB
}

// NewRepository constructs the default request repository.
func NewRepository(cfg RepositoryConfig, options ...RepositoryOption) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("requests: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Record]{
			NewRecord: func() *Record { return &Record{} },
			GetID: func(rec *Record) uuid.UUID {
				if rec == nil {
					return uuid.Nil
				}
				return rec.ID
			},
			SetID: func(rec *Record, id uuid.UUID) {
				if rec != nil {
					rec.ID = id
				}
			},
		})
	}
	opts := applyRepositoryOptions(options)
	if opts.CacheEnabled {
		if _, ok := repo.(*repositorycache.CachedRepository[*Record]); !ok {
			cacheConfig := cache.DefaultConfig()
			if opts.CacheConfig != nil {
				cacheConfig = *opts.CacheConfig
			}
			cacheService, err := cache.NewCacheService(cacheConfig)
			if err != nil {
				return nil, err
			}
			repo = repositorycache.New(repo, cacheService, cache.NewDefaultKeySerializer())
		}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &Repository{
		requestStore: repo,
		clock:        clock,
		idGen:        idGen,
		db:           cfg.DB,
	}, nil
}

var _ types.SwagRequestRepository = (*Repository)(nil)

// CreateRequest persists a submitted request as pending.
func (r *Repository) CreateRequest(ctx context.Context, request types.SwagRequest) (*types.SwagRequest, error) {
	rec := fromDomain(request)
	if rec.ID == uuid.Nil {
		rec.ID = r.idGen.UUID()
	}
	if rec.Status == "" {
		rec.Status = string(types.RequestStatusPending)
	}
	now := r.clock.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	created, err := r.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return toDomain(created), nil
}

// GetRequestByID returns the request, or nil when no row matches.
func (r *Repository) GetRequestByID(ctx context.Context, id uuid.UUID) (*types.SwagRequest, error) {
	rec, err := r.GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(rec), nil
}

// ListRequests pages through requests, newest first.
func (r *Repository) ListRequests(ctx context.Context, filter types.RequestFilter) (types.RequestPage, error) {
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			if filter.Status != "" {
				q = q.Where("status = ?", string(filter.Status))
			}
			if email := strings.TrimSpace(filter.Email); email != "" {
				q = q.Where("lower(email) = ?", strings.ToLower(email))
			}
			if filter.Since != nil {
				q = q.Where("created_at >= ?", *filter.Since)
			}
			q = q.OrderExpr("created_at DESC")
			if filter.Pagination.Limit > 0 {
				q = q.Limit(filter.Pagination.Limit)
			}
			if filter.Pagination.Offset > 0 {
				q = q.Offset(filter.Pagination.Offset)
			}
			return q
		},
	}

	rows, total, err := r.List(ctx, criteria...)
	if err != nil {
		return types.RequestPage{}, err
	}
	result := make([]types.SwagRequest, 0, len(rows))
	for _, row := range rows {
		result = append(result, *toDomain(row))
	}
	next := filter.Pagination.Offset + len(result)
	return types.RequestPage{
		Requests:   result,
		Total:      total,
		NextOffset: next,
		HasMore:    next < total,
	}, nil
}

// ApproveRequest flips a pending row to approved. The status predicate keeps
// already-approved rows untouched so a lost race surfaces as an expected-count
// violation.
func (r *Repository) ApproveRequest(ctx context.Context, id uuid.UUID, approvedAt time.Time) error {
	if r == nil || r.db == nil {
		return errors.New("requests: db required for updates")
	}
	if id == uuid.Nil {
		return types.ErrMissingFields
	}
	rec := &Record{
		Status:     string(types.RequestStatusApproved),
		ApprovedAt: &approvedAt,
		UpdatedAt:  r.clock.Now(),
	}
	res, err := r.db.NewUpdate().Model(rec).
		Column("status", "approved_at", "updated_at").
		Where("id = ?", id).
		Where("status = ?", string(types.RequestStatusPending)).
		Exec(ctx)
	if err != nil {
		return repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	return repository.SQLExpectedCount(res, 1)
}

// DeleteRequest removes the row, guarded so a missing id is reported.
func (r *Repository) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	if r == nil || r.db == nil {
		return errors.New("requests: db required for deletes")
	}
	res, err := r.db.NewDelete().Model((*Record)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	return repository.SQLExpectedCount(res, 1)
}

// DeleteRequestsBefore removes rows created before the cutoff.
func (r *Repository) DeleteRequestsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("requests: db required for deletes")
	}
	res, err := r.db.NewDelete().Model((*Record)(nil)).
		Where("created_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

// FromSwagRequest converts the domain shape into the bun model.
func FromSwagRequest(request types.SwagRequest) *Record {
	return fromDomain(request)
}

// ToSwagRequest converts the bun model into the domain shape.
func ToSwagRequest(rec *Record) *types.SwagRequest {
	return toDomain(rec)
}

func fromDomain(request types.SwagRequest) *Record {
	return &Record{
		ID:            request.ID,
		RequesterName: request.RequesterName,
		Email:         request.Email,
		AddressLine1:  request.AddressLine1,
		AddressLine2:  stringPtr(request.AddressLine2),
		City:          request.City,
		Country:       request.Country,
		PostalCode:    request.PostalCode,
		Item:          request.Item,
		Size:          stringPtr(request.Size),
		Status:        string(request.Status),
		ApprovedAt:    timePtr(request.ApprovedAt),
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}
}

func toDomain(rec *Record) *types.SwagRequest {
	if rec == nil {
		return nil
	}
	return &types.SwagRequest{
		ID:            rec.ID,
		RequesterName: rec.RequesterName,
		Email:         rec.Email,
		AddressLine1:  rec.AddressLine1,
		AddressLine2:  stringFromPtr(rec.AddressLine2),
		City:          rec.City,
		Country:       rec.Country,
		PostalCode:    rec.PostalCode,
		Item:          rec.Item,
		Size:          stringFromPtr(rec.Size),
		Status:        types.RequestStatus(rec.Status),
		ApprovedAt:    timeFromPtr(rec.ApprovedAt),
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	copy := value
	return &copy
}

func stringFromPtr(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func timePtr(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	copy := value
	return &copy
}

func timeFromPtr(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return *value
}
