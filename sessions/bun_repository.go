package sessions

import (
	"context"
	"errors"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-swagdesk/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed session repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// Repository implements types.SessionRepository using Bun.
type Repository struct {
	store repository.Repository[*Record]
	clock types.Clock
	idGen types.IDGenerator
	db    *bun.DB
}

// NewRepository constructs the default session repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("sessions: db or repository required")
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
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	db := cfg.DB
	if db == nil {
		if withDB, ok := repo.(interface{ DB() *bun.DB }); ok {
			db = withDB.DB()
		}
	}
	return &Repository{store: repo, clock: clock, idGen: idGen, db: db}, nil
}

var _ types.SessionRepository = (*Repository)(nil)

// CreateCode persists a freshly issued one-time code.
func (r *Repository) CreateCode(ctx context.Context, session types.LoginSession) (*types.LoginSession, error) {
	if strings.TrimSpace(session.Email) == "" {
		return nil, types.ErrMissingFields
	}
	rec := fromDomain(session)
	if rec.ID == uuid.Nil {
		rec.ID = r.idGen.UUID()
	}
	now := r.clock.Now()
	if rec.IssuedAt.IsZero() {
		rec.IssuedAt = now
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	created, err := r.store.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return toDomain(created), nil
}

// FindActiveCode returns the most recent live row for the email/code pair.
func (r *Repository) FindActiveCode(ctx context.Context, email, code string, now time.Time) (*types.LoginSession, error) {
	rec, err := r.store.Get(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("email = ?", email).
			Where("code = ?", code).
			Where("code_expires_at > ?", now).
			Where("session_token IS NULL").
			Order("issued_at DESC").
			Limit(1)
	})
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(rec), nil
}

// ConsumeCode mints the session on the identified row. The predicates keep an
// expired or already-consumed row untouched so a lost race surfaces as an
// expected-count violation instead of a double consume.
func (r *Repository) ConsumeCode(ctx context.Context, id uuid.UUID, token string, sessionExpiresAt, now time.Time) error {
	if r == nil || r.db == nil {
		return errors.New("sessions: db required for updates")
	}
	if id == uuid.Nil || strings.TrimSpace(token) == "" {
		return types.ErrMissingFields
	}
	rec := &Record{
		Code:             "",
		SessionToken:     &token,
		SessionExpiresAt: &sessionExpiresAt,
		UpdatedAt:        r.clock.Now(),
	}
	res, err := r.db.NewUpdate().Model(rec).
		Column("code", "session_token", "session_expires_at", "updated_at").
		Where("id = ?", id).
		Where("session_token IS NULL").
		Where("code_expires_at > ?", now).
		Exec(ctx)
	if err != nil {
		return repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	return repository.SQLExpectedCount(res, 1)
}

// DeletePendingCodes removes unconsumed rows for the email, keeping one.
func (r *Repository) DeletePendingCodes(ctx context.Context, email string, keep uuid.UUID) error {
	if r == nil || r.db == nil {
		return errors.New("sessions: db required for deletes")
	}
	q := r.db.NewDelete().Model((*Record)(nil)).
		Where("email = ?", email).
		Where("session_token IS NULL")
	if keep != uuid.Nil {
		q = q.Where("id != ?", keep)
	}
	if _, err := q.Exec(ctx); err != nil {
		return repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	return nil
}

// GetByToken returns the row carrying the session token.
func (r *Repository) GetByToken(ctx context.Context, token string) (*types.LoginSession, error) {
	rec, err := r.store.Get(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("session_token = ?", token)
	})
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(rec), nil
}

// DeleteByToken removes the row carrying the token, if any.
func (r *Repository) DeleteByToken(ctx context.Context, token string) error {
	if r == nil || r.db == nil {
		return errors.New("sessions: db required for deletes")
	}
	_, err := r.db.NewDelete().Model((*Record)(nil)).
		Where("session_token = ?", token).
		Exec(ctx)
	if err != nil {
		return repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	return nil
}

// CountIssuedSince counts rows issued at or after since for the email.
func (r *Repository) CountIssuedSince(ctx context.Context, email string, since time.Time) (int, error) {
	count, err := r.db.NewSelect().Model((*Record)(nil)).
		Where("email = ?", email).
		Where("issued_at >= ?", since).
		Count(ctx)
	if err != nil {
		return 0, repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	return count, nil
}

// CountExpiredUnconsumedSince counts failed or abandoned codes in the window.
func (r *Repository) CountExpiredUnconsumedSince(ctx context.Context, email string, since, now time.Time) (int, error) {
	count, err := r.db.NewSelect().Model((*Record)(nil)).
		Where("email = ?", email).
		Where("issued_at >= ?", since).
		Where("code_expires_at <= ?", now).
		Where("session_token IS NULL").
		Count(ctx)
	if err != nil {
		return 0, repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	return count, nil
}

// DeleteExpired removes rows whose code and session have both lapsed before
// the cutoff.
func (r *Repository) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("sessions: db required for deletes")
	}
	res, err := r.db.NewDelete().Model((*Record)(nil)).
		Where("(session_token IS NULL AND code_expires_at < ?) OR (session_token IS NOT NULL AND session_expires_at < ?)", cutoff, cutoff).
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

func fromDomain(session types.LoginSession) *Record {
	return &Record{
		ID:               session.ID,
		Email:            session.Email,
		Code:             session.Code,
		IssuedAt:         session.IssuedAt,
		CodeExpiresAt:    session.CodeExpiresAt,
		SessionToken:     stringPtr(session.SessionToken),
		SessionExpiresAt: timePtr(session.SessionExpiresAt),
		CreatedAt:        session.CreatedAt,
		UpdatedAt:        session.UpdatedAt,
	}
}

func toDomain(rec *Record) *types.LoginSession {
	if rec == nil {
		return nil
	}
	return &types.LoginSession{
		ID:               rec.ID,
		Email:            rec.Email,
		Code:             rec.Code,
		IssuedAt:         rec.IssuedAt,
		CodeExpiresAt:    rec.CodeExpiresAt,
		SessionToken:     stringFromPtr(rec.SessionToken),
		SessionExpiresAt: timeFromPtr(rec.SessionExpiresAt),
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
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
