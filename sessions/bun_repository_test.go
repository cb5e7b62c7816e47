package sessions

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-swagdesk/pkg/types"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestSessionRepository_IssueAndConsume(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	created, err := repo.CreateCode(ctx, types.LoginSession{
		Email:         "admin@example.com",
		Code:          "042135",
		IssuedAt:      now,
		CodeExpiresAt: now.Add(10 * time.Minute),
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.False(t, created.Verified())

	found, err := repo.FindActiveCode(ctx, "admin@example.com", "042135", now)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, created.ID, found.ID)

	sessionExpiry := now.Add(24 * time.Hour)
	require.NoError(t, repo.ConsumeCode(ctx, found.ID, "tok-abc", sessionExpiry, now))

	// consumed rows no longer match the pending-code predicates
	gone, err := repo.FindActiveCode(ctx, "admin@example.com", "042135", now)
	require.NoError(t, err)
	require.Nil(t, gone)

	session, err := repo.GetByToken(ctx, "tok-abc")
	require.NoError(t, err)
	require.NotNil(t, session)
	require.True(t, session.Verified())
	require.Equal(t, "admin@example.com", session.Email)
	require.Empty(t, session.Code)
	require.WithinDuration(t, sessionExpiry, session.SessionExpiresAt, time.Second)

	err = repo.ConsumeCode(ctx, found.ID, "tok-other", sessionExpiry, now)
	require.Error(t, err)
	require.True(t, repository.IsSQLExpectedCountViolation(err))
}

func TestSessionRepository_FindActiveCodeIgnoresExpired(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	stale, err := repo.CreateCode(ctx, types.LoginSession{
		Email:         "admin@example.com",
		Code:          "000007",
		IssuedAt:      now.Add(-20 * time.Minute),
		CodeExpiresAt: now.Add(-10 * time.Minute),
	})
	require.NoError(t, err)

	found, err := repo.FindActiveCode(ctx, "admin@example.com", "000007", now)
	require.NoError(t, err)
	require.Nil(t, found)

	err = repo.ConsumeCode(ctx, stale.ID, "tok-late", now.Add(24*time.Hour), now)
	require.Error(t, err)
	require.True(t, repository.IsSQLExpectedCountViolation(err))
}

func TestSessionRepository_DeletePendingCodes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	var keep *types.LoginSession
	for _, code := range []string{"000001", "000002", "000003"} {
		created, err := repo.CreateCode(ctx, types.LoginSession{
			Email:         "admin@example.com",
			Code:          code,
			IssuedAt:      now,
			CodeExpiresAt: now.Add(10 * time.Minute),
		})
		require.NoError(t, err)
		keep = created
	}

	// a consumed row for the same email must survive the purge
	minted, err := repo.CreateCode(ctx, types.LoginSession{
		Email:         "admin@example.com",
		Code:          "999999",
		IssuedAt:      now,
		CodeExpiresAt: now.Add(10 * time.Minute),
	})
	require.NoError(t, err)
	require.NoError(t, repo.ConsumeCode(ctx, minted.ID, "tok-live", now.Add(24*time.Hour), now))

	require.NoError(t, repo.DeletePendingCodes(ctx, "admin@example.com", keep.ID))

	kept, err := repo.FindActiveCode(ctx, "admin@example.com", keep.Code, now)
	require.NoError(t, err)
	require.NotNil(t, kept)

	purged, err := repo.FindActiveCode(ctx, "admin@example.com", "000001", now)
	require.NoError(t, err)
	require.Nil(t, purged)

	session, err := repo.GetByToken(ctx, "tok-live")
	require.NoError(t, err)
	require.NotNil(t, session)
}

func TestSessionRepository_Counters(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	rows := []types.LoginSession{
		{Email: "admin@example.com", Code: "100001", IssuedAt: now.Add(-5 * time.Minute), CodeExpiresAt: now.Add(5 * time.Minute)},
		{Email: "admin@example.com", Code: "100002", IssuedAt: now.Add(-30 * time.Minute), CodeExpiresAt: now.Add(-20 * time.Minute)},
		{Email: "admin@example.com", Code: "100003", IssuedAt: now.Add(-2 * time.Hour), CodeExpiresAt: now.Add(-110 * time.Minute)},
		{Email: "other@example.com", Code: "100004", IssuedAt: now, CodeExpiresAt: now.Add(10 * time.Minute)},
	}
	for _, row := range rows {
		_, err := repo.CreateCode(ctx, row)
		require.NoError(t, err)
	}

	issued, err := repo.CountIssuedSince(ctx, "admin@example.com", now.Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, 2, issued)

	expired, err := repo.CountExpiredUnconsumedSince(ctx, "admin@example.com", now.Add(-time.Hour), now)
	require.NoError(t, err)
	require.Equal(t, 1, expired)
}

func TestSessionRepository_DeleteByTokenAndExpired(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)

	minted, err := repo.CreateCode(ctx, types.LoginSession{
		Email:         "admin@example.com",
		Code:          "200001",
		IssuedAt:      now,
		CodeExpiresAt: now.Add(10 * time.Minute),
	})
	require.NoError(t, err)
	require.NoError(t, repo.ConsumeCode(ctx, minted.ID, "tok-gone", now.Add(24*time.Hour), now))

	require.NoError(t, repo.DeleteByToken(ctx, "tok-gone"))
	session, err := repo.GetByToken(ctx, "tok-gone")
	require.NoError(t, err)
	require.Nil(t, session)

	// logout is idempotent
	require.NoError(t, repo.DeleteByToken(ctx, "tok-gone"))

	_, err = repo.CreateCode(ctx, types.LoginSession{
		Email:         "admin@example.com",
		Code:          "200002",
		IssuedAt:      now.Add(-48 * time.Hour),
		CodeExpiresAt: now.Add(-48 * time.Hour).Add(10 * time.Minute),
	})
	require.NoError(t, err)

	live, err := repo.CreateCode(ctx, types.LoginSession{
		Email:         "admin@example.com",
		Code:          "200003",
		IssuedAt:      now,
		CodeExpiresAt: now.Add(10 * time.Minute),
	})
	require.NoError(t, err)

	removed, err := repo.DeleteExpired(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	still, err := repo.FindActiveCode(ctx, "admin@example.com", live.Code, now)
	require.NoError(t, err)
	require.NotNil(t, still)
}

func newTestDB(t *testing.T) *bun.DB {
	sqldb, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})
	return db
}

func applyDDL(t *testing.T, db *bun.DB) {
	content, err := os.ReadFile("../data/sql/migrations/sqlite/000001_admin_sessions.sql")
	require.NoError(t, err)
	for _, stmt := range splitStatements(string(content)) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func splitStatements(sql string) []string {
	lines := strings.Split(sql, "\n")
	var builder strings.Builder
	var statements []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		builder.WriteString(line)
		if strings.HasSuffix(line, ";") {
			statements = append(statements, strings.TrimSuffix(builder.String(), ";"))
			builder.Reset()
		} else {
			builder.WriteString(" ")
		}
	}
	if builder.Len() > 0 {
		statements = append(statements, builder.String())
	}
	return statements
}
