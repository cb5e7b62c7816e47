package requests

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

func TestRequestRepository_CreateListApprove(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	first, err := repo.CreateRequest(ctx, types.SwagRequest{
		RequesterName: "Ada Lovelace",
		Email:         "ada@example.com",
		AddressLine1:  "1 Analytical Way",
		City:          "London",
		Country:       "GB",
		PostalCode:    "EC1A 1BB",
		Item:          "tshirt",
		Size:          "M",
		CreatedAt:     now.Add(-time.Hour),
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)
	require.Equal(t, types.RequestStatusPending, first.Status)

	second, err := repo.CreateRequest(ctx, types.SwagRequest{
		RequesterName: "Grace Hopper",
		Email:         "grace@example.com",
		AddressLine1:  "2 Compiler Court",
		City:          "Arlington",
		Country:       "US",
		PostalCode:    "22201",
		Item:          "stickers",
		CreatedAt:     now,
	})
	require.NoError(t, err)

	page, err := repo.ListRequests(ctx, types.RequestFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	require.Len(t, page.Requests, 2)
	// newest first
	require.Equal(t, second.ID, page.Requests[0].ID)
	require.False(t, page.HasMore)

	approvedAt := now.Add(time.Minute)
	require.NoError(t, repo.ApproveRequest(ctx, first.ID, approvedAt))

	approved, err := repo.GetRequestByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, approved)
	require.Equal(t, types.RequestStatusApproved, approved.Status)
	require.WithinDuration(t, approvedAt, approved.ApprovedAt, time.Second)

	err = repo.ApproveRequest(ctx, first.ID, approvedAt.Add(time.Minute))
	require.Error(t, err)
	require.True(t, repository.IsSQLExpectedCountViolation(err))

	pending, err := repo.ListRequests(ctx, types.RequestFilter{Status: types.RequestStatusPending})
	require.NoError(t, err)
	require.Equal(t, 1, pending.Total)
	require.Equal(t, second.ID, pending.Requests[0].ID)
}

func TestRequestRepository_ListPagination(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		_, err := repo.CreateRequest(ctx, types.SwagRequest{
			RequesterName: "Requester",
			Email:         "bulk@example.com",
			AddressLine1:  "10 Batch Blvd",
			City:          "Testville",
			Country:       "US",
			PostalCode:    "00000",
			Item:          "hoodie",
			CreatedAt:     now.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	page, err := repo.ListRequests(ctx, types.RequestFilter{
		Pagination: types.Pagination{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, page.Requests, 2)
	require.Equal(t, 5, page.Total)
	require.Equal(t, 2, page.NextOffset)
	require.True(t, page.HasMore)

	last, err := repo.ListRequests(ctx, types.RequestFilter{
		Pagination: types.Pagination{Limit: 2, Offset: 4},
	})
	require.NoError(t, err)
	require.Len(t, last.Requests, 1)
	require.False(t, last.HasMore)
}

func TestRequestRepository_DeleteAndSweep(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	old, err := repo.CreateRequest(ctx, types.SwagRequest{
		RequesterName: "Old Row",
		Email:         "old@example.com",
		AddressLine1:  "1 Archive Alley",
		City:          "Pastville",
		Country:       "US",
		PostalCode:    "11111",
		Item:          "tshirt",
		CreatedAt:     now.Add(-60 * 24 * time.Hour),
	})
	require.NoError(t, err)

	fresh, err := repo.CreateRequest(ctx, types.SwagRequest{
		RequesterName: "Fresh Row",
		Email:         "fresh@example.com",
		AddressLine1:  "2 Current Ct",
		City:          "Nowtown",
		Country:       "US",
		PostalCode:    "22222",
		Item:          "stickers",
		CreatedAt:     now,
	})
	require.NoError(t, err)

	removed, err := repo.DeleteRequestsBefore(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	gone, err := repo.GetRequestByID(ctx, old.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	require.NoError(t, repo.DeleteRequest(ctx, fresh.ID))

	err = repo.DeleteRequest(ctx, fresh.ID)
	require.Error(t, err)
	require.True(t, repository.IsSQLExpectedCountViolation(err))
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
	content, err := os.ReadFile("../data/sql/migrations/sqlite/000002_swag_requests.sql")
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
