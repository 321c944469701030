package repo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itsVijayCoder/doc-chain-server/internal/config"
	"github.com/itsVijayCoder/doc-chain-server/internal/db"
	"github.com/itsVijayCoder/doc-chain-server/internal/model"
	appErr "github.com/itsVijayCoder/doc-chain-server/internal/pkg/errors"
)

// Integration tests run against a real Postgres when TEST_DB_DSN is set, e.g.
// TEST_DB_DSN="host=127.0.0.1 user=postgres dbname=docchain_test sslmode=disable".
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	conn, err := db.Open(config.DatabaseConfig{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations(conn))
	t.Cleanup(func() {
		for _, table := range []string{"share_links", "shares", "documents", "users"} {
			_, _ = conn.Exec("DELETE FROM " + table)
		}
		_ = conn.Close()
	})
	return conn
}

func seedUser(t *testing.T, conn *sql.DB, id string) {
	t.Helper()
	err := NewUserRepo(conn).Create(context.Background(), &model.User{
		ID:       id,
		Email:    fmt.Sprintf("%s@example.com", id),
		Name:     id,
		Role:     model.RoleEditor,
		IsActive: true,
		Ctime:    1000,
		Mtime:    1000,
	})
	require.NoError(t, err)
}

func seedDocument(t *testing.T, conn *sql.DB, id, ownerID string) {
	t.Helper()
	err := NewDocumentRepo(conn).Create(context.Background(), &model.Document{
		ID:      id,
		OwnerID: ownerID,
		Title:   id + ".pdf",
		FileKey: "key-" + id,
		State:   DocumentStateActive,
		Ctime:   1000,
		Mtime:   1000,
	})
	require.NoError(t, err)
}

func TestShareRepo_SingleActiveSharePerPair(t *testing.T) {
	conn := testDB(t)
	repo := NewShareRepo(conn)
	ctx := context.Background()

	seedUser(t, conn, "owner")
	seedUser(t, conn, "grantee")
	seedDocument(t, conn, "doc1", "owner")

	first := &model.Share{
		ID: "s1", DocumentID: "doc1", GranteeID: "grantee", GrantedBy: "owner",
		Permission: model.PermissionView, State: ShareStateActive, Ctime: 2000, Mtime: 2000,
	}
	require.NoError(t, repo.Create(ctx, first))

	// A second active share for the same pair violates the partial unique
	// index; the re-grant path must revoke first.
	dup := &model.Share{
		ID: "s2", DocumentID: "doc1", GranteeID: "grantee", GrantedBy: "owner",
		Permission: model.PermissionEdit, State: ShareStateActive, Ctime: 3000, Mtime: 3000,
	}
	require.ErrorIs(t, repo.Create(ctx, dup), appErr.ErrConflict)

	require.NoError(t, repo.RevokeByGrantee(ctx, "doc1", "grantee", 3000))
	require.NoError(t, repo.Create(ctx, dup))

	shares, err := repo.ListActiveByDocument(ctx, "doc1")
	require.NoError(t, err)
	require.Len(t, shares, 1)
	require.Equal(t, "s2", shares[0].ID)
	require.Equal(t, model.PermissionEdit, shares[0].Permission)
	require.Equal(t, "grantee", shares[0].Grantee.ID)
}

func TestShareRepo_RevokeExpired(t *testing.T) {
	conn := testDB(t)
	repo := NewShareRepo(conn)
	ctx := context.Background()

	seedUser(t, conn, "owner")
	seedUser(t, conn, "g1")
	seedUser(t, conn, "g2")
	seedDocument(t, conn, "doc1", "owner")

	require.NoError(t, repo.Create(ctx, &model.Share{
		ID: "s-expired", DocumentID: "doc1", GranteeID: "g1", GrantedBy: "owner",
		Permission: model.PermissionView, ExpireAt: 5000, State: ShareStateActive,
	}))
	require.NoError(t, repo.Create(ctx, &model.Share{
		ID: "s-forever", DocumentID: "doc1", GranteeID: "g2", GrantedBy: "owner",
		Permission: model.PermissionView, ExpireAt: 0, State: ShareStateActive,
	}))

	swept, err := repo.RevokeExpired(ctx, 6000)
	require.NoError(t, err)
	require.Equal(t, int64(1), swept)

	_, err = repo.GetActiveByGrantee(ctx, "doc1", "g1")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	share, err := repo.GetActiveByGrantee(ctx, "doc1", "g2")
	require.NoError(t, err)
	require.Equal(t, "s-forever", share.ID)
}
