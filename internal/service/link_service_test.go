package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/itsVijayCoder/doc-chain-server/internal/model"
	appErr "github.com/itsVijayCoder/doc-chain-server/internal/pkg/errors"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/password"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/timeutil"
	"github.com/itsVijayCoder/doc-chain-server/internal/repo"
)

// fakeLinkStore hands out copies so the service cache can hold stale state,
// the way a real cache in front of the database does.
type fakeLinkStore struct {
	links       map[string]model.ShareLink
	revokedDocs []string
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{links: map[string]model.ShareLink{}}
}

func (f *fakeLinkStore) Create(ctx context.Context, link *model.ShareLink) error {
	f.links[link.ID] = *link
	return nil
}

func (f *fakeLinkStore) GetByID(ctx context.Context, linkID string) (*model.ShareLink, error) {
	link, ok := f.links[linkID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &link, nil
}

func (f *fakeLinkStore) GetByToken(ctx context.Context, token string) (*model.ShareLink, error) {
	for _, link := range f.links {
		if link.Token == token {
			link := link
			return &link, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (f *fakeLinkStore) GetActiveByDocument(ctx context.Context, docID string) (*model.ShareLink, error) {
	for _, link := range f.links {
		if link.DocumentID == docID && link.State == repo.ShareStateActive {
			link := link
			return &link, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (f *fakeLinkStore) Revoke(ctx context.Context, linkID string, mtime int64) error {
	link, ok := f.links[linkID]
	if !ok {
		return appErr.ErrNotFound
	}
	link.State = repo.ShareStateRevoked
	f.links[linkID] = link
	return nil
}

func (f *fakeLinkStore) RevokeByDocument(ctx context.Context, docID string, mtime int64) error {
	f.revokedDocs = append(f.revokedDocs, docID)
	for id, link := range f.links {
		if link.DocumentID == docID && link.State == repo.ShareStateActive {
			link.State = repo.ShareStateRevoked
			f.links[id] = link
		}
	}
	return nil
}

func linkFixture(cacheTTL time.Duration) (*LinkService, *fakeLinkStore) {
	docs := &fakeDocs{docs: map[string]*model.Document{
		"d1": {ID: "d1", OwnerID: "owner", Title: "report.pdf"},
	}}
	store := newFakeLinkStore()
	size := 0
	if cacheTTL > 0 {
		size = 16
	}
	return NewLinkService(docs, store, "https://docs.example.com/", size, cacheTTL), store
}

func TestShareLinkSettingsValidate(t *testing.T) {
	base := ShareLinkSettings{Permission: model.PermissionView}
	require.NoError(t, base.Validate())

	s := base
	s.Permission = "superuser"
	require.ErrorIs(t, s.Validate(), appErr.ErrInvalid)

	s = base
	s.RequirePassword = true
	require.ErrorIs(t, s.Validate(), appErr.ErrInvalid)

	s.Password = "hunter2"
	require.NoError(t, s.Validate())
}

func TestGenerate_CoercesAdminToEdit(t *testing.T) {
	svc, store := linkFixture(0)

	generated, err := svc.Generate(context.Background(), Actor{ID: "owner"}, "d1", ShareLinkSettings{
		Permission: model.PermissionAdmin,
	})
	require.NoError(t, err)

	link, err := store.GetByID(context.Background(), generated.ID)
	require.NoError(t, err)
	require.Equal(t, model.PermissionEdit, link.Permission)
}

func TestGenerate_ReplacesPreviousLink(t *testing.T) {
	svc, store := linkFixture(0)
	ctx := context.Background()
	actor := Actor{ID: "owner"}

	first, err := svc.Generate(ctx, actor, "d1", ShareLinkSettings{Permission: model.PermissionView})
	require.NoError(t, err)
	second, err := svc.Generate(ctx, actor, "d1", ShareLinkSettings{Permission: model.PermissionView})
	require.NoError(t, err)
	require.NotEqual(t, first.URL, second.URL)

	old, err := store.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, repo.ShareStateRevoked, old.State)

	current, err := svc.GetActive(ctx, actor, "d1")
	require.NoError(t, err)
	require.Equal(t, second.ID, current.ID)
}

func TestGenerate_URLAndAuthz(t *testing.T) {
	svc, _ := linkFixture(0)
	ctx := context.Background()

	generated, err := svc.Generate(ctx, Actor{ID: "owner"}, "d1", ShareLinkSettings{Permission: model.PermissionView})
	require.NoError(t, err)
	require.Regexp(t, `^https://docs\.example\.com/share/[0-9a-f]+$`, generated.URL)

	_, err = svc.Generate(ctx, Actor{ID: "stranger"}, "d1", ShareLinkSettings{Permission: model.PermissionView})
	require.ErrorIs(t, err, appErr.ErrForbidden)
}

func TestResolve_PasswordGate(t *testing.T) {
	svc, _ := linkFixture(0)
	ctx := context.Background()

	generated, err := svc.Generate(ctx, Actor{ID: "owner"}, "d1", ShareLinkSettings{
		Permission:      model.PermissionView,
		RequirePassword: true,
		Password:        "hunter2",
		AllowDownload:   true,
	})
	require.NoError(t, err)
	token := tokenFromURL(t, generated.URL)

	_, err = svc.Resolve(ctx, token, "")
	require.ErrorIs(t, err, appErr.ErrBadPassword)

	_, err = svc.Resolve(ctx, token, "wrong")
	require.ErrorIs(t, err, appErr.ErrBadPassword)

	access, err := svc.Resolve(ctx, token, "hunter2")
	require.NoError(t, err)
	require.Equal(t, "d1", access.Document.ID)
	require.Equal(t, model.PermissionView, access.Permission)
	require.True(t, access.AllowDownload)
}

func TestResolve_ExpiredAndRevoked(t *testing.T) {
	svc, store := linkFixture(0)
	ctx := context.Background()
	actor := Actor{ID: "owner"}

	expired, err := svc.Generate(ctx, actor, "d1", ShareLinkSettings{
		Permission: model.PermissionView,
		ExpireAt:   timeutil.NowMilli() - 1000,
	})
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, tokenFromURL(t, expired.URL), "")
	require.ErrorIs(t, err, appErr.ErrLinkExpired)

	fresh, err := svc.Generate(ctx, actor, "d1", ShareLinkSettings{Permission: model.PermissionView})
	require.NoError(t, err)
	require.NoError(t, store.Revoke(ctx, fresh.ID, timeutil.NowMilli()))
	_, err = svc.Resolve(ctx, tokenFromURL(t, fresh.URL), "")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	_, err = svc.Resolve(ctx, "nosuchtoken", "")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestRevoke_PurgesCache(t *testing.T) {
	svc, _ := linkFixture(time.Minute)
	ctx := context.Background()
	actor := Actor{ID: "owner"}

	generated, err := svc.Generate(ctx, actor, "d1", ShareLinkSettings{Permission: model.PermissionView})
	require.NoError(t, err)
	token := tokenFromURL(t, generated.URL)

	// Prime the cache, then revoke. A stale cache entry would keep the
	// token resolving; the purge must make the revoke visible immediately.
	_, err = svc.Resolve(ctx, token, "")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, actor, generated.ID))

	_, err = svc.Resolve(ctx, token, "")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestRevoke_Authz(t *testing.T) {
	svc, _ := linkFixture(0)
	ctx := context.Background()

	generated, err := svc.Generate(ctx, Actor{ID: "owner"}, "d1", ShareLinkSettings{Permission: model.PermissionView})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Revoke(ctx, Actor{ID: "stranger"}, generated.ID), appErr.ErrForbidden)
	require.NoError(t, svc.Revoke(ctx, Actor{ID: "other", Role: model.RoleAdmin}, generated.ID))
}

func TestGetActive_NoLink(t *testing.T) {
	svc, _ := linkFixture(0)
	link, err := svc.GetActive(context.Background(), Actor{ID: "owner"}, "d1")
	require.NoError(t, err)
	require.Nil(t, link)
}

func TestGeneratePasswordIsHashed(t *testing.T) {
	svc, store := linkFixture(0)

	generated, err := svc.Generate(context.Background(), Actor{ID: "owner"}, "d1", ShareLinkSettings{
		Permission:      model.PermissionView,
		RequirePassword: true,
		Password:        "hunter2",
	})
	require.NoError(t, err)

	link, err := store.GetByID(context.Background(), generated.ID)
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", link.PasswordHash)
	require.NoError(t, password.Compare(link.PasswordHash, "hunter2"))
}

func tokenFromURL(t *testing.T, url string) string {
	t.Helper()
	require.Contains(t, url, "/share/")
	return url[strings.LastIndex(url, "/")+1:]
}
