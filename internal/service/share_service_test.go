package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itsVijayCoder/doc-chain-server/internal/model"
	appErr "github.com/itsVijayCoder/doc-chain-server/internal/pkg/errors"
)

type fakeDocs struct {
	docs map[string]*model.Document
}

func (f *fakeDocs) GetByID(ctx context.Context, docID string) (*model.Document, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return doc, nil
}

type fakeShareStore struct {
	created      []*model.Share
	revoked      []string
	regranted    []string
	byID         map[string]*model.Share
	active       map[string][]model.ShareWithGrantee
	createErrFor map[string]error
}

func (f *fakeShareStore) Create(ctx context.Context, share *model.Share) error {
	if err := f.createErrFor[share.GranteeID]; err != nil {
		return err
	}
	f.created = append(f.created, share)
	return nil
}

func (f *fakeShareStore) GetByID(ctx context.Context, shareID string) (*model.Share, error) {
	share, ok := f.byID[shareID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return share, nil
}

func (f *fakeShareStore) Revoke(ctx context.Context, shareID string, mtime int64) error {
	f.revoked = append(f.revoked, shareID)
	return nil
}

func (f *fakeShareStore) RevokeByGrantee(ctx context.Context, docID, granteeID string, mtime int64) error {
	f.regranted = append(f.regranted, docID+"|"+granteeID)
	return nil
}

func (f *fakeShareStore) ListActiveByDocument(ctx context.Context, docID string) ([]model.ShareWithGrantee, error) {
	return f.active[docID], nil
}

type fakeUsers struct {
	users map[string]*model.User
}

func (f *fakeUsers) GetByID(ctx context.Context, userID string) (*model.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return user, nil
}

func shareFixture() (*ShareService, *fakeShareStore) {
	docs := &fakeDocs{docs: map[string]*model.Document{
		"d1": {ID: "d1", OwnerID: "owner", Title: "report.pdf"},
	}}
	users := &fakeUsers{users: map[string]*model.User{
		"owner":    {ID: "owner", IsActive: true},
		"u1":       {ID: "u1", IsActive: true},
		"u2":       {ID: "u2", IsActive: true},
		"u3":       {ID: "u3", IsActive: true},
		"inactive": {ID: "inactive", IsActive: false},
	}}
	store := &fakeShareStore{
		byID:         map[string]*model.Share{},
		active:       map[string][]model.ShareWithGrantee{},
		createErrFor: map[string]error{},
	}
	return NewShareService(docs, store, users), store
}

func TestGrantBatch_SequentialOrder(t *testing.T) {
	svc, store := shareFixture()
	actor := Actor{ID: "owner"}

	result, err := svc.GrantBatch(context.Background(), actor, "d1", []string{"u2", "u1", "u3"}, model.PermissionEdit, 0)
	require.NoError(t, err)
	require.Equal(t, BatchGrantResult{Requested: 3, Granted: 3}, result)

	require.Len(t, store.created, 3)
	require.Equal(t, "u2", store.created[0].GranteeID)
	require.Equal(t, "u1", store.created[1].GranteeID)
	require.Equal(t, "u3", store.created[2].GranteeID)
}

func TestGrantBatch_AbortsOnFirstFailure(t *testing.T) {
	svc, store := shareFixture()
	boom := errors.New("write failed")
	store.createErrFor["u2"] = boom

	result, err := svc.GrantBatch(context.Background(), Actor{ID: "owner"}, "d1", []string{"u1", "u2", "u3"}, model.PermissionView, 0)
	require.ErrorIs(t, err, boom)
	require.Equal(t, BatchGrantResult{Requested: 3, Granted: 1}, result)

	// u1's grant stays applied, u3 was never attempted.
	require.Len(t, store.created, 1)
	require.Equal(t, "u1", store.created[0].GranteeID)
}

func TestGrantBatch_EmptySelection(t *testing.T) {
	svc, store := shareFixture()
	_, err := svc.GrantBatch(context.Background(), Actor{ID: "owner"}, "d1", nil, model.PermissionView, 0)
	require.ErrorIs(t, err, appErr.ErrInvalid)
	require.Empty(t, store.created)
}

func TestGrant_RegrantRevokesPrevious(t *testing.T) {
	svc, store := shareFixture()

	share, err := svc.Grant(context.Background(), Actor{ID: "owner"}, "d1", "u1", model.PermissionAdmin, 123)
	require.NoError(t, err)
	require.Equal(t, model.PermissionAdmin, share.Permission)
	require.Equal(t, int64(123), share.ExpireAt)
	require.Equal(t, "owner", share.GrantedBy)

	// Every grant retires any active share for the same pair first.
	require.Equal(t, []string{"d1|u1"}, store.regranted)
}

func TestGrant_Rejections(t *testing.T) {
	svc, _ := shareFixture()
	ctx := context.Background()
	owner := Actor{ID: "owner"}

	_, err := svc.Grant(ctx, owner, "d1", "u1", "superuser", 0)
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Grant(ctx, Actor{ID: "u1", Role: model.RoleEditor}, "d1", "u2", model.PermissionView, 0)
	require.ErrorIs(t, err, appErr.ErrForbidden)

	_, err = svc.Grant(ctx, owner, "d1", "inactive", model.PermissionView, 0)
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Grant(ctx, owner, "d1", "owner", model.PermissionView, 0)
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Grant(ctx, owner, "missing", "u1", model.PermissionView, 0)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestGrant_OrgAdminCanManageOthersDocuments(t *testing.T) {
	svc, store := shareFixture()
	_, err := svc.Grant(context.Background(), Actor{ID: "u3", Role: model.RoleAdmin}, "d1", "u1", model.PermissionView, 0)
	require.NoError(t, err)
	require.Len(t, store.created, 1)
}

func TestRemove(t *testing.T) {
	svc, store := shareFixture()
	store.byID["s1"] = &model.Share{ID: "s1", DocumentID: "d1", GranteeID: "u1"}

	err := svc.Remove(context.Background(), Actor{ID: "u2"}, "s1")
	require.ErrorIs(t, err, appErr.ErrForbidden)
	require.Empty(t, store.revoked)

	err = svc.Remove(context.Background(), Actor{ID: "owner"}, "s1")
	require.NoError(t, err)
	require.Equal(t, []string{"s1"}, store.revoked)

	err = svc.Remove(context.Background(), Actor{ID: "owner"}, "missing")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestListByDocument_Visibility(t *testing.T) {
	svc, store := shareFixture()
	store.active["d1"] = []model.ShareWithGrantee{
		{Share: model.Share{ID: "s1", DocumentID: "d1", GranteeID: "u1"}},
	}
	ctx := context.Background()

	shares, err := svc.ListByDocument(ctx, Actor{ID: "owner"}, "d1")
	require.NoError(t, err)
	require.Len(t, shares, 1)

	// A grantee may see the access list too.
	shares, err = svc.ListByDocument(ctx, Actor{ID: "u1"}, "d1")
	require.NoError(t, err)
	require.Len(t, shares, 1)

	_, err = svc.ListByDocument(ctx, Actor{ID: "u2"}, "d1")
	require.ErrorIs(t, err, appErr.ErrForbidden)
}
