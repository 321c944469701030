package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/itsVijayCoder/doc-chain-server/internal/model"
	appErr "github.com/itsVijayCoder/doc-chain-server/internal/pkg/errors"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/timeutil"
	"github.com/itsVijayCoder/doc-chain-server/internal/repo"
)

// Actor is the authenticated caller of a sharing operation. Managing a
// document's access requires owning it or holding the admin role.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) CanManage(doc *model.Document) bool {
	return a.ID == doc.OwnerID || a.Role == model.RoleAdmin
}

// The sharing orchestrator depends only on these narrow store surfaces, not
// on the full repository shapes.

type DocumentGetter interface {
	GetByID(ctx context.Context, docID string) (*model.Document, error)
}

type ShareStore interface {
	Create(ctx context.Context, share *model.Share) error
	GetByID(ctx context.Context, shareID string) (*model.Share, error)
	Revoke(ctx context.Context, shareID string, mtime int64) error
	RevokeByGrantee(ctx context.Context, docID, granteeID string, mtime int64) error
	ListActiveByDocument(ctx context.Context, docID string) ([]model.ShareWithGrantee, error)
}

type GranteeGetter interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
}

type ShareService struct {
	docs   DocumentGetter
	shares ShareStore
	users  GranteeGetter
}

func NewShareService(docs DocumentGetter, shares ShareStore, users GranteeGetter) *ShareService {
	return &ShareService{docs: docs, shares: shares, users: users}
}

// BatchGrantResult reports how far a batch got. On failure, grants 0..Granted-1
// are applied and stay applied; later users were never attempted.
type BatchGrantResult struct {
	Requested int `json:"requested"`
	Granted   int `json:"granted"`
}

// GrantBatch issues one grant per selected user, strictly sequentially in
// selection order, aborting on the first failure with no rollback of the
// grants already applied.
func (s *ShareService) GrantBatch(ctx context.Context, actor Actor, docID string, granteeIDs []string, permission model.PermissionLevel, expireAt int64) (BatchGrantResult, error) {
	result := BatchGrantResult{Requested: len(granteeIDs)}
	if len(granteeIDs) == 0 {
		return result, appErr.ErrInvalid
	}
	for _, granteeID := range granteeIDs {
		if _, err := s.Grant(ctx, actor, docID, granteeID, permission, expireAt); err != nil {
			logutil.GetLogger(ctx).Warn("batch grant aborted",
				zap.String("document_id", docID),
				zap.String("grantee_id", granteeID),
				zap.Int("granted", result.Granted),
				zap.Int("requested", result.Requested),
				zap.Error(err),
			)
			return result, err
		}
		result.Granted++
	}
	return result, nil
}

// Grant gives one user one permission level on one document. A user holding
// an active share is re-granted: the old share is revoked and a new one
// written, keeping at most one active share per (document, grantee).
func (s *ShareService) Grant(ctx context.Context, actor Actor, docID, granteeID string, permission model.PermissionLevel, expireAt int64) (*model.Share, error) {
	if !permission.Valid() {
		return nil, appErr.ErrInvalid
	}
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(doc) {
		return nil, appErr.ErrForbidden
	}
	grantee, err := s.users.GetByID(ctx, granteeID)
	if err != nil {
		return nil, err
	}
	if !grantee.IsActive {
		return nil, appErr.ErrInvalid
	}
	if grantee.ID == doc.OwnerID {
		// The owner already has full access; a self-grant would only
		// confuse the access list.
		return nil, appErr.ErrInvalid
	}
	now := timeutil.NowMilli()
	if err := s.shares.RevokeByGrantee(ctx, docID, granteeID, now); err != nil {
		return nil, err
	}
	share := &model.Share{
		ID:         newID(),
		DocumentID: docID,
		GranteeID:  granteeID,
		GrantedBy:  actor.ID,
		Permission: permission,
		ExpireAt:   expireAt,
		State:      repo.ShareStateActive,
		Ctime:      now,
		Mtime:      now,
	}
	if err := s.shares.Create(ctx, share); err != nil {
		return nil, err
	}
	return share, nil
}

// Remove revokes a single grant by share id.
func (s *ShareService) Remove(ctx context.Context, actor Actor, shareID string) error {
	share, err := s.shares.GetByID(ctx, shareID)
	if err != nil {
		return err
	}
	doc, err := s.docs.GetByID(ctx, share.DocumentID)
	if err != nil {
		return err
	}
	if !actor.CanManage(doc) {
		return appErr.ErrForbidden
	}
	return s.shares.Revoke(ctx, shareID, timeutil.NowMilli())
}

// ListByDocument returns the current access list. Grantees may see who else
// has access; only managers may change it.
func (s *ShareService) ListByDocument(ctx context.Context, actor Actor, docID string) ([]model.ShareWithGrantee, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	shares, err := s.shares.ListActiveByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(doc) && !s.isGrantee(shares, actor.ID) {
		return nil, appErr.ErrForbidden
	}
	return shares, nil
}

func (s *ShareService) isGrantee(shares []model.ShareWithGrantee, userID string) bool {
	for i := range shares {
		if shares[i].GranteeID == userID {
			return true
		}
	}
	return false
}
