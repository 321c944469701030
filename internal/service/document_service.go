package service

import (
	"context"
	"strings"

	"github.com/itsVijayCoder/doc-chain-server/internal/model"
	appErr "github.com/itsVijayCoder/doc-chain-server/internal/pkg/errors"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/timeutil"
	"github.com/itsVijayCoder/doc-chain-server/internal/repo"
)

type DocumentService struct {
	docs   *repo.DocumentRepo
	shares *repo.ShareRepo
}

func NewDocumentService(docs *repo.DocumentRepo, shares *repo.ShareRepo) *DocumentService {
	return &DocumentService{docs: docs, shares: shares}
}

type DocumentCreateInput struct {
	Title    string
	FileKey  string
	MimeType string
	Size     int64
}

func (s *DocumentService) Create(ctx context.Context, ownerID string, input DocumentCreateInput) (*model.Document, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, appErr.ErrInvalid
	}
	now := timeutil.NowMilli()
	doc := &model.Document{
		ID:       newID(),
		OwnerID:  ownerID,
		Title:    title,
		FileKey:  input.FileKey,
		MimeType: input.MimeType,
		Size:     input.Size,
		State:    repo.DocumentStateActive,
		Ctime:    now,
		Mtime:    now,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns a document the actor may read: their own, any as org admin, or
// one granted to them through an active share.
func (s *DocumentService) Get(ctx context.Context, actor Actor, docID string) (*model.Document, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, actor, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) authorizeRead(ctx context.Context, actor Actor, doc *model.Document) error {
	if actor.CanManage(doc) {
		return nil
	}
	share, err := s.shares.GetActiveByGrantee(ctx, doc.ID, actor.ID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return appErr.ErrForbidden
		}
		return err
	}
	if share.ExpireAt > 0 && share.ExpireAt <= timeutil.NowMilli() {
		return appErr.ErrForbidden
	}
	return nil
}

func (s *DocumentService) List(ctx context.Context, ownerID, query string, starred *int, limit, offset uint) ([]model.Document, error) {
	return s.docs.List(ctx, ownerID, query, starred, limit, offset)
}

// SetStarred toggles the owner's favorite flag on a document.
func (s *DocumentService) SetStarred(ctx context.Context, ownerID, docID string, starred bool) error {
	value := 0
	if starred {
		value = 1
	}
	return s.docs.SetStarred(ctx, ownerID, docID, value, timeutil.NowMilli())
}

func (s *DocumentService) Delete(ctx context.Context, actor Actor, docID string) error {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if !actor.CanManage(doc) {
		return appErr.ErrForbidden
	}
	return s.docs.Delete(ctx, docID, timeutil.NowMilli())
}

// SharedWithMe lists documents other users granted to the viewer.
func (s *DocumentService) SharedWithMe(ctx context.Context, userID string) ([]repo.SharedDocument, error) {
	return s.shares.ListSharedWithUser(ctx, userID)
}
