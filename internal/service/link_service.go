package service

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/itsVijayCoder/doc-chain-server/internal/model"
	appErr "github.com/itsVijayCoder/doc-chain-server/internal/pkg/errors"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/password"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/timeutil"
	"github.com/itsVijayCoder/doc-chain-server/internal/repo"
)

type LinkStore interface {
	Create(ctx context.Context, link *model.ShareLink) error
	GetByID(ctx context.Context, linkID string) (*model.ShareLink, error)
	GetByToken(ctx context.Context, token string) (*model.ShareLink, error)
	GetActiveByDocument(ctx context.Context, docID string) (*model.ShareLink, error)
	Revoke(ctx context.Context, linkID string, mtime int64) error
	RevokeByDocument(ctx context.Context, docID string, mtime int64) error
}

// ShareLinkSettings is the draft configuration submitted for generation.
// The blockchain-audit flag is accepted and stored but carries no behavior.
type ShareLinkSettings struct {
	Permission      model.PermissionLevel
	ExpireAt        int64
	AllowDownload   bool
	RequirePassword bool
	Password        string
	BlockchainAudit bool
}

// Validate enforces the one pre-submission rule: a password-protected link
// needs a non-empty password.
func (s ShareLinkSettings) Validate() error {
	if !s.Permission.Valid() {
		return appErr.ErrInvalid
	}
	if s.RequirePassword && s.Password == "" {
		return appErr.ErrInvalid
	}
	return nil
}

// LinkAccess is what a resolved public link exposes.
type LinkAccess struct {
	Document      *model.Document       `json:"document"`
	Permission    model.PermissionLevel `json:"permission"`
	AllowDownload bool                  `json:"allow_download"`
	ExpireAt      int64                 `json:"expire_at,omitempty"`
}

type LinkService struct {
	docs    DocumentGetter
	links   LinkStore
	baseURL string
	cache   *expirable.LRU[string, *model.ShareLink]
}

// NewLinkService builds the link orchestrator. The cache fronts public token
// resolution; its TTL bounds how long a revoked link may still resolve from
// cache on other nodes (local revokes purge immediately).
func NewLinkService(docs DocumentGetter, links LinkStore, baseURL string, cacheSize int, cacheTTL time.Duration) *LinkService {
	var cache *expirable.LRU[string, *model.ShareLink]
	if cacheSize > 0 && cacheTTL > 0 {
		cache = expirable.NewLRU[string, *model.ShareLink](cacheSize, nil, cacheTTL)
	}
	return &LinkService{
		docs:    docs,
		links:   links,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cache:   cache,
	}
}

// Generate creates a share link from validated settings, replacing any
// previous active link for the document. The requested permission is coerced
// through the link ceiling: links never carry admin rights.
func (s *LinkService) Generate(ctx context.Context, actor Actor, docID string, settings ShareLinkSettings) (*model.GeneratedLink, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(doc) {
		return nil, appErr.ErrForbidden
	}
	permission := settings.Permission.CapForLink()
	if permission != settings.Permission {
		logutil.GetLogger(ctx).Info("link permission coerced",
			zap.String("document_id", docID),
			zap.String("requested", string(settings.Permission)),
			zap.String("applied", string(permission)),
		)
	}
	var passwordHash string
	if settings.RequirePassword {
		passwordHash, err = password.Hash(settings.Password)
		if err != nil {
			return nil, err
		}
	}
	now := timeutil.NowMilli()
	if prev, err := s.links.GetActiveByDocument(ctx, docID); err == nil {
		s.cachePurge(prev.Token)
	} else if !appErr.IsNotFound(err) {
		return nil, err
	}
	if err := s.links.RevokeByDocument(ctx, docID, now); err != nil {
		return nil, err
	}
	link := &model.ShareLink{
		ID:              newID(),
		DocumentID:      docID,
		CreatedBy:       actor.ID,
		Token:           newToken(),
		Permission:      permission,
		AllowDownload:   settings.AllowDownload,
		PasswordHash:    passwordHash,
		BlockchainAudit: settings.BlockchainAudit,
		ExpireAt:        settings.ExpireAt,
		State:           repo.ShareStateActive,
		Ctime:           now,
		Mtime:           now,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}
	return &model.GeneratedLink{ID: link.ID, URL: s.URL(link.Token)}, nil
}

func (s *LinkService) URL(token string) string {
	return s.baseURL + "/share/" + token
}

// GetActive returns the document's current link, or nil when none exists.
func (s *LinkService) GetActive(ctx context.Context, actor Actor, docID string) (*model.ShareLink, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(doc) {
		return nil, appErr.ErrForbidden
	}
	link, err := s.links.GetActiveByDocument(ctx, docID)
	if appErr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

// Revoke invalidates a link by id. Anyone holding the URL loses access once
// the cache entry is purged.
func (s *LinkService) Revoke(ctx context.Context, actor Actor, linkID string) error {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return err
	}
	doc, err := s.docs.GetByID(ctx, link.DocumentID)
	if err != nil {
		return err
	}
	if !actor.CanManage(doc) {
		return appErr.ErrForbidden
	}
	if err := s.links.Revoke(ctx, linkID, timeutil.NowMilli()); err != nil {
		return err
	}
	s.cachePurge(link.Token)
	return nil
}

// Resolve checks a public token and, when the link is password-protected,
// the supplied password. Revoked and expired links resolve to not-found;
// a wrong password is a distinct failure so the client can re-prompt.
func (s *LinkService) Resolve(ctx context.Context, token, plainPassword string) (*LinkAccess, error) {
	link, err := s.lookupToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link.State != repo.ShareStateActive {
		return nil, appErr.ErrNotFound
	}
	if link.ExpireAt > 0 && link.ExpireAt <= timeutil.NowMilli() {
		return nil, appErr.ErrLinkExpired
	}
	if link.RequiresPassword() {
		if plainPassword == "" {
			return nil, appErr.ErrBadPassword
		}
		if err := password.Compare(link.PasswordHash, plainPassword); err != nil {
			return nil, appErr.ErrBadPassword
		}
	}
	doc, err := s.docs.GetByID(ctx, link.DocumentID)
	if err != nil {
		return nil, err
	}
	return &LinkAccess{
		Document:      doc,
		Permission:    link.Permission,
		AllowDownload: link.AllowDownload,
		ExpireAt:      link.ExpireAt,
	}, nil
}

func (s *LinkService) lookupToken(ctx context.Context, token string) (*model.ShareLink, error) {
	if s.cache != nil {
		if link, ok := s.cache.Get(token); ok {
			return link, nil
		}
	}
	link, err := s.links.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && link.State == repo.ShareStateActive {
		s.cache.Add(token, link)
	}
	return link, nil
}

func (s *LinkService) cachePurge(token string) {
	if s.cache != nil {
		s.cache.Remove(token)
	}
}
