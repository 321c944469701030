package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/itsVijayCoder/doc-chain-server/internal/model"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/dbutil"
	appErr "github.com/itsVijayCoder/doc-chain-server/internal/pkg/errors"
)

var shareLinkColumns = []string{"id", "document_id", "created_by", "token", "permission", "allow_download",
	"password_hash", "blockchain_audit", "expire_at", "state", "ctime", "mtime"}

type ShareLinkRepo struct {
	db *sql.DB
}

func NewShareLinkRepo(db *sql.DB) *ShareLinkRepo {
	return &ShareLinkRepo{db: db}
}

func (r *ShareLinkRepo) Create(ctx context.Context, link *model.ShareLink) error {
	data := map[string]interface{}{
		"id":               link.ID,
		"document_id":      link.DocumentID,
		"created_by":       link.CreatedBy,
		"token":            link.Token,
		"permission":       string(link.Permission),
		"allow_download":   link.AllowDownload,
		"password_hash":    link.PasswordHash,
		"blockchain_audit": link.BlockchainAudit,
		"expire_at":        link.ExpireAt,
		"state":            link.State,
		"ctime":            link.Ctime,
		"mtime":            link.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("share_links", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ShareLinkRepo) GetByID(ctx context.Context, linkID string) (*model.ShareLink, error) {
	return r.getOne(ctx, map[string]interface{}{"id": linkID})
}

func (r *ShareLinkRepo) GetByToken(ctx context.Context, token string) (*model.ShareLink, error) {
	return r.getOne(ctx, map[string]interface{}{"token": token})
}

func (r *ShareLinkRepo) GetActiveByDocument(ctx context.Context, docID string) (*model.ShareLink, error) {
	return r.getOne(ctx, map[string]interface{}{"document_id": docID, "state": ShareStateActive})
}

func (r *ShareLinkRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.ShareLink, error) {
	sqlStr, args, err := builder.BuildSelect("share_links", where, shareLinkColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var link model.ShareLink
	if err := scanShareLink(rows, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *ShareLinkRepo) Revoke(ctx context.Context, linkID string, mtime int64) error {
	where := map[string]interface{}{"id": linkID, "state": ShareStateActive}
	update := map[string]interface{}{"state": ShareStateRevoked, "mtime": mtime}
	sqlStr, args, err := builder.BuildUpdate("share_links", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// RevokeByDocument supersedes the document's current link before a new one is
// written.
func (r *ShareLinkRepo) RevokeByDocument(ctx context.Context, docID string, mtime int64) error {
	where := map[string]interface{}{"document_id": docID, "state": ShareStateActive}
	update := map[string]interface{}{"state": ShareStateRevoked, "mtime": mtime}
	sqlStr, args, err := builder.BuildUpdate("share_links", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ShareLinkRepo) RevokeExpired(ctx context.Context, now int64) (int64, error) {
	sqlStr := `UPDATE share_links SET state = ?, mtime = ? WHERE state = ? AND expire_at > 0 AND expire_at <= ?`
	args := []interface{}{ShareStateRevoked, now, ShareStateActive, now}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanShareLink(rows *sql.Rows, link *model.ShareLink) error {
	return rows.Scan(&link.ID, &link.DocumentID, &link.CreatedBy, &link.Token, &link.Permission,
		&link.AllowDownload, &link.PasswordHash, &link.BlockchainAudit, &link.ExpireAt,
		&link.State, &link.Ctime, &link.Mtime)
}
