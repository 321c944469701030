package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/itsVijayCoder/doc-chain-server/internal/model"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/dbutil"
	appErr "github.com/itsVijayCoder/doc-chain-server/internal/pkg/errors"
)

const (
	ShareStateActive  = 1
	ShareStateRevoked = 2
)

var shareColumns = []string{"id", "document_id", "grantee_id", "granted_by", "permission", "expire_at", "state", "ctime", "mtime"}

type ShareRepo struct {
	db *sql.DB
}

func NewShareRepo(db *sql.DB) *ShareRepo {
	return &ShareRepo{db: db}
}

func (r *ShareRepo) Create(ctx context.Context, share *model.Share) error {
	data := map[string]interface{}{
		"id":          share.ID,
		"document_id": share.DocumentID,
		"grantee_id":  share.GranteeID,
		"granted_by":  share.GrantedBy,
		"permission":  string(share.Permission),
		"expire_at":   share.ExpireAt,
		"state":       share.State,
		"ctime":       share.Ctime,
		"mtime":       share.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("shares", []map[string]interface{}{data})
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

func (r *ShareRepo) GetByID(ctx context.Context, shareID string) (*model.Share, error) {
	where := map[string]interface{}{"id": shareID}
	sqlStr, args, err := builder.BuildSelect("shares", where, shareColumns)
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
	var share model.Share
	if err := scanShare(rows, &share); err != nil {
		return nil, err
	}
	return &share, nil
}

func (r *ShareRepo) Revoke(ctx context.Context, shareID string, mtime int64) error {
	where := map[string]interface{}{"id": shareID, "state": ShareStateActive}
	update := map[string]interface{}{"state": ShareStateRevoked, "mtime": mtime}
	sqlStr, args, err := builder.BuildUpdate("shares", where, update)
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

// RevokeByGrantee retires any active share for the pair before a re-grant.
func (r *ShareRepo) RevokeByGrantee(ctx context.Context, docID, granteeID string, mtime int64) error {
	where := map[string]interface{}{"document_id": docID, "grantee_id": granteeID, "state": ShareStateActive}
	update := map[string]interface{}{"state": ShareStateRevoked, "mtime": mtime}
	sqlStr, args, err := builder.BuildUpdate("shares", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ShareRepo) ListActiveByDocument(ctx context.Context, docID string) ([]model.ShareWithGrantee, error) {
	sqlStr := `
		SELECT s.id, s.document_id, s.grantee_id, s.granted_by, s.permission, s.expire_at, s.state, s.ctime, s.mtime,
		       u.id, u.email, u.name, u.role, u.avatar, u.is_active, u.mfa_enabled, u.ctime, u.mtime
		FROM shares s
		JOIN users u ON u.id = s.grantee_id
		WHERE s.document_id = ? AND s.state = ?
		ORDER BY s.ctime ASC
	`
	args := []interface{}{docID, ShareStateActive}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := make([]model.ShareWithGrantee, 0)
	for rows.Next() {
		var item model.ShareWithGrantee
		if err := rows.Scan(&item.ID, &item.DocumentID, &item.GranteeID, &item.GrantedBy, &item.Permission,
			&item.ExpireAt, &item.State, &item.Ctime, &item.Mtime,
			&item.Grantee.ID, &item.Grantee.Email, &item.Grantee.Name, &item.Grantee.Role, &item.Grantee.Avatar,
			&item.Grantee.IsActive, &item.Grantee.MFAEnabled, &item.Grantee.Ctime, &item.Grantee.Mtime); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SharedDocument is a document granted to the viewer by someone else.
type SharedDocument struct {
	Document   model.Document        `json:"document"`
	Permission model.PermissionLevel `json:"permission"`
	SharedBy   string                `json:"shared_by"`
	Ctime      int64                 `json:"ctime"`
	ExpireAt   int64                 `json:"expire_at,omitempty"`
}

func (r *ShareRepo) ListSharedWithUser(ctx context.Context, granteeID string) ([]SharedDocument, error) {
	sqlStr := `
		SELECT d.id, d.owner_id, d.title, d.file_key, d.mime_type, d.size, d.starred, d.state, d.ctime, d.mtime,
		       s.permission, s.granted_by, s.ctime, s.expire_at
		FROM shares s
		JOIN documents d ON d.id = s.document_id
		WHERE s.grantee_id = ? AND s.state = ? AND d.state = ?
		ORDER BY s.ctime DESC
	`
	args := []interface{}{granteeID, ShareStateActive, DocumentStateActive}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := make([]SharedDocument, 0)
	for rows.Next() {
		var item SharedDocument
		if err := rows.Scan(&item.Document.ID, &item.Document.OwnerID, &item.Document.Title, &item.Document.FileKey,
			&item.Document.MimeType, &item.Document.Size, &item.Document.Starred, &item.Document.State,
			&item.Document.Ctime, &item.Document.Mtime,
			&item.Permission, &item.SharedBy, &item.Ctime, &item.ExpireAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetActiveByGrantee resolves the viewer's own grant on a document, used for
// access checks on documents the viewer does not own.
func (r *ShareRepo) GetActiveByGrantee(ctx context.Context, docID, granteeID string) (*model.Share, error) {
	where := map[string]interface{}{"document_id": docID, "grantee_id": granteeID, "state": ShareStateActive}
	sqlStr, args, err := builder.BuildSelect("shares", where, shareColumns)
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
	var share model.Share
	if err := scanShare(rows, &share); err != nil {
		return nil, err
	}
	return &share, nil
}

// RevokeExpired retires shares whose expiry has passed. Returns the number of
// shares swept.
func (r *ShareRepo) RevokeExpired(ctx context.Context, now int64) (int64, error) {
	sqlStr := `UPDATE shares SET state = ?, mtime = ? WHERE state = ? AND expire_at > 0 AND expire_at <= ?`
	args := []interface{}{ShareStateRevoked, now, ShareStateActive, now}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanShare(rows *sql.Rows, share *model.Share) error {
	return rows.Scan(&share.ID, &share.DocumentID, &share.GranteeID, &share.GrantedBy,
		&share.Permission, &share.ExpireAt, &share.State, &share.Ctime, &share.Mtime)
}
