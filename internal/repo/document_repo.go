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
	DocumentStateActive  = 1
	DocumentStateDeleted = 2
)

var documentColumns = []string{"id", "owner_id", "title", "file_key", "mime_type", "size", "starred", "state", "ctime", "mtime"}

type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) Create(ctx context.Context, doc *model.Document) error {
	data := map[string]interface{}{
		"id":        doc.ID,
		"owner_id":  doc.OwnerID,
		"title":     doc.Title,
		"file_key":  doc.FileKey,
		"mime_type": doc.MimeType,
		"size":      doc.Size,
		"starred":   doc.Starred,
		"state":     doc.State,
		"ctime":     doc.Ctime,
		"mtime":     doc.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("documents", []map[string]interface{}{data})
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

// GetByID returns an active document regardless of owner; authorization is
// the service layer's concern since grantees may read documents they do not
// own.
func (r *DocumentRepo) GetByID(ctx context.Context, docID string) (*model.Document, error) {
	where := map[string]interface{}{"id": docID, "state": DocumentStateActive}
	sqlStr, args, err := builder.BuildSelect("documents", where, documentColumns)
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
	var doc model.Document
	if err := scanDocument(rows, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepo) List(ctx context.Context, ownerID, query string, starred *int, limit, offset uint) ([]model.Document, error) {
	sqlStr := `
		SELECT id, owner_id, title, file_key, mime_type, size, starred, state, ctime, mtime
		FROM documents
		WHERE owner_id = ? AND state = ?
	`
	args := []interface{}{ownerID, DocumentStateActive}
	if query != "" {
		sqlStr += " AND title ILIKE ?"
		args = append(args, "%"+query+"%")
	}
	if starred != nil {
		sqlStr += " AND starred = ?"
		args = append(args, *starred)
	}
	sqlStr += " ORDER BY mtime DESC"
	if limit > 0 {
		sqlStr += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	docs := make([]model.Document, 0)
	for rows.Next() {
		var doc model.Document
		if err := scanDocument(rows, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *DocumentRepo) SetStarred(ctx context.Context, ownerID, docID string, starred int, mtime int64) error {
	where := map[string]interface{}{"id": docID, "owner_id": ownerID, "state": DocumentStateActive}
	update := map[string]interface{}{"starred": starred, "mtime": mtime}
	return r.update(ctx, where, update)
}

func (r *DocumentRepo) Delete(ctx context.Context, docID string, mtime int64) error {
	where := map[string]interface{}{"id": docID, "state": DocumentStateActive}
	update := map[string]interface{}{"state": DocumentStateDeleted, "mtime": mtime}
	return r.update(ctx, where, update)
}

func (r *DocumentRepo) update(ctx context.Context, where, update map[string]interface{}) error {
	sqlStr, args, err := builder.BuildUpdate("documents", where, update)
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

func scanDocument(rows *sql.Rows, doc *model.Document) error {
	return rows.Scan(&doc.ID, &doc.OwnerID, &doc.Title, &doc.FileKey, &doc.MimeType,
		&doc.Size, &doc.Starred, &doc.State, &doc.Ctime, &doc.Mtime)
}
