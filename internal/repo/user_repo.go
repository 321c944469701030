package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/itsVijayCoder/doc-chain-server/internal/model"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/dbutil"
	appErr "github.com/itsVijayCoder/doc-chain-server/internal/pkg/errors"
)

var userColumns = []string{"id", "email", "name", "role", "avatar", "password_hash", "is_active", "mfa_enabled", "ctime", "mtime"}

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	data := map[string]interface{}{
		"id":            user.ID,
		"email":         user.Email,
		"name":          user.Name,
		"role":          user.Role,
		"avatar":        user.Avatar,
		"password_hash": user.PasswordHash,
		"is_active":     user.IsActive,
		"mfa_enabled":   user.MFAEnabled,
		"ctime":         user.Ctime,
		"mtime":         user.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("users", []map[string]interface{}{data})
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

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"email": email})
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"id": userID})
}

func (r *UserRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.User, error) {
	sqlStr, args, err := builder.BuildSelect("users", where, userColumns)
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
	var user model.User
	if err := scanUser(rows, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListActive returns active users ordered by name. The directory is assumed
// to fit in memory; filtering happens in the service layer.
func (r *UserRepo) ListActive(ctx context.Context) ([]model.User, error) {
	where := map[string]interface{}{
		"is_active": true,
		"_orderby":  "name ASC",
	}
	sqlStr, args, err := builder.BuildSelect("users", where, userColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	users := make([]model.User, 0)
	for rows.Next() {
		var user model.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(rows *sql.Rows, user *model.User) error {
	return rows.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.Avatar,
		&user.PasswordHash, &user.IsActive, &user.MFAEnabled, &user.Ctime, &user.Mtime)
}
