package service

import (
	"context"
	"strings"
	"time"

	"github.com/itsVijayCoder/doc-chain-server/internal/model"
	appErr "github.com/itsVijayCoder/doc-chain-server/internal/pkg/errors"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/jwt"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/password"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/timeutil"
	"github.com/itsVijayCoder/doc-chain-server/internal/repo"
)

type AuthService struct {
	users     *repo.UserRepo
	jwtSecret []byte
	jwtTTL    time.Duration
}

func NewAuthService(users *repo.UserRepo, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{users: users, jwtSecret: secret, jwtTTL: ttl}
}

func (s *AuthService) Register(ctx context.Context, email, name, plainPassword string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plainPassword == "" {
		return nil, "", appErr.ErrInvalid
	}
	if name == "" {
		name = email
	}
	now := timeutil.NowMilli()
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, "", err
	}
	user := &model.User{
		ID:           newID(),
		Email:        email,
		Name:         name,
		Role:         model.RoleViewer,
		PasswordHash: hash,
		IsActive:     true,
		Ctime:        now,
		Mtime:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := jwt.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", appErr.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, "", appErr.ErrUnauthorized
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return nil, "", appErr.ErrUnauthorized
	}
	token, err := jwt.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}
