package service

import (
	"context"
	"errors"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/trailmark/internal/model"
	appErr "github.com/xxxsen/trailmark/internal/pkg/errors"
	"github.com/xxxsen/trailmark/internal/pkg/jwt"
	"github.com/xxxsen/trailmark/internal/pkg/password"
	"github.com/xxxsen/trailmark/internal/pkg/timeutil"
	"github.com/xxxsen/trailmark/internal/repo"
)

type AuthService struct {
	users  *repo.UserRepo
	tokens *jwt.Manager
}

func NewAuthService(users *repo.UserRepo, tokens *jwt.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, email, plainPassword string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, "", appErr.ErrInvalid
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", appErr.ErrConflict
	} else if !errors.Is(err, appErr.ErrNotFound) {
		return nil, "", err
	}
	hash, err := password.Hash(plainPassword)
	if errors.Is(err, password.ErrTooShort) {
		return nil, "", appErr.ErrInvalid
	}
	if err != nil {
		return nil, "", err
	}
	now := timeutil.NowUnix()
	user := &model.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: hash,
		Ctime:        now,
		Mtime:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	logutil.GetLogger(ctx).Info("user registered", zap.String("user_id", user.ID))
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, appErr.ErrNotFound) {
			return nil, "", appErr.ErrUnauthorized
		}
		return nil, "", err
	}
	if !password.Match(user.PasswordHash, plainPassword) {
		return nil, "", appErr.ErrUnauthorized
	}
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
