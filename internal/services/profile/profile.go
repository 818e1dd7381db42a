// Package profile реализует просмотр и изменение собственного профиля.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Naivezz/FitPoint-sub000/internal/cache"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/password"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/sl"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// Repository определяет методы хранилища пользователей.
type Repository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id int64, firstName, lastName, phone string) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

// Cache — кэш чтения профилей.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, keys ...string) error
}

// UpdateInput — изменяемые поля профиля.
type UpdateInput struct {
	FirstName string
	LastName  string
	Phone     string
}

type Service struct {
	log   *slog.Logger
	repo  Repository
	cache Cache
}

func New(log *slog.Logger, repo Repository, cache Cache) *Service {
	return &Service{log: log, repo: repo, cache: cache}
}

// Get возвращает профиль пользователя userID.
func (s *Service) Get(ctx context.Context, userID int64) (*models.User, error) {
	const op = "profile.Get"
	var cached models.User
	found, err := s.cache.Get(ctx, cache.ProfileKey(userID), &cached)
	if err != nil {
		s.log.Warn("failed to read profile from cache", slog.String("op", op), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, cache.ProfileKey(userID), user); err != nil {
		s.log.Warn("failed to cache profile", slog.String("op", op), sl.Err(err))
	}
	return user, nil
}

// Update меняет имя, фамилию и телефон.
func (s *Service) Update(ctx context.Context, userID int64, in UpdateInput) (*models.User, error) {
	const op = "profile.Update"
	if err := s.repo.UpdateUserProfile(ctx, userID, in.FirstName, in.LastName, in.Phone); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, apperr.Newf(apperr.ErrNotFound, "user %d not found", userID))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, cache.ProfileKey(userID)); err != nil {
		s.log.Warn("failed to invalidate profile cache", slog.String("op", op), sl.Err(err))
	}
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ChangePassword меняет пароль после проверки текущего.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	const op = "profile.ChangePassword"
	user, err := s.load(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Compare(user.PasswordHash, oldPassword); err != nil {
		return fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrInvalidArgument, "current password is incorrect"))
	}
	hashed, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdateUserPassword(ctx, userID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("password changed", slog.String("op", op), slog.Int64("user_id", userID))
	return nil
}

func (s *Service) load(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Newf(apperr.ErrNotFound, "user %d not found", userID)
		}
		return nil, err
	}
	return user, nil
}
