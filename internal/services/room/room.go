// Package room реализует справочник залов.
package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// Repository определяет методы хранилища залов.
type Repository interface {
	CreateRoom(ctx context.Context, room *models.Room) (int64, error)
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id int64) error
}

type Service struct {
	log  *slog.Logger
	repo Repository
}

func New(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

func (s *Service) Create(ctx context.Context, room *models.Room) (*models.Room, error) {
	const op = "room.Create"
	if err := validate(room); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.repo.CreateRoom(ctx, room)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", op, apperr.Newf(apperr.ErrConflict, "room %q already exists", room.Name))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	room.ID = id
	s.log.Info("room created", slog.String("op", op), slog.Int64("room_id", id))
	return room, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Room, error) {
	const op = "room.Get"
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err, id))
	}
	return room, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Room, error) {
	const op = "room.List"
	list, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (s *Service) Update(ctx context.Context, room *models.Room) (*models.Room, error) {
	const op = "room.Update"
	if err := validate(room); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err, room.ID))
	}
	return room, nil
}

// Delete удаляет зал. Зал с занятиями удалить нельзя.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "room.Delete"
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrConflict, "room has scheduled classes"))
		}
		return fmt.Errorf("%s: %w", op, notFound(err, id))
	}
	return nil
}

func validate(room *models.Room) error {
	if strings.TrimSpace(room.Name) == "" {
		return apperr.New(apperr.ErrInvalidArgument, "room name is required")
	}
	if room.Capacity <= 0 {
		return apperr.New(apperr.ErrInvalidArgument, "room capacity must be positive")
	}
	return nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Newf(apperr.ErrNotFound, "room %d not found", id)
	}
	return err
}
