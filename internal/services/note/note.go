// Package note реализует заметки тренера о клиентах.
package note

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

type Repository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateNote(ctx context.Context, n *models.TrainerNote) (int64, error)
	GetNote(ctx context.Context, id int64) (*models.TrainerNote, error)
	ListNotes(ctx context.Context, trainerID, clientID int64) ([]*models.TrainerNote, error)
	UpdateNote(ctx context.Context, id int64, note string, updatedAt time.Time) error
	DeleteNote(ctx context.Context, id int64) error
}

type Service struct {
	log  *slog.Logger
	repo Repository
	now  func() time.Time
}

func New(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo, now: time.Now}
}

// Create добавляет заметку тренера о клиенте clientID.
func (s *Service) Create(ctx context.Context, trainerID, clientID int64, text string) (*models.TrainerNote, error) {
	const op = "note.Create"
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrInvalidArgument, "note text is required"))
	}
	client, err := s.repo.GetUserByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, apperr.Newf(apperr.ErrNotFound, "client %d not found", clientID))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !client.HasRole(models.RoleClient) {
		return nil, fmt.Errorf("%s: %w", op, apperr.Newf(apperr.ErrInvalidArgument, "user %d is not a client", clientID))
	}

	now := s.now()
	n := &models.TrainerNote{TrainerID: trainerID, ClientID: clientID, Note: text, CreatedAt: now, UpdatedAt: now}
	id, err := s.repo.CreateNote(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n.ID = id
	return n, nil
}

// List возвращает заметки тренера. clientID == 0 означает всех клиентов.
func (s *Service) List(ctx context.Context, trainerID, clientID int64) ([]*models.TrainerNote, error) {
	const op = "note.List"
	list, err := s.repo.ListNotes(ctx, trainerID, clientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Get возвращает заметку автора.
func (s *Service) Get(ctx context.Context, trainerID, id int64) (*models.TrainerNote, error) {
	const op = "note.Get"
	n, err := s.owned(ctx, trainerID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// Update меняет текст заметки. Менять может только автор.
func (s *Service) Update(ctx context.Context, trainerID, id int64, text string) (*models.TrainerNote, error) {
	const op = "note.Update"
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrInvalidArgument, "note text is required"))
	}
	n, err := s.owned(ctx, trainerID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n.Note, n.UpdatedAt = text, s.now()
	if err := s.repo.UpdateNote(ctx, id, n.Note, n.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// Delete удаляет заметку автора.
func (s *Service) Delete(ctx context.Context, trainerID, id int64) error {
	const op = "note.Delete"
	if _, err := s.owned(ctx, trainerID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, trainerID, id int64) (*models.TrainerNote, error) {
	n, err := s.repo.GetNote(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Newf(apperr.ErrNotFound, "note %d not found", id)
		}
		return nil, err
	}
	if n.TrainerID != trainerID {
		return nil, apperr.New(apperr.ErrForbidden, "you can only manage your own notes")
	}
	return n, nil
}
