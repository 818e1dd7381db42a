// Package personalsession реализует персональные тренировки тренера с клиентом.
package personalsession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

type Repository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateSession(ctx context.Context, ps *models.PersonalTrainingSession) (int64, error)
	GetSession(ctx context.Context, id int64) (*models.PersonalTrainingSession, error)
	ListTrainerSessions(ctx context.Context, trainerID int64) ([]*models.PersonalTrainingSession, error)
	UpdateSession(ctx context.Context, ps *models.PersonalTrainingSession) error
	DeleteSession(ctx context.Context, id int64) error
}

// Input — поля тренировки, задаваемые тренером. Пустой Status при создании
// означает SCHEDULED, при изменении оставляет статус прежним.
type Input struct {
	ClientID  int64
	StartTime time.Time
	EndTime   time.Time
	Goal      string
	Notes     string
	Status    string
}

type Service struct {
	log  *slog.Logger
	repo Repository
}

func New(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

// Create назначает тренировку тренера trainerID.
func (s *Service) Create(ctx context.Context, trainerID int64, in Input) (*models.PersonalTrainingSession, error) {
	const op = "personalsession.Create"
	ps := &models.PersonalTrainingSession{TrainerID: trainerID, Status: models.SessionScheduled}
	if err := s.fill(ctx, ps, in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.repo.CreateSession(ctx, ps)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ps.ID = id
	s.log.Info("personal session scheduled", slog.String("op", op), slog.Int64("session_id", id))
	return ps, nil
}

// List возвращает тренировки тренера.
func (s *Service) List(ctx context.Context, trainerID int64) ([]*models.PersonalTrainingSession, error) {
	const op = "personalsession.List"
	list, err := s.repo.ListTrainerSessions(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, trainerID, id int64) (*models.PersonalTrainingSession, error) {
	const op = "personalsession.Get"
	ps, err := s.owned(ctx, trainerID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// Update перезаписывает поля тренировки.
func (s *Service) Update(ctx context.Context, trainerID, id int64, in Input) (*models.PersonalTrainingSession, error) {
	const op = "personalsession.Update"
	ps, err := s.owned(ctx, trainerID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.fill(ctx, ps, in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdateSession(ctx, ps); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// Cancel отменяет тренировку, если она ещё не завершена.
func (s *Service) Cancel(ctx context.Context, trainerID, id int64) (*models.PersonalTrainingSession, error) {
	const op = "personalsession.Cancel"
	ps, err := s.transition(ctx, trainerID, id, models.SessionCancelled)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// Complete отмечает тренировку проведённой. Допустимо только из SCHEDULED.
func (s *Service) Complete(ctx context.Context, trainerID, id int64) (*models.PersonalTrainingSession, error) {
	const op = "personalsession.Complete"
	ps, err := s.transition(ctx, trainerID, id, models.SessionCompleted)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s *Service) Delete(ctx context.Context, trainerID, id int64) error {
	const op = "personalsession.Delete"
	if _, err := s.owned(ctx, trainerID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) transition(ctx context.Context, trainerID, id int64, to models.SessionStatus) (*models.PersonalTrainingSession, error) {
	ps, err := s.owned(ctx, trainerID, id)
	if err != nil {
		return nil, err
	}
	if ps.Status != models.SessionScheduled {
		return nil, apperr.Newf(apperr.ErrInvalidState, "session is %s, only SCHEDULED sessions can become %s", ps.Status, to)
	}
	ps.Status = to
	if err := s.repo.UpdateSession(ctx, ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (s *Service) fill(ctx context.Context, ps *models.PersonalTrainingSession, in Input) error {
	if !in.EndTime.After(in.StartTime) {
		return apperr.New(apperr.ErrInvalidArgument, "session end time must be after start time")
	}
	if in.Status != "" {
		status, ok := models.ParseSessionStatus(in.Status)
		if !ok {
			return apperr.Newf(apperr.ErrInvalidArgument, "invalid session status %q", in.Status)
		}
		ps.Status = status
	}
	if _, err := s.repo.GetUserByID(ctx, in.ClientID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Newf(apperr.ErrNotFound, "client %d not found", in.ClientID)
		}
		return err
	}
	ps.ClientID = in.ClientID
	ps.StartTime = in.StartTime
	ps.EndTime = in.EndTime
	ps.Goal = in.Goal
	ps.Notes = in.Notes
	return nil
}

func (s *Service) owned(ctx context.Context, trainerID, id int64) (*models.PersonalTrainingSession, error) {
	ps, err := s.repo.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Newf(apperr.ErrNotFound, "personal session %d not found", id)
		}
		return nil, err
	}
	if ps.TrainerID != trainerID {
		return nil, apperr.New(apperr.ErrForbidden, "you can only manage your own sessions")
	}
	return ps, nil
}
