// Package trainingclass реализует администрирование групповых занятий.
package trainingclass

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Naivezz/FitPoint-sub000/internal/cache"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/sl"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// Repository определяет методы хранилища, нужные сервису занятий.
type Repository interface {
	CreateClass(ctx context.Context, class *models.TrainingClass) (int64, error)
	GetClass(ctx context.Context, id int64) (*models.TrainingClass, error)
	GetClassForUpdate(ctx context.Context, id int64) (*models.TrainingClass, error)
	ListClasses(ctx context.Context) ([]*models.TrainingClass, error)
	UpdateClass(ctx context.Context, class *models.TrainingClass) error
	DeleteClass(ctx context.Context, id int64) error
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CountConfirmedReservations(ctx context.Context, classID int64) (int, error)
}

// TxManager выполняет функцию в одной транзакции.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Cache — кэш чтения занятий.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Service реализует CRUD занятий.
type Service struct {
	log   *slog.Logger
	repo  Repository
	tx    TxManager
	cache Cache
}

// New создаёт сервис занятий.
func New(log *slog.Logger, repo Repository, tx TxManager, cache Cache) *Service {
	return &Service{log: log, repo: repo, tx: tx, cache: cache}
}

// Create создаёт занятие после проверки полей, зала и тренера.
func (s *Service) Create(ctx context.Context, class *models.TrainingClass) (*models.TrainingClass, error) {
	const op = "trainingclass.Create"
	if err := s.validate(ctx, class); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.repo.CreateClass(ctx, class)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	class.ID = id
	s.log.Info("training class created", slog.String("op", op), slog.Int64("class_id", id))
	return class, nil
}

// Get возвращает занятие, сначала пробуя кэш.
func (s *Service) Get(ctx context.Context, id int64) (*models.TrainingClass, error) {
	const op = "trainingclass.Get"
	log := s.log.With(slog.String("op", op), slog.Int64("class_id", id))

	var cached models.TrainingClass
	found, err := s.cache.Get(ctx, cache.ClassKey(id), &cached)
	if err != nil {
		log.Warn("failed to read class from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	class, err := s.repo.GetClass(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, apperr.Newf(apperr.ErrNotFound, "training class %d not found", id))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, cache.ClassKey(id), class); err != nil {
		log.Warn("failed to cache class", sl.Err(err))
	}
	return class, nil
}

// List возвращает все занятия.
func (s *Service) List(ctx context.Context) ([]*models.TrainingClass, error) {
	const op = "trainingclass.List"
	list, err := s.repo.ListClasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Update перезаписывает занятие. Средняя оценка не меняется, вместимость
// не может опуститься ниже числа подтверждённых броней.
func (s *Service) Update(ctx context.Context, class *models.TrainingClass) (*models.TrainingClass, error) {
	const op = "trainingclass.Update"
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetClassForUpdate(ctx, class.ID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.Newf(apperr.ErrNotFound, "training class %d not found", class.ID)
			}
			return err
		}
		if err := s.validate(ctx, class); err != nil {
			return err
		}
		if class.Capacity < current.Capacity {
			confirmed, err := s.repo.CountConfirmedReservations(ctx, class.ID)
			if err != nil {
				return err
			}
			if confirmed > class.Capacity {
				return apperr.Newf(apperr.ErrInvalidArgument,
					"capacity %d is below %d confirmed reservations", class.Capacity, confirmed)
			}
		}
		class.AverageRating = current.AverageRating
		return s.repo.UpdateClass(ctx, class)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, class.ID)
	return class, nil
}

// Delete удаляет занятие вместе с бронями.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "trainingclass.Delete"
	if err := s.repo.DeleteClass(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, apperr.Newf(apperr.ErrNotFound, "training class %d not found", id))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, id)
	return nil
}

func (s *Service) validate(ctx context.Context, class *models.TrainingClass) error {
	if err := class.Validate(); err != nil {
		return apperr.New(apperr.ErrInvalidArgument, err.Error())
	}
	if _, err := s.repo.GetRoom(ctx, class.RoomID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Newf(apperr.ErrNotFound, "room %d not found", class.RoomID)
		}
		return err
	}
	trainer, err := s.repo.GetUserByID(ctx, class.TrainerID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Newf(apperr.ErrNotFound, "trainer %d not found", class.TrainerID)
		}
		return err
	}
	if !trainer.HasRole(models.RoleTrainer) {
		return apperr.Newf(apperr.ErrInvalidArgument, "user %d is not a trainer", class.TrainerID)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, op string, id int64) {
	if err := s.cache.Invalidate(ctx, cache.ClassKey(id)); err != nil {
		s.log.Warn("failed to invalidate class cache", slog.String("op", op), sl.Err(err))
	}
}
