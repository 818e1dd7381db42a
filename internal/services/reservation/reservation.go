// Package reservation реализует бронирование занятий: проверку мест,
// повторной брони и времени, окно отмены и оценки после занятия.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/cache"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/sl"
	"github.com/Naivezz/FitPoint-sub000/internal/metrics"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	"github.com/Naivezz/FitPoint-sub000/internal/rabbitmq"
)

// DefaultCancelWindow — минимальное время до начала занятия, когда бронь ещё можно отменить.
const DefaultCancelWindow = 2 * time.Hour

// Repository определяет методы хранилища, нужные сервису бронирования.
type Repository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetClass(ctx context.Context, id int64) (*models.TrainingClass, error)
	GetClassForUpdate(ctx context.Context, id int64) (*models.TrainingClass, error)
	ListClassesStartingAfter(ctx context.Context, t time.Time) ([]*models.TrainingClass, error)
	HasConfirmedReservation(ctx context.Context, userID, classID int64) (bool, error)
	CountConfirmedReservations(ctx context.Context, classID int64) (int, error)
	CreateReservation(ctx context.Context, r *models.Reservation) (int64, error)
	GetReservation(ctx context.Context, id int64) (*models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id int64, status models.ReservationStatus) error
	SetReservationRating(ctx context.Context, id int64, rating int, comment *string) error
	ClassRatingStats(ctx context.Context, classID int64) (float64, int, error)
	UpdateClassAverageRating(ctx context.Context, classID int64, avg float64) error
	ListUserReservations(ctx context.Context, userID int64) ([]*models.ReservationView, error)
	ListUpcomingReservations(ctx context.Context, userID int64, now time.Time) ([]*models.ReservationView, error)
	ListPastReservations(ctx context.Context, userID int64, now time.Time) ([]*models.ReservationView, error)
	ListClassRegistrations(ctx context.Context, classID int64) ([]*models.Registration, error)
}

// TxManager выполняет функцию в одной транзакции.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Cache — инвалидация кэша занятий после изменения средней оценки.
type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Event — полезная нагрузка событий брони.
type Event struct {
	ReservationID int64  `json:"reservation_id"`
	UserID        int64  `json:"user_id"`
	ClassID       int64  `json:"class_id"`
	Rating        *int   `json:"rating,omitempty"`
	Status        string `json:"status"`
}

// Service реализует бизнес-логику бронирования.
type Service struct {
	log          *slog.Logger
	repo         Repository
	tx           TxManager
	cache        Cache
	events       Publisher
	now          func() time.Time
	cancelWindow time.Duration
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCancelWindow задаёт окно отмены в целых часах. Неположительное или
// дробное значение игнорируется, остаётся текущее окно.
func WithCancelWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 && d%time.Hour == 0 {
			s.cancelWindow = d
		}
	}
}

// New создаёт сервис бронирования.
func New(log *slog.Logger, repo Repository, tx TxManager, cache Cache, events Publisher, opts ...Option) *Service {
	s := &Service{
		log:          log,
		repo:         repo,
		tx:           tx,
		cache:        cache,
		events:       events,
		now:          time.Now,
		cancelWindow: DefaultCancelWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAvailableClasses возвращает занятия, которые ещё не начались.
func (s *Service) ListAvailableClasses(ctx context.Context) ([]*models.TrainingClass, error) {
	const op = "reservation.ListAvailableClasses"
	classes, err := s.repo.ListClassesStartingAfter(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return classes, nil
}

// Create бронирует место на занятии classID для пользователя userID.
//
// Строка занятия блокируется до конца транзакции, поэтому проверки
// повторной брони и вместимости не гоняются с параллельными бронями.
func (s *Service) Create(ctx context.Context, userID, classID int64) (*models.Reservation, error) {
	const op = "reservation.Create"
	log := s.log.With(slog.String("op", op), slog.Int64("user_id", userID), slog.Int64("class_id", classID))

	var created models.Reservation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.Newf(apperr.ErrNotFound, "user %d not found", userID)
			}
			return err
		}
		class, err := s.repo.GetClassForUpdate(ctx, classID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.Newf(apperr.ErrNotFound, "training class %d not found", classID)
			}
			return err
		}

		now := s.now()
		if !class.StartTime.After(now) {
			return apperr.New(apperr.ErrInvalidState, "cannot reserve a class that has already started")
		}

		exists, err := s.repo.HasConfirmedReservation(ctx, userID, classID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.New(apperr.ErrConflict, "you already have a reservation for this class")
		}

		confirmed, err := s.repo.CountConfirmedReservations(ctx, classID)
		if err != nil {
			return err
		}
		if confirmed >= class.Capacity {
			return apperr.New(apperr.ErrCapacityExceeded, "class is fully booked")
		}

		created = models.Reservation{
			UserID:          userID,
			ClassID:         classID,
			ReservationDate: now,
			Status:          models.ReservationConfirmed,
		}
		id, err := s.repo.CreateReservation(ctx, &created)
		if err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				return apperr.New(apperr.ErrConflict, "you already have a reservation for this class")
			}
			return err
		}
		created.ID = id
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrCapacityExceeded):
			metrics.ObserveReservation(metrics.ReservationRejectedFull)
		case errors.Is(err, apperr.ErrConflict):
			metrics.ObserveReservation(metrics.ReservationRejectedConflict)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ObserveReservation(metrics.ReservationCreated)
	log.Info("reservation created", slog.Int64("reservation_id", created.ID))
	s.publish(ctx, rabbitmq.RoutingReservationCreated, &created)
	return &created, nil
}

// Cancel отменяет бронь владельцем не позднее чем за окно отмены до начала.
// Оставшееся время округляется вниз до целых часов.
func (s *Service) Cancel(ctx context.Context, userID, reservationID int64) (*models.Reservation, error) {
	const op = "reservation.Cancel"

	var res *models.Reservation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.ownedReservation(ctx, userID, reservationID)
		if err != nil {
			return err
		}
		if res.Status == models.ReservationCancelled {
			return apperr.New(apperr.ErrInvalidState, "reservation is already cancelled")
		}

		class, err := s.repo.GetClass(ctx, res.ClassID)
		if err != nil {
			return err
		}
		now := s.now()
		if !class.StartTime.After(now) {
			return apperr.New(apperr.ErrInvalidState, "cannot cancel a reservation for a class that has already started")
		}
		if !cancellable(class.StartTime.Sub(now), s.cancelWindow) {
			return apperr.Newf(apperr.ErrPolicyViolation,
				"reservations can only be cancelled at least %d hours before the class starts", int(s.cancelWindow.Hours()))
		}

		if err := s.repo.UpdateReservationStatus(ctx, res.ID, models.ReservationCancelled); err != nil {
			return err
		}
		res.Status = models.ReservationCancelled
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ObserveReservation(metrics.ReservationCancelled)
	s.log.Info("reservation cancelled", slog.String("op", op), slog.Int64("reservation_id", res.ID))
	s.publish(ctx, rabbitmq.RoutingReservationCancelled, res)
	return res, nil
}

// cancellable сравнивает оставшееся время в целых часах с окном отмены:
// 1ч59м при окне 2ч не проходит, 2ч00м проходит.
func cancellable(untilStart, window time.Duration) bool {
	return int64(untilStart/time.Hour) >= int64(window/time.Hour)
}

// Rate ставит оценку rating (1..5) занятию по брони владельца после его окончания
// и пересчитывает среднюю оценку занятия.
func (s *Service) Rate(ctx context.Context, userID, reservationID int64, rating int, comment *string) (*models.Reservation, error) {
	const op = "reservation.Rate"

	var res *models.Reservation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.ownedReservation(ctx, userID, reservationID)
		if err != nil {
			return err
		}

		class, err := s.repo.GetClass(ctx, res.ClassID)
		if err != nil {
			return err
		}
		if !class.EndTime.Before(s.now()) || res.Status != models.ReservationConfirmed {
			return apperr.New(apperr.ErrInvalidState, "you can only rate classes you attended after they have ended")
		}
		if rating < 1 || rating > 5 {
			return apperr.New(apperr.ErrInvalidArgument, "rating must be between 1 and 5")
		}

		if err := s.repo.SetReservationRating(ctx, res.ID, rating, comment); err != nil {
			return err
		}
		res.Rating = &rating
		res.Comment = comment

		avg, count, err := s.repo.ClassRatingStats(ctx, class.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return s.repo.UpdateClassAverageRating(ctx, class.ID, avg)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ObserveReservation(metrics.ReservationRated)
	if err := s.cache.Invalidate(ctx, cache.ClassKey(res.ClassID)); err != nil {
		s.log.Warn("failed to invalidate class cache", slog.String("op", op), sl.Err(err))
	}
	s.publish(ctx, rabbitmq.RoutingReservationRated, res)
	return res, nil
}

// ListMine возвращает все брони пользователя.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]*models.ReservationView, error) {
	const op = "reservation.ListMine"
	list, err := s.repo.ListUserReservations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListUpcoming возвращает подтверждённые брони на ещё не начавшиеся занятия.
func (s *Service) ListUpcoming(ctx context.Context, userID int64) ([]*models.ReservationView, error) {
	const op = "reservation.ListUpcoming"
	list, err := s.repo.ListUpcomingReservations(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListPast возвращает брони на закончившиеся занятия независимо от статуса.
func (s *Service) ListPast(ctx context.Context, userID int64) ([]*models.ReservationView, error) {
	const op = "reservation.ListPast"
	list, err := s.repo.ListPastReservations(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListClassRegistrations возвращает записи на занятие тренера trainerID.
func (s *Service) ListClassRegistrations(ctx context.Context, trainerID, classID int64) ([]*models.Registration, error) {
	const op = "reservation.ListClassRegistrations"
	class, err := s.repo.GetClass(ctx, classID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, apperr.Newf(apperr.ErrNotFound, "training class %d not found", classID))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if class.TrainerID != trainerID {
		return nil, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrForbidden, "you can only view registrations for your own classes"))
	}
	list, err := s.repo.ListClassRegistrations(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (s *Service) ownedReservation(ctx context.Context, userID, reservationID int64) (*models.Reservation, error) {
	res, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Newf(apperr.ErrNotFound, "reservation %d not found", reservationID)
		}
		return nil, err
	}
	if res.UserID != userID {
		return nil, apperr.New(apperr.ErrForbidden, "you can only manage your own reservations")
	}
	return res, nil
}

func (s *Service) publish(ctx context.Context, key string, r *models.Reservation) {
	event := Event{
		ReservationID: r.ID,
		UserID:        r.UserID,
		ClassID:       r.ClassID,
		Rating:        r.Rating,
		Status:        string(r.Status),
	}
	if err := s.events.Publish(ctx, key, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("routing_key", key), sl.Err(err))
	}
}
