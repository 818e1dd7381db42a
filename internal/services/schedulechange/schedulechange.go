// Package schedulechange реализует запросы тренеров на изменение расписания
// и их рассмотрение администратором.
package schedulechange

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

// Repository определяет методы хранилища, нужные сервису.
type Repository interface {
	CreateChangeRequest(ctx context.Context, r *models.ScheduleChangeRequest) (int64, error)
	GetChangeRequest(ctx context.Context, id int64) (*models.ScheduleChangeRequest, error)
	GetChangeRequestForUpdate(ctx context.Context, id int64) (*models.ScheduleChangeRequest, error)
	ListChangeRequests(ctx context.Context, status models.ChangeRequestStatus) ([]*models.ScheduleChangeRequest, error)
	ListChangeRequestsByTrainer(ctx context.Context, trainerID int64) ([]*models.ScheduleChangeRequest, error)
	SaveChangeReview(ctx context.Context, id int64, status models.ChangeRequestStatus,
		reviewerID int64, reviewedAt time.Time, note *string) error

	GetClass(ctx context.Context, id int64) (*models.TrainingClass, error)
	GetClassForUpdate(ctx context.Context, id int64) (*models.TrainingClass, error)
	CreateClass(ctx context.Context, class *models.TrainingClass) (int64, error)
	UpdateClass(ctx context.Context, class *models.TrainingClass) error
	DeleteClass(ctx context.Context, id int64) error
	GetRoom(ctx context.Context, id int64) (*models.Room, error)

	ListConfirmedUserIDs(ctx context.Context, classID int64) ([]int64, error)
	CountConfirmedReservations(ctx context.Context, classID int64) (int, error)
	CreateNotification(ctx context.Context, n *models.Notification) (int64, error)
}

// TxManager выполняет функцию в одной транзакции.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Cache — инвалидация кэша изменённого занятия.
type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Event — полезная нагрузка событий о запросах.
type Event struct {
	RequestID   int64  `json:"request_id"`
	TrainerID   int64  `json:"trainer_id"`
	RequestType string `json:"request_type"`
	Status      string `json:"status"`
	ClassID     *int64 `json:"class_id,omitempty"`
}

// CreateInput — данные нового запроса. Type проверяется при создании,
// значения полей сохраняются как есть.
type CreateInput struct {
	Type    string
	Reason  string
	ClassID *int64
	Fields  models.ChangeFields
}

// Service реализует рабочий процесс изменения расписания.
type Service struct {
	log    *slog.Logger
	repo   Repository
	tx     TxManager
	cache  Cache
	events Publisher
	now    func() time.Time
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New создаёт сервис запросов на изменение расписания.
func New(log *slog.Logger, repo Repository, tx TxManager, cache Cache, events Publisher, opts ...Option) *Service {
	s := &Service{log: log, repo: repo, tx: tx, cache: cache, events: events, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create сохраняет запрос тренера trainerID в статусе PENDING.
func (s *Service) Create(ctx context.Context, trainerID int64, in CreateInput) (*models.ScheduleChangeRequest, error) {
	const op = "schedulechange.Create"

	reqType, ok := models.ParseChangeRequestType(in.Type)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op,
			apperr.Newf(apperr.ErrInvalidArgument, "invalid request type %q, expected ADD, MODIFY or CANCEL", in.Type))
	}

	req := &models.ScheduleChangeRequest{
		TrainerID:   trainerID,
		RequestType: reqType,
		Reason:      in.Reason,
		Status:      models.ChangeStatusPending,
		CreatedAt:   s.now(),
	}

	switch reqType {
	case models.ChangeModify, models.ChangeCancel:
		if in.ClassID == nil {
			return nil, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrInvalidArgument, "class_id is required for MODIFY and CANCEL requests"))
		}
		class, err := s.repo.GetClass(ctx, *in.ClassID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, fmt.Errorf("%s: %w", op, apperr.Newf(apperr.ErrNotFound, "training class %d not found", *in.ClassID))
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if class.TrainerID != trainerID {
			return nil, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrForbidden, "you can only request changes for your own classes"))
		}
		req.ClassID = in.ClassID
	}
	if reqType != models.ChangeCancel {
		req.ChangeFields = in.Fields
	}

	id, err := s.repo.CreateChangeRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.ID = id

	s.log.Info("schedule change requested", slog.String("op", op),
		slog.Int64("request_id", id), slog.String("type", string(reqType)))
	s.publish(ctx, rabbitmq.RoutingScheduleChangeNew, req)
	return req, nil
}

// Review записывает решение администратора adminID по запросу id и при
// одобрении применяет изменение к расписанию в той же транзакции.
func (s *Service) Review(ctx context.Context, adminID, id int64, decision string, note *string) (*models.ScheduleChangeRequest, error) {
	const op = "schedulechange.Review"

	var req *models.ScheduleChangeRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.repo.GetChangeRequestForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.Newf(apperr.ErrNotFound, "schedule change request %d not found", id)
			}
			return err
		}
		if req.Status != models.ChangeStatusPending {
			return apperr.Newf(apperr.ErrInvalidState, "request has already been %s", req.Status)
		}
		status, ok := models.ParseReviewDecision(decision)
		if !ok {
			return apperr.Newf(apperr.ErrInvalidArgument, "invalid decision %q, expected APPROVED or REJECTED", decision)
		}

		reviewedAt := s.now()
		if err := s.repo.SaveChangeReview(ctx, req.ID, status, adminID, reviewedAt, note); err != nil {
			return err
		}
		req.Status = status
		req.ReviewedBy = &adminID
		req.ReviewedAt = &reviewedAt
		req.ReviewNote = note

		if status == models.ChangeStatusApproved {
			if err := s.apply(ctx, req); err != nil {
				return err
			}
		}
		return s.notify(ctx, req.TrainerID, reviewMessage(req))
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ObserveScheduleChangeReview(string(req.Status))
	s.log.Info("schedule change reviewed", slog.String("op", op),
		slog.Int64("request_id", req.ID), slog.String("status", string(req.Status)))
	if req.ClassID != nil {
		if err := s.cache.Invalidate(ctx, cache.ClassKey(*req.ClassID)); err != nil {
			s.log.Warn("failed to invalidate class cache", slog.String("op", op), sl.Err(err))
		}
	}
	s.publish(ctx, rabbitmq.RoutingScheduleChangeReview, req)
	return req, nil
}

func (s *Service) apply(ctx context.Context, req *models.ScheduleChangeRequest) error {
	switch req.RequestType {
	case models.ChangeCancel:
		if req.ClassID == nil {
			return apperr.New(apperr.ErrInvalidState, "referenced class no longer exists")
		}
		class, err := s.targetClass(ctx, *req.ClassID)
		if err != nil {
			return err
		}
		userIDs, err := s.repo.ListConfirmedUserIDs(ctx, class.ID)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Class %q on %s has been cancelled", class.Name, class.StartTime.Format(time.DateTime))
		for _, uid := range userIDs {
			if err := s.notify(ctx, uid, msg); err != nil {
				return err
			}
		}
		return s.repo.DeleteClass(ctx, class.ID)

	case models.ChangeModify:
		if req.ClassID == nil {
			return apperr.New(apperr.ErrInvalidState, "referenced class no longer exists")
		}
		class, err := s.repo.GetClassForUpdate(ctx, *req.ClassID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.Newf(apperr.ErrNotFound, "training class %d not found", *req.ClassID)
			}
			return err
		}
		req.ApplyTo(class)
		if err := s.validateClass(ctx, class, req.RoomID.IsSet()); err != nil {
			return err
		}
		if req.Capacity.IsSet() {
			// Строка занятия заблокирована, новые брони не появятся до коммита.
			confirmed, err := s.repo.CountConfirmedReservations(ctx, class.ID)
			if err != nil {
				return err
			}
			if confirmed > class.Capacity {
				return apperr.Newf(apperr.ErrInvalidArgument,
					"capacity %d is below %d confirmed reservations", class.Capacity, confirmed)
			}
		}
		return s.repo.UpdateClass(ctx, class)

	case models.ChangeAdd:
		class, ok := req.NewClass(req.TrainerID)
		if !ok {
			return apperr.New(apperr.ErrInvalidArgument, "ADD request must specify name, start time, end time, capacity and room")
		}
		if err := s.validateClass(ctx, &class, true); err != nil {
			return err
		}
		classID, err := s.repo.CreateClass(ctx, &class)
		if err != nil {
			return err
		}
		req.ClassID = &classID
		return nil
	}
	return apperr.Newf(apperr.ErrInvalidArgument, "unsupported request type %q", req.RequestType)
}

func (s *Service) targetClass(ctx context.Context, id int64) (*models.TrainingClass, error) {
	class, err := s.repo.GetClass(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Newf(apperr.ErrNotFound, "training class %d not found", id)
		}
		return nil, err
	}
	return class, nil
}

func (s *Service) validateClass(ctx context.Context, class *models.TrainingClass, checkRoom bool) error {
	if err := class.Validate(); err != nil {
		return apperr.New(apperr.ErrInvalidArgument, err.Error())
	}
	if !checkRoom {
		return nil
	}
	if _, err := s.repo.GetRoom(ctx, class.RoomID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Newf(apperr.ErrNotFound, "room %d not found", class.RoomID)
		}
		return err
	}
	return nil
}

func (s *Service) notify(ctx context.Context, recipientID int64, msg string) error {
	_, err := s.repo.CreateNotification(ctx, &models.Notification{
		RecipientID: recipientID,
		Message:     msg,
		SentAt:      s.now(),
	})
	return err
}

func reviewMessage(req *models.ScheduleChangeRequest) string {
	msg := fmt.Sprintf("Your %s schedule change request #%d has been %s", req.RequestType, req.ID, req.Status)
	if req.ReviewNote != nil && *req.ReviewNote != "" {
		msg += ": " + *req.ReviewNote
	}
	return msg
}

// List возвращает все запросы.
func (s *Service) List(ctx context.Context) ([]*models.ScheduleChangeRequest, error) {
	const op = "schedulechange.List"
	list, err := s.repo.ListChangeRequests(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListPending возвращает запросы, ожидающие рассмотрения.
func (s *Service) ListPending(ctx context.Context) ([]*models.ScheduleChangeRequest, error) {
	const op = "schedulechange.ListPending"
	list, err := s.repo.ListChangeRequests(ctx, models.ChangeStatusPending)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Get возвращает запрос по id.
func (s *Service) Get(ctx context.Context, id int64) (*models.ScheduleChangeRequest, error) {
	const op = "schedulechange.Get"
	req, err := s.repo.GetChangeRequest(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, apperr.Newf(apperr.ErrNotFound, "schedule change request %d not found", id))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

// ListByTrainer возвращает запросы тренера.
func (s *Service) ListByTrainer(ctx context.Context, trainerID int64) ([]*models.ScheduleChangeRequest, error) {
	const op = "schedulechange.ListByTrainer"
	list, err := s.repo.ListChangeRequestsByTrainer(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (s *Service) publish(ctx context.Context, key string, req *models.ScheduleChangeRequest) {
	event := Event{
		RequestID:   req.ID,
		TrainerID:   req.TrainerID,
		RequestType: string(req.RequestType),
		Status:      string(req.Status),
		ClassID:     req.ClassID,
	}
	if err := s.events.Publish(ctx, key, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("routing_key", key), sl.Err(err))
	}
}
