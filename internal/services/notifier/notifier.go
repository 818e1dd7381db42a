// Package notifier превращает доменные события из RabbitMQ в уведомления
// пользователей.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/lib/sl"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	"github.com/Naivezz/FitPoint-sub000/internal/rabbitmq"
	"github.com/Naivezz/FitPoint-sub000/internal/services/membership"
	"github.com/Naivezz/FitPoint-sub000/internal/services/schedulechange"
)

// Repository сохраняет уведомления и ищет их получателей.
type Repository interface {
	CreateNotification(ctx context.Context, n *models.Notification) (int64, error)
	ListUsersByRoles(ctx context.Context, roles ...models.Role) ([]*models.User, error)
}

// Service обрабатывает события абонементов и запросов на изменение расписания.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New создаёт обработчик событий.
func New(log *slog.Logger, repo Repository) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// HandleMembershipEvent уведомляет клиента об оформлении или продлении абонемента.
func (s *Service) HandleMembershipEvent(ctx context.Context, body []byte) error {
	const op = "notifier.HandleMembershipEvent"

	var payload membership.Event
	eventType, err := decode(body, &payload)
	if err != nil {
		s.log.Error("failed to unmarshal message body", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	var msg string
	switch eventType {
	case rabbitmq.RoutingMembershipPurchased:
		msg = fmt.Sprintf("Your %s membership is active until %s", payload.Type, payload.EndDate.Format(time.DateOnly))
	case rabbitmq.RoutingMembershipExtended:
		msg = fmt.Sprintf("Your membership has been extended until %s", payload.EndDate.Format(time.DateOnly))
	default:
		s.log.Debug("skip event", slog.String("op", op), slog.String("type", eventType))
		return nil
	}
	return s.notify(ctx, op, payload.UserID, msg)
}

// HandleScheduleChangeEvent сообщает администраторам о новом запросе
// на изменение расписания. Решение по запросу тренер получает
// в транзакции рассмотрения.
func (s *Service) HandleScheduleChangeEvent(ctx context.Context, body []byte) error {
	const op = "notifier.HandleScheduleChangeEvent"

	var payload schedulechange.Event
	eventType, err := decode(body, &payload)
	if err != nil {
		s.log.Error("failed to unmarshal message body", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if eventType != rabbitmq.RoutingScheduleChangeNew {
		s.log.Debug("skip event", slog.String("op", op), slog.String("type", eventType))
		return nil
	}

	admins, err := s.repo.ListUsersByRoles(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := fmt.Sprintf("New %s schedule change request #%d is waiting for review", payload.RequestType, payload.RequestID)
	for _, admin := range admins {
		if err := s.notify(ctx, op, admin.ID, msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) notify(ctx context.Context, op string, recipientID int64, msg string) error {
	id, err := s.repo.CreateNotification(ctx, &models.Notification{
		RecipientID: recipientID,
		Message:     msg,
		SentAt:      s.now(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("notification created", slog.String("op", op),
		slog.Int64("notification_id", id), slog.Int64("recipient_id", recipientID))
	return nil
}

// decode разбирает конверт события и его полезную нагрузку.
func decode(body []byte, payload any) (string, error) {
	var event rabbitmq.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return "", err
	}
	if err := json.Unmarshal(event.Payload, payload); err != nil {
		return "", err
	}
	return event.Type, nil
}
