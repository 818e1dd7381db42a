// Package notification реализует чтение уведомлений получателем.
// Уведомления создают другие сервисы в своих транзакциях.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

type Repository interface {
	GetNotification(ctx context.Context, id int64) (*models.Notification, error)
	ListNotifications(ctx context.Context, recipientID int64, unreadOnly bool) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context, recipientID int64) (int64, error)
}

type Service struct {
	log  *slog.Logger
	repo Repository
}

func New(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

// ListMine возвращает все уведомления пользователя, новые первыми.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]*models.Notification, error) {
	const op = "notification.ListMine"
	list, err := s.repo.ListNotifications(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListUnread возвращает непрочитанные уведомления пользователя.
func (s *Service) ListUnread(ctx context.Context, userID int64) ([]*models.Notification, error) {
	const op = "notification.ListUnread"
	list, err := s.repo.ListNotifications(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// MarkRead отмечает уведомление прочитанным. Чужие уведомления недоступны.
func (s *Service) MarkRead(ctx context.Context, userID, id int64) (*models.Notification, error) {
	const op = "notification.MarkRead"
	n, err := s.repo.GetNotification(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, apperr.Newf(apperr.ErrNotFound, "notification %d not found", id))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if n.RecipientID != userID {
		return nil, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrForbidden, "you can only read your own notifications"))
	}
	if n.Read {
		return n, nil
	}
	if err := s.repo.MarkNotificationRead(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n.Read = true
	return n, nil
}

// MarkAllRead отмечает прочитанными все уведомления пользователя и возвращает их число.
func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	const op = "notification.MarkAllRead"
	n, err := s.repo.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Debug("notifications marked read", slog.String("op", op), slog.Int64("count", n))
	return n, nil
}
