package repository

import (
	"context"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// CreateNotification сохраняет уведомление.
func (s *Storage) CreateNotification(ctx context.Context, n *models.Notification) (int64, error) {
	const op = "storage.CreateNotification"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	err := s.q(ctx).QueryRowxContext(ctx, `
		INSERT INTO notifications (recipient_id, message, sent_at, read)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, n.RecipientID, n.Message, n.SentAt, n.Read).Scan(&id)
	if err != nil {
		return 0, wrap(op, err)
	}
	return id, nil
}

// GetNotification возвращает уведомление по идентификатору.
func (s *Storage) GetNotification(ctx context.Context, id int64) (*models.Notification, error) {
	const op = "storage.GetNotification"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var n models.Notification
	if err := s.q(ctx).GetContext(ctx, &n, `SELECT id, recipient_id, message, sent_at, read FROM notifications WHERE id = $1`, id); err != nil {
		return nil, wrap(op, err)
	}
	return &n, nil
}

// ListNotifications возвращает уведомления получателя, новые первыми.
func (s *Storage) ListNotifications(ctx context.Context, recipientID int64, unreadOnly bool) ([]*models.Notification, error) {
	const op = "storage.ListNotifications"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var list []*models.Notification
	err := s.q(ctx).SelectContext(ctx, &list, `
		SELECT id, recipient_id, message, sent_at, read FROM notifications
		WHERE recipient_id = $1 AND (NOT $2 OR NOT read)
		ORDER BY sent_at DESC, id DESC`, recipientID, unreadOnly)
	if err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// MarkNotificationRead отмечает уведомление прочитанным.
func (s *Storage) MarkNotificationRead(ctx context.Context, id int64) error {
	const op = "storage.MarkNotificationRead"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// MarkAllNotificationsRead отмечает прочитанными все уведомления получателя
// и возвращает число изменённых строк.
func (s *Storage) MarkAllNotificationsRead(ctx context.Context, recipientID int64) (int64, error) {
	const op = "storage.MarkAllNotificationsRead"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	res, err := s.q(ctx).ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND NOT read`, recipientID)
	if err != nil {
		return 0, wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap(op, err)
	}
	return n, nil
}
