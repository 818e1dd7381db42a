package repository

import (
	"context"
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

const selectReservationView = `SELECT r.id, r.user_id, r.class_id, r.reservation_date, r.status, r.rating, r.comment,
	c.name AS class_name, c.start_time AS class_start_time, c.end_time AS class_end_time
	FROM reservations r
	JOIN training_classes c ON c.id = r.class_id`

// CreateReservation сохраняет бронь. Повторная подтверждённая бронь
// того же пользователя на то же занятие отклоняется уникальным индексом (ErrConflict).
func (s *Storage) CreateReservation(ctx context.Context, r *models.Reservation) (int64, error) {
	const op = "storage.CreateReservation"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	err := s.q(ctx).QueryRowxContext(ctx, `
		INSERT INTO reservations (user_id, class_id, reservation_date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, r.UserID, r.ClassID, r.ReservationDate, r.Status).Scan(&id)
	if err != nil {
		return 0, wrap(op, err)
	}
	return id, nil
}

// GetReservation возвращает бронь по идентификатору.
// Внутри транзакции строка блокируется до её завершения.
func (s *Storage) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	const op = "storage.GetReservation"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var r models.Reservation
	err := s.q(ctx).GetContext(ctx, &r, `
		SELECT id, user_id, class_id, reservation_date, status, rating, comment
		FROM reservations WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &r, nil
}

// HasConfirmedReservation сообщает, есть ли у пользователя подтверждённая бронь занятия.
func (s *Storage) HasConfirmedReservation(ctx context.Context, userID, classID int64) (bool, error) {
	const op = "storage.HasConfirmedReservation"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	var exists bool
	err := s.q(ctx).GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE user_id = $1 AND class_id = $2 AND status = 'CONFIRMED')`, userID, classID)
	if err != nil {
		return false, wrap(op, err)
	}
	return exists, nil
}

// CountConfirmedReservations возвращает число подтверждённых броней занятия.
func (s *Storage) CountConfirmedReservations(ctx context.Context, classID int64) (int, error) {
	const op = "storage.CountConfirmedReservations"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var n int
	err := s.q(ctx).GetContext(ctx, &n, `
		SELECT COUNT(*) FROM reservations
		WHERE class_id = $1 AND status = 'CONFIRMED'`, classID)
	if err != nil {
		return 0, wrap(op, err)
	}
	return n, nil
}

// UpdateReservationStatus меняет статус брони.
func (s *Storage) UpdateReservationStatus(ctx context.Context, id int64, status models.ReservationStatus) error {
	const op = "storage.UpdateReservationStatus"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `UPDATE reservations SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// SetReservationRating записывает оценку и комментарий брони.
func (s *Storage) SetReservationRating(ctx context.Context, id int64, rating int, comment *string) error {
	const op = "storage.SetReservationRating"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `UPDATE reservations SET rating = $2, comment = $3 WHERE id = $1`, id, rating, comment)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// ListUserReservations возвращает все брони пользователя.
func (s *Storage) ListUserReservations(ctx context.Context, userID int64) ([]*models.ReservationView, error) {
	const op = "storage.ListUserReservations"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var list []*models.ReservationView
	err := s.q(ctx).SelectContext(ctx, &list, selectReservationView+`
		WHERE r.user_id = $1
		ORDER BY c.start_time, r.id`, userID)
	if err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// ListUpcomingReservations возвращает подтверждённые брони на занятия, начинающиеся позже now.
func (s *Storage) ListUpcomingReservations(ctx context.Context, userID int64, now time.Time) ([]*models.ReservationView, error) {
	const op = "storage.ListUpcomingReservations"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var list []*models.ReservationView
	err := s.q(ctx).SelectContext(ctx, &list, selectReservationView+`
		WHERE r.user_id = $1 AND r.status = 'CONFIRMED' AND c.start_time > $2
		ORDER BY c.start_time, r.id`, userID, now)
	if err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// ListPastReservations возвращает брони на уже закончившиеся занятия.
func (s *Storage) ListPastReservations(ctx context.Context, userID int64, now time.Time) ([]*models.ReservationView, error) {
	const op = "storage.ListPastReservations"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var list []*models.ReservationView
	err := s.q(ctx).SelectContext(ctx, &list, selectReservationView+`
		WHERE r.user_id = $1 AND c.end_time < $2
		ORDER BY c.start_time DESC, r.id`, userID, now)
	if err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// ListClassRegistrations возвращает брони занятия с данными клиентов.
func (s *Storage) ListClassRegistrations(ctx context.Context, classID int64) ([]*models.Registration, error) {
	const op = "storage.ListClassRegistrations"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var list []*models.Registration
	err := s.q(ctx).SelectContext(ctx, &list, `
		SELECT r.id, r.user_id, r.class_id, r.reservation_date, r.status, r.rating, r.comment,
			u.email, u.first_name, u.last_name
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		WHERE r.class_id = $1
		ORDER BY r.reservation_date, r.id`, classID)
	if err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// ListConfirmedUserIDs возвращает пользователей с подтверждённой бронью занятия.
func (s *Storage) ListConfirmedUserIDs(ctx context.Context, classID int64) ([]int64, error) {
	const op = "storage.ListConfirmedUserIDs"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var ids []int64
	err := s.q(ctx).SelectContext(ctx, &ids, `
		SELECT user_id FROM reservations
		WHERE class_id = $1 AND status = 'CONFIRMED'
		ORDER BY user_id`, classID)
	if err != nil {
		return nil, wrap(op, err)
	}
	return ids, nil
}
