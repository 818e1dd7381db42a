package repository

import (
	"context"
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

const selectChangeRequest = `SELECT id, trainer_id, request_type, reason, status, class_id,
	requested_name, requested_description, requested_start_time, requested_end_time,
	requested_capacity, requested_room_id,
	reviewed_by, reviewed_at, review_note, created_at
	FROM schedule_change_requests`

// CreateChangeRequest сохраняет запрос на изменение расписания.
// Незаданные предлагаемые поля сохраняются как NULL.
func (s *Storage) CreateChangeRequest(ctx context.Context, r *models.ScheduleChangeRequest) (int64, error) {
	const op = "storage.CreateChangeRequest"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	err := s.q(ctx).QueryRowxContext(ctx, `
		INSERT INTO schedule_change_requests (
			trainer_id, request_type, reason, status, class_id,
			requested_name, requested_description, requested_start_time, requested_end_time,
			requested_capacity, requested_room_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		r.TrainerID, r.RequestType, r.Reason, r.Status, r.ClassID,
		r.Name, r.Description, r.StartTime, r.EndTime,
		r.Capacity, r.RoomID, r.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, wrap(op, err)
	}
	return id, nil
}

// GetChangeRequest возвращает запрос по идентификатору.
func (s *Storage) GetChangeRequest(ctx context.Context, id int64) (*models.ScheduleChangeRequest, error) {
	const op = "storage.GetChangeRequest"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var r models.ScheduleChangeRequest
	if err := s.q(ctx).GetContext(ctx, &r, selectChangeRequest+` WHERE id = $1`, id); err != nil {
		return nil, wrap(op, err)
	}
	return &r, nil
}

// GetChangeRequestForUpdate читает запрос и блокирует строку до конца транзакции,
// чтобы два администратора не рассмотрели один запрос одновременно.
func (s *Storage) GetChangeRequestForUpdate(ctx context.Context, id int64) (*models.ScheduleChangeRequest, error) {
	const op = "storage.GetChangeRequestForUpdate"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var r models.ScheduleChangeRequest
	if err := s.q(ctx).GetContext(ctx, &r, selectChangeRequest+` WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, wrap(op, err)
	}
	return &r, nil
}

// ListChangeRequests возвращает запросы. Пустой status означает все запросы.
func (s *Storage) ListChangeRequests(ctx context.Context, status models.ChangeRequestStatus) ([]*models.ScheduleChangeRequest, error) {
	const op = "storage.ListChangeRequests"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var list []*models.ScheduleChangeRequest
	err := s.q(ctx).SelectContext(ctx, &list, selectChangeRequest+`
		WHERE ($1::text = '' OR status = $1)
		ORDER BY created_at, id`, string(status))
	if err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// ListChangeRequestsByTrainer возвращает запросы тренера.
func (s *Storage) ListChangeRequestsByTrainer(ctx context.Context, trainerID int64) ([]*models.ScheduleChangeRequest, error) {
	const op = "storage.ListChangeRequestsByTrainer"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var list []*models.ScheduleChangeRequest
	err := s.q(ctx).SelectContext(ctx, &list, selectChangeRequest+`
		WHERE trainer_id = $1
		ORDER BY created_at DESC, id`, trainerID)
	if err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// SaveChangeReview записывает решение администратора по запросу.
func (s *Storage) SaveChangeReview(ctx context.Context, id int64, status models.ChangeRequestStatus,
	reviewerID int64, reviewedAt time.Time, note *string) error {
	const op = "storage.SaveChangeReview"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE schedule_change_requests
		SET status = $2, reviewed_by = $3, reviewed_at = $4, review_note = $5
		WHERE id = $1`, id, status, reviewerID, reviewedAt, note)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}
