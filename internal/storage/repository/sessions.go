package repository

import (
	"context"
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

const selectSession = `SELECT id, trainer_id, client_id, start_time, end_time, goal, notes, status
	FROM personal_training_sessions`

// CreateSession сохраняет персональную тренировку.
func (s *Storage) CreateSession(ctx context.Context, ps *models.PersonalTrainingSession) (int64, error) {
	const op = "storage.CreateSession"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	err := s.q(ctx).QueryRowxContext(ctx, `
		INSERT INTO personal_training_sessions (trainer_id, client_id, start_time, end_time, goal, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		ps.TrainerID, ps.ClientID, ps.StartTime, ps.EndTime, ps.Goal, ps.Notes, ps.Status,
	).Scan(&id)
	if err != nil {
		return 0, wrap(op, err)
	}
	return id, nil
}

// GetSession возвращает персональную тренировку по идентификатору.
func (s *Storage) GetSession(ctx context.Context, id int64) (*models.PersonalTrainingSession, error) {
	const op = "storage.GetSession"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var ps models.PersonalTrainingSession
	if err := s.q(ctx).GetContext(ctx, &ps, selectSession+` WHERE id = $1`, id); err != nil {
		return nil, wrap(op, err)
	}
	return &ps, nil
}

// ListTrainerSessions возвращает персональные тренировки тренера по времени начала.
func (s *Storage) ListTrainerSessions(ctx context.Context, trainerID int64) ([]*models.PersonalTrainingSession, error) {
	const op = "storage.ListTrainerSessions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var list []*models.PersonalTrainingSession
	if err := s.q(ctx).SelectContext(ctx, &list, selectSession+` WHERE trainer_id = $1 ORDER BY start_time, id`, trainerID); err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// ListTrainerSessionsBetween возвращает тренировки тренера, начинающиеся в [from, to).
func (s *Storage) ListTrainerSessionsBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]*models.PersonalTrainingSession, error) {
	const op = "storage.ListTrainerSessionsBetween"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var list []*models.PersonalTrainingSession
	err := s.q(ctx).SelectContext(ctx, &list, selectSession+`
		WHERE trainer_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time, id`, trainerID, from, to)
	if err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// UpdateSession перезаписывает поля персональной тренировки.
func (s *Storage) UpdateSession(ctx context.Context, ps *models.PersonalTrainingSession) error {
	const op = "storage.UpdateSession"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE personal_training_sessions
		SET client_id = $2, start_time = $3, end_time = $4, goal = $5, notes = $6, status = $7
		WHERE id = $1`,
		ps.ID, ps.ClientID, ps.StartTime, ps.EndTime, ps.Goal, ps.Notes, ps.Status,
	)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// DeleteSession удаляет персональную тренировку.
func (s *Storage) DeleteSession(ctx context.Context, id int64) error {
	const op = "storage.DeleteSession"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM personal_training_sessions WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}
