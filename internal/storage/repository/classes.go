package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

const selectClass = `SELECT id, name, description, trainer_id, room_id, start_time, end_time,
	capacity, average_rating FROM training_classes`

// CreateClass сохраняет занятие и возвращает его идентификатор.
func (s *Storage) CreateClass(ctx context.Context, class *models.TrainingClass) (int64, error) {
	const op = "storage.CreateClass"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	err := s.q(ctx).QueryRowxContext(ctx, `
		INSERT INTO training_classes (name, description, trainer_id, room_id, start_time, end_time, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		class.Name, class.Description, class.TrainerID, class.RoomID,
		class.StartTime, class.EndTime, class.Capacity,
	).Scan(&id)
	if err != nil {
		return 0, wrap(op, err)
	}
	return id, nil
}

// GetClass возвращает занятие по идентификатору.
func (s *Storage) GetClass(ctx context.Context, id int64) (*models.TrainingClass, error) {
	const op = "storage.GetClass"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var class models.TrainingClass
	if err := s.q(ctx).GetContext(ctx, &class, selectClass+` WHERE id = $1`, id); err != nil {
		return nil, wrap(op, err)
	}
	return &class, nil
}

// GetClassForUpdate читает занятие и блокирует строку до конца транзакции.
// Параллельные брони одного занятия выполняются по очереди, поэтому
// проверка вместимости не гоняется с вставкой.
func (s *Storage) GetClassForUpdate(ctx context.Context, id int64) (*models.TrainingClass, error) {
	const op = "storage.GetClassForUpdate"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var class models.TrainingClass
	if err := s.q(ctx).GetContext(ctx, &class, selectClass+` WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, wrap(op, err)
	}
	return &class, nil
}

// ListClasses возвращает все занятия по времени начала.
func (s *Storage) ListClasses(ctx context.Context) ([]*models.TrainingClass, error) {
	const op = "storage.ListClasses"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var classes []*models.TrainingClass
	if err := s.q(ctx).SelectContext(ctx, &classes, selectClass+` ORDER BY start_time, id`); err != nil {
		return nil, wrap(op, err)
	}
	return classes, nil
}

// ListClassesStartingAfter возвращает занятия, начинающиеся строго позже t.
func (s *Storage) ListClassesStartingAfter(ctx context.Context, t time.Time) ([]*models.TrainingClass, error) {
	const op = "storage.ListClassesStartingAfter"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var classes []*models.TrainingClass
	if err := s.q(ctx).SelectContext(ctx, &classes, selectClass+` WHERE start_time > $1 ORDER BY start_time, id`, t); err != nil {
		return nil, wrap(op, err)
	}
	return classes, nil
}

// ListTrainerClassesBetween возвращает занятия тренера, начинающиеся в [from, to).
func (s *Storage) ListTrainerClassesBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]*models.TrainingClass, error) {
	const op = "storage.ListTrainerClassesBetween"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var classes []*models.TrainingClass
	err := s.q(ctx).SelectContext(ctx, &classes, selectClass+`
		WHERE trainer_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time, id`, trainerID, from, to)
	if err != nil {
		return nil, wrap(op, err)
	}
	return classes, nil
}

// UpdateClass перезаписывает поля занятия, кроме средней оценки.
func (s *Storage) UpdateClass(ctx context.Context, class *models.TrainingClass) error {
	const op = "storage.UpdateClass"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE training_classes
		SET name = $2, description = $3, trainer_id = $4, room_id = $5,
			start_time = $6, end_time = $7, capacity = $8
		WHERE id = $1`,
		class.ID, class.Name, class.Description, class.TrainerID, class.RoomID,
		class.StartTime, class.EndTime, class.Capacity,
	)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// DeleteClass удаляет занятие вместе с его бронями.
func (s *Storage) DeleteClass(ctx context.Context, id int64) error {
	const op = "storage.DeleteClass"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM training_classes WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// ClassRatingStats возвращает среднее и число оценок занятия.
// При count == 0 среднее не определено.
func (s *Storage) ClassRatingStats(ctx context.Context, classID int64) (avg float64, count int, err error) {
	const op = "storage.ClassRatingStats"
	if err = checkCtx(ctx, op); err != nil {
		return 0, 0, err
	}

	var stats struct {
		Avg   float64 `db:"avg"`
		Count int     `db:"count"`
	}
	err = s.q(ctx).GetContext(ctx, &stats, `
		SELECT COALESCE(AVG(rating), 0)::float8 AS avg, COUNT(rating) AS count
		FROM reservations
		WHERE class_id = $1 AND rating IS NOT NULL`, classID)
	if err != nil {
		return 0, 0, wrap(op, err)
	}
	return stats.Avg, stats.Count, nil
}

// UpdateClassAverageRating записывает среднюю оценку занятия.
func (s *Storage) UpdateClassAverageRating(ctx context.Context, classID int64, avg float64) error {
	const op = "storage.UpdateClassAverageRating"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `UPDATE training_classes SET average_rating = $2 WHERE id = $1`, classID, avg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(op, res)
}
