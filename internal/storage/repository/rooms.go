package repository

import (
	"context"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// CreateRoom сохраняет зал и возвращает его идентификатор.
func (s *Storage) CreateRoom(ctx context.Context, room *models.Room) (int64, error) {
	const op = "storage.CreateRoom"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	err := s.q(ctx).QueryRowxContext(ctx, `
		INSERT INTO rooms (name, capacity, description)
		VALUES ($1, $2, $3)
		RETURNING id`, room.Name, room.Capacity, room.Description).Scan(&id)
	if err != nil {
		return 0, wrap(op, err)
	}
	return id, nil
}

// GetRoom возвращает зал по идентификатору.
func (s *Storage) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	const op = "storage.GetRoom"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var room models.Room
	if err := s.q(ctx).GetContext(ctx, &room, `SELECT id, name, capacity, description FROM rooms WHERE id = $1`, id); err != nil {
		return nil, wrap(op, err)
	}
	return &room, nil
}

// ListRooms возвращает все залы.
func (s *Storage) ListRooms(ctx context.Context) ([]*models.Room, error) {
	const op = "storage.ListRooms"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var rooms []*models.Room
	if err := s.q(ctx).SelectContext(ctx, &rooms, `SELECT id, name, capacity, description FROM rooms ORDER BY id`); err != nil {
		return nil, wrap(op, err)
	}
	return rooms, nil
}

// UpdateRoom перезаписывает поля зала.
func (s *Storage) UpdateRoom(ctx context.Context, room *models.Room) error {
	const op = "storage.UpdateRoom"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE rooms SET name = $2, capacity = $3, description = $4
		WHERE id = $1`, room.ID, room.Name, room.Capacity, room.Description)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// DeleteRoom удаляет зал. Зал с занятиями не удаляется (ErrConflict).
func (s *Storage) DeleteRoom(ctx context.Context, id int64) error {
	const op = "storage.DeleteRoom"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}
