package repository

import (
	"context"
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

const selectNote = `SELECT id, trainer_id, client_id, note, created_at, updated_at FROM trainer_notes`

// CreateNote сохраняет заметку тренера.
func (s *Storage) CreateNote(ctx context.Context, n *models.TrainerNote) (int64, error) {
	const op = "storage.CreateNote"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	err := s.q(ctx).QueryRowxContext(ctx, `
		INSERT INTO trainer_notes (trainer_id, client_id, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`, n.TrainerID, n.ClientID, n.Note, n.CreatedAt, n.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, wrap(op, err)
	}
	return id, nil
}

// GetNote возвращает заметку по идентификатору.
func (s *Storage) GetNote(ctx context.Context, id int64) (*models.TrainerNote, error) {
	const op = "storage.GetNote"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var n models.TrainerNote
	if err := s.q(ctx).GetContext(ctx, &n, selectNote+` WHERE id = $1`, id); err != nil {
		return nil, wrap(op, err)
	}
	return &n, nil
}

// ListNotes возвращает заметки тренера. clientID == 0 означает всех клиентов.
func (s *Storage) ListNotes(ctx context.Context, trainerID, clientID int64) ([]*models.TrainerNote, error) {
	const op = "storage.ListNotes"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var list []*models.TrainerNote
	err := s.q(ctx).SelectContext(ctx, &list, selectNote+`
		WHERE trainer_id = $1 AND ($2::bigint = 0 OR client_id = $2)
		ORDER BY updated_at DESC, id`, trainerID, clientID)
	if err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// UpdateNote заменяет текст заметки.
func (s *Storage) UpdateNote(ctx context.Context, id int64, note string, updatedAt time.Time) error {
	const op = "storage.UpdateNote"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `UPDATE trainer_notes SET note = $2, updated_at = $3 WHERE id = $1`, id, note, updatedAt)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// DeleteNote удаляет заметку.
func (s *Storage) DeleteNote(ctx context.Context, id int64) error {
	const op = "storage.DeleteNote"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM trainer_notes WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}
