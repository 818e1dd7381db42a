package repository

import (
	"context"
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// price хранится как NUMERIC(10,2) и читается как float8.
const selectMembership = `SELECT id, user_id, type, start_date, end_date, price::float8 AS price, active
	FROM memberships`

// CreateMembership сохраняет абонемент и возвращает его идентификатор.
func (s *Storage) CreateMembership(ctx context.Context, m *models.Membership) (int64, error) {
	const op = "storage.CreateMembership"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	err := s.q(ctx).QueryRowxContext(ctx, `
		INSERT INTO memberships (user_id, type, start_date, end_date, price, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		m.UserID, m.Type, m.StartDate, m.EndDate, m.Price, m.Active,
	).Scan(&id)
	if err != nil {
		return 0, wrap(op, err)
	}
	return id, nil
}

// ListMemberships возвращает все абонементы пользователя.
func (s *Storage) ListMemberships(ctx context.Context, userID int64) ([]*models.Membership, error) {
	const op = "storage.ListMemberships"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var list []*models.Membership
	if err := s.q(ctx).SelectContext(ctx, &list, selectMembership+` WHERE user_id = $1 ORDER BY id`, userID); err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// ListValidMemberships возвращает абонементы, действующие на дату today
// (end_date >= today). Флаг active не учитывается.
func (s *Storage) ListValidMemberships(ctx context.Context, userID int64, today time.Time) ([]*models.Membership, error) {
	const op = "storage.ListValidMemberships"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var list []*models.Membership
	err := s.q(ctx).SelectContext(ctx, &list, selectMembership+`
		WHERE user_id = $1 AND end_date >= $2
		ORDER BY id`, userID, today)
	if err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// FirstValidMembershipForUpdate возвращает первый по идентификатору действующий
// абонемент и блокирует его строку. Если такого нет, возвращает ErrNotFound.
func (s *Storage) FirstValidMembershipForUpdate(ctx context.Context, userID int64, today time.Time) (*models.Membership, error) {
	const op = "storage.FirstValidMembershipForUpdate"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var m models.Membership
	err := s.q(ctx).GetContext(ctx, &m, selectMembership+`
		WHERE user_id = $1 AND end_date >= $2
		ORDER BY id
		LIMIT 1
		FOR UPDATE`, userID, today)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &m, nil
}

// UpdateMembershipEndDate переносит дату окончания абонемента.
func (s *Storage) UpdateMembershipEndDate(ctx context.Context, id int64, endDate time.Time) error {
	const op = "storage.UpdateMembershipEndDate"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `UPDATE memberships SET end_date = $2 WHERE id = $1`, id, endDate)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}
