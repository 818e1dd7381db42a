package repository

import (
	"context"
	"strings"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// userRow — строка пользователя с ролями, склеенными через запятую.
type userRow struct {
	models.User
	RoleNames string `db:"roles"`
}

func (r userRow) toModel() *models.User {
	u := r.User
	u.Roles = nil
	for _, name := range strings.Split(r.RoleNames, ",") {
		if role, ok := models.ParseRole(name); ok {
			u.Roles = append(u.Roles, role)
		}
	}
	return &u
}

func rowsToUsers(rows []userRow) []*models.User {
	users := make([]*models.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toModel())
	}
	return users
}

const selectUser = `SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.phone, u.created_at,
	COALESCE(string_agg(r.name, ',' ORDER BY r.name), '') AS roles
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	LEFT JOIN roles r ON r.id = ur.role_id`

func roleNames(roles []models.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return names
}

// CreateUser сохраняет пользователя и назначает ему роли.
// Вызывается внутри WithinTx, чтобы пользователь не остался без ролей.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	err := s.q(ctx).QueryRowxContext(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone,
	).Scan(&id)
	if err != nil {
		return 0, wrap(op, err)
	}

	if len(user.Roles) > 0 {
		_, err = s.q(ctx).ExecContext(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name = ANY($2)`,
			id, roleNames(user.Roles),
		)
		if err != nil {
			return 0, wrap(op, err)
		}
	}
	return id, nil
}

// GetUserByID возвращает пользователя с ролями.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var row userRow
	if err := s.q(ctx).GetContext(ctx, &row, selectUser+` WHERE u.id = $1 GROUP BY u.id`, id); err != nil {
		return nil, wrap(op, err)
	}
	return row.toModel(), nil
}

// GetUserByEmail возвращает пользователя по электронной почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var row userRow
	if err := s.q(ctx).GetContext(ctx, &row, selectUser+` WHERE lower(u.email) = lower($1) GROUP BY u.id`, email); err != nil {
		return nil, wrap(op, err)
	}
	return row.toModel(), nil
}

// ListUsersByRoles возвращает пользователей, у которых есть хотя бы одна из ролей.
func (s *Storage) ListUsersByRoles(ctx context.Context, roles ...models.Role) ([]*models.User, error) {
	const op = "storage.ListUsersByRoles"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var rows []userRow
	err := s.q(ctx).SelectContext(ctx, &rows, selectUser+`
		WHERE u.id IN (
			SELECT ur2.user_id FROM user_roles ur2
			JOIN roles r2 ON r2.id = ur2.role_id
			WHERE r2.name = ANY($1))
		GROUP BY u.id
		ORDER BY u.id`, roleNames(roles))
	if err != nil {
		return nil, wrap(op, err)
	}
	return rowsToUsers(rows), nil
}

// UpdateUserProfile обновляет имя, фамилию и телефон.
func (s *Storage) UpdateUserProfile(ctx context.Context, id int64, firstName, lastName, phone string) error {
	const op = "storage.UpdateUserProfile"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE users SET first_name = $2, last_name = $3, phone = $4
		WHERE id = $1`, id, firstName, lastName, phone)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// UpdateUserPassword сохраняет новый хэш пароля.
func (s *Storage) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	const op = "storage.UpdateUserPassword"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// DeleteUser удаляет пользователя. Брони, абонементы и уведомления
// удаляются каскадно; пользователь, ведущий занятия, не удаляется.
func (s *Storage) DeleteUser(ctx context.Context, id int64) error {
	const op = "storage.DeleteUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// ListTrainerClients возвращает клиентов, записанных на занятия тренера
// или занимающихся с ним персонально.
func (s *Storage) ListTrainerClients(ctx context.Context, trainerID int64) ([]*models.User, error) {
	const op = "storage.ListTrainerClients"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var rows []userRow
	err := s.q(ctx).SelectContext(ctx, &rows, selectUser+`
		WHERE u.id IN (
			SELECT res.user_id FROM reservations res
			JOIN training_classes tc ON tc.id = res.class_id
			WHERE tc.trainer_id = $1
			UNION
			SELECT ps.client_id FROM personal_training_sessions ps
			WHERE ps.trainer_id = $1)
		GROUP BY u.id
		ORDER BY u.last_name, u.first_name, u.id`, trainerID)
	if err != nil {
		return nil, wrap(op, err)
	}
	return rowsToUsers(rows), nil
}
