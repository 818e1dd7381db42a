// Package staff реализует управление сотрудниками и просмотр клиентов администратором.
package staff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	"github.com/Naivezz/FitPoint-sub000/internal/services/auth"
)

type Repository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsersByRoles(ctx context.Context, roles ...models.Role) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Accounts создаёт учётные записи с хэшированным паролем.
type Accounts interface {
	CreateWithRoles(ctx context.Context, in auth.RegisterInput, roles ...models.Role) (*models.User, error)
}

type Service struct {
	log      *slog.Logger
	repo     Repository
	accounts Accounts
}

func New(log *slog.Logger, repo Repository, accounts Accounts) *Service {
	return &Service{log: log, repo: repo, accounts: accounts}
}

// ListEmployees возвращает тренеров и администраторов.
func (s *Service) ListEmployees(ctx context.Context) ([]*models.User, error) {
	const op = "staff.ListEmployees"
	list, err := s.repo.ListUsersByRoles(ctx, models.RoleTrainer, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// CreateEmployee заводит сотрудника. Допустимы только роли тренера и администратора.
func (s *Service) CreateEmployee(ctx context.Context, in auth.RegisterInput, roles []string) (*models.User, error) {
	const op = "staff.CreateEmployee"
	parsed, err := employeeRoles(roles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.accounts.CreateWithRoles(ctx, in, parsed...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("employee created", slog.String("op", op), slog.Int64("user_id", user.ID))
	return user, nil
}

// GetEmployee возвращает сотрудника по id.
func (s *Service) GetEmployee(ctx context.Context, id int64) (*models.User, error) {
	const op = "staff.GetEmployee"
	user, err := s.user(ctx, id, "employee")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsEmployee() {
		return nil, fmt.Errorf("%s: %w", op, apperr.Newf(apperr.ErrNotFound, "employee %d not found", id))
	}
	return user, nil
}

// DeleteEmployee удаляет сотрудника. Тренера с занятиями удалить нельзя.
func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	const op = "staff.DeleteEmployee"
	if _, err := s.GetEmployee(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrConflict, "employee still has scheduled classes"))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("employee deleted", slog.String("op", op), slog.Int64("user_id", id))
	return nil
}

// ListClients возвращает клиентов клуба.
func (s *Service) ListClients(ctx context.Context) ([]*models.User, error) {
	const op = "staff.ListClients"
	list, err := s.repo.ListUsersByRoles(ctx, models.RoleClient)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// GetClient возвращает клиента по id.
func (s *Service) GetClient(ctx context.Context, id int64) (*models.User, error) {
	const op = "staff.GetClient"
	user, err := s.user(ctx, id, "client")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.HasRole(models.RoleClient) {
		return nil, fmt.Errorf("%s: %w", op, apperr.Newf(apperr.ErrNotFound, "client %d not found", id))
	}
	return user, nil
}

func (s *Service) user(ctx context.Context, id int64, kind string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Newf(apperr.ErrNotFound, "%s %d not found", kind, id)
		}
		return nil, err
	}
	return user, nil
}

func employeeRoles(raw []string) ([]models.Role, error) {
	if len(raw) == 0 {
		return nil, apperr.New(apperr.ErrInvalidArgument, "at least one role is required")
	}
	roles := make([]models.Role, 0, len(raw))
	seen := make(map[models.Role]bool, len(raw))
	for _, r := range raw {
		role, ok := models.ParseRole(r)
		if !ok || role == models.RoleClient {
			return nil, apperr.Newf(apperr.ErrInvalidArgument, "role %q is not an employee role", r)
		}
		if !seen[role] {
			seen[role] = true
			roles = append(roles, role)
		}
	}
	return roles, nil
}
