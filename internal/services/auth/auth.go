// Package auth содержит регистрацию клиентов, вход по паролю и проверку JWT.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/jwt"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/password"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет пользователя вместе с ролями и возвращает его ID.
	CreateUser(ctx context.Context, user *models.User) (int64, error)

	// GetUserByEmail возвращает пользователя по почте без учёта регистра.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// RegisterInput — данные регистрации клиента.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	log      *slog.Logger
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(log *slog.Logger, users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		log:      log,
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает клиента с ролью ROLE_CLIENT.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "auth.Register"
	user, err := s.create(ctx, in, models.RoleClient)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("client registered", slog.String("op", op), slog.Int64("user_id", user.ID))
	return user, nil
}

// CreateWithRoles создает пользователя с заданными ролями. Используется
// администратором при заведении сотрудников.
func (s *AuthService) CreateWithRoles(ctx context.Context, in RegisterInput, roles ...models.Role) (*models.User, error) {
	const op = "auth.CreateWithRoles"
	user, err := s.create(ctx, in, roles...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *AuthService) create(ctx context.Context, in RegisterInput, roles ...models.Role) (*models.User, error) {
	hashed, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        normalizeEmail(in.Email),
		PasswordHash: hashed,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Roles:        roles,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Newf(apperr.ErrConflict, "email %s is already registered", user.Email)
		}
		return nil, err
	}
	user.ID = id
	return user, nil
}

// Login проверяет пароль пользователя и выдаёт JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "auth.Login"
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrUnauthorized, "invalid credentials"))
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Compare(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrUnauthorized, "invalid credentials"))
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, user.Roles)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// ValidateToken проверяет JWT и возвращает субъекта запроса.
func (s *AuthService) ValidateToken(_ context.Context, token string) (models.Principal, error) {
	const op = "auth.ValidateToken"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Principal{}, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrUnauthorized, "invalid or expired token"))
	}
	p, err := claims.Principal()
	if err != nil {
		return models.Principal{}, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrUnauthorized, "invalid token subject"))
	}
	return p, nil
}

// EnsureAdmin создаёт администратора с почтой email, если такого пользователя ещё нет.
// Пустая почта отключает создание.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, rawPassword string) error {
	const op = "auth.EnsureAdmin"
	if strings.TrimSpace(email) == "" {
		return nil
	}
	_, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.create(ctx, RegisterInput{Email: email, Password: rawPassword, FirstName: "Admin"}, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("bootstrap admin created", slog.String("op", op), slog.Int64("user_id", user.ID))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
