package register

import (
	"context"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
	"github.com/Naivezz/FitPoint-sub000/internal/services/auth"
)

// Service регистрирует новых клиентов.
type Service interface {
	Register(ctx context.Context, in auth.RegisterInput) (*models.User, error)
}
