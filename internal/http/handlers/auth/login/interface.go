package login

import (
	"context"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}
