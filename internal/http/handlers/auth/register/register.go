// Package register реализует HTTP-обработчик регистрации клиента клуба.
package register

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/Naivezz/FitPoint-sub000/internal/http/request"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/services/auth"
)

// Request — входные данные для регистрации
type Request struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"max=32"`
}

type Handler struct {
	log         *slog.Logger
	authService Service
	validate    *validator.Validate
}

func New(log *slog.Logger, authService Service) *Handler {
	return &Handler{
		log:         log,
		authService: authService,
		validate:    validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация клиента
// @Description Создаёт пользователя с ролью ROLE_CLIENT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные пользователя"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или email занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
	log := request.Logger(h.log, r, op)

	var req Request
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("user registered", slog.Int64("user_id", user.ID))
	response.Created(w, r, user)
}
