// Package profile реализует HTTP-обработчики профиля и смены пароля.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/Naivezz/FitPoint-sub000/internal/http/request"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	profilesvc "github.com/Naivezz/FitPoint-sub000/internal/services/profile"
)

type Service interface {
	Get(ctx context.Context, userID int64) (*models.User, error)
	Update(ctx context.Context, userID int64, in profilesvc.UpdateInput) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
}

// UpdateRequest — новые данные профиля.
type UpdateRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"max=32"`
}

// PasswordRequest — смена пароля.
type PasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// Get godoc
// @Summary Профиль текущего пользователя
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/client/profile [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.Get"
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	user, err := h.service.Get(r.Context(), p.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, user)
}

// Update godoc
// @Summary Изменить профиль
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateRequest true "Данные профиля"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.ErrorResponse
// @Router /api/client/profile [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.Update"
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	var req UpdateRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	user, err := h.service.Update(r.Context(), p.UserID, profilesvc.UpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, user)
}

// ChangePassword godoc
// @Summary Сменить пароль
// @Tags Client
// @Accept json
// @Security BearerAuth
// @Param request body PasswordRequest true "Старый и новый пароль"
// @Success 204
// @Failure 400 {object} response.ErrorResponse "Неверный текущий пароль"
// @Router /api/client/password [put]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.ChangePassword"
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	var req PasswordRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), p.UserID, req.OldPassword, req.NewPassword); err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("password changed", slog.Int64("user_id", p.UserID))
	response.NoContent(w, r)
}
