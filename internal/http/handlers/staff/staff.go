// Package staff реализует административные HTTP-обработчики сотрудников и клиентов.
package staff

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/Naivezz/FitPoint-sub000/internal/http/request"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	"github.com/Naivezz/FitPoint-sub000/internal/services/auth"
)

type Service interface {
	ListEmployees(ctx context.Context) ([]*models.User, error)
	CreateEmployee(ctx context.Context, in auth.RegisterInput, roles []string) (*models.User, error)
	GetEmployee(ctx context.Context, id int64) (*models.User, error)
	DeleteEmployee(ctx context.Context, id int64) error
	ListClients(ctx context.Context) ([]*models.User, error)
	GetClient(ctx context.Context, id int64) (*models.User, error)
}

// EmployeeRequest — данные нового сотрудника.
type EmployeeRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=6"`
	FirstName string   `json:"first_name" validate:"required,max=100"`
	LastName  string   `json:"last_name" validate:"required,max=100"`
	Phone     string   `json:"phone" validate:"max=32"`
	Roles     []string `json:"roles" validate:"required,min=1"`
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

// ListEmployees godoc
// @Summary Сотрудники клуба
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/admin/employees [get]
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.staff.ListEmployees", h.service.ListEmployees)
}

// ListClients godoc
// @Summary Клиенты клуба
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/admin/clients [get]
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.staff.ListClients", h.service.ListClients)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, op string,
	fetch func(ctx context.Context) ([]*models.User, error)) {
	log := request.Logger(h.log, r, op)

	users, err := fetch(r.Context())
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, users)
}

// GetEmployee godoc
// @Summary Сотрудник по идентификатору
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID сотрудника"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/employees/{id} [get]
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, "handlers.staff.GetEmployee", h.service.GetEmployee)
}

// GetClient godoc
// @Summary Клиент по идентификатору
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID клиента"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/clients/{id} [get]
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, "handlers.staff.GetClient", h.service.GetClient)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, op string,
	fetch func(ctx context.Context, id int64) (*models.User, error)) {
	log := request.Logger(h.log, r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	user, err := fetch(r.Context(), id)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, user)
}

// CreateEmployee godoc
// @Summary Создать сотрудника
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EmployeeRequest true "Данные сотрудника, роли ROLE_TRAINER и/или ROLE_ADMIN"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /api/admin/employees [post]
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.staff.CreateEmployee"
	log := request.Logger(h.log, r, op)

	var req EmployeeRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	user, err := h.service.CreateEmployee(r.Context(), auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}, req.Roles)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("employee created", slog.Int64("user_id", user.ID))
	response.Created(w, r, user)
}

// DeleteEmployee godoc
// @Summary Удалить сотрудника
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "ID сотрудника"
// @Success 204
// @Failure 400 {object} response.ErrorResponse "У сотрудника есть занятия"
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/employees/{id} [delete]
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.staff.DeleteEmployee"
	log := request.Logger(h.log, r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	if err := h.service.DeleteEmployee(r.Context(), id); err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("employee deleted", slog.Int64("user_id", id))
	response.NoContent(w, r)
}
