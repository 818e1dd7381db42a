// Package memberships реализует HTTP-обработчики абонементов клиента.
package memberships

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Naivezz/FitPoint-sub000/internal/http/request"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

type Service interface {
	Types() []models.MembershipPlan
	Purchase(ctx context.Context, userID int64, membershipType string) (*models.Membership, error)
	TopUp(ctx context.Context, userID int64, membershipType string) (*models.Membership, error)
	List(ctx context.Context, userID int64) ([]*models.Membership, error)
	Active(ctx context.Context, userID int64) ([]*models.Membership, error)
}

// Request — тип абонемента для покупки или продления.
type Request struct {
	Type string `json:"type" validate:"required"`
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

// List godoc
// @Summary Абонементы клиента
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/client/memberships [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.memberships.List", h.service.List)
}

// Active godoc
// @Summary Действующие абонементы клиента
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/client/memberships/active [get]
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.memberships.Active", h.service.Active)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, op string,
	fetch func(ctx context.Context, userID int64) ([]*models.Membership, error)) {
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	ms, err := fetch(r.Context(), p.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, ms)
}

// Purchase godoc
// @Summary Купить абонемент
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Тип абонемента: MONTHLY, QUARTERLY, ANNUAL"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Неизвестный тип"
// @Router /api/client/memberships/purchase [post]
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	h.buy(w, r, "handlers.memberships.Purchase", http.StatusCreated, h.service.Purchase)
}

// TopUp godoc
// @Summary Продлить абонемент
// @Description Продлевает первый действующий абонемент на срок типа либо покупает новый.
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Тип абонемента"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Неизвестный тип"
// @Router /api/client/memberships/topup [post]
func (h *Handler) TopUp(w http.ResponseWriter, r *http.Request) {
	h.buy(w, r, "handlers.memberships.TopUp", http.StatusOK, h.service.TopUp)
}

func (h *Handler) buy(w http.ResponseWriter, r *http.Request, op string, status int,
	do func(ctx context.Context, userID int64, membershipType string) (*models.Membership, error)) {
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	var req Request
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	m, err := do(r.Context(), p.UserID, req.Type)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("membership saved", slog.Int64("membership_id", m.ID), slog.String("type", req.Type))
	render.Status(r, status)
	render.JSON(w, r, response.StatusOKWithData(m))
}

// Types godoc
// @Summary Каталог типов абонементов
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/admin/clients/membership-types [get]
func (h *Handler) Types(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, h.service.Types())
}
