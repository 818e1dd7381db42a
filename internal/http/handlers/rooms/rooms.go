// Package rooms реализует HTTP-обработчики справочника залов.
package rooms

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/Naivezz/FitPoint-sub000/internal/http/request"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

type Service interface {
	Create(ctx context.Context, room *models.Room) (*models.Room, error)
	Get(ctx context.Context, id int64) (*models.Room, error)
	List(ctx context.Context) ([]*models.Room, error)
	Update(ctx context.Context, room *models.Room) (*models.Room, error)
	Delete(ctx context.Context, id int64) error
}

// Request — поля зала.
type Request struct {
	Name        string `json:"name" validate:"required,max=100"`
	Capacity    int    `json:"capacity" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=1000"`
}

func (req Request) room(id int64) *models.Room {
	return &models.Room{
		ID:          id,
		Name:        req.Name,
		Capacity:    req.Capacity,
		Description: req.Description,
	}
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
// @Summary Список залов
// @Tags Rooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/rooms [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rooms.List"
	log := request.Logger(h.log, r, op)

	rooms, err := h.service.List(r.Context())
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, rooms)
}

// Get godoc
// @Summary Зал по идентификатору
// @Tags Rooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID зала"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/rooms/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rooms.Get"
	log := request.Logger(h.log, r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	room, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, room)
}

// Create godoc
// @Summary Создать зал
// @Tags Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Зал"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Имя занято"
// @Router /api/rooms [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rooms.Create"
	log := request.Logger(h.log, r, op)

	var req Request
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	room, err := h.service.Create(r.Context(), req.room(0))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("room created", slog.Int64("room_id", room.ID))
	response.Created(w, r, room)
}

// Update godoc
// @Summary Изменить зал
// @Tags Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID зала"
// @Param request body Request true "Зал"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/rooms/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rooms.Update"
	log := request.Logger(h.log, r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	var req Request
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	room, err := h.service.Update(r.Context(), req.room(id))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, room)
}

// Delete godoc
// @Summary Удалить зал
// @Tags Rooms
// @Security BearerAuth
// @Param id path int true "ID зала"
// @Success 204
// @Failure 400 {object} response.ErrorResponse "В зале есть занятия"
// @Router /api/rooms/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rooms.Delete"
	log := request.Logger(h.log, r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("room deleted", slog.Int64("room_id", id))
	response.NoContent(w, r)
}
