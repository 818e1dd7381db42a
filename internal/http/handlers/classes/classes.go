// Package classes реализует HTTP-обработчики групповых занятий.
package classes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator"

	"github.com/Naivezz/FitPoint-sub000/internal/http/request"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

type Service interface {
	Create(ctx context.Context, class *models.TrainingClass) (*models.TrainingClass, error)
	Get(ctx context.Context, id int64) (*models.TrainingClass, error)
	List(ctx context.Context) ([]*models.TrainingClass, error)
	Update(ctx context.Context, class *models.TrainingClass) (*models.TrainingClass, error)
	Delete(ctx context.Context, id int64) error
}

// Request — поля занятия. Средняя оценка считается по броням и не задаётся.
type Request struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	TrainerID   int64     `json:"trainer_id" validate:"required,gt=0"`
	RoomID      int64     `json:"room_id" validate:"required,gt=0"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Capacity    int       `json:"capacity" validate:"required,gt=0"`
}

func (req Request) class(id int64) *models.TrainingClass {
	return &models.TrainingClass{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		TrainerID:   req.TrainerID,
		RoomID:      req.RoomID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
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
// @Summary Список занятий
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/classes [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.classes.List"
	log := request.Logger(h.log, r, op)

	classes, err := h.service.List(r.Context())
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, classes)
}

// Get godoc
// @Summary Занятие по идентификатору
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID занятия"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/classes/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.classes.Get"
	log := request.Logger(h.log, r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	class, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, class)
}

// Create godoc
// @Summary Создать занятие
// @Tags Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Занятие"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /api/classes [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.classes.Create"
	log := request.Logger(h.log, r, op)

	var req Request
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	class, err := h.service.Create(r.Context(), req.class(0))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("class created", slog.Int64("class_id", class.ID))
	response.Created(w, r, class)
}

// Update godoc
// @Summary Изменить занятие
// @Tags Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID занятия"
// @Param request body Request true "Занятие"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/classes/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.classes.Update"
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
	class, err := h.service.Update(r.Context(), req.class(id))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, class)
}

// Delete godoc
// @Summary Удалить занятие
// @Tags Classes
// @Security BearerAuth
// @Param id path int true "ID занятия"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /api/classes/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.classes.Delete"
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
	log.Info("class deleted", slog.Int64("class_id", id))
	response.NoContent(w, r)
}
