// Package personalsessions реализует HTTP-обработчики персональных тренировок.
package personalsessions

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator"

	"github.com/Naivezz/FitPoint-sub000/internal/http/request"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	"github.com/Naivezz/FitPoint-sub000/internal/services/personalsession"
)

type Service interface {
	Create(ctx context.Context, trainerID int64, in personalsession.Input) (*models.PersonalTrainingSession, error)
	List(ctx context.Context, trainerID int64) ([]*models.PersonalTrainingSession, error)
	Get(ctx context.Context, trainerID, id int64) (*models.PersonalTrainingSession, error)
	Update(ctx context.Context, trainerID, id int64, in personalsession.Input) (*models.PersonalTrainingSession, error)
	Cancel(ctx context.Context, trainerID, id int64) (*models.PersonalTrainingSession, error)
	Complete(ctx context.Context, trainerID, id int64) (*models.PersonalTrainingSession, error)
	Delete(ctx context.Context, trainerID, id int64) error
}

// Request — поля персональной тренировки.
type Request struct {
	ClientID  int64     `json:"client_id" validate:"required,gt=0"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Goal      string    `json:"goal" validate:"max=500"`
	Notes     string    `json:"notes" validate:"max=4000"`
	Status    string    `json:"status,omitempty"`
}

func (req Request) input() personalsession.Input {
	return personalsession.Input{
		ClientID:  req.ClientID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Goal:      req.Goal,
		Notes:     req.Notes,
		Status:    req.Status,
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
// @Summary Персональные тренировки тренера
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/trainer/personal-sessions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.personalsessions.List"
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	list, err := h.service.List(r.Context(), p.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, list)
}

// Create godoc
// @Summary Назначить персональную тренировку
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Тренировка"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /api/trainer/personal-sessions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.personalsessions.Create"
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
	ps, err := h.service.Create(r.Context(), p.UserID, req.input())
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("personal session created", slog.Int64("session_id", ps.ID))
	response.Created(w, r, ps)
}

// Get godoc
// @Summary Персональная тренировка по идентификатору
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тренировки"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/trainer/personal-sessions/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handlers.personalsessions.Get", h.service.Get)
}

// Update godoc
// @Summary Изменить персональную тренировку
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тренировки"
// @Param request body Request true "Тренировка"
// @Success 200 {object} response.Response
// @Router /api/trainer/personal-sessions/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.personalsessions.Update"
	log := request.Logger(h.log, r, op)

	p, id, ok := h.target(w, r, log)
	if !ok {
		return
	}
	var req Request
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	ps, err := h.service.Update(r.Context(), p.UserID, id, req.input())
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, ps)
}

// Complete godoc
// @Summary Отметить тренировку проведённой
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тренировки"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Тренировка не в статусе SCHEDULED"
// @Router /api/trainer/personal-sessions/{id}/complete [post]
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handlers.personalsessions.Complete", h.service.Complete)
}

// Cancel godoc
// @Summary Отменить тренировку
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тренировки"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Тренировка не в статусе SCHEDULED"
// @Router /api/trainer/personal-sessions/{id}/cancel [post]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handlers.personalsessions.Cancel", h.service.Cancel)
}

// Delete godoc
// @Summary Удалить тренировку
// @Tags Trainer
// @Security BearerAuth
// @Param id path int true "ID тренировки"
// @Success 204
// @Router /api/trainer/personal-sessions/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.personalsessions.Delete"
	log := request.Logger(h.log, r, op)

	p, id, ok := h.target(w, r, log)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), p.UserID, id); err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) act(w http.ResponseWriter, r *http.Request, op string,
	do func(ctx context.Context, trainerID, id int64) (*models.PersonalTrainingSession, error)) {
	log := request.Logger(h.log, r, op)

	p, id, ok := h.target(w, r, log)
	if !ok {
		return
	}
	ps, err := do(r.Context(), p.UserID, id)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, ps)
}

func (h *Handler) target(w http.ResponseWriter, r *http.Request, log *slog.Logger) (models.Principal, int64, bool) {
	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return p, 0, false
	}
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.FromError(w, r, log, err)
		return p, 0, false
	}
	return p, id, true
}
