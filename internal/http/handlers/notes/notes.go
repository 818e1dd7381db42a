// Package notes реализует HTTP-обработчики заметок тренера о клиентах.
package notes

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
	Create(ctx context.Context, trainerID, clientID int64, text string) (*models.TrainerNote, error)
	List(ctx context.Context, trainerID, clientID int64) ([]*models.TrainerNote, error)
	Get(ctx context.Context, trainerID, id int64) (*models.TrainerNote, error)
	Update(ctx context.Context, trainerID, id int64, text string) (*models.TrainerNote, error)
	Delete(ctx context.Context, trainerID, id int64) error
}

// CreateRequest — новая заметка.
type CreateRequest struct {
	ClientID int64  `json:"client_id" validate:"required,gt=0"`
	Note     string `json:"note" validate:"required,max=4000"`
}

// UpdateRequest — новый текст заметки.
type UpdateRequest struct {
	Note string `json:"note" validate:"required,max=4000"`
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
// @Summary Заметки тренера
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param client_id query int false "Только по клиенту"
// @Success 200 {object} response.Response
// @Router /api/trainer/notes [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notes.List"
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	clientID, err := request.Int64Query(r, "client_id")
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	list, err := h.service.List(r.Context(), p.UserID, clientID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, list)
}

// Create godoc
// @Summary Создать заметку о клиенте
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Заметка"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /api/trainer/notes [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notes.Create"
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	var req CreateRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	note, err := h.service.Create(r.Context(), p.UserID, req.ClientID, req.Note)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.Created(w, r, note)
}

// Get godoc
// @Summary Заметка по идентификатору
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заметки"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/trainer/notes/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notes.Get"
	log := request.Logger(h.log, r, op)

	p, id, ok := h.target(w, r, log)
	if !ok {
		return
	}
	note, err := h.service.Get(r.Context(), p.UserID, id)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, note)
}

// Update godoc
// @Summary Изменить заметку
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заметки"
// @Param request body UpdateRequest true "Текст"
// @Success 200 {object} response.Response
// @Router /api/trainer/notes/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notes.Update"
	log := request.Logger(h.log, r, op)

	p, id, ok := h.target(w, r, log)
	if !ok {
		return
	}
	var req UpdateRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}
	note, err := h.service.Update(r.Context(), p.UserID, id, req.Note)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, note)
}

// Delete godoc
// @Summary Удалить заметку
// @Tags Trainer
// @Security BearerAuth
// @Param id path int true "ID заметки"
// @Success 204
// @Router /api/trainer/notes/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notes.Delete"
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

// target достаёт тренера и идентификатор заметки из запроса.
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
