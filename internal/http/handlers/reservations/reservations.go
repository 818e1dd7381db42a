// Package reservations реализует HTTP-обработчики бронирования занятий клиентом.
package reservations

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/Naivezz/FitPoint-sub000/internal/http/request"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// Service описывает операции бронирования, нужные обработчикам.
type Service interface {
	ListAvailableClasses(ctx context.Context) ([]*models.TrainingClass, error)
	Create(ctx context.Context, userID, classID int64) (*models.Reservation, error)
	Cancel(ctx context.Context, userID, reservationID int64) (*models.Reservation, error)
	Rate(ctx context.Context, userID, reservationID int64, rating int, comment *string) (*models.Reservation, error)
	ListMine(ctx context.Context, userID int64) ([]*models.ReservationView, error)
	ListUpcoming(ctx context.Context, userID int64) ([]*models.ReservationView, error)
	ListPast(ctx context.Context, userID int64) ([]*models.ReservationView, error)
}

// CreateRequest — тело запроса на бронирование.
type CreateRequest struct {
	ClassID int64 `json:"class_id" validate:"required,gt=0"`
}

// RateRequest — оценка посещённого занятия.
type RateRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
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

// AvailableClasses godoc
// @Summary Занятия, доступные для записи
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/client/classes/available [get]
func (h *Handler) AvailableClasses(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservations.AvailableClasses"
	log := request.Logger(h.log, r, op)

	classes, err := h.service.ListAvailableClasses(r.Context())
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, classes)
}

// Create godoc
// @Summary Забронировать место на занятии
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Занятие"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Нет мест, повторная бронь или занятие уже началось"
// @Failure 404 {object} response.ErrorResponse "Занятие не найдено"
// @Router /api/client/reservations [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservations.Create"
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

	res, err := h.service.Create(r.Context(), p.UserID, req.ClassID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("reservation created", slog.Int64("reservation_id", res.ID))
	response.Created(w, r, res)
}

// List godoc
// @Summary Все брони клиента
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/client/reservations [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.reservations.List", h.service.ListMine)
}

// Upcoming godoc
// @Summary Предстоящие брони клиента
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/client/reservations/upcoming [get]
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.reservations.Upcoming", h.service.ListUpcoming)
}

// Past godoc
// @Summary Прошедшие брони клиента
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/client/reservations/past [get]
func (h *Handler) Past(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.reservations.Past", h.service.ListPast)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, op string,
	fetch func(ctx context.Context, userID int64) ([]*models.ReservationView, error)) {
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	views, err := fetch(r.Context(), p.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, views)
}

// Cancel godoc
// @Summary Отменить бронь
// @Description Отмена возможна не позднее чем за окно отмены до начала занятия.
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID брони"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Слишком поздно или бронь уже отменена"
// @Failure 403 {object} response.ErrorResponse "Чужая бронь"
// @Router /api/client/reservations/{id}/cancel [post]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservations.Cancel"
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	res, err := h.service.Cancel(r.Context(), p.UserID, id)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("reservation cancelled", slog.Int64("reservation_id", id))
	response.OK(w, r, res)
}

// Rate godoc
// @Summary Оценить посещённое занятие
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID брони"
// @Param request body RateRequest true "Оценка 1..5"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Занятие ещё не закончилось"
// @Router /api/client/reservations/{id}/rate [post]
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservations.Rate"
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	var req RateRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	res, err := h.service.Rate(r.Context(), p.UserID, id, req.Rating, req.Comment)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, res)
}
