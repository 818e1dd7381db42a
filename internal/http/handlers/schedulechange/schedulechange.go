// Package schedulechange реализует HTTP-обработчики запросов на изменение
// расписания: подачу тренером и рассмотрение администратором.
package schedulechange

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/Naivezz/FitPoint-sub000/internal/http/request"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	schedulesvc "github.com/Naivezz/FitPoint-sub000/internal/services/schedulechange"
)

type Service interface {
	Create(ctx context.Context, trainerID int64, in schedulesvc.CreateInput) (*models.ScheduleChangeRequest, error)
	Review(ctx context.Context, adminID, id int64, decision string, note *string) (*models.ScheduleChangeRequest, error)
	List(ctx context.Context) ([]*models.ScheduleChangeRequest, error)
	ListPending(ctx context.Context) ([]*models.ScheduleChangeRequest, error)
	Get(ctx context.Context, id int64) (*models.ScheduleChangeRequest, error)
	ListByTrainer(ctx context.Context, trainerID int64) ([]*models.ScheduleChangeRequest, error)
}

// CreateRequest — запрос тренера. Поля занятия, которых нет в теле,
// остаются незаданными.
type CreateRequest struct {
	Type    string `json:"request_type" validate:"required"`
	Reason  string `json:"reason" validate:"required,max=1000"`
	ClassID *int64 `json:"class_id,omitempty"`
	models.ChangeFields
}

// ReviewRequest — решение администратора.
type ReviewRequest struct {
	Status string  `json:"status" validate:"required"`
	Note   *string `json:"review_note,omitempty" validate:"omitempty,max=1000"`
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

// Create godoc
// @Summary Подать запрос на изменение расписания
// @Description ADD требует все поля нового занятия, MODIFY меняет только переданные поля, CANCEL удаляет занятие.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Запрос"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Занятие другого тренера"
// @Router /api/trainer/schedule/change-request [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedulechange.Create"
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

	created, err := h.service.Create(r.Context(), p.UserID, schedulesvc.CreateInput{
		Type:    req.Type,
		Reason:  req.Reason,
		ClassID: req.ClassID,
		Fields:  req.ChangeFields,
	})
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("schedule change request created", slog.Int64("request_id", created.ID))
	response.Created(w, r, created)
}

// ListMine godoc
// @Summary Запросы текущего тренера
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/trainer/schedule/change-requests [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedulechange.ListMine"
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	reqs, err := h.service.ListByTrainer(r.Context(), p.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, reqs)
}

// List godoc
// @Summary Все запросы на изменение расписания
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/admin/schedule-change-requests [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.schedulechange.List", h.service.List)
}

// Pending godoc
// @Summary Запросы, ожидающие рассмотрения
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/admin/schedule-change-requests/pending [get]
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.schedulechange.Pending", h.service.ListPending)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, op string,
	fetch func(ctx context.Context) ([]*models.ScheduleChangeRequest, error)) {
	log := request.Logger(h.log, r, op)

	reqs, err := fetch(r.Context())
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, reqs)
}

// Get godoc
// @Summary Запрос по идентификатору
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID запроса"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/schedule-change-requests/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedulechange.Get"
	log := request.Logger(h.log, r, op)

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	req, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, req)
}

// Review godoc
// @Summary Рассмотреть запрос
// @Description Одобренный запрос сразу применяется к расписанию в той же транзакции.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID запроса"
// @Param request body ReviewRequest true "APPROVED или REJECTED"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Запрос уже рассмотрен или неверное решение"
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/schedule-change-requests/{id}/review [post]
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedulechange.Review"
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
	var req ReviewRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	reviewed, err := h.service.Review(r.Context(), p.UserID, id, req.Status, req.Note)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	log.Info("schedule change request reviewed",
		slog.Int64("request_id", id),
		slog.String("status", string(reviewed.Status)),
	)
	response.OK(w, r, reviewed)
}
