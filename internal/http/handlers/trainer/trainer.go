// Package trainer реализует HTTP-обработчики рабочего кабинета тренера:
// расписание, клиенты и записи на занятия.
package trainer

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/http/request"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	trainersvc "github.com/Naivezz/FitPoint-sub000/internal/services/trainer"
)

// ScheduleService — расписание и клиенты тренера.
type ScheduleService interface {
	Daily(ctx context.Context, trainerID int64, date time.Time) (*trainersvc.Schedule, error)
	Weekly(ctx context.Context, trainerID int64, weekStart time.Time) (*trainersvc.Schedule, error)
	PersonalSessions(ctx context.Context, trainerID int64) ([]*models.PersonalTrainingSession, error)
	Clients(ctx context.Context, trainerID int64) ([]*models.User, error)
}

// RegistrationService — записи клиентов на занятия тренера.
type RegistrationService interface {
	ListClassRegistrations(ctx context.Context, trainerID, classID int64) ([]*models.Registration, error)
}

type Handler struct {
	log           *slog.Logger
	schedule      ScheduleService
	registrations RegistrationService
	now           func() time.Time
}

func New(log *slog.Logger, schedule ScheduleService, registrations RegistrationService) *Handler {
	return &Handler{
		log:           log,
		schedule:      schedule,
		registrations: registrations,
		now:           time.Now,
	}
}

// Daily godoc
// @Summary Расписание тренера на день
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param date query string false "Дата YYYY-MM-DD, по умолчанию сегодня"
// @Success 200 {object} response.Response
// @Router /api/trainer/schedule/daily [get]
func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	h.period(w, r, "handlers.trainer.Daily", "date", h.schedule.Daily)
}

// Weekly godoc
// @Summary Расписание тренера на неделю
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param start query string false "Первый день YYYY-MM-DD, по умолчанию сегодня"
// @Success 200 {object} response.Response
// @Router /api/trainer/schedule/weekly [get]
func (h *Handler) Weekly(w http.ResponseWriter, r *http.Request) {
	h.period(w, r, "handlers.trainer.Weekly", "start", h.schedule.Weekly)
}

func (h *Handler) period(w http.ResponseWriter, r *http.Request, op, param string,
	fetch func(ctx context.Context, trainerID int64, day time.Time) (*trainersvc.Schedule, error)) {
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	day, err := request.DateQuery(r, param, h.now())
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	sch, err := fetch(r.Context(), p.UserID, day)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, sch)
}

// PersonalSessions godoc
// @Summary Персональные тренировки в расписании тренера
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/trainer/schedule/personal-sessions [get]
func (h *Handler) PersonalSessions(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trainer.PersonalSessions"
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	sessions, err := h.schedule.PersonalSessions(r.Context(), p.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, sessions)
}

// Clients godoc
// @Summary Клиенты тренера
// @Description Клиенты с подтверждённой бронью на занятия тренера или с его персональными тренировками.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/trainer/clients [get]
func (h *Handler) Clients(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trainer.Clients"
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	clients, err := h.schedule.Clients(r.Context(), p.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, clients)
}

// Registrations godoc
// @Summary Записавшиеся на занятие
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID занятия"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Занятие другого тренера"
// @Failure 404 {object} response.ErrorResponse
// @Router /api/trainer/classes/{id}/registrations [get]
func (h *Handler) Registrations(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trainer.Registrations"
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	classID, err := request.IDParam(r, "id")
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	regs, err := h.registrations.ListClassRegistrations(r.Context(), p.UserID, classID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, regs)
}
