// Package notifications реализует HTTP-обработчики уведомлений пользователя.
package notifications

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Naivezz/FitPoint-sub000/internal/http/request"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

type Service interface {
	ListMine(ctx context.Context, userID int64) ([]*models.Notification, error)
	ListUnread(ctx context.Context, userID int64) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, id int64) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// List godoc
// @Summary Уведомления текущего пользователя
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/notifications [get]
// @Router /api/trainer/notifications [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.notifications.List", h.service.ListMine)
}

// Unread godoc
// @Summary Непрочитанные уведомления
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/notifications/unread [get]
func (h *Handler) Unread(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.notifications.Unread", h.service.ListUnread)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, op string,
	fetch func(ctx context.Context, userID int64) ([]*models.Notification, error)) {
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	items, err := fetch(r.Context(), p.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, items)
}

// MarkRead godoc
// @Summary Отметить уведомление прочитанным
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID уведомления"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Чужое уведомление"
// @Failure 404 {object} response.ErrorResponse
// @Router /api/notifications/{id}/read [put]
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notifications.MarkRead"
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
	n, err := h.service.MarkRead(r.Context(), p.UserID, id)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, n)
}

// MarkAllRead godoc
// @Summary Отметить все уведомления прочитанными
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/notifications/read-all [put]
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notifications.MarkAllRead"
	log := request.Logger(h.log, r, op)

	p, err := request.Principal(r)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	n, err := h.service.MarkAllRead(r.Context(), p.UserID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	response.OK(w, r, map[string]int64{"updated": n})
}
