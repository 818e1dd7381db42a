// Package health отдаёт состояние сервиса для проверок живости.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/Naivezz/FitPoint-sub000/internal/http/request"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/sl"
)

// Checker проверяет готовность хранилища.
type Checker interface {
	Ready(ctx context.Context) error
}

type Handler struct {
	log *slog.Logger
	db  Checker
}

func New(log *slog.Logger, db Checker) *Handler {
	return &Handler{
		log: log,
		db:  db,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.ErrorResponse
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	log := request.Logger(h.log, r, op)

	if err := h.db.Ready(r.Context()); err != nil {
		log.Error("database is not ready", sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status": "ok",
	}))
}
