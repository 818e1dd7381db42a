package request

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Naivezz/FitPoint-sub000/internal/http/middlewarectx"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/sl"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// Logger добавляет к логгеру операцию и request id.
func Logger(log *slog.Logger, r *http.Request, op string) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Bind декодирует и валидирует тело запроса. При ошибке пишет ответ
// 400 или 422 и возвращает false.
func Bind(w http.ResponseWriter, r *http.Request, log *slog.Logger, v *validator.Validate, dst any) bool {
	if err := DecodeJSON(r, dst); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}
	if err := v.Struct(dst); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		if verrs, ok := err.(validator.ValidationErrors); ok {
			render.JSON(w, r, response.ValidationError(verrs))
		} else {
			render.JSON(w, r, response.Error("invalid request body"))
		}
		return false
	}
	return true
}

// Principal возвращает пользователя запроса.
func Principal(r *http.Request) (models.Principal, error) {
	p, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		return models.Principal{}, apperr.New(apperr.ErrUnauthorized, "authentication required")
	}
	return p, nil
}
