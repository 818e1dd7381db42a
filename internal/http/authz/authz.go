// Package authz проверяет роль пользователя по таблице доступа маршрутов.
//
// Ключ таблицы — метод и шаблон маршрута chi ("GET /api/rooms/{id}").
// Маршрут без правила закрыт для всех.
package authz

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Naivezz/FitPoint-sub000/internal/http/middlewarectx"
	"github.com/Naivezz/FitPoint-sub000/internal/http/response"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// Table сопоставляет "METHOD pattern" и роли, которым разрешён доступ.
type Table map[string][]models.Role

// Key строит ключ таблицы.
func Key(method, pattern string) string {
	return method + " " + pattern
}

// Allow добавляет правило.
func (t Table) Allow(method, pattern string, roles ...models.Role) {
	t[Key(method, pattern)] = roles
}

// Rule возвращает роли для маршрута.
func (t Table) Rule(method, pattern string) ([]models.Role, bool) {
	roles, ok := t[Key(method, pattern)]
	return roles, ok
}

// Require возвращает middleware, пропускающий запрос только при совпадении роли.
// Должен стоять после JWTMiddleware и внутри группы маршрутов, чтобы шаблон
// маршрута был уже известен.
func Require(log *slog.Logger, table Table) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "authz.Require"
			pattern := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				pattern = rctx.RoutePattern()
			}
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("route", Key(r.Method, pattern)),
			)

			p, ok := middlewarectx.PrincipalFrom(r.Context())
			if !ok {
				log.Info("no principal in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			roles, ok := table.Rule(r.Method, pattern)
			if !ok {
				log.Warn("no access rule for route")
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}
			if !p.HasAnyRole(roles...) {
				log.Info("role check failed", slog.Int64("user_id", p.UserID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
