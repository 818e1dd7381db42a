package fitpoint

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Naivezz/FitPoint-sub000/internal/config"
	"github.com/Naivezz/FitPoint-sub000/internal/http/authz"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/auth/login"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/auth/register"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/classes"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/health"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/memberships"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/notes"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/notifications"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/personalsessions"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/profile"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/reservations"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/rooms"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/schedulechange"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/staff"
	"github.com/Naivezz/FitPoint-sub000/internal/http/handlers/trainer"
	"github.com/Naivezz/FitPoint-sub000/internal/http/middlewarectx"
	"github.com/Naivezz/FitPoint-sub000/internal/metrics"
)

// AuthService — аутентификация для открытых маршрутов и проверка токена.
type AuthService interface {
	login.Service
	register.Service
	middlewarectx.Service
}

// Services — зависимости обработчиков.
type Services struct {
	Auth           AuthService
	Health         health.Checker
	Reservations   reservations.Service
	Memberships    memberships.Service
	Profile        profile.Service
	ScheduleChange schedulechange.Service
	Staff          staff.Service
	Schedule       trainer.ScheduleService
	Registrations  trainer.RegistrationService
	Notes          notes.Service
	Sessions       personalsessions.Service
	Rooms          rooms.Service
	Classes        classes.Service
	Notifications  notifications.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
//
// Защищённые маршруты объявлены полными путями внутри одной группы:
// middleware группы выполняются после маршрутизации, поэтому authz.Require
// видит итоговый шаблон маршрута.
func RegisterRoutes(r chi.Router, logger *slog.Logger, limit config.RateLimit, table authz.Table, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		metrics.HTTPMiddleware,
	)

	// Открытые конечные точки
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, limit))
		r.Post("/api/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/api/auth/login", login.New(logger, s.Auth).ServeHTTP)
	})
	r.Get("/health", health.New(logger, s.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	reservationsH := reservations.New(logger, s.Reservations)
	membershipsH := memberships.New(logger, s.Memberships)
	profileH := profile.New(logger, s.Profile)
	changeH := schedulechange.New(logger, s.ScheduleChange)
	staffH := staff.New(logger, s.Staff)
	trainerH := trainer.New(logger, s.Schedule, s.Registrations)
	notesH := notes.New(logger, s.Notes)
	sessionsH := personalsessions.New(logger, s.Sessions)
	roomsH := rooms.New(logger, s.Rooms)
	classesH := classes.New(logger, s.Classes)
	notificationsH := notifications.New(logger, s.Notifications)

	// Группа с JWT аутентификацией и проверкой ролей
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
		r.Use(authz.Require(logger, table))

		r.Get("/api/admin/employees", staffH.ListEmployees)
		r.Post("/api/admin/employees", staffH.CreateEmployee)
		r.Get("/api/admin/employees/{id}", staffH.GetEmployee)
		r.Delete("/api/admin/employees/{id}", staffH.DeleteEmployee)
		r.Get("/api/admin/schedule-change-requests", changeH.List)
		r.Get("/api/admin/schedule-change-requests/pending", changeH.Pending)
		r.Get("/api/admin/schedule-change-requests/{id}", changeH.Get)
		r.Post("/api/admin/schedule-change-requests/{id}/review", changeH.Review)
		r.Get("/api/admin/clients", staffH.ListClients)
		r.Get("/api/admin/clients/membership-types", membershipsH.Types)
		r.Get("/api/admin/clients/{id}", staffH.GetClient)

		r.Get("/api/client/classes/available", reservationsH.AvailableClasses)
		r.Post("/api/client/reservations", reservationsH.Create)
		r.Get("/api/client/reservations", reservationsH.List)
		r.Get("/api/client/reservations/upcoming", reservationsH.Upcoming)
		r.Get("/api/client/reservations/past", reservationsH.Past)
		r.Post("/api/client/reservations/{id}/cancel", reservationsH.Cancel)
		r.Post("/api/client/reservations/{id}/rate", reservationsH.Rate)
		r.Get("/api/client/memberships", membershipsH.List)
		r.Get("/api/client/memberships/active", membershipsH.Active)
		r.Post("/api/client/memberships/purchase", membershipsH.Purchase)
		r.Post("/api/client/memberships/topup", membershipsH.TopUp)
		r.Get("/api/client/profile", profileH.Get)
		r.Put("/api/client/profile", profileH.Update)
		r.Put("/api/client/password", profileH.ChangePassword)

		r.Get("/api/trainer/schedule/daily", trainerH.Daily)
		r.Get("/api/trainer/schedule/weekly", trainerH.Weekly)
		r.Get("/api/trainer/schedule/personal-sessions", trainerH.PersonalSessions)
		r.Post("/api/trainer/schedule/change-request", changeH.Create)
		r.Get("/api/trainer/schedule/change-requests", changeH.ListMine)
		r.Get("/api/trainer/clients", trainerH.Clients)
		r.Get("/api/trainer/notes", notesH.List)
		r.Post("/api/trainer/notes", notesH.Create)
		r.Get("/api/trainer/notes/{id}", notesH.Get)
		r.Put("/api/trainer/notes/{id}", notesH.Update)
		r.Delete("/api/trainer/notes/{id}", notesH.Delete)
		r.Get("/api/trainer/personal-sessions", sessionsH.List)
		r.Post("/api/trainer/personal-sessions", sessionsH.Create)
		r.Get("/api/trainer/personal-sessions/{id}", sessionsH.Get)
		r.Put("/api/trainer/personal-sessions/{id}", sessionsH.Update)
		r.Delete("/api/trainer/personal-sessions/{id}", sessionsH.Delete)
		r.Post("/api/trainer/personal-sessions/{id}/complete", sessionsH.Complete)
		r.Post("/api/trainer/personal-sessions/{id}/cancel", sessionsH.Cancel)
		r.Get("/api/trainer/classes/{id}/registrations", trainerH.Registrations)
		r.Get("/api/trainer/notifications", notificationsH.List)

		r.Get("/api/rooms", roomsH.List)
		r.Post("/api/rooms", roomsH.Create)
		r.Get("/api/rooms/{id}", roomsH.Get)
		r.Put("/api/rooms/{id}", roomsH.Update)
		r.Delete("/api/rooms/{id}", roomsH.Delete)
		r.Get("/api/classes", classesH.List)
		r.Post("/api/classes", classesH.Create)
		r.Get("/api/classes/{id}", classesH.Get)
		r.Put("/api/classes/{id}", classesH.Update)
		r.Delete("/api/classes/{id}", classesH.Delete)

		r.Get("/api/notifications", notificationsH.List)
		r.Get("/api/notifications/unread", notificationsH.Unread)
		r.Put("/api/notifications/read-all", notificationsH.MarkAllRead)
		r.Put("/api/notifications/{id}/read", notificationsH.MarkRead)
	})
}
