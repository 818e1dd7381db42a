package fitpoint

import (
	"net/http"

	"github.com/Naivezz/FitPoint-sub000/internal/http/authz"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

var (
	admin        = []models.Role{models.RoleAdmin}
	trainerRoles = []models.Role{models.RoleTrainer}
	client       = []models.Role{models.RoleClient}
	staffRoles   = []models.Role{models.RoleAdmin, models.RoleTrainer}
	anyone       = []models.Role{models.RoleAdmin, models.RoleTrainer, models.RoleClient}
)

// AccessTable возвращает роли, которым разрешён каждый защищённый маршрут.
func AccessTable() authz.Table {
	return authz.Table{
		// Администратор
		authz.Key(http.MethodGet, "/api/admin/employees"):                             admin,
		authz.Key(http.MethodPost, "/api/admin/employees"):                            admin,
		authz.Key(http.MethodGet, "/api/admin/employees/{id}"):                        admin,
		authz.Key(http.MethodDelete, "/api/admin/employees/{id}"):                     admin,
		authz.Key(http.MethodGet, "/api/admin/schedule-change-requests"):              admin,
		authz.Key(http.MethodGet, "/api/admin/schedule-change-requests/pending"):      admin,
		authz.Key(http.MethodGet, "/api/admin/schedule-change-requests/{id}"):         admin,
		authz.Key(http.MethodPost, "/api/admin/schedule-change-requests/{id}/review"): admin,
		authz.Key(http.MethodGet, "/api/admin/clients"):                               admin,
		authz.Key(http.MethodGet, "/api/admin/clients/membership-types"):              admin,
		authz.Key(http.MethodGet, "/api/admin/clients/{id}"):                          admin,

		// Клиент
		authz.Key(http.MethodGet, "/api/client/classes/available"):         client,
		authz.Key(http.MethodPost, "/api/client/reservations"):             client,
		authz.Key(http.MethodGet, "/api/client/reservations"):              client,
		authz.Key(http.MethodGet, "/api/client/reservations/upcoming"):     client,
		authz.Key(http.MethodGet, "/api/client/reservations/past"):         client,
		authz.Key(http.MethodPost, "/api/client/reservations/{id}/cancel"): client,
		authz.Key(http.MethodPost, "/api/client/reservations/{id}/rate"):   client,
		authz.Key(http.MethodGet, "/api/client/memberships"):               client,
		authz.Key(http.MethodGet, "/api/client/memberships/active"):        client,
		authz.Key(http.MethodPost, "/api/client/memberships/purchase"):     client,
		authz.Key(http.MethodPost, "/api/client/memberships/topup"):        client,
		authz.Key(http.MethodGet, "/api/client/profile"):                   client,
		authz.Key(http.MethodPut, "/api/client/profile"):                   client,
		authz.Key(http.MethodPut, "/api/client/password"):                  client,

		// Тренер
		authz.Key(http.MethodGet, "/api/trainer/schedule/daily"):                   trainerRoles,
		authz.Key(http.MethodGet, "/api/trainer/schedule/weekly"):                  trainerRoles,
		authz.Key(http.MethodGet, "/api/trainer/schedule/personal-sessions"):       trainerRoles,
		authz.Key(http.MethodPost, "/api/trainer/schedule/change-request"):         trainerRoles,
		authz.Key(http.MethodGet, "/api/trainer/schedule/change-requests"):         trainerRoles,
		authz.Key(http.MethodGet, "/api/trainer/clients"):                          trainerRoles,
		authz.Key(http.MethodGet, "/api/trainer/notes"):                            trainerRoles,
		authz.Key(http.MethodPost, "/api/trainer/notes"):                           trainerRoles,
		authz.Key(http.MethodGet, "/api/trainer/notes/{id}"):                       trainerRoles,
		authz.Key(http.MethodPut, "/api/trainer/notes/{id}"):                       trainerRoles,
		authz.Key(http.MethodDelete, "/api/trainer/notes/{id}"):                    trainerRoles,
		authz.Key(http.MethodGet, "/api/trainer/personal-sessions"):                trainerRoles,
		authz.Key(http.MethodPost, "/api/trainer/personal-sessions"):               trainerRoles,
		authz.Key(http.MethodGet, "/api/trainer/personal-sessions/{id}"):           trainerRoles,
		authz.Key(http.MethodPut, "/api/trainer/personal-sessions/{id}"):           trainerRoles,
		authz.Key(http.MethodDelete, "/api/trainer/personal-sessions/{id}"):        trainerRoles,
		authz.Key(http.MethodPost, "/api/trainer/personal-sessions/{id}/complete"): trainerRoles,
		authz.Key(http.MethodPost, "/api/trainer/personal-sessions/{id}/cancel"):   trainerRoles,
		authz.Key(http.MethodGet, "/api/trainer/classes/{id}/registrations"):       trainerRoles,
		authz.Key(http.MethodGet, "/api/trainer/notifications"):                    trainerRoles,

		// Общие справочники: запись только администратору
		authz.Key(http.MethodGet, "/api/rooms"):           staffRoles,
		authz.Key(http.MethodGet, "/api/rooms/{id}"):      staffRoles,
		authz.Key(http.MethodPost, "/api/rooms"):          admin,
		authz.Key(http.MethodPut, "/api/rooms/{id}"):      admin,
		authz.Key(http.MethodDelete, "/api/rooms/{id}"):   admin,
		authz.Key(http.MethodGet, "/api/classes"):         anyone,
		authz.Key(http.MethodGet, "/api/classes/{id}"):    anyone,
		authz.Key(http.MethodPost, "/api/classes"):        admin,
		authz.Key(http.MethodPut, "/api/classes/{id}"):    admin,
		authz.Key(http.MethodDelete, "/api/classes/{id}"): admin,

		// Уведомления текущего пользователя
		authz.Key(http.MethodGet, "/api/notifications"):           anyone,
		authz.Key(http.MethodGet, "/api/notifications/unread"):    anyone,
		authz.Key(http.MethodPut, "/api/notifications/{id}/read"): anyone,
		authz.Key(http.MethodPut, "/api/notifications/read-all"):  anyone,
	}
}
