package fitpoint

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naivezz/FitPoint-sub000/internal/config"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	"github.com/Naivezz/FitPoint-sub000/internal/services/auth"
)

// stubAuth принимает токен, равный имени роли.
type stubAuth struct{}

func (stubAuth) Login(context.Context, string, string) (string, *models.User, error) {
	return "", nil, errors.New("not implemented")
}

func (stubAuth) Register(context.Context, auth.RegisterInput) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (stubAuth) ValidateToken(_ context.Context, token string) (models.Principal, error) {
	switch models.Role(token) {
	case models.RoleAdmin, models.RoleTrainer, models.RoleClient:
		return models.Principal{UserID: 1, Roles: []models.Role{models.Role(token)}}, nil
	}
	return models.Principal{}, errors.New("invalid token")
}

var openRoutes = map[string]bool{
	"POST /api/auth/register": true,
	"POST /api/auth/login":    true,
	"GET /health":             true,
	"GET /docs/*":             true,
}

func newTestRouter() chi.Router {
	r := chi.NewRouter()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	RegisterRoutes(r, log, config.RateLimit{RPS: 100, Burst: 100}, AccessTable(), Services{Auth: stubAuth{}})
	return r
}

func TestRoutes_EveryProtectedRouteHasRule(t *testing.T) {
	table := AccessTable()
	seen := make(map[string]bool)

	err := chi.Walk(newTestRouter(), func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		key := method + " " + route
		if openRoutes[key] || strings.HasPrefix(route, "/metrics") {
			return nil
		}
		seen[key] = true
		_, ok := table.Rule(method, route)
		assert.True(t, ok, "route %s has no access rule", key)
		return nil
	})
	require.NoError(t, err)

	for key := range table {
		assert.True(t, seen[key], "access rule %s has no route", key)
	}
}

func TestRoutes_RoleGates(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{name: "no token", method: http.MethodGet, path: "/api/client/reservations", want: http.StatusUnauthorized},
		{name: "bad token", method: http.MethodGet, path: "/api/client/reservations", token: "nope", want: http.StatusUnauthorized},
		{name: "trainer on client route", method: http.MethodGet, path: "/api/client/reservations", token: "ROLE_TRAINER", want: http.StatusForbidden},
		{name: "client on admin route", method: http.MethodPost, path: "/api/admin/schedule-change-requests/3/review", token: "ROLE_CLIENT", want: http.StatusForbidden},
		{name: "client writes room", method: http.MethodPost, path: "/api/rooms", token: "ROLE_CLIENT", want: http.StatusForbidden},
		{name: "admin submits change request", method: http.MethodPost, path: "/api/trainer/schedule/change-request", token: "ROLE_ADMIN", want: http.StatusForbidden},
		{name: "client reads rooms", method: http.MethodGet, path: "/api/rooms", token: "ROLE_CLIENT", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}
