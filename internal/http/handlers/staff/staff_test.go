package staff

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	"github.com/Naivezz/FitPoint-sub000/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListEmployees(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]*models.User)
	return res, args.Error(1)
}

func (m *ServiceMock) CreateEmployee(ctx context.Context, in auth.RegisterInput, roles []string) (*models.User, error) {
	args := m.Called(ctx, in, roles)
	res, _ := args.Get(0).(*models.User)
	return res, args.Error(1)
}

func (m *ServiceMock) GetEmployee(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.User)
	return res, args.Error(1)
}

func (m *ServiceMock) DeleteEmployee(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ServiceMock) ListClients(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]*models.User)
	return res, args.Error(1)
}

func (m *ServiceMock) GetClient(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.User)
	return res, args.Error(1)
}

func newRequest(method, body, id string) *http.Request {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if id == "" {
		return req
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func newHandler(svc *ServiceMock) *Handler {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
}

func TestCreateEmployee(t *testing.T) {
	in := auth.RegisterInput{Email: "coach@example.com", Password: "secret1", FirstName: "Oleg", LastName: "Smirnov"}
	body := `{"email":"coach@example.com","password":"secret1","first_name":"Oleg","last_name":"Smirnov","roles":["ROLE_TRAINER"]}`

	tests := []struct {
		name     string
		body     string
		mockErr  error
		call     bool
		wantCode int
	}{
		{name: "created", body: body, call: true, wantCode: http.StatusCreated},
		{
			name:     "client role rejected",
			body:     body,
			call:     true,
			mockErr:  apperr.New(apperr.ErrInvalidArgument, "employee role must be ROLE_TRAINER or ROLE_ADMIN"),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "no roles",
			body:     `{"email":"coach@example.com","password":"secret1","first_name":"Oleg","last_name":"Smirnov","roles":[]}`,
			wantCode: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.call {
				var user *models.User
				if tt.mockErr == nil {
					user = &models.User{ID: 9, Email: in.Email, Roles: []models.Role{models.RoleTrainer}}
				}
				svc.On("CreateEmployee", mock.Anything, in, []string{"ROLE_TRAINER"}).Return(user, tt.mockErr).Once()
			}
			rec := httptest.NewRecorder()
			newHandler(svc).CreateEmployee(rec, newRequest(http.MethodPost, tt.body, ""))
			assert.Equal(t, tt.wantCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestDeleteEmployee(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("DeleteEmployee", mock.Anything, int64(9)).Return(nil).Once()
	svc.On("DeleteEmployee", mock.Anything, int64(10)).Return(apperr.New(apperr.ErrNotFound, "employee not found")).Once()
	h := newHandler(svc)

	rec := httptest.NewRecorder()
	h.DeleteEmployee(rec, newRequest(http.MethodDelete, "", "9"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.DeleteEmployee(rec, newRequest(http.MethodDelete, "", "10"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}

func TestQueries(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("ListEmployees", mock.Anything).Return([]*models.User{{ID: 1}}, nil).Once()
	svc.On("ListClients", mock.Anything).Return([]*models.User{{ID: 2}}, nil).Once()
	svc.On("GetEmployee", mock.Anything, int64(1)).Return(&models.User{ID: 1}, nil).Once()
	svc.On("GetClient", mock.Anything, int64(5)).Return(nil, apperr.New(apperr.ErrNotFound, "client not found")).Once()
	h := newHandler(svc)

	rec := httptest.NewRecorder()
	h.ListEmployees(rec, newRequest(http.MethodGet, "", ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ListClients(rec, newRequest(http.MethodGet, "", ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.GetEmployee(rec, newRequest(http.MethodGet, "", "1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.GetClient(rec, newRequest(http.MethodGet, "", "5"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}
