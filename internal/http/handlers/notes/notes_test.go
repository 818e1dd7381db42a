package notes

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

	"github.com/Naivezz/FitPoint-sub000/internal/http/middlewarectx"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, trainerID, clientID int64, text string) (*models.TrainerNote, error) {
	args := m.Called(ctx, trainerID, clientID, text)
	res, _ := args.Get(0).(*models.TrainerNote)
	return res, args.Error(1)
}

func (m *ServiceMock) List(ctx context.Context, trainerID, clientID int64) ([]*models.TrainerNote, error) {
	args := m.Called(ctx, trainerID, clientID)
	res, _ := args.Get(0).([]*models.TrainerNote)
	return res, args.Error(1)
}

func (m *ServiceMock) Get(ctx context.Context, trainerID, id int64) (*models.TrainerNote, error) {
	args := m.Called(ctx, trainerID, id)
	res, _ := args.Get(0).(*models.TrainerNote)
	return res, args.Error(1)
}

func (m *ServiceMock) Update(ctx context.Context, trainerID, id int64, text string) (*models.TrainerNote, error) {
	args := m.Called(ctx, trainerID, id, text)
	res, _ := args.Get(0).(*models.TrainerNote)
	return res, args.Error(1)
}

func (m *ServiceMock) Delete(ctx context.Context, trainerID, id int64) error {
	return m.Called(ctx, trainerID, id).Error(0)
}

const trainerID int64 = 2

func newRequest(method, target, body, id string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := middlewarectx.WithPrincipal(req.Context(), models.Principal{UserID: trainerID, Roles: []models.Role{models.RoleTrainer}})
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func newHandler(svc *ServiceMock) *Handler {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
}

func TestCreate(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("Create", mock.Anything, trainerID, int64(5), "knee injury").
		Return(&models.TrainerNote{ID: 1, ClientID: 5, Note: "knee injury"}, nil).Once()
	svc.On("Create", mock.Anything, trainerID, int64(6), "x").
		Return(nil, apperr.New(apperr.ErrInvalidArgument, "user 6 is not a client")).Once()
	h := newHandler(svc)

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/", `{"client_id":5,"note":"knee injury"}`, ""))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/", `{"client_id":6,"note":"x"}`, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/", `{"client_id":5}`, ""))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	svc.AssertExpectations(t)
}

func TestList(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("List", mock.Anything, trainerID, int64(0)).Return([]*models.TrainerNote{{ID: 1}, {ID: 2}}, nil).Once()
	svc.On("List", mock.Anything, trainerID, int64(5)).Return([]*models.TrainerNote{{ID: 1}}, nil).Once()
	h := newHandler(svc)

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/", "", ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/?client_id=5", "", ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/?client_id=abc", "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestGetUpdateDelete(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("Get", mock.Anything, trainerID, int64(3)).Return(nil, apperr.New(apperr.ErrForbidden, "note belongs to another trainer")).Once()
	svc.On("Update", mock.Anything, trainerID, int64(1), "better").Return(&models.TrainerNote{ID: 1, Note: "better"}, nil).Once()
	svc.On("Delete", mock.Anything, trainerID, int64(1)).Return(nil).Once()
	h := newHandler(svc)

	rec := httptest.NewRecorder()
	h.Get(rec, newRequest(http.MethodGet, "/", "", "3"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.Update(rec, newRequest(http.MethodPut, "/", `{"note":"better"}`, "1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Delete(rec, newRequest(http.MethodDelete, "/", "", "1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}
