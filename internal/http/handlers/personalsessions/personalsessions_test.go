package personalsessions

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Naivezz/FitPoint-sub000/internal/http/middlewarectx"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	"github.com/Naivezz/FitPoint-sub000/internal/services/personalsession"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, trainerID int64, in personalsession.Input) (*models.PersonalTrainingSession, error) {
	args := m.Called(ctx, trainerID, in)
	res, _ := args.Get(0).(*models.PersonalTrainingSession)
	return res, args.Error(1)
}

func (m *ServiceMock) List(ctx context.Context, trainerID int64) ([]*models.PersonalTrainingSession, error) {
	args := m.Called(ctx, trainerID)
	res, _ := args.Get(0).([]*models.PersonalTrainingSession)
	return res, args.Error(1)
}

func (m *ServiceMock) Get(ctx context.Context, trainerID, id int64) (*models.PersonalTrainingSession, error) {
	args := m.Called(ctx, trainerID, id)
	res, _ := args.Get(0).(*models.PersonalTrainingSession)
	return res, args.Error(1)
}

func (m *ServiceMock) Update(ctx context.Context, trainerID, id int64, in personalsession.Input) (*models.PersonalTrainingSession, error) {
	args := m.Called(ctx, trainerID, id, in)
	res, _ := args.Get(0).(*models.PersonalTrainingSession)
	return res, args.Error(1)
}

func (m *ServiceMock) Cancel(ctx context.Context, trainerID, id int64) (*models.PersonalTrainingSession, error) {
	args := m.Called(ctx, trainerID, id)
	res, _ := args.Get(0).(*models.PersonalTrainingSession)
	return res, args.Error(1)
}

func (m *ServiceMock) Complete(ctx context.Context, trainerID, id int64) (*models.PersonalTrainingSession, error) {
	args := m.Called(ctx, trainerID, id)
	res, _ := args.Get(0).(*models.PersonalTrainingSession)
	return res, args.Error(1)
}

func (m *ServiceMock) Delete(ctx context.Context, trainerID, id int64) error {
	return m.Called(ctx, trainerID, id).Error(0)
}

const trainerID int64 = 2

func newRequest(method, body, id string) *http.Request {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
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

const sessionBody = `{"client_id":5,"start_time":"2025-07-01T09:00:00Z","end_time":"2025-07-01T10:00:00Z","goal":"strength"}`

func TestCreate(t *testing.T) {
	start := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	in := personalsession.Input{ClientID: 5, StartTime: start, EndTime: start.Add(time.Hour), Goal: "strength"}

	svc := new(ServiceMock)
	svc.On("Create", mock.Anything, trainerID, in).
		Return(&models.PersonalTrainingSession{ID: 1, Status: models.SessionScheduled}, nil).Once()

	rec := httptest.NewRecorder()
	newHandler(svc).Create(rec, newRequest(http.MethodPost, sessionBody, ""))
	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)

	rec = httptest.NewRecorder()
	newHandler(new(ServiceMock)).Create(rec, newRequest(http.MethodPost, `{"client_id":5}`, ""))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		call     func(h *Handler) http.HandlerFunc
		mockErr  error
		wantCode int
	}{
		{name: "complete", method: "Complete", call: func(h *Handler) http.HandlerFunc { return h.Complete }, wantCode: http.StatusOK},
		{name: "cancel", method: "Cancel", call: func(h *Handler) http.HandlerFunc { return h.Cancel }, wantCode: http.StatusOK},
		{
			name:     "complete cancelled session",
			method:   "Complete",
			call:     func(h *Handler) http.HandlerFunc { return h.Complete },
			mockErr:  apperr.New(apperr.ErrInvalidState, "session is CANCELLED"),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "get foreign session",
			method:   "Get",
			call:     func(h *Handler) http.HandlerFunc { return h.Get },
			mockErr:  apperr.New(apperr.ErrForbidden, "session belongs to another trainer"),
			wantCode: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			var res *models.PersonalTrainingSession
			if tt.mockErr == nil {
				res = &models.PersonalTrainingSession{ID: 4}
			}
			svc.On(tt.method, mock.Anything, trainerID, int64(4)).Return(res, tt.mockErr).Once()

			rec := httptest.NewRecorder()
			tt.call(newHandler(svc))(rec, newRequest(http.MethodPost, "", "4"))
			assert.Equal(t, tt.wantCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestListUpdateDelete(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("List", mock.Anything, trainerID).Return([]*models.PersonalTrainingSession{{ID: 1}}, nil).Once()
	svc.On("Update", mock.Anything, trainerID, int64(1), mock.AnythingOfType("personalsession.Input")).
		Return(&models.PersonalTrainingSession{ID: 1}, nil).Once()
	svc.On("Delete", mock.Anything, trainerID, int64(1)).Return(nil).Once()
	h := newHandler(svc)

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "", ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Update(rec, newRequest(http.MethodPut, sessionBody, "1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Delete(rec, newRequest(http.MethodDelete, "", "1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}
