package schedulechange

import (
	"context"
	"encoding/json"
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
	"github.com/stretchr/testify/require"

	"github.com/Naivezz/FitPoint-sub000/internal/http/middlewarectx"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	schedulesvc "github.com/Naivezz/FitPoint-sub000/internal/services/schedulechange"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, trainerID int64, in schedulesvc.CreateInput) (*models.ScheduleChangeRequest, error) {
	args := m.Called(ctx, trainerID, in)
	res, _ := args.Get(0).(*models.ScheduleChangeRequest)
	return res, args.Error(1)
}

func (m *ServiceMock) Review(ctx context.Context, adminID, id int64, decision string, note *string) (*models.ScheduleChangeRequest, error) {
	args := m.Called(ctx, adminID, id, decision, note)
	res, _ := args.Get(0).(*models.ScheduleChangeRequest)
	return res, args.Error(1)
}

func (m *ServiceMock) List(ctx context.Context) ([]*models.ScheduleChangeRequest, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]*models.ScheduleChangeRequest)
	return res, args.Error(1)
}

func (m *ServiceMock) ListPending(ctx context.Context) ([]*models.ScheduleChangeRequest, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]*models.ScheduleChangeRequest)
	return res, args.Error(1)
}

func (m *ServiceMock) Get(ctx context.Context, id int64) (*models.ScheduleChangeRequest, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.ScheduleChangeRequest)
	return res, args.Error(1)
}

func (m *ServiceMock) ListByTrainer(ctx context.Context, trainerID int64) ([]*models.ScheduleChangeRequest, error) {
	args := m.Called(ctx, trainerID)
	res, _ := args.Get(0).([]*models.ScheduleChangeRequest)
	return res, args.Error(1)
}

const (
	trainerID int64 = 3
	adminID   int64 = 1
)

func newRequest(body string, userID int64, role models.Role, id string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	ctx := middlewarectx.WithPrincipal(req.Context(), models.Principal{UserID: userID, Roles: []models.Role{role}})
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

func TestCreate_ModifyKeepsOnlyPresentFields(t *testing.T) {
	classID := int64(12)
	want := schedulesvc.CreateInput{
		Type:    "MODIFY",
		Reason:  "room renovation",
		ClassID: &classID,
		Fields: models.ChangeFields{
			Capacity: models.Some(15),
			RoomID:   models.Some(int64(2)),
		},
	}
	svc := new(ServiceMock)
	svc.On("Create", mock.Anything, trainerID, want).
		Return(&models.ScheduleChangeRequest{ID: 7, Status: models.ChangeStatusPending}, nil).Once()

	body := `{"request_type":"MODIFY","reason":"room renovation","class_id":12,"capacity":15,"room_id":2,"name":null}`
	rec := httptest.NewRecorder()
	newHandler(svc).Create(rec, newRequest(body, trainerID, models.RoleTrainer, ""))

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreate_AddParsesTimes(t *testing.T) {
	start := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	svc := new(ServiceMock)
	svc.On("Create", mock.Anything, trainerID, mock.MatchedBy(func(in schedulesvc.CreateInput) bool {
		got, ok := in.Fields.StartTime.Get()
		return in.Type == "ADD" && in.ClassID == nil && ok && got.Equal(start)
	})).Return(&models.ScheduleChangeRequest{ID: 8}, nil).Once()

	body := `{"request_type":"ADD","reason":"new group","name":"Pilates","start_time":"2025-07-01T09:00:00Z",` +
		`"end_time":"2025-07-01T10:00:00Z","capacity":10,"room_id":1}`
	rec := httptest.NewRecorder()
	newHandler(svc).Create(rec, newRequest(body, trainerID, models.RoleTrainer, ""))

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreate_Failures(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mockErr  error
		wantCode int
	}{
		{name: "missing reason", body: `{"request_type":"ADD"}`, wantCode: http.StatusUnprocessableEntity},
		{name: "broken body", body: `{`, wantCode: http.StatusBadRequest},
		{
			name:     "foreign class",
			body:     `{"request_type":"CANCEL","reason":"sick","class_id":5}`,
			mockErr:  apperr.New(apperr.ErrForbidden, "class belongs to another trainer"),
			wantCode: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.mockErr != nil {
				svc.On("Create", mock.Anything, trainerID, mock.Anything).Return(nil, tt.mockErr).Once()
			}
			rec := httptest.NewRecorder()
			newHandler(svc).Create(rec, newRequest(tt.body, trainerID, models.RoleTrainer, ""))
			assert.Equal(t, tt.wantCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestReview(t *testing.T) {
	note := "ok"
	tests := []struct {
		name     string
		body     string
		mockRes  *models.ScheduleChangeRequest
		mockErr  error
		decision string
		note     *string
		wantCode int
		wantErr  string
	}{
		{
			name:     "approved",
			body:     `{"status":"APPROVED","review_note":"ok"}`,
			decision: "APPROVED",
			note:     &note,
			mockRes:  &models.ScheduleChangeRequest{ID: 7, Status: models.ChangeStatusApproved},
			wantCode: http.StatusOK,
		},
		{
			name:     "already reviewed",
			body:     `{"status":"REJECTED"}`,
			decision: "REJECTED",
			mockErr:  apperr.New(apperr.ErrInvalidState, "request has already been reviewed"),
			wantCode: http.StatusBadRequest,
			wantErr:  "request has already been reviewed",
		},
		{
			name:     "unknown request",
			body:     `{"status":"APPROVED"}`,
			decision: "APPROVED",
			mockErr:  apperr.New(apperr.ErrNotFound, "schedule change request not found"),
			wantCode: http.StatusNotFound,
			wantErr:  "schedule change request not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("Review", mock.Anything, adminID, int64(7), tt.decision, tt.note).Return(tt.mockRes, tt.mockErr).Once()

			rec := httptest.NewRecorder()
			newHandler(svc).Review(rec, newRequest(tt.body, adminID, models.RoleAdmin, "7"))

			assert.Equal(t, tt.wantCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, got["error"])
			} else {
				assert.Equal(t, "APPROVED", got["data"].(map[string]any)["status"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestQueries(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("List", mock.Anything).Return([]*models.ScheduleChangeRequest{{ID: 1}, {ID: 2}}, nil).Once()
	svc.On("ListPending", mock.Anything).Return([]*models.ScheduleChangeRequest{{ID: 2}}, nil).Once()
	svc.On("Get", mock.Anything, int64(2)).Return(&models.ScheduleChangeRequest{ID: 2}, nil).Once()
	svc.On("ListByTrainer", mock.Anything, trainerID).Return([]*models.ScheduleChangeRequest{}, nil).Once()
	h := newHandler(svc)

	rec := httptest.NewRecorder()
	h.List(rec, newRequest("", adminID, models.RoleAdmin, ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Pending(rec, newRequest("", adminID, models.RoleAdmin, ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Get(rec, newRequest("", adminID, models.RoleAdmin, "2"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ListMine(rec, newRequest("", trainerID, models.RoleTrainer, ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
