package memberships

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Naivezz/FitPoint-sub000/internal/http/middlewarectx"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Types() []models.MembershipPlan {
	return m.Called().Get(0).([]models.MembershipPlan)
}

func (m *ServiceMock) Purchase(ctx context.Context, userID int64, membershipType string) (*models.Membership, error) {
	args := m.Called(ctx, userID, membershipType)
	res, _ := args.Get(0).(*models.Membership)
	return res, args.Error(1)
}

func (m *ServiceMock) TopUp(ctx context.Context, userID int64, membershipType string) (*models.Membership, error) {
	args := m.Called(ctx, userID, membershipType)
	res, _ := args.Get(0).(*models.Membership)
	return res, args.Error(1)
}

func (m *ServiceMock) List(ctx context.Context, userID int64) ([]*models.Membership, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).([]*models.Membership)
	return res, args.Error(1)
}

func (m *ServiceMock) Active(ctx context.Context, userID int64) ([]*models.Membership, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).([]*models.Membership)
	return res, args.Error(1)
}

const userID int64 = 21

func newRequest(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	return req.WithContext(middlewarectx.WithPrincipal(req.Context(), models.Principal{
		UserID: userID,
		Roles:  []models.Role{models.RoleClient},
	}))
}

func newHandler(svc *ServiceMock) *Handler {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
}

func TestPurchase(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mockRes  *models.Membership
		mockErr  error
		call     bool
		wantCode int
		wantErr  string
	}{
		{
			name:     "purchased",
			body:     `{"type":"MONTHLY"}`,
			mockRes:  &models.Membership{ID: 1, UserID: userID, Type: models.MembershipMonthly, Price: 99.99},
			call:     true,
			wantCode: http.StatusCreated,
		},
		{
			name:     "unknown type",
			body:     `{"type":"WEEKLY"}`,
			mockErr:  apperr.New(apperr.ErrInvalidArgument, "unknown membership type WEEKLY"),
			call:     true,
			wantCode: http.StatusBadRequest,
			wantErr:  "unknown membership type WEEKLY",
		},
		{
			name:     "missing type",
			body:     `{}`,
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "field Type is a required field",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.call {
				var req Request
				require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
				svc.On("Purchase", mock.Anything, userID, req.Type).Return(tt.mockRes, tt.mockErr).Once()
			}
			rec := httptest.NewRecorder()
			newHandler(svc).Purchase(rec, newRequest(http.MethodPost, tt.body))

			assert.Equal(t, tt.wantCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, got["error"])
			} else {
				data := got["data"].(map[string]any)
				assert.Equal(t, "MONTHLY", data["type"])
				assert.Equal(t, 99.99, data["price"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestTopUp(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("TopUp", mock.Anything, userID, "ANNUAL").
		Return(&models.Membership{ID: 2, Type: models.MembershipAnnual}, nil).Once()

	rec := httptest.NewRecorder()
	newHandler(svc).TopUp(rec, newRequest(http.MethodPost, `{"type":"ANNUAL"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestListAndActive(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("List", mock.Anything, userID).Return([]*models.Membership{{ID: 1}, {ID: 2}}, nil).Once()
	svc.On("Active", mock.Anything, userID).Return([]*models.Membership{}, nil).Once()
	h := newHandler(svc)

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Active(rec, newRequest(http.MethodGet, ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestTypes(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("Types").Return(models.DefaultMembershipCatalog().Plans()).Once()

	rec := httptest.NewRecorder()
	newHandler(svc).Types(rec, newRequest(http.MethodGet, ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"MONTHLY"`)
	assert.Contains(t, rec.Body.String(), `"duration_days":30`)
}
