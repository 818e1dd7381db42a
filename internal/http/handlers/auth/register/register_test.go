package register

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	"github.com/Naivezz/FitPoint-sub000/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, in auth.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	handler := New(newNoopLogger(), authMock)

	valid := Request{
		Email:     "user1@example.com",
		Password:  "password123",
		FirstName: "Anna",
		LastName:  "Ivanova",
	}
	input := auth.RegisterInput{
		Email:     valid.Email,
		Password:  valid.Password,
		FirstName: valid.FirstName,
		LastName:  valid.LastName,
	}

	tests := []struct {
		name           string
		requestBody    any
		mockUser       *models.User
		mockErr        error
		callService    bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "valid registration",
			requestBody:    valid,
			mockUser:       &models.User{ID: 1, Email: valid.Email, Roles: []models.Role{models.RoleClient}},
			callService:    true,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid json",
			requestBody:    "{bad json}",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "invalid email",
			requestBody:    Request{Email: "nope", Password: "password123", FirstName: "A", LastName: "B"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email must be a valid email",
		},
		{
			name:           "email already taken",
			requestBody:    valid,
			mockErr:        apperr.New(apperr.ErrConflict, "email is already registered"),
			callService:    true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "email is already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil
			if tt.callService {
				authMock.On("Register", mock.Anything, input).Return(tt.mockUser, tt.mockErr).Once()
			}

			var bodyBytes []byte
			if s, ok := tt.requestBody.(string); ok {
				bodyBytes = []byte(s)
			} else {
				bodyBytes, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "test-req-id"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				data := got["data"].(map[string]any)
				assert.Equal(t, valid.Email, data["email"])
				assert.NotContains(t, data, "password_hash")
			}
			authMock.AssertExpectations(t)
		})
	}
}
