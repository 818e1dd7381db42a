package trainer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListTrainerClassesBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]*models.TrainingClass, error) {
	args := m.Called(ctx, trainerID, from, to)
	return args.Get(0).([]*models.TrainingClass), args.Error(1)
}
func (m *RepoMock) ListTrainerSessionsBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]*models.PersonalTrainingSession, error) {
	args := m.Called(ctx, trainerID, from, to)
	return args.Get(0).([]*models.PersonalTrainingSession), args.Error(1)
}
func (m *RepoMock) ListTrainerSessions(ctx context.Context, trainerID int64) ([]*models.PersonalTrainingSession, error) {
	args := m.Called(ctx, trainerID)
	return args.Get(0).([]*models.PersonalTrainingSession), args.Error(1)
}
func (m *RepoMock) ListTrainerClients(ctx context.Context, trainerID int64) ([]*models.User, error) {
	args := m.Called(ctx, trainerID)
	return args.Get(0).([]*models.User), args.Error(1)
}

func newService(r *RepoMock) *Service {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), r)
}

func TestService_Periods(t *testing.T) {
	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		call   func(s *Service) (*Schedule, error)
		wantTo time.Time
	}{
		{
			name:   "daily",
			call:   func(s *Service) (*Schedule, error) { return s.Daily(context.Background(), 3, day.Add(14*time.Hour)) },
			wantTo: day.AddDate(0, 0, 1),
		},
		{
			name:   "weekly",
			call:   func(s *Service) (*Schedule, error) { return s.Weekly(context.Background(), 3, day) },
			wantTo: day.AddDate(0, 0, 7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := new(RepoMock)
			r.On("ListTrainerClassesBetween", mock.Anything, int64(3), day, tt.wantTo).
				Return([]*models.TrainingClass{{ID: 1}}, nil).Once()
			r.On("ListTrainerSessionsBetween", mock.Anything, int64(3), day, tt.wantTo).
				Return([]*models.PersonalTrainingSession{}, nil).Once()

			sch, err := tt.call(newService(r))
			require.NoError(t, err)
			assert.Equal(t, day, sch.From)
			assert.Equal(t, tt.wantTo, sch.To)
			assert.Len(t, sch.Classes, 1)
			r.AssertExpectations(t)
		})
	}
}

func TestService_Daily_Error(t *testing.T) {
	r := new(RepoMock)
	r.On("ListTrainerClassesBetween", mock.Anything, int64(3), mock.Anything, mock.Anything).
		Return([]*models.TrainingClass(nil), errors.New("db down")).Once()

	_, err := newService(r).Daily(context.Background(), 3, time.Now())
	assert.ErrorContains(t, err, "trainer.Daily")
}

func TestService_ClientsAndSessions(t *testing.T) {
	r := new(RepoMock)
	r.On("ListTrainerClients", mock.Anything, int64(3)).Return([]*models.User{{ID: 8}, {ID: 9}}, nil).Once()
	r.On("ListTrainerSessions", mock.Anything, int64(3)).Return([]*models.PersonalTrainingSession{{ID: 1}}, nil).Once()
	s := newService(r)

	clients, err := s.Clients(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, clients, 2)
	sessions, err := s.PersonalSessions(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}
