package note

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) CreateNote(ctx context.Context, n *models.TrainerNote) (int64, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) GetNote(ctx context.Context, id int64) (*models.TrainerNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainerNote), args.Error(1)
}
func (m *RepoMock) ListNotes(ctx context.Context, trainerID, clientID int64) ([]*models.TrainerNote, error) {
	args := m.Called(ctx, trainerID, clientID)
	return args.Get(0).([]*models.TrainerNote), args.Error(1)
}
func (m *RepoMock) UpdateNote(ctx context.Context, id int64, note string, updatedAt time.Time) error {
	return m.Called(ctx, id, note, updatedAt).Error(0)
}
func (m *RepoMock) DeleteNote(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var now = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

func newService(r *RepoMock) *Service {
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), r)
	s.now = func() time.Time { return now }
	return s
}

func TestService_Create(t *testing.T) {
	client := &models.User{ID: 8, Roles: []models.Role{models.RoleClient}}
	trainer := &models.User{ID: 9, Roles: []models.Role{models.RoleTrainer}}

	tests := []struct {
		name    string
		text    string
		user    *models.User
		userErr error
		wantErr error
	}{
		{name: "client note", text: "knee injury", user: client},
		{name: "empty text", text: "   ", wantErr: apperr.ErrInvalidArgument},
		{name: "target is not a client", text: "x", user: trainer, wantErr: apperr.ErrInvalidArgument},
		{name: "unknown client", text: "x", userErr: apperr.ErrNotFound, wantErr: apperr.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := new(RepoMock)
			if tt.user != nil {
				r.On("GetUserByID", mock.Anything, int64(8)).Return(tt.user, nil).Once()
			}
			if tt.userErr != nil {
				r.On("GetUserByID", mock.Anything, int64(8)).Return(nil, tt.userErr).Once()
			}
			if tt.wantErr == nil {
				r.On("CreateNote", mock.Anything, mock.MatchedBy(func(n *models.TrainerNote) bool {
					return n.TrainerID == 3 && n.ClientID == 8 && n.CreatedAt.Equal(now)
				})).Return(int64(1), nil).Once()
			}

			got, err := newService(r).Create(context.Background(), 3, 8, tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), got.ID)
			r.AssertExpectations(t)
		})
	}
}

func TestService_OnlyAuthorModifies(t *testing.T) {
	r := new(RepoMock)
	stored := &models.TrainerNote{ID: 2, TrainerID: 3, ClientID: 8, Note: "old"}
	r.On("GetNote", mock.Anything, int64(2)).Return(stored, nil)
	r.On("UpdateNote", mock.Anything, int64(2), "new", now).Return(nil).Once()
	r.On("DeleteNote", mock.Anything, int64(2)).Return(nil).Once()
	s := newService(r)
	ctx := context.Background()

	_, err := s.Update(ctx, 4, 2, "hijack")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.ErrorIs(t, s.Delete(ctx, 4, 2), apperr.ErrForbidden)
	_, err = s.Get(ctx, 4, 2)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	got, err := s.Update(ctx, 3, 2, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Note)
	require.NoError(t, s.Delete(ctx, 3, 2))
	r.AssertExpectations(t)
}

func TestService_List(t *testing.T) {
	r := new(RepoMock)
	r.On("ListNotes", mock.Anything, int64(3), int64(0)).Return([]*models.TrainerNote{{ID: 1}, {ID: 2}}, nil).Once()
	r.On("ListNotes", mock.Anything, int64(3), int64(8)).Return([]*models.TrainerNote{{ID: 1}}, nil).Once()
	s := newService(r)

	all, err := s.List(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	one, err := s.List(context.Background(), 3, 8)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}
