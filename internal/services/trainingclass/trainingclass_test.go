package trainingclass

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Naivezz/FitPoint-sub000/internal/cache"
	"github.com/Naivezz/FitPoint-sub000/internal/config"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateClass(ctx context.Context, class *models.TrainingClass) (int64, error) {
	args := m.Called(ctx, class)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) GetClass(ctx context.Context, id int64) (*models.TrainingClass, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainingClass), args.Error(1)
}
func (m *RepoMock) GetClassForUpdate(ctx context.Context, id int64) (*models.TrainingClass, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainingClass), args.Error(1)
}
func (m *RepoMock) ListClasses(ctx context.Context) ([]*models.TrainingClass, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.TrainingClass), args.Error(1)
}
func (m *RepoMock) UpdateClass(ctx context.Context, class *models.TrainingClass) error {
	return m.Called(ctx, class).Error(0)
}
func (m *RepoMock) DeleteClass(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}
func (m *RepoMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) CountConfirmedReservations(ctx context.Context, classID int64) (int, error) {
	args := m.Called(ctx, classID)
	return args.Int(0), args.Error(1)
}

type txStub struct{}

func (txStub) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

func setupCache(t *testing.T) *cache.Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr(), CacheTTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func newService(t *testing.T, r *RepoMock) (*Service, *cache.Cache) {
	c := setupCache(t)
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), r, txStub{}, c), c
}

var start = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

func sample() *models.TrainingClass {
	return &models.TrainingClass{
		Name: "Yoga", TrainerID: 3, RoomID: 1, StartTime: start, EndTime: start.Add(time.Hour), Capacity: 10,
	}
}

func TestService_Create(t *testing.T) {
	trainer := &models.User{ID: 3, Roles: []models.Role{models.RoleTrainer}}
	client := &models.User{ID: 3, Roles: []models.Role{models.RoleClient}}

	tests := []struct {
		name       string
		mutate     func(c *models.TrainingClass)
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name: "success",
			setupMocks: func(r *RepoMock) {
				r.On("GetRoom", mock.Anything, int64(1)).Return(&models.Room{ID: 1}, nil).Once()
				r.On("GetUserByID", mock.Anything, int64(3)).Return(trainer, nil).Once()
				r.On("CreateClass", mock.Anything, mock.Anything).Return(int64(42), nil).Once()
			},
		},
		{name: "end before start", mutate: func(c *models.TrainingClass) { c.EndTime = start.Add(-time.Minute) }, wantErr: apperr.ErrInvalidArgument},
		{name: "zero capacity", mutate: func(c *models.TrainingClass) { c.Capacity = 0 }, wantErr: apperr.ErrInvalidArgument},
		{name: "empty name", mutate: func(c *models.TrainingClass) { c.Name = "" }, wantErr: apperr.ErrInvalidArgument},
		{
			name: "unknown room",
			setupMocks: func(r *RepoMock) {
				r.On("GetRoom", mock.Anything, int64(1)).Return(nil, apperr.ErrNotFound).Once()
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name: "user is not a trainer",
			setupMocks: func(r *RepoMock) {
				r.On("GetRoom", mock.Anything, int64(1)).Return(&models.Room{ID: 1}, nil).Once()
				r.On("GetUserByID", mock.Anything, int64(3)).Return(client, nil).Once()
			},
			wantErr: apperr.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := new(RepoMock)
			if tt.setupMocks != nil {
				tt.setupMocks(r)
			}
			class := sample()
			if tt.mutate != nil {
				tt.mutate(class)
			}
			s, _ := newService(t, r)
			got, err := s.Create(context.Background(), class)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				r.AssertNotCalled(t, "CreateClass", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(42), got.ID)
			r.AssertExpectations(t)
		})
	}
}

func TestService_Get_CacheAside(t *testing.T) {
	r := new(RepoMock)
	stored := sample()
	stored.ID = 7
	r.On("GetClass", mock.Anything, int64(7)).Return(stored, nil).Once()
	s, c := newService(t, r)
	ctx := context.Background()

	first, err := s.Get(ctx, 7)
	require.NoError(t, err)
	second, err := s.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.True(t, first.StartTime.Equal(second.StartTime))
	r.AssertNumberOfCalls(t, "GetClass", 1)

	var cached models.TrainingClass
	found, err := c.Get(ctx, cache.ClassKey(7), &cached)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestService_Get_NotFound(t *testing.T) {
	r := new(RepoMock)
	r.On("GetClass", mock.Anything, int64(8)).Return(nil, apperr.ErrNotFound).Once()
	s, _ := newService(t, r)

	_, err := s.Get(context.Background(), 8)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_UpdateInvalidatesAndKeepsRating(t *testing.T) {
	r := new(RepoMock)
	rating := 4.0
	current := sample()
	current.ID = 7
	current.AverageRating = &rating
	r.On("GetClassForUpdate", mock.Anything, int64(7)).Return(current, nil).Once()
	r.On("GetRoom", mock.Anything, int64(1)).Return(&models.Room{ID: 1}, nil).Once()
	r.On("GetUserByID", mock.Anything, int64(3)).Return(&models.User{ID: 3, Roles: []models.Role{models.RoleTrainer}}, nil).Once()
	r.On("UpdateClass", mock.Anything, mock.MatchedBy(func(c *models.TrainingClass) bool {
		return c.Capacity == 25 && c.AverageRating != nil && *c.AverageRating == 4.0
	})).Return(nil).Once()

	s, c := newService(t, r)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, cache.ClassKey(7), current))

	upd := sample()
	upd.ID = 7
	upd.Capacity = 25
	_, err := s.Update(ctx, upd)
	require.NoError(t, err)

	found, err := c.Get(ctx, cache.ClassKey(7), &models.TrainingClass{})
	require.NoError(t, err)
	assert.False(t, found)
	r.AssertExpectations(t)
	r.AssertNotCalled(t, "CountConfirmedReservations", mock.Anything, mock.Anything)
}

func TestService_Update_CapacityBelowConfirmed(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		confirmed int
		wantErr   error
	}{
		{name: "below confirmed", capacity: 4, confirmed: 6, wantErr: apperr.ErrInvalidArgument},
		{name: "equal to confirmed", capacity: 6, confirmed: 6},
		{name: "above confirmed", capacity: 8, confirmed: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := new(RepoMock)
			current := sample()
			current.ID = 7
			r.On("GetClassForUpdate", mock.Anything, int64(7)).Return(current, nil).Once()
			r.On("GetRoom", mock.Anything, int64(1)).Return(&models.Room{ID: 1}, nil).Once()
			r.On("GetUserByID", mock.Anything, int64(3)).Return(&models.User{ID: 3, Roles: []models.Role{models.RoleTrainer}}, nil).Once()
			r.On("CountConfirmedReservations", mock.Anything, int64(7)).Return(tt.confirmed, nil).Once()
			if tt.wantErr == nil {
				r.On("UpdateClass", mock.Anything, mock.Anything).Return(nil).Once()
			}
			s, _ := newService(t, r)

			upd := sample()
			upd.ID = 7
			upd.Capacity = tt.capacity
			got, err := s.Update(context.Background(), upd)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				r.AssertNotCalled(t, "UpdateClass", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.capacity, got.Capacity)
			r.AssertExpectations(t)
		})
	}
}

func TestService_Update_NotFound(t *testing.T) {
	r := new(RepoMock)
	r.On("GetClassForUpdate", mock.Anything, int64(9)).Return(nil, apperr.ErrNotFound).Once()
	s, _ := newService(t, r)

	upd := sample()
	upd.ID = 9
	_, err := s.Update(context.Background(), upd)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	r.AssertNotCalled(t, "UpdateClass", mock.Anything, mock.Anything)
}

func TestService_DeleteAndList(t *testing.T) {
	r := new(RepoMock)
	r.On("DeleteClass", mock.Anything, int64(7)).Return(nil).Once()
	r.On("DeleteClass", mock.Anything, int64(8)).Return(apperr.ErrNotFound).Once()
	r.On("ListClasses", mock.Anything).Return([]*models.TrainingClass{sample()}, nil).Once()
	s, _ := newService(t, r)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, 7))
	assert.ErrorIs(t, s.Delete(ctx, 8), apperr.ErrNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
