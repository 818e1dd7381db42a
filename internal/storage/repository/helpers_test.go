package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Naivezz/FitPoint-sub000/internal/migrations"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB.DB, migrationsPath))

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

// testDataFactory создаёт тестовые данные через методы хранилища.
type testDataFactory struct {
	storage *Storage
}

func newTestDataFactory(storage *Storage) *testDataFactory {
	return &testDataFactory{storage: storage}
}

func (f *testDataFactory) user(t *testing.T, roles ...models.Role) int64 {
	t.Helper()
	id, err := f.storage.CreateUser(context.Background(), &models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hashedpassword",
		FirstName:    "Test",
		LastName:     "User",
		Roles:        roles,
	})
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) room(t *testing.T) int64 {
	t.Helper()
	id, err := f.storage.CreateRoom(context.Background(), &models.Room{
		Name:     "Room " + uuid.NewString()[:8],
		Capacity: 20,
	})
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) class(t *testing.T, trainerID, roomID int64, start time.Time, capacity int) int64 {
	t.Helper()
	id, err := f.storage.CreateClass(context.Background(), &models.TrainingClass{
		Name:      "Yoga",
		TrainerID: trainerID,
		RoomID:    roomID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Capacity:  capacity,
	})
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) reservation(t *testing.T, userID, classID int64) int64 {
	t.Helper()
	id, err := f.storage.CreateReservation(context.Background(), &models.Reservation{
		UserID:          userID,
		ClassID:         classID,
		ReservationDate: time.Now().UTC(),
		Status:          models.ReservationConfirmed,
	})
	require.NoError(t, err)
	return id
}
