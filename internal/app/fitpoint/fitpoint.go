// Package fitpoint собирает HTTP-сервис клуба: хранилище, кэш, издатель
// событий, сервисы и маршруты.
package fitpoint

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/Naivezz/FitPoint-sub000/internal/cache"
	"github.com/Naivezz/FitPoint-sub000/internal/config"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/jwt"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/sl"
	"github.com/Naivezz/FitPoint-sub000/internal/migrations"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	"github.com/Naivezz/FitPoint-sub000/internal/rabbitmq"
	"github.com/Naivezz/FitPoint-sub000/internal/services/auth"
	"github.com/Naivezz/FitPoint-sub000/internal/services/membership"
	"github.com/Naivezz/FitPoint-sub000/internal/services/note"
	"github.com/Naivezz/FitPoint-sub000/internal/services/notification"
	"github.com/Naivezz/FitPoint-sub000/internal/services/personalsession"
	"github.com/Naivezz/FitPoint-sub000/internal/services/profile"
	"github.com/Naivezz/FitPoint-sub000/internal/services/reservation"
	"github.com/Naivezz/FitPoint-sub000/internal/services/room"
	"github.com/Naivezz/FitPoint-sub000/internal/services/schedulechange"
	"github.com/Naivezz/FitPoint-sub000/internal/services/staff"
	"github.com/Naivezz/FitPoint-sub000/internal/services/trainer"
	"github.com/Naivezz/FitPoint-sub000/internal/services/trainingclass"
	"github.com/Naivezz/FitPoint-sub000/internal/storage/repository"
)

// readCache — общий контракт *cache.Cache и cache.Noop.
type readCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, keys ...string) error
}

type publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	redis  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{logger: logger, db: db}

	var classCache readCache = cache.Noop{}
	if cfg.RedisEnabled {
		app.redis, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, err
		}
		classCache = app.redis
	}

	var events publisher = rabbitmq.NoopPublisher{}
	if cfg.RabbitEnabled {
		app.conn, err = rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
		if err != nil {
			app.close()
			return nil, err
		}
		app.ch, err = rabbitmq.SetupChannel(app.conn, cfg.Exchange, rabbitmq.GetEventQueues())
		if err != nil {
			app.close()
			return nil, err
		}
		events = rabbitmq.NewPublisher(app.ch, cfg.Exchange)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := auth.NewAuthService(logger, db, jwtMaker)
	if err = authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		app.close()
		return nil, err
	}

	reservationService := reservation.New(logger, db, db, classCache, events,
		reservation.WithCancelWindow(cfg.CancelWindow))

	services := Services{
		Auth:           authService,
		Health:         db,
		Reservations:   reservationService,
		Memberships:    membership.New(logger, db, db, events, models.DefaultMembershipCatalog()),
		Profile:        profile.New(logger, db, classCache),
		ScheduleChange: schedulechange.New(logger, db, db, classCache, events),
		Staff:          staff.New(logger, db, authService),
		Schedule:       trainer.New(logger, db),
		Registrations:  reservationService,
		Notes:          note.New(logger, db),
		Sessions:       personalsession.New(logger, db),
		Rooms:          room.New(logger, db),
		Classes:        trainingclass.New(logger, db, db, classCache),
		Notifications:  notification.New(logger, db),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.RateLimit, AccessTable(), services)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
