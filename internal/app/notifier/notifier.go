// Package notifier собирает фоновый обработчик доменных событий.
package notifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/Naivezz/FitPoint-sub000/internal/config"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/sl"
	"github.com/Naivezz/FitPoint-sub000/internal/rabbitmq"
	notifierservice "github.com/Naivezz/FitPoint-sub000/internal/services/notifier"
	"github.com/Naivezz/FitPoint-sub000/internal/storage/repository"
)

const (
	membershipsQueue     = "fitpoint.memberships"
	scheduleChangesQueue = "fitpoint.schedule_changes"
)

// App держит соединения фонового обработчика: хранилище и канал RabbitMQ.
type App struct {
	conn            *amqp.Connection
	ch              *amqp.Channel
	db              *repository.Storage
	notifierService *notifierservice.Service
	logger          *slog.Logger
}

// New подключается к хранилищу и брокеру и объявляет очереди событий.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	conn, err := rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.GetEventQueues())
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, err
	}

	return &App{
		conn:            conn,
		ch:              ch,
		db:              db,
		notifierService: notifierservice.New(logger, db),
		logger:          logger,
	}, nil
}

// Run читает очереди до отмены ctx, затем закрывает соединения.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, membershipsQueue, func(body []byte) error {
		return a.notifierService.HandleMembershipEvent(ctx, body)
	})
	if err != nil {
		a.logger.Error("failed to start consumer", slog.String("queue", membershipsQueue), sl.Err(err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, scheduleChangesQueue, func(body []byte) error {
		return a.notifierService.HandleScheduleChangeEvent(ctx, body)
	})
	if err != nil {
		a.logger.Error("failed to start consumer", slog.String("queue", scheduleChangesQueue), sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}

	return nil
}
