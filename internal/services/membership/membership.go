// Package membership реализует покупку и продление абонементов по каталогу.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
	"github.com/Naivezz/FitPoint-sub000/internal/lib/sl"
	"github.com/Naivezz/FitPoint-sub000/internal/metrics"
	"github.com/Naivezz/FitPoint-sub000/internal/models"
	"github.com/Naivezz/FitPoint-sub000/internal/rabbitmq"
)

// Repository определяет методы хранилища абонементов.
type Repository interface {
	CreateMembership(ctx context.Context, m *models.Membership) (int64, error)
	ListMemberships(ctx context.Context, userID int64) ([]*models.Membership, error)
	ListValidMemberships(ctx context.Context, userID int64, today time.Time) ([]*models.Membership, error)
	FirstValidMembershipForUpdate(ctx context.Context, userID int64, today time.Time) (*models.Membership, error)
	UpdateMembershipEndDate(ctx context.Context, id int64, endDate time.Time) error
}

// TxManager выполняет функцию в одной транзакции.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Event — полезная нагрузка событий абонементов.
type Event struct {
	MembershipID int64     `json:"membership_id"`
	UserID       int64     `json:"user_id"`
	Type         string    `json:"type"`
	EndDate      time.Time `json:"end_date"`
}

// Service реализует логику абонементов.
type Service struct {
	log     *slog.Logger
	repo    Repository
	tx      TxManager
	events  Publisher
	catalog models.MembershipCatalog
	now     func() time.Time
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New создаёт сервис абонементов с каталогом catalog.
func New(log *slog.Logger, repo Repository, tx TxManager, events Publisher,
	catalog models.MembershipCatalog, opts ...Option) *Service {
	s := &Service{log: log, repo: repo, tx: tx, events: events, catalog: catalog, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Types возвращает планы каталога.
func (s *Service) Types() []models.MembershipPlan {
	return s.catalog.Plans()
}

// Purchase оформляет абонемент типа membershipType, начинающийся сегодня.
func (s *Service) Purchase(ctx context.Context, userID int64, membershipType string) (*models.Membership, error) {
	const op = "membership.Purchase"
	plan, err := s.plan(membershipType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m, err := s.purchase(ctx, userID, plan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.done(ctx, op, rabbitmq.RoutingMembershipPurchased, metrics.MembershipPurchase, m)
	return m, nil
}

// TopUp продлевает первый действующий абонемент пользователя на длительность
// типа membershipType. Без действующего абонемента работает как Purchase.
func (s *Service) TopUp(ctx context.Context, userID int64, membershipType string) (*models.Membership, error) {
	const op = "membership.TopUp"
	plan, err := s.plan(membershipType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		m        *models.Membership
		extended bool
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.FirstValidMembershipForUpdate(ctx, userID, models.DateOf(s.now()))
		if errors.Is(err, apperr.ErrNotFound) {
			m, err = s.purchase(ctx, userID, plan)
			return err
		}
		if err != nil {
			return err
		}
		current.EndDate = models.DateOf(current.EndDate).AddDate(0, 0, plan.DurationDays)
		if err := s.repo.UpdateMembershipEndDate(ctx, current.ID, current.EndDate); err != nil {
			return err
		}
		m, extended = current, true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if extended {
		s.done(ctx, op, rabbitmq.RoutingMembershipExtended, metrics.MembershipExtend, m)
	} else {
		s.done(ctx, op, rabbitmq.RoutingMembershipPurchased, metrics.MembershipPurchase, m)
	}
	return m, nil
}

// List возвращает все абонементы пользователя.
func (s *Service) List(ctx context.Context, userID int64) ([]*models.Membership, error) {
	const op = "membership.List"
	list, err := s.repo.ListMemberships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Active возвращает абонементы, действующие сегодня. Флаг active не учитывается.
func (s *Service) Active(ctx context.Context, userID int64) ([]*models.Membership, error) {
	const op = "membership.Active"
	list, err := s.repo.ListValidMemberships(ctx, userID, models.DateOf(s.now()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// HasActive сообщает, есть ли у пользователя действующий абонемент.
func (s *Service) HasActive(ctx context.Context, userID int64) (bool, error) {
	list, err := s.Active(ctx, userID)
	if err != nil {
		return false, err
	}
	return len(list) > 0, nil
}

func (s *Service) plan(raw string) (models.MembershipPlan, error) {
	plan, ok := s.catalog.Lookup(raw)
	if !ok {
		return models.MembershipPlan{}, apperr.Newf(apperr.ErrInvalidArgument, "unknown membership type %q", raw)
	}
	return plan, nil
}

func (s *Service) purchase(ctx context.Context, userID int64, plan models.MembershipPlan) (*models.Membership, error) {
	start := models.DateOf(s.now())
	m := &models.Membership{
		UserID:    userID,
		Type:      plan.Type,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, plan.DurationDays),
		Price:     plan.Price,
		Active:    true,
	}
	id, err := s.repo.CreateMembership(ctx, m)
	if err != nil {
		return nil, err
	}
	m.ID = id
	return m, nil
}

func (s *Service) done(ctx context.Context, op, key, operation string, m *models.Membership) {
	metrics.ObserveMembership(string(m.Type), operation)
	s.log.Info("membership saved", slog.String("op", op), slog.Int64("membership_id", m.ID),
		slog.String("operation", operation))
	event := Event{MembershipID: m.ID, UserID: m.UserID, Type: string(m.Type), EndDate: m.EndDate}
	if err := s.events.Publish(ctx, key, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("routing_key", key), sl.Err(err))
	}
}
