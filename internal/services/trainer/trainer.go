// Package trainer собирает расписание и список клиентов тренера.
package trainer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

type Repository interface {
	ListTrainerClassesBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]*models.TrainingClass, error)
	ListTrainerSessionsBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]*models.PersonalTrainingSession, error)
	ListTrainerSessions(ctx context.Context, trainerID int64) ([]*models.PersonalTrainingSession, error)
	ListTrainerClients(ctx context.Context, trainerID int64) ([]*models.User, error)
}

// Schedule — занятия и персональные тренировки тренера за период [From, To).
type Schedule struct {
	From             time.Time                         `json:"from"`
	To               time.Time                         `json:"to"`
	Classes          []*models.TrainingClass           `json:"classes"`
	PersonalSessions []*models.PersonalTrainingSession `json:"personal_sessions"`
}

type Service struct {
	log  *slog.Logger
	repo Repository
}

func New(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

// Daily возвращает расписание на день date.
func (s *Service) Daily(ctx context.Context, trainerID int64, date time.Time) (*Schedule, error) {
	const op = "trainer.Daily"
	from := models.DateOf(date)
	sch, err := s.between(ctx, trainerID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sch, nil
}

// Weekly возвращает расписание на семь дней начиная с weekStart.
func (s *Service) Weekly(ctx context.Context, trainerID int64, weekStart time.Time) (*Schedule, error) {
	const op = "trainer.Weekly"
	from := models.DateOf(weekStart)
	sch, err := s.between(ctx, trainerID, from, from.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sch, nil
}

// PersonalSessions возвращает все персональные тренировки тренера.
func (s *Service) PersonalSessions(ctx context.Context, trainerID int64) ([]*models.PersonalTrainingSession, error) {
	const op = "trainer.PersonalSessions"
	list, err := s.repo.ListTrainerSessions(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Clients возвращает клиентов, записанных на занятия тренера или занимающихся с ним лично.
func (s *Service) Clients(ctx context.Context, trainerID int64) ([]*models.User, error) {
	const op = "trainer.Clients"
	list, err := s.repo.ListTrainerClients(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (s *Service) between(ctx context.Context, trainerID int64, from, to time.Time) (*Schedule, error) {
	classes, err := s.repo.ListTrainerClassesBetween(ctx, trainerID, from, to)
	if err != nil {
		return nil, err
	}
	sessions, err := s.repo.ListTrainerSessionsBetween(ctx, trainerID, from, to)
	if err != nil {
		return nil, err
	}
	return &Schedule{From: from, To: to, Classes: classes, PersonalSessions: sessions}, nil
}
