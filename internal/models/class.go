package models

import (
	"errors"
	"time"
)

// Room — зал клуба, в котором проводятся занятия.
type Room struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Capacity    int    `db:"capacity" json:"capacity"`
	Description string `db:"description" json:"description"`
}

// TrainingClass — групповое занятие с ограниченным числом мест.
// Тренер и зал задаются идентификаторами.
type TrainingClass struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	TrainerID     int64     `db:"trainer_id" json:"trainer_id"`
	RoomID        int64     `db:"room_id" json:"room_id"`
	StartTime     time.Time `db:"start_time" json:"start_time"`
	EndTime       time.Time `db:"end_time" json:"end_time"`
	Capacity      int       `db:"capacity" json:"capacity"`
	AverageRating *float64  `db:"average_rating" json:"average_rating,omitempty"` // Средняя оценка, nil пока нет оценок
}

var (
	errClassName     = errors.New("class name is required")
	errClassTime     = errors.New("class end time must be after start time")
	errClassCapacity = errors.New("class capacity must be positive")
)

// Validate проверяет инварианты занятия: непустое название,
// окончание позже начала и положительную вместимость.
func (c *TrainingClass) Validate() error {
	if c.Name == "" {
		return errClassName
	}
	if !c.EndTime.After(c.StartTime) {
		return errClassTime
	}
	if c.Capacity <= 0 {
		return errClassCapacity
	}
	return nil
}
