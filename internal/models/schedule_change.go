package models

import (
	"strings"
	"time"
)

// ChangeRequestType — вид изменения расписания.
type ChangeRequestType string

const (
	// ChangeAdd — добавить новое занятие.
	ChangeAdd ChangeRequestType = "ADD"
	// ChangeModify — изменить существующее занятие.
	ChangeModify ChangeRequestType = "MODIFY"
	// ChangeCancel — отменить (удалить) занятие.
	ChangeCancel ChangeRequestType = "CANCEL"
)

// ParseChangeRequestType разбирает тип запроса без учёта регистра.
func ParseChangeRequestType(s string) (ChangeRequestType, bool) {
	t := ChangeRequestType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case ChangeAdd, ChangeModify, ChangeCancel:
		return t, true
	}
	return "", false
}

// ChangeRequestStatus — статус запроса на изменение расписания.
// PENDING переходит ровно один раз в APPROVED или REJECTED.
type ChangeRequestStatus string

const (
	ChangeStatusPending  ChangeRequestStatus = "PENDING"
	ChangeStatusApproved ChangeRequestStatus = "APPROVED"
	ChangeStatusRejected ChangeRequestStatus = "REJECTED"
)

// ParseReviewDecision разбирает решение администратора:
// допустимы только APPROVED и REJECTED.
func ParseReviewDecision(s string) (ChangeRequestStatus, bool) {
	d := ChangeRequestStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case ChangeStatusApproved, ChangeStatusRejected:
		return d, true
	}
	return "", false
}

// ChangeFields — предлагаемые значения полей занятия.
// Применяются только заданные поля, остальные остаются без изменений.
type ChangeFields struct {
	Name        Optional[string]    `db:"requested_name" json:"name"`
	Description Optional[string]    `db:"requested_description" json:"description"`
	StartTime   Optional[time.Time] `db:"requested_start_time" json:"start_time"`
	EndTime     Optional[time.Time] `db:"requested_end_time" json:"end_time"`
	Capacity    Optional[int]       `db:"requested_capacity" json:"capacity"`
	RoomID      Optional[int64]     `db:"requested_room_id" json:"room_id"`
}

// ApplyTo переносит заданные поля на занятие.
func (f ChangeFields) ApplyTo(c *TrainingClass) {
	if v, ok := f.Name.Get(); ok {
		c.Name = v
	}
	if v, ok := f.Description.Get(); ok {
		c.Description = v
	}
	if v, ok := f.StartTime.Get(); ok {
		c.StartTime = v
	}
	if v, ok := f.EndTime.Get(); ok {
		c.EndTime = v
	}
	if v, ok := f.Capacity.Get(); ok {
		c.Capacity = v
	}
	if v, ok := f.RoomID.Get(); ok {
		c.RoomID = v
	}
}

// NewClass собирает новое занятие из предложенных полей.
// ok == false, если не задано хотя бы одно обязательное поле.
func (f ChangeFields) NewClass(trainerID int64) (TrainingClass, bool) {
	name, okName := f.Name.Get()
	start, okStart := f.StartTime.Get()
	end, okEnd := f.EndTime.Get()
	capacity, okCap := f.Capacity.Get()
	roomID, okRoom := f.RoomID.Get()
	if !okName || !okStart || !okEnd || !okCap || !okRoom {
		return TrainingClass{}, false
	}
	return TrainingClass{
		Name:        name,
		Description: f.Description.OrElse(""),
		TrainerID:   trainerID,
		RoomID:      roomID,
		StartTime:   start,
		EndTime:     end,
		Capacity:    capacity,
	}, true
}

// ScheduleChangeRequest — запрос тренера на изменение расписания.
type ScheduleChangeRequest struct {
	ID          int64               `db:"id" json:"id"`
	TrainerID   int64               `db:"trainer_id" json:"trainer_id"`
	RequestType ChangeRequestType   `db:"request_type" json:"request_type"`
	Reason      string              `db:"reason" json:"reason"`
	Status      ChangeRequestStatus `db:"status" json:"status"`
	ClassID     *int64              `db:"class_id" json:"class_id,omitempty"` // Занятие для MODIFY/CANCEL
	ChangeFields
	ReviewedBy *int64     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewNote *string    `db:"review_note" json:"review_note,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
