package models

import "time"

// ReservationStatus — статус бронирования.
type ReservationStatus string

const (
	// ReservationConfirmed — действующая бронь, занимает место на занятии.
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	// ReservationCancelled — отменённая бронь. Статус конечный.
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Reservation — запись пользователя на занятие.
type Reservation struct {
	ID              int64             `db:"id" json:"id"`
	UserID          int64             `db:"user_id" json:"user_id"`
	ClassID         int64             `db:"class_id" json:"class_id"`
	ReservationDate time.Time         `db:"reservation_date" json:"reservation_date"`
	Status          ReservationStatus `db:"status" json:"status"`
	Rating          *int              `db:"rating" json:"rating,omitempty"`
	Comment         *string           `db:"comment" json:"comment,omitempty"`
}

// ReservationView — бронь вместе с данными занятия для списков.
type ReservationView struct {
	Reservation
	ClassName      string    `db:"class_name" json:"class_name"`
	ClassStartTime time.Time `db:"class_start_time" json:"class_start_time"`
	ClassEndTime   time.Time `db:"class_end_time" json:"class_end_time"`
}

// Registration — бронь занятия вместе с данными записавшегося клиента.
type Registration struct {
	Reservation
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}
