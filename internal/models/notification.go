package models

import "time"

// Notification — уведомление пользователю. Изменяется только флаг прочтения.
type Notification struct {
	ID          int64     `db:"id" json:"id"`
	RecipientID int64     `db:"recipient_id" json:"recipient_id"`
	Message     string    `db:"message" json:"message"`
	SentAt      time.Time `db:"sent_at" json:"sent_at"`
	Read        bool      `db:"read" json:"read"`
}

// TrainerNote — заметка тренера о клиенте. Доступна только автору.
type TrainerNote struct {
	ID        int64     `db:"id" json:"id"`
	TrainerID int64     `db:"trainer_id" json:"trainer_id"`
	ClientID  int64     `db:"client_id" json:"client_id"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SessionStatus — статус персональной тренировки.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "SCHEDULED"
	SessionCancelled SessionStatus = "CANCELLED"
	SessionCompleted SessionStatus = "COMPLETED"
)

// ParseSessionStatus разбирает статус персональной тренировки.
func ParseSessionStatus(s string) (SessionStatus, bool) {
	switch SessionStatus(s) {
	case SessionScheduled, SessionCancelled, SessionCompleted:
		return SessionStatus(s), true
	}
	return "", false
}

// PersonalTrainingSession — индивидуальная тренировка тренера с клиентом.
type PersonalTrainingSession struct {
	ID        int64         `db:"id" json:"id"`
	TrainerID int64         `db:"trainer_id" json:"trainer_id"`
	ClientID  int64         `db:"client_id" json:"client_id"`
	StartTime time.Time     `db:"start_time" json:"start_time"`
	EndTime   time.Time     `db:"end_time" json:"end_time"`
	Goal      string        `db:"goal" json:"goal"`
	Notes     string        `db:"notes" json:"notes"`
	Status    SessionStatus `db:"status" json:"status"`
}
