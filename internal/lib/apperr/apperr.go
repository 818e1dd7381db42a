// Package apperr описывает классы ошибок бизнес-логики.
//
// Сервисы возвращают *Error с понятным клиенту сообщением и одним из
// сентинелов Err* в качестве вида. HTTP-слой выбирает код ответа по виду
// через errors.Is, сообщение уходит клиенту как есть.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — сущность с указанным идентификатором не найдена.
	ErrNotFound = errors.New("not found")
	// ErrConflict — операция нарушает уникальность (например, повторная бронь).
	ErrConflict = errors.New("conflict")
	// ErrInvalidState — сущность находится в состоянии, не допускающем операцию.
	ErrInvalidState = errors.New("invalid state")
	// ErrCapacityExceeded — на занятии нет свободных мест.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrPolicyViolation — нарушено правило клуба (окно отмены брони).
	ErrPolicyViolation = errors.New("policy violation")
	// ErrForbidden — пользователь не владеет сущностью или не имеет нужной роли.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidArgument — некорректное значение параметра.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized — неверные учётные данные.
	ErrUnauthorized = errors.New("unauthorized")
)

// Error — ошибка бизнес-логики с видом и сообщением для клиента.
type Error struct {
	Kind error
	Msg  string
}

// New создаёт ошибку вида kind с сообщением msg.
func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf создаёт ошибку вида kind с форматированным сообщением.
func Newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Msg
}

// Unwrap позволяет проверять вид ошибки через errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Message возвращает сообщение первой *Error в цепочке err.
func Message(err error) (string, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Msg, true
	}
	return "", false
}
