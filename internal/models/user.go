// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и набор ролей.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Role — роль пользователя, определяющая доступ к API.
type Role string

const (
	// RoleAdmin — администратор клуба.
	RoleAdmin Role = "ROLE_ADMIN"
	// RoleTrainer — тренер.
	RoleTrainer Role = "ROLE_TRAINER"
	// RoleClient — клиент клуба.
	RoleClient Role = "ROLE_CLIENT"
)

// ParseRole возвращает роль по её строковому имени.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleTrainer, RoleClient:
		return Role(s), true
	}
	return "", false
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64     `db:"id" json:"id"`                 // Уникальный идентификатор пользователя
	Email        string    `db:"email" json:"email"`           // Электронная почта (уникальная)
	PasswordHash string    `db:"password_hash" json:"-"`       // Хэш пароля пользователя
	FirstName    string    `db:"first_name" json:"first_name"` // Имя
	LastName     string    `db:"last_name" json:"last_name"`   // Фамилия
	Phone        string    `db:"phone" json:"phone"`           // Телефон
	CreatedAt    time.Time `db:"created_at" json:"created_at"` // Дата регистрации
	Roles        []Role    `db:"-" json:"roles"`               // Роли пользователя
}

// HasRole сообщает, есть ли у пользователя указанная роль.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsEmployee сообщает, является ли пользователь сотрудником (тренером или администратором).
func (u *User) IsEmployee() bool {
	return u.HasRole(RoleTrainer) || u.HasRole(RoleAdmin)
}

// Principal — аутентифицированный пользователь текущего запроса,
// восстановленный из JWT.
type Principal struct {
	UserID int64
	Email  string
	Roles  []Role
}

// HasAnyRole сообщает, есть ли у пользователя хотя бы одна из ролей.
func (p Principal) HasAnyRole(roles ...Role) bool {
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
