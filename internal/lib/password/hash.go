// Package password реализует хеширование и проверку паролей пользователей.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash возвращает bcrypt‑хэш пароля для хранения в таблице users.
func Hash(raw string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сверяет сохранённый хэш с введённым паролем.
//
// Возвращает nil при совпадении, иначе — ошибку.
func Compare(hash, raw string) error {
	const op = "password.Compare"
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
