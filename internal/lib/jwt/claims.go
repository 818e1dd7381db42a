package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
// Идентификатор пользователя передаётся в стандартном поле sub.
type CustomClaims struct {
	Email                string   `json:"email"` // Электронная почта пользователя
	Roles                []string `json:"roles"` // Роли пользователя
	jwt.RegisteredClaims          // Встроенные стандартные claims JWT (Subject, ExpiresAt, IssuedAt)
}

// Principal восстанавливает пользователя запроса из claims.
// Неизвестные роли отбрасываются.
func (c *CustomClaims) Principal() (models.Principal, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return models.Principal{}, fmt.Errorf("jwt.Principal: invalid subject %q: %w", c.Subject, err)
	}
	roles := make([]models.Role, 0, len(c.Roles))
	for _, r := range c.Roles {
		if role, ok := models.ParseRole(r); ok {
			roles = append(roles, role)
		}
	}
	return models.Principal{UserID: id, Email: c.Email, Roles: roles}, nil
}

// GenerateToken создает JWT токен для пользователя, подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(userID int64, email string, roles []models.Role) (string, error) {
	const op = "jwt.GenerateToken"
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	now := time.Now()
	claims := CustomClaims{
		Email: email,
		Roles: names,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает CustomClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
