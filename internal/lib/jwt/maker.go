// Package jwt реализует генерацию и парсинг JWT токенов доступа.
//
// Maker определяет интерфейс для создания и проверки токенов,
// MakerImpl — реализация на HMAC-SHA256 с секретным ключом и сроком жизни.
package jwt

import (
	"time"

	"github.com/Naivezz/FitPoint-sub000/internal/models"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен для пользователя с его ролями.
	GenerateToken(userID int64, email string, roles []models.Role) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
