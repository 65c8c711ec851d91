// Package token реализует выпуск и разбор токенов сессии.
//
// Maker определяет интерфейс для создания и проверки токенов с идентификатором
// и email пользователя. MakerImpl — конкретная реализация на базе JWT (HS256)
// с секретным ключом и сроком жизни.
package token

import (
	"time"
)

// Maker описывает интерфейс для выпуска и разбора токенов сессии.
type Maker interface {
	// GenerateToken создаёт токен для пары (userID, email)
	GenerateToken(userID, email string) (string, error)
	// ParseToken возвращает *SessionClaims с userID и email
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
