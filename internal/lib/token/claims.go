// Package token реализует выпуск и разбор токенов сессии.
//
// SessionClaims расширяет стандартные claims JWT, добавляя идентификатор
// и email пользователя, которому выпущен токен.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims описывает пользовательские данные, хранящиеся в токене сессии.
type SessionClaims struct {
	UserID               string `json:"user_id"` // Идентификатор пользователя
	Email                string `json:"email"`   // Email пользователя
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// GenerateToken создает токен сессии для заданных userID и email,
// подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL.
func (m *MakerImpl) GenerateToken(userID, email string) (string, error) {
	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// ParseToken парсит токен сессии, проверяет его подпись и срок жизни,
// возвращает SessionClaims с данными, если токен корректен.
func (m *MakerImpl) ParseToken(tokenStr string) (*SessionClaims, error) {
	const op = "token.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
