// Package codes генерирует одноразовые коды и пароли: код сброса пароля,
// цифровой код подтверждения email и новый пароль, выдаваемый после сброса.
//
// Все значения берутся из crypto/rand, повторяемость кодов недопустима.
package codes

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	resetAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// ResetCodeLength длина кода сброса пароля.
	ResetCodeLength = 6
	// VerificationCodeLength длина цифрового кода подтверждения.
	VerificationCodeLength = 6
	// GeneratedPasswordLength длина пароля, выдаваемого после сброса.
	GeneratedPasswordLength = 12
)

func randomString(alphabet string, length int) (string, error) {
	const op = "codes.randomString"
	buf := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// NewResetCode возвращает код сброса пароля: заглавные буквы и цифры,
// без визуально похожих символов (I, O, 0, 1).
func NewResetCode() (string, error) {
	return randomString(resetAlphabet, ResetCodeLength)
}

// NewVerificationCode возвращает цифровой код подтверждения email.
func NewVerificationCode() (string, error) {
	return randomString("0123456789", VerificationCodeLength)
}

// NewPassword возвращает случайный пароль, который показывается пользователю
// один раз после успешного сброса.
func NewPassword() (string, error) {
	return randomString(passwordAlphabet, GeneratedPasswordLength)
}
