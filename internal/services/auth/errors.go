package auth

import "errors"

// Таксономия отказов сервиса идентификации. Операции не возвращают ошибки
// напрямую: конкретный вид отказа кладется в AuthResult.Err, а клиенту
// уходит только текст сообщения.
var (
	// ErrValidation некорректные или неполные входные данные.
	ErrValidation = errors.New("validation failed")
	// ErrEmailNotFound пользователь с таким email не зарегистрирован.
	ErrEmailNotFound = errors.New("email not found")
	// ErrInvalidCredentials пароль не совпадает с сохраненным.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail email уже занят другой учетной записью.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotAuthenticated операция требует активной сессии.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidCode код сброса или подтверждения не совпал.
	ErrInvalidCode = errors.New("invalid code")
	// ErrUnexpected сбой хранилища или сериализации.
	ErrUnexpected = errors.New("unexpected error")
)
