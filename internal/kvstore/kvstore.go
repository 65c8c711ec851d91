// Package kvstore реализует долговременное key-value хранилище приложения.
//
// Клиентская версия приложения держала всё состояние в localStorage браузера;
// здесь та же плоская схема ключей вынесена за интерфейс Store с реализациями
// на Redis (боевая) и в памяти (тесты). Значения сериализуются в JSON.
package kvstore

import "context"

// Ключи хранилища. Схема повторяет клиентскую раскладку один в один.
const (
	// KeyCurrentUser запись пользователя активной сессии (JSON).
	KeyCurrentUser = "khatoa_user"
	// KeySessionToken токен активной сессии.
	KeySessionToken = "khatoa_token"
	// KeyRememberMe флаг "запомнить меня".
	KeyRememberMe = "khatoa_remember_me"
	// KeyAllUsers массив всех зарегистрированных пользователей (JSON).
	KeyAllUsers = "khatoa_users"
	// KeySubscription запись активного тарифного плана (JSON).
	KeySubscription = "user_subscription"
	// KeyTrialStart момент активации пробного периода (ISO timestamp).
	KeyTrialStart = "premium_trial_start"
	// KeyTrialActive флаг активности пробного периода ("true"/"false").
	KeyTrialActive = "premium_trial_active"
)

// PasswordKey возвращает ключ хранения bcrypt-хэша пароля для email.
func PasswordKey(email string) string {
	return "password_" + email
}

// ResetCodeKey возвращает ключ незавершённого кода сброса пароля для email.
func ResetCodeKey(email string) string {
	return "reset_code_" + email
}

// VerificationCodeKey возвращает ключ кода подтверждения email.
func VerificationCodeKey(email string) string {
	return "verification_code_" + email
}

// ProgressKey возвращает ключ записи ежедневного прогресса пользователя.
func ProgressKey(userID string) string {
	return "khatoa_progress_" + userID
}

// Store описывает контракт долговременного хранилища.
type Store interface {
	// Get читает значение по ключу в result; возвращает false, если ключа нет.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение по ключу без срока жизни.
	Set(ctx context.Context, key string, value any) error
	// Delete удаляет ключ; отсутствие ключа ошибкой не считается.
	Delete(ctx context.Context, key string) error
}
