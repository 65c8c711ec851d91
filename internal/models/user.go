// Package models содержит доменные структуры приложения: пользователь с
// настройками и проекцией подписки, тарифные планы, пробный период и привычки.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Gender пол пользователя в профиле.
type Gender string

// Допустимые значения пола.
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID              string           `json:"id"`                    // Уникальный идентификатор, неизменяемый
	Email           string           `json:"email"`                 // Email, ключ поиска, один пользователь на адрес
	Name            string           `json:"name"`                  // Отображаемое имя
	Phone           string           `json:"phone,omitempty"`       // Телефон (опционально)
	DateOfBirth     string           `json:"dateOfBirth,omitempty"` // Дата рождения (опционально)
	Gender          Gender           `json:"gender,omitempty"`      // Пол (опционально)
	CreatedAt       time.Time        `json:"createdAt"`             // Момент регистрации, неизменяемый
	LastLoginAt     time.Time        `json:"lastLoginAt"`           // Обновляется при каждом входе и восстановлении сессии
	IsEmailVerified bool             `json:"isEmailVerified"`       // Подтверждён ли email
	IsPhoneVerified bool             `json:"isPhoneVerified"`       // Подтверждён ли телефон
	Preferences     UserPreferences  `json:"preferences"`           // Настройки приложения
	Subscription    UserSubscription `json:"subscription"`          // Проекция состояния подписки, только для чтения
	SelectedHabits  []string         `json:"selectedHabits"`        // Идентификаторы отслеживаемых привычек
}

// UserPreferences настройки приложения, задаются при регистрации.
type UserPreferences struct {
	Language      string            `json:"language"` // "ar" или "en"
	Theme         string            `json:"theme"`    // "light", "dark" или "auto"
	Notifications NotificationPrefs `json:"notifications"`
	Privacy       PrivacyPrefs      `json:"privacy"`
}

// NotificationPrefs флаги каналов уведомлений.
type NotificationPrefs struct {
	Email        bool `json:"email"`
	Push         bool `json:"push"`
	Habits       bool `json:"habits"`
	Achievements bool `json:"achievements"`
	Reminders    bool `json:"reminders"`
}

// PrivacyPrefs флаги приватности профиля.
type PrivacyPrefs struct {
	ProfileVisibility   string `json:"profileVisibility"` // "public", "friends" или "private"
	ShowProgress        bool   `json:"showProgress"`
	AllowFriendRequests bool   `json:"allowFriendRequests"`
}

// UserSubscription встроенная проекция состояния подписки на записи
// пользователя. Источник истины — сервис entitlement; эта структура
// заполняется при чтении и никогда не пишется обратно.
type UserSubscription struct {
	PlanID       *string    `json:"planId"`
	PlanName     *string    `json:"planName"`
	IsActive     bool       `json:"isActive"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	Features     []string   `json:"features"`
	TrialUsed    bool       `json:"trialUsed"`
	TrialEndDate *time.Time `json:"trialEndDate"`
}

// DefaultPreferences возвращает настройки, присваиваемые новому пользователю.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Language: "ar",
		Theme:    "auto",
		Notifications: NotificationPrefs{
			Email:        true,
			Push:         true,
			Habits:       true,
			Achievements: true,
			Reminders:    true,
		},
		Privacy: PrivacyPrefs{
			ProfileVisibility:   "private",
			ShowProgress:        true,
			AllowFriendRequests: true,
		},
	}
}

// UserUpdate частичное обновление профиля. Заполненные поля затирают
// соответствующие поля записи; id, email и createdAt не обновляются.
type UserUpdate struct {
	Name           *string          `json:"name,omitempty"`
	Phone          *string          `json:"phone,omitempty"`
	DateOfBirth    *string          `json:"dateOfBirth,omitempty"`
	Gender         *Gender          `json:"gender,omitempty"`
	Preferences    *UserPreferences `json:"preferences,omitempty"`
	SelectedHabits *[]string        `json:"selectedHabits,omitempty"`
}
