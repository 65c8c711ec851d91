package models

// RegisterData входные данные регистрации нового пользователя.
type RegisterData struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	DateOfBirth     string
	Gender          Gender
	AgreeToTerms    bool
}

// Credentials пара email/пароль для входа.
type Credentials struct {
	Email      string
	Password   string
	RememberMe bool
}

// ChangePasswordData данные смены пароля активной сессии.
type ChangePasswordData struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// AuthResult структурированный результат операции сервиса идентификации.
// Сервис никогда не возвращает ошибку наружу: любой исход упакован сюда.
// Err хранит ошибку из таксономии сервиса для программной проверки,
// в JSON не сериализуется — клиенту показывается только Message.
type AuthResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	User              *User  `json:"user,omitempty"`
	Token             string `json:"token,omitempty"`
	GeneratedPassword string `json:"generatedPassword,omitempty"`
	Err               error  `json:"-"`
}
