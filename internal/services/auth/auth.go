// Package auth содержит логику бизнес-уровня для работы с пользователями,
// сессиями и учетными данными.
//
// Сервис владеет единственной истиной о том, "кто сейчас вошел": пара
// (запись пользователя, токен) кэшируется в памяти и дублируется в хранилище,
// при старте процесса сессия восстанавливается из хранилища. Испорченные
// данные сессии молча отбрасываются — пользователь просто оказывается
// разлогинен.
package auth

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/khatoa-app/khatoa/internal/kvstore"
	"github.com/khatoa-app/khatoa/internal/lib/codes"
	"github.com/khatoa-app/khatoa/internal/lib/email"
	"github.com/khatoa-app/khatoa/internal/lib/password"
	"github.com/khatoa-app/khatoa/internal/lib/sl"
	"github.com/khatoa-app/khatoa/internal/lib/token"
	"github.com/khatoa-app/khatoa/internal/models"
)

// MinPasswordLength минимальная длина пароля при регистрации.
const MinPasswordLength = 6

// Service отвечает за регистрацию, вход, сессию и операции с учетными данными.
type Service struct {
	store    kvstore.Store
	tokens   token.Maker
	mail     email.Sender
	validate *validator.Validate
	log      *slog.Logger

	mu          sync.RWMutex
	currentUser *models.User
	authToken   string
}

// New создает новый экземпляр Service.
func New(store kvstore.Store, tokens token.Maker, mail email.Sender, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		mail:     mail,
		validate: validator.New(),
		log:      log,
	}
}

// Restore восстанавливает сессию из хранилища при старте процесса.
// Валидная пара (пользователь, токен) делает сессию активной и обновляет
// lastLoginAt; отсутствующая или испорченная пара оставляет состояние
// "не вошел" без ошибки.
func (s *Service) Restore(ctx context.Context) {
	const op = "auth.Restore"

	var user models.User
	foundUser, errUser := s.store.Get(ctx, kvstore.KeyCurrentUser, &user)
	var tok string
	foundToken, errToken := s.store.Get(ctx, kvstore.KeySessionToken, &tok)

	if errUser != nil || errToken != nil {
		if errUser != nil {
			s.log.Warn("discarding corrupt session state", slog.String("op", op), sl.Err(errUser))
		} else {
			s.log.Warn("discarding corrupt session state", slog.String("op", op), sl.Err(errToken))
		}
		s.clearSession(ctx)
		return
	}
	if !foundUser || !foundToken {
		return
	}

	user.LastLoginAt = time.Now().UTC()

	s.mu.Lock()
	s.currentUser = &user
	s.authToken = tok
	s.mu.Unlock()

	if err := s.persistSession(ctx); err != nil {
		s.log.Error("failed to persist restored session", slog.String("op", op), sl.Err(err))
	}
	s.log.Info("session restored", slog.String("op", op), sl.Email(user.Email))
}

// Register создает нового пользователя, сохраняет хэш пароля и открывает сессию.
//
// Проверки выполняются по порядку, первая неудавшаяся определяет результат:
// имя, email, форма email, длина пароля, совпадение паролей, согласие с
// условиями, уникальность email.
func (s *Service) Register(ctx context.Context, data models.RegisterData) *models.AuthResult {
	const op = "auth.Register"

	if res := s.validateRegistration(&data); res != nil {
		return res
	}
	data.Email = normalizeEmail(data.Email)

	users, err := s.savedUsers(ctx)
	if err != nil {
		return s.unexpected(op, err)
	}
	for i := range users {
		if users[i].Email == data.Email {
			return fail(ErrDuplicateEmail, "email is already registered")
		}
	}

	hash, err := password.GetHash(data.Password)
	if err != nil {
		return s.unexpected(op, err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:             "user_" + uuid.NewString(),
		Email:          data.Email,
		Name:           strings.TrimSpace(data.Name),
		Phone:          data.Phone,
		DateOfBirth:    data.DateOfBirth,
		Gender:         data.Gender,
		CreatedAt:      now,
		LastLoginAt:    now,
		Preferences:    models.DefaultPreferences(),
		Subscription:   models.UserSubscription{Features: []string{}},
		SelectedHabits: []string{},
	}

	users = append(users, user)
	if err = s.store.Set(ctx, kvstore.KeyAllUsers, users); err != nil {
		return s.unexpected(op, err)
	}
	if err = s.store.Set(ctx, kvstore.PasswordKey(data.Email), hash); err != nil {
		return s.unexpected(op, err)
	}

	tok, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return s.unexpected(op, err)
	}

	s.mu.Lock()
	s.currentUser = &user
	s.authToken = tok
	s.mu.Unlock()

	if err = s.persistSession(ctx); err != nil {
		return s.unexpected(op, err)
	}

	s.log.Info("user registered", slog.String("op", op), sl.Email(user.Email))
	return &models.AuthResult{
		Success: true,
		Message: "account created successfully",
		User:    &user,
		Token:   tok,
	}
}

// Login проверяет пару email/пароль и открывает сессию.
// Неизвестный email и неверный пароль различаются видом отказа.
func (s *Service) Login(ctx context.Context, creds models.Credentials) *models.AuthResult {
	const op = "auth.Login"

	addr := normalizeEmail(creds.Email)

	users, err := s.savedUsers(ctx)
	if err != nil {
		return s.unexpected(op, err)
	}
	idx := -1
	for i := range users {
		if users[i].Email == addr {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fail(ErrEmailNotFound, "email is not registered")
	}

	var hash string
	found, err := s.store.Get(ctx, kvstore.PasswordKey(addr), &hash)
	if err != nil {
		return s.unexpected(op, err)
	}
	if !found || password.CompareHash(hash, creds.Password) != nil {
		return fail(ErrInvalidCredentials, "incorrect password")
	}

	users[idx].LastLoginAt = time.Now().UTC()
	if err = s.store.Set(ctx, kvstore.KeyAllUsers, users); err != nil {
		return s.unexpected(op, err)
	}

	user := users[idx]
	tok, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return s.unexpected(op, err)
	}

	s.mu.Lock()
	s.currentUser = &user
	s.authToken = tok
	s.mu.Unlock()

	if err = s.persistSession(ctx); err != nil {
		return s.unexpected(op, err)
	}
	if creds.RememberMe {
		if err = s.store.Set(ctx, kvstore.KeyRememberMe, "true"); err != nil {
			s.log.Error("failed to persist remember-me flag", slog.String("op", op), sl.Err(err))
		}
	}

	s.log.Info("login success", slog.String("op", op), sl.Email(user.Email))
	return &models.AuthResult{
		Success: true,
		Message: "login successful",
		User:    &user,
		Token:   tok,
	}
}

// Logout закрывает сессию. Локальное состояние очищается безусловно,
// ошибки хранилища только логируются.
func (s *Service) Logout(ctx context.Context) *models.AuthResult {
	const op = "auth.Logout"
	s.clearSession(ctx)
	s.log.Info("logged out", slog.String("op", op))
	return &models.AuthResult{Success: true, Message: "logged out"}
}

// ResetPassword генерирует код сброса и доставляет его через email.Sender.
// Сам код вызывающему не возвращается.
func (s *Service) ResetPassword(ctx context.Context, rawEmail string) *models.AuthResult {
	const op = "auth.ResetPassword"

	addr := normalizeEmail(rawEmail)
	if _, found, err := s.findUser(ctx, addr); err != nil {
		return s.unexpected(op, err)
	} else if !found {
		return fail(ErrEmailNotFound, "email is not registered")
	}

	code, err := codes.NewResetCode()
	if err != nil {
		return s.unexpected(op, err)
	}
	if err = s.store.Set(ctx, kvstore.ResetCodeKey(addr), code); err != nil {
		return s.unexpected(op, err)
	}
	if err = s.mail.SendCode(addr, "password reset code", code); err != nil {
		return s.unexpected(op, err)
	}

	s.log.Info("reset code issued", slog.String("op", op), sl.Email(addr))
	return &models.AuthResult{Success: true, Message: "reset code sent to your email"}
}

// CompleteReset сверяет код сброса (без учета регистра) и при совпадении
// выдает новый случайный пароль. Пароль возвращается вызывающему один раз,
// в хранилище попадает только его хэш.
func (s *Service) CompleteReset(ctx context.Context, rawEmail, code string) *models.AuthResult {
	const op = "auth.CompleteReset"

	addr := normalizeEmail(rawEmail)
	var stored string
	found, err := s.store.Get(ctx, kvstore.ResetCodeKey(addr), &stored)
	if err != nil {
		return s.unexpected(op, err)
	}
	if !found || !strings.EqualFold(stored, code) {
		return fail(ErrInvalidCode, "invalid reset code")
	}

	newPassword, err := codes.NewPassword()
	if err != nil {
		return s.unexpected(op, err)
	}
	hash, err := password.GetHash(newPassword)
	if err != nil {
		return s.unexpected(op, err)
	}
	if err = s.store.Set(ctx, kvstore.PasswordKey(addr), hash); err != nil {
		return s.unexpected(op, err)
	}
	if err = s.store.Delete(ctx, kvstore.ResetCodeKey(addr)); err != nil {
		return s.unexpected(op, err)
	}

	s.log.Info("password reset completed", slog.String("op", op), sl.Email(addr))
	return &models.AuthResult{
		Success:           true,
		Message:           "password has been reset",
		GeneratedPassword: newPassword,
	}
}

// ChangePassword меняет пароль активной сессии. Повторный вход не требуется.
func (s *Service) ChangePassword(ctx context.Context, data models.ChangePasswordData) *models.AuthResult {
	const op = "auth.ChangePassword"

	user := s.CurrentUser()
	if user == nil {
		return fail(ErrNotAuthenticated, "login required")
	}

	var hash string
	found, err := s.store.Get(ctx, kvstore.PasswordKey(user.Email), &hash)
	if err != nil {
		return s.unexpected(op, err)
	}
	if !found || password.CompareHash(hash, data.CurrentPassword) != nil {
		return fail(ErrInvalidCredentials, "current password is incorrect")
	}
	if data.NewPassword != data.ConfirmPassword {
		return fail(ErrValidation, "passwords do not match")
	}

	newHash, err := password.GetHash(data.NewPassword)
	if err != nil {
		return s.unexpected(op, err)
	}
	if err = s.store.Set(ctx, kvstore.PasswordKey(user.Email), newHash); err != nil {
		return s.unexpected(op, err)
	}

	s.log.Info("password changed", slog.String("op", op), sl.Email(user.Email))
	return &models.AuthResult{Success: true, Message: "password changed successfully"}
}

// SendVerificationCode генерирует цифровой код подтверждения email
// и доставляет его через email.Sender.
func (s *Service) SendVerificationCode(ctx context.Context, rawEmail string) *models.AuthResult {
	const op = "auth.SendVerificationCode"

	addr := normalizeEmail(rawEmail)
	code, err := codes.NewVerificationCode()
	if err != nil {
		return s.unexpected(op, err)
	}
	if err = s.store.Set(ctx, kvstore.VerificationCodeKey(addr), code); err != nil {
		return s.unexpected(op, err)
	}
	if err = s.mail.SendCode(addr, "verification code", code); err != nil {
		return s.unexpected(op, err)
	}

	return &models.AuthResult{Success: true, Message: "verification code sent to your email"}
}

// VerifyEmail сверяет код подтверждения и при совпадении помечает email
// подтвержденным, если он принадлежит активной сессии.
func (s *Service) VerifyEmail(ctx context.Context, rawEmail, code string) *models.AuthResult {
	const op = "auth.VerifyEmail"

	addr := normalizeEmail(rawEmail)
	var stored string
	found, err := s.store.Get(ctx, kvstore.VerificationCodeKey(addr), &stored)
	if err != nil {
		return s.unexpected(op, err)
	}
	if !found || stored != code {
		return fail(ErrInvalidCode, "invalid verification code")
	}

	s.mu.Lock()
	if s.currentUser != nil && s.currentUser.Email == addr {
		s.currentUser.IsEmailVerified = true
	}
	s.mu.Unlock()

	if user := s.CurrentUser(); user != nil && user.Email == addr {
		if err = s.persistSession(ctx); err != nil {
			return s.unexpected(op, err)
		}
		if err = s.updateInCollection(ctx, user); err != nil {
			return s.unexpected(op, err)
		}
	}
	if err = s.store.Delete(ctx, kvstore.VerificationCodeKey(addr)); err != nil {
		return s.unexpected(op, err)
	}

	s.log.Info("email verified", slog.String("op", op), sl.Email(addr))
	return &models.AuthResult{Success: true, Message: "email verified successfully"}
}

// UpdateUser сливает заполненные поля в запись активной сессии и сохраняет
// её и в кэше сессии, и в общей коллекции пользователей.
// id, email и createdAt не затрагиваются.
func (s *Service) UpdateUser(ctx context.Context, upd models.UserUpdate) *models.AuthResult {
	const op = "auth.UpdateUser"

	s.mu.Lock()
	if s.currentUser == nil {
		s.mu.Unlock()
		return fail(ErrNotAuthenticated, "login required")
	}
	if upd.Name != nil {
		s.currentUser.Name = *upd.Name
	}
	if upd.Phone != nil {
		s.currentUser.Phone = *upd.Phone
	}
	if upd.DateOfBirth != nil {
		s.currentUser.DateOfBirth = *upd.DateOfBirth
	}
	if upd.Gender != nil {
		s.currentUser.Gender = *upd.Gender
	}
	if upd.Preferences != nil {
		s.currentUser.Preferences = *upd.Preferences
	}
	if upd.SelectedHabits != nil {
		s.currentUser.SelectedHabits = *upd.SelectedHabits
	}
	merged := *s.currentUser
	s.mu.Unlock()

	if err := s.persistSession(ctx); err != nil {
		return s.unexpected(op, err)
	}
	if err := s.updateInCollection(ctx, &merged); err != nil {
		return s.unexpected(op, err)
	}

	return &models.AuthResult{
		Success: true,
		Message: "profile updated successfully",
		User:    &merged,
	}
}

// ValidateSession проверяет токен носителя: подпись, срок жизни и совпадение
// с токеном активной сессии. Возвращает запись пользователя сессии.
func (s *Service) ValidateSession(tok string) (*models.User, error) {
	const op = "auth.ValidateSession"

	if _, err := s.tokens.ParseToken(tok); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil || s.authToken == "" || s.authToken != tok {
		return nil, ErrNotAuthenticated
	}
	user := *s.currentUser
	return &user, nil
}

// CurrentUser возвращает копию записи пользователя активной сессии или nil.
func (s *Service) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return nil
	}
	user := *s.currentUser
	return &user
}

// IsAuthenticated истинно, когда в памяти есть и пользователь, и токен.
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser != nil && s.authToken != ""
}

func (s *Service) validateRegistration(data *models.RegisterData) *models.AuthResult {
	if strings.TrimSpace(data.Name) == "" {
		return fail(ErrValidation, "name is required")
	}
	if strings.TrimSpace(data.Email) == "" {
		return fail(ErrValidation, "email is required")
	}
	if err := s.validate.Var(normalizeEmail(data.Email), "email"); err != nil {
		return fail(ErrValidation, "invalid email address")
	}
	if len(data.Password) < MinPasswordLength {
		return fail(ErrValidation, "password must be at least 6 characters")
	}
	if data.Password != data.ConfirmPassword {
		return fail(ErrValidation, "passwords do not match")
	}
	if !data.AgreeToTerms {
		return fail(ErrValidation, "you must agree to the terms")
	}
	return nil
}

// savedUsers возвращает коллекцию всех пользователей; отсутствие ключа
// эквивалентно пустой коллекции.
func (s *Service) savedUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if _, err := s.store.Get(ctx, kvstore.KeyAllUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Service) findUser(ctx context.Context, email string) (*models.User, bool, error) {
	users, err := s.savedUsers(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], true, nil
		}
	}
	return nil, false, nil
}

func (s *Service) updateInCollection(ctx context.Context, user *models.User) error {
	users, err := s.savedUsers(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = *user
			break
		}
	}
	return s.store.Set(ctx, kvstore.KeyAllUsers, users)
}

func (s *Service) persistSession(ctx context.Context) error {
	s.mu.RLock()
	user := s.currentUser
	tok := s.authToken
	s.mu.RUnlock()
	if user == nil || tok == "" {
		return nil
	}
	if err := s.store.Set(ctx, kvstore.KeyCurrentUser, user); err != nil {
		return err
	}
	return s.store.Set(ctx, kvstore.KeySessionToken, tok)
}

func (s *Service) clearSession(ctx context.Context) {
	const op = "auth.clearSession"

	s.mu.Lock()
	s.currentUser = nil
	s.authToken = ""
	s.mu.Unlock()

	for _, key := range []string{kvstore.KeyCurrentUser, kvstore.KeySessionToken, kvstore.KeyRememberMe} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Error("failed to clear session key", slog.String("op", op), slog.String("key", key), sl.Err(err))
		}
	}
}

func (s *Service) unexpected(op string, err error) *models.AuthResult {
	s.log.Error("operation failed", slog.String("op", op), sl.Err(err))
	return fail(ErrUnexpected, "something went wrong, please try again")
}

func fail(err error, msg string) *models.AuthResult {
	return &models.AuthResult{Success: false, Message: msg, Err: err}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
