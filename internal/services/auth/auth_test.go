package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khatoa-app/khatoa/internal/kvstore"
	"github.com/khatoa-app/khatoa/internal/lib/token"
	"github.com/khatoa-app/khatoa/internal/models"
)

// recordingSender запоминает последний отправленный код вместо доставки.
type recordingSender struct {
	to      string
	subject string
	code    string
}

func (r *recordingSender) SendCode(to, subject, code string) error {
	r.to, r.subject, r.code = to, subject, code
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(t *testing.T) (*Service, *kvstore.Memory, *recordingSender) {
	t.Helper()
	store := kvstore.NewMemory()
	sender := &recordingSender{}
	maker := token.NewMaker("test_secret_key_1234567890", time.Hour)
	return New(store, maker, sender, newNoopLogger()), store, sender
}

func validRegistration() models.RegisterData {
	return models.RegisterData{
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		AgreeToTerms:    true,
	}
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	res := svc.Register(ctx, validRegistration())
	require.True(t, res.Success)
	require.NotNil(t, res.User)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, "ar", res.User.Preferences.Language)
	assert.False(t, res.User.Subscription.IsActive)
	assert.Empty(t, res.User.SelectedHabits)

	assert.True(t, svc.IsAuthenticated())

	// Сессия и коллекция сохранены
	var cached models.User
	found, err := store.Get(ctx, kvstore.KeyCurrentUser, &cached)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, res.User.ID, cached.ID)

	var users []models.User
	found, err = store.Get(ctx, kvstore.KeyAllUsers, &users)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, users, 1)

	// Пароль хранится хэшем, не открытым текстом
	var storedSecret string
	found, err = store.Get(ctx, kvstore.PasswordKey("alice@example.com"), &storedSecret)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotEqual(t, "secret1", storedSecret)
}

func TestRegister_ValidationOrder(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*models.RegisterData)
		wantMessage string
	}{
		{
			name:        "missing name",
			mutate:      func(d *models.RegisterData) { d.Name = "  " },
			wantMessage: "name is required",
		},
		{
			name:        "missing email",
			mutate:      func(d *models.RegisterData) { d.Email = "" },
			wantMessage: "email is required",
		},
		{
			name:        "malformed email",
			mutate:      func(d *models.RegisterData) { d.Email = "not-an-email" },
			wantMessage: "invalid email address",
		},
		{
			name:        "short password",
			mutate:      func(d *models.RegisterData) { d.Password, d.ConfirmPassword = "12345", "12345" },
			wantMessage: "password must be at least 6 characters",
		},
		{
			name:        "password mismatch",
			mutate:      func(d *models.RegisterData) { d.ConfirmPassword = "different" },
			wantMessage: "passwords do not match",
		},
		{
			name:        "terms not accepted",
			mutate:      func(d *models.RegisterData) { d.AgreeToTerms = false },
			wantMessage: "you must agree to the terms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			data := validRegistration()
			tt.mutate(&data)

			res := svc.Register(context.Background(), data)
			assert.False(t, res.Success)
			assert.ErrorIs(t, res.Err, ErrValidation)
			assert.Equal(t, tt.wantMessage, res.Message)
			assert.False(t, svc.IsAuthenticated())
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	first := svc.Register(ctx, validRegistration())
	require.True(t, first.Success)

	// Повтор с другим регистром адреса тоже конфликт
	again := validRegistration()
	again.Email = "Alice@Example.COM"
	again.Name = "Impostor"
	res := svc.Register(ctx, again)

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrDuplicateEmail)

	// Первая запись не изменилась
	var users []models.User
	_, err := store.Get(ctx, kvstore.KeyAllUsers, &users)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, first.User.ID, users[0].ID)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	require.True(t, svc.Register(ctx, validRegistration()).Success)
	svc.Logout(ctx)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "unknown email", email: "bob@example.com", password: "secret1", wantErr: ErrEmailNotFound},
		{name: "wrong password", email: "alice@example.com", password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "success", email: "alice@example.com", password: "secret1"},
		{name: "success with different case", email: "ALICE@example.com", password: "secret1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.Login(ctx, models.Credentials{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.False(t, res.Success)
				assert.ErrorIs(t, res.Err, tt.wantErr)
				return
			}
			require.True(t, res.Success)
			assert.NotEmpty(t, res.Token)
			assert.Equal(t, "alice@example.com", res.User.Email)
			assert.True(t, svc.IsAuthenticated())
		})
	}
}

func TestLogin_RememberMe(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	require.True(t, svc.Register(ctx, validRegistration()).Success)
	svc.Logout(ctx)

	res := svc.Login(ctx, models.Credentials{Email: "alice@example.com", Password: "secret1", RememberMe: true})
	require.True(t, res.Success)

	var flag string
	found, err := store.Get(ctx, kvstore.KeyRememberMe, &flag)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "true", flag)
}

func TestLogout_ClearsSession(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	require.True(t, svc.Register(ctx, validRegistration()).Success)

	res := svc.Logout(ctx)
	assert.True(t, res.Success)
	assert.False(t, svc.IsAuthenticated())
	assert.Nil(t, svc.CurrentUser())

	for _, key := range []string{kvstore.KeyCurrentUser, kvstore.KeySessionToken, kvstore.KeyRememberMe} {
		var raw any
		found, err := store.Get(ctx, key, &raw)
		require.NoError(t, err)
		assert.False(t, found, key)
	}
}

func TestRestore_SessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, store, sender := newTestService(t)
	require.True(t, svc.Register(ctx, validRegistration()).Success)

	// Новый процесс поверх того же хранилища
	maker := token.NewMaker("test_secret_key_1234567890", time.Hour)
	restored := New(store, maker, sender, newNoopLogger())
	restored.Restore(ctx)

	assert.True(t, restored.IsAuthenticated())
	require.NotNil(t, restored.CurrentUser())
	assert.Equal(t, "alice@example.com", restored.CurrentUser().Email)
}

func TestRestore_CorruptStateIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	store.SetRaw(kvstore.KeyCurrentUser, []byte("{corrupt"))
	require.NoError(t, store.Set(ctx, kvstore.KeySessionToken, "some-token"))

	maker := token.NewMaker("test_secret_key_1234567890", time.Hour)
	svc := New(store, maker, &recordingSender{}, newNoopLogger())
	svc.Restore(ctx)

	assert.False(t, svc.IsAuthenticated())

	// Испорченная пара удалена из хранилища
	var tok string
	found, err := store.Get(ctx, kvstore.KeySessionToken, &tok)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	res := svc.ChangePassword(ctx, models.ChangePasswordData{})
	assert.ErrorIs(t, res.Err, ErrNotAuthenticated)

	reg := svc.Register(ctx, validRegistration())
	require.True(t, reg.Success)

	res = svc.ChangePassword(ctx, models.ChangePasswordData{
		CurrentPassword: "wrong", NewPassword: "newsecret", ConfirmPassword: "newsecret",
	})
	assert.ErrorIs(t, res.Err, ErrInvalidCredentials)

	res = svc.ChangePassword(ctx, models.ChangePasswordData{
		CurrentPassword: "secret1", NewPassword: "newsecret", ConfirmPassword: "other",
	})
	assert.ErrorIs(t, res.Err, ErrValidation)

	res = svc.ChangePassword(ctx, models.ChangePasswordData{
		CurrentPassword: "secret1", NewPassword: "newsecret", ConfirmPassword: "newsecret",
	})
	require.True(t, res.Success)

	// Идентичность записи не изменилась
	user := svc.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, reg.User.ID, user.ID)
	assert.Equal(t, reg.User.Email, user.Email)
	assert.Equal(t, reg.User.CreatedAt, user.CreatedAt)

	// Старый пароль больше не подходит, новый работает
	svc.Logout(ctx)
	assert.ErrorIs(t, svc.Login(ctx, models.Credentials{Email: "alice@example.com", Password: "secret1"}).Err, ErrInvalidCredentials)
	assert.True(t, svc.Login(ctx, models.Credentials{Email: "alice@example.com", Password: "newsecret"}).Success)
}

func TestResetPasswordFlow(t *testing.T) {
	ctx := context.Background()
	svc, store, sender := newTestService(t)
	require.True(t, svc.Register(ctx, validRegistration()).Success)
	svc.Logout(ctx)

	res := svc.ResetPassword(ctx, "bob@example.com")
	assert.ErrorIs(t, res.Err, ErrEmailNotFound)

	res = svc.ResetPassword(ctx, "alice@example.com")
	require.True(t, res.Success)
	require.NotEmpty(t, sender.code)
	assert.Equal(t, "alice@example.com", sender.to)
	// Код не попадает в результат операции
	assert.Empty(t, res.GeneratedPassword)

	res = svc.CompleteReset(ctx, "alice@example.com", "WRONG1")
	assert.ErrorIs(t, res.Err, ErrInvalidCode)

	// Сверка кода без учета регистра
	res = svc.CompleteReset(ctx, "alice@example.com", sender.code)
	require.True(t, res.Success)
	require.NotEmpty(t, res.GeneratedPassword)

	// Код одноразовый
	var leftover string
	found, err := store.Get(ctx, kvstore.ResetCodeKey("alice@example.com"), &leftover)
	require.NoError(t, err)
	assert.False(t, found)

	// Новый сгенерированный пароль действует
	login := svc.Login(ctx, models.Credentials{Email: "alice@example.com", Password: res.GeneratedPassword})
	assert.True(t, login.Success)
}

func TestVerifyEmailFlow(t *testing.T) {
	ctx := context.Background()
	svc, _, sender := newTestService(t)
	require.True(t, svc.Register(ctx, validRegistration()).Success)

	res := svc.SendVerificationCode(ctx, "alice@example.com")
	require.True(t, res.Success)
	require.NotEmpty(t, sender.code)

	res = svc.VerifyEmail(ctx, "alice@example.com", "000000")
	if sender.code != "000000" {
		assert.ErrorIs(t, res.Err, ErrInvalidCode)
	}

	res = svc.VerifyEmail(ctx, "alice@example.com", sender.code)
	require.True(t, res.Success)
	assert.True(t, svc.CurrentUser().IsEmailVerified)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	res := svc.UpdateUser(ctx, models.UserUpdate{})
	assert.ErrorIs(t, res.Err, ErrNotAuthenticated)

	reg := svc.Register(ctx, validRegistration())
	require.True(t, reg.Success)

	newName := "Alice Updated"
	habits := []string{"reading", "water"}
	res = svc.UpdateUser(ctx, models.UserUpdate{Name: &newName, SelectedHabits: &habits})
	require.True(t, res.Success)
	assert.Equal(t, "Alice Updated", res.User.Name)
	assert.Equal(t, habits, res.User.SelectedHabits)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.Equal(t, reg.User.CreatedAt, res.User.CreatedAt)

	// Обновление видно в общей коллекции
	var users []models.User
	_, err := store.Get(ctx, kvstore.KeyAllUsers, &users)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice Updated", users[0].Name)
}

func TestValidateSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	reg := svc.Register(ctx, validRegistration())
	require.True(t, reg.Success)

	user, err := svc.ValidateSession(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = svc.ValidateSession("not-a-token")
	assert.Error(t, err)

	svc.Logout(ctx)
	_, err = svc.ValidateSession(reg.Token)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
