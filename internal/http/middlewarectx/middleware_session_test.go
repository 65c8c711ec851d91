package middlewarectx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/khatoa-app/khatoa/internal/models"
)

type SessionValidatorMock struct {
	mock.Mock
}

func (m *SessionValidatorMock) ValidateSession(token string) (*models.User, error) {
	args := m.Called(token)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSessionMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantNextCalled bool
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer token123",
			mockUser:       &models.User{ID: "user_1", Email: "sara@example.com"},
			wantStatusCode: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "missing header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer expired",
			mockErr:        errors.New("token has invalid claims"),
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(SessionValidatorMock)
			if tt.mockUser != nil || tt.mockErr != nil {
				sessions.On("ValidateSession", mock.Anything).Return(tt.mockUser, tt.mockErr).Once()
			}

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				uid, ok := UserIDFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, tt.mockUser.ID, uid)
				w.WriteHeader(http.StatusOK)
			})

			handler := SessionMiddleware(sessions, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			sessions.AssertExpectations(t)
		})
	}
}
