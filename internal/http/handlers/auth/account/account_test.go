package account

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/khatoa-app/khatoa/internal/models"
	authservice "github.com/khatoa-app/khatoa/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) CurrentUser() *models.User {
	args := m.Called()
	if user := args.Get(0); user != nil {
		return user.(*models.User)
	}
	return nil
}

func (m *AuthServiceMock) UpdateUser(ctx context.Context, upd models.UserUpdate) *models.AuthResult {
	args := m.Called(ctx, upd)
	return args.Get(0).(*models.AuthResult)
}

type EntitlementsMock struct {
	mock.Mock
}

func (m *EntitlementsMock) Projection(ctx context.Context) models.UserSubscription {
	args := m.Called(ctx)
	return args.Get(0).(models.UserSubscription)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestGetHandler_ServeHTTP(t *testing.T) {
	planID := "monthly"
	planName := "الاشتراك الشهري"

	tests := []struct {
		name           string
		user           *models.User
		projection     models.UserSubscription
		wantStatusCode int
		wantError      string
	}{
		{
			name: "user with active plan",
			user: &models.User{ID: "user_1", Email: "sara@example.com", Name: "Sara"},
			projection: models.UserSubscription{
				PlanID:   &planID,
				PlanName: &planName,
				IsActive: true,
				Features: []string{"analytics", "social"},
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "user without subscription",
			user: &models.User{ID: "user_2", Email: "omar@example.com", Name: "Omar"},
			projection: models.UserSubscription{
				Features: []string{},
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "no active session",
			user:           nil,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "not authenticated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			ents := new(EntitlementsMock)

			authMock.On("CurrentUser").Return(tt.user).Once()
			if tt.user != nil {
				ents.On("Projection", mock.Anything).Return(tt.projection).Once()
			}

			handler := NewGet(newNoopLogger(), authMock, ents)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data := got["data"].(map[string]any)
				assert.Equal(t, tt.user.ID, data["id"])

				sub, ok := data["subscription"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.projection.IsActive, sub["isActive"])
				if tt.projection.PlanID != nil {
					assert.Equal(t, *tt.projection.PlanID, sub["planId"])
				} else {
					assert.Nil(t, sub["planId"])
				}
			}

			authMock.AssertExpectations(t)
			ents.AssertExpectations(t)
		})
	}
}

func TestUpdateHandler_ServeHTTP(t *testing.T) {
	name := "Sara Updated"

	tests := []struct {
		name           string
		requestBody    interface{}
		mockResult     *models.AuthResult
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "valid update",
			requestBody: models.UserUpdate{Name: &name},
			mockResult: &models.AuthResult{
				Success: true,
				Message: "تم تحديث الملف الشخصي",
				User:    &models.User{ID: "user_1", Name: name},
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json body",
			requestBody:    "{broken",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:        "no active session",
			requestBody: models.UserUpdate{Name: &name},
			mockResult: &models.AuthResult{
				Success: false,
				Message: "يجب تسجيل الدخول أولاً",
				Err:     authservice.ErrNotAuthenticated,
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "يجب تسجيل الدخول أولاً",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.mockResult != nil {
				authMock.On("UpdateUser", mock.Anything, mock.Anything).Return(tt.mockResult).Once()
			}

			handler := NewUpdate(newNoopLogger(), authMock)

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPut, "/api/v1/account", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data := got["data"].(map[string]any)
				user := data["user"].(map[string]any)
				assert.Equal(t, name, user["name"])
			}

			authMock.AssertExpectations(t)
		})
	}
}
