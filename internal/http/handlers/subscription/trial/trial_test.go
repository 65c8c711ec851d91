package trial

import (
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
)

type EntitlementsMock struct {
	mock.Mock
}

func (m *EntitlementsMock) ActivateTrial(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *EntitlementsMock) Status(ctx context.Context) models.SubscriptionStatus {
	args := m.Called(ctx)
	return args.Get(0).(models.SubscriptionStatus)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestTrialHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		activated      bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "first activation succeeds",
			activated:      true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "repeated activation rejected",
			activated:      false,
			wantStatusCode: http.StatusConflict,
			wantError:      "trial already used",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents := new(EntitlementsMock)
			ents.On("ActivateTrial", mock.Anything).Return(tt.activated).Once()
			if tt.activated {
				ents.On("Status", mock.Anything).Return(models.SubscriptionStatus{
					IsTrial:  true,
					DaysLeft: models.DaysLeft{Days: 3},
				}).Once()
			}

			handler := New(newNoopLogger(), ents)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/subscription/trial", nil)
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
				assert.Equal(t, true, data["isTrial"])
			}

			ents.AssertExpectations(t)
		})
	}
}
