package featureaccess

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/khatoa-app/khatoa/internal/models"
)

type EntitlementsMock struct {
	mock.Mock
}

func (m *EntitlementsMock) FeatureAccessWithTrial(ctx context.Context, featureID string) models.FeatureAccess {
	args := m.Called(ctx, featureID)
	return args.Get(0).(models.FeatureAccess)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestFeatureAccessHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name               string
		featureID          string
		access             models.FeatureAccess
		wantStatusCode     int
		wantUpgradeMessage bool
	}{
		{
			name:           "feature unlocked by plan",
			featureID:      "analytics",
			access:         models.FeatureAccess{Access: true},
			wantStatusCode: http.StatusOK,
		},
		{
			name:               "feature locked after trial",
			featureID:          "analytics",
			access:             models.FeatureAccess{Access: false, TrialEnded: true},
			wantStatusCode:     http.StatusOK,
			wantUpgradeMessage: true,
		},
		{
			name:               "unknown feature locked",
			featureID:          "teleport",
			access:             models.FeatureAccess{Access: false},
			wantStatusCode:     http.StatusOK,
			wantUpgradeMessage: true,
		},
		{
			name:           "missing feature id",
			featureID:      "",
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents := new(EntitlementsMock)
			if tt.featureID != "" {
				ents.On("FeatureAccessWithTrial", mock.Anything, tt.featureID).Return(tt.access).Once()
			}

			handler := New(newNoopLogger(), ents)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/features/"+tt.featureID+"/access", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("featureID", tt.featureID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantStatusCode != http.StatusOK {
				assert.Equal(t, "Error", got["status"])
				ents.AssertNotCalled(t, "FeatureAccessWithTrial", mock.Anything, mock.Anything)
				return
			}

			assert.Equal(t, "OK", got["status"])
			data := got["data"].(map[string]any)
			assert.Equal(t, tt.featureID, data["featureId"])

			access := data["access"].(map[string]any)
			assert.Equal(t, tt.access.Access, access["access"])
			assert.Equal(t, tt.access.TrialEnded, access["trialEnded"])

			if tt.wantUpgradeMessage {
				msg, ok := data["upgradeMessage"].(string)
				assert.True(t, ok)
				assert.NotEmpty(t, msg)
			} else {
				assert.Nil(t, data["upgradeMessage"])
			}

			ents.AssertExpectations(t)
		})
	}
}
