// Package featureaccess реализует HTTP-обработчик проверки доступа к платной
// функции. Для закрытой функции в ответ добавляется подсказка об апгрейде.
package featureaccess

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/khatoa-app/khatoa/internal/http/response"
	"github.com/khatoa-app/khatoa/internal/models"
	"github.com/khatoa-app/khatoa/internal/services/entitlement"
)

// Service описывает интерфейс сервиса подписок для проверки доступа к функции.
type Service interface {
	FeatureAccessWithTrial(ctx context.Context, featureID string) models.FeatureAccess
}

type Handler struct {
	log          *slog.Logger
	entitlements Service
}

func New(log *slog.Logger, entitlements Service) *Handler {
	return &Handler{log: log, entitlements: entitlements}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.featureaccess"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	featureID := chi.URLParam(r, "featureID")
	if featureID == "" {
		log.Error("missing feature id")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing feature id"))
		return
	}

	access := h.entitlements.FeatureAccessWithTrial(r.Context(), featureID)
	log.Info("feature access checked",
		slog.String("feature_id", featureID),
		slog.Bool("access", access.Access))

	data := map[string]any{
		"featureId": featureID,
		"access":    access,
	}
	if !access.Access {
		data["upgradeMessage"] = entitlement.UpgradeMessage(featureID)
	}

	render.JSON(w, r, response.StatusOKWithData(data))
}
