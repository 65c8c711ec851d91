// Package status реализует HTTP-обработчик получения текущего состояния подписки.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/khatoa-app/khatoa/internal/http/response"
	"github.com/khatoa-app/khatoa/internal/models"
)

// Service описывает интерфейс сервиса подписок для чтения состояния.
type Service interface {
	Status(ctx context.Context) models.SubscriptionStatus
	AvailableFeatures(ctx context.Context) []string
	IsExpiringSoon(ctx context.Context) bool
}

type Handler struct {
	log          *slog.Logger
	entitlements Service
}

func New(log *slog.Logger, entitlements Service) *Handler {
	return &Handler{log: log, entitlements: entitlements}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	st := h.entitlements.Status(r.Context())
	log.Info("subscription status read",
		slog.Bool("is_premium", st.IsPremium),
		slog.Bool("is_trial", st.IsTrial))

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":         st,
		"features":       h.entitlements.AvailableFeatures(r.Context()),
		"isExpiringSoon": h.entitlements.IsExpiringSoon(r.Context()),
	}))
}
