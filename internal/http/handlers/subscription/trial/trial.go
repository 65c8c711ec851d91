// Package trial реализует HTTP-обработчик активации пробного периода.
//
// Пробный период выдается один раз на хранилище: повторная активация
// отклоняется даже после его окончания.
package trial

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/khatoa-app/khatoa/internal/http/response"
	"github.com/khatoa-app/khatoa/internal/models"
)

// Service описывает интерфейс сервиса подписок для пробного периода.
type Service interface {
	ActivateTrial(ctx context.Context) bool
	Status(ctx context.Context) models.SubscriptionStatus
}

type Handler struct {
	log          *slog.Logger
	entitlements Service
}

func New(log *slog.Logger, entitlements Service) *Handler {
	return &Handler{log: log, entitlements: entitlements}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.trial"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if !h.entitlements.ActivateTrial(r.Context()) {
		log.Error("trial already used")
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("trial already used"))
		return
	}
	log.Info("trial activated")

	render.JSON(w, r, response.StatusOKWithData(h.entitlements.Status(r.Context())))
}
