// Package cancel реализует HTTP-обработчик отмены платной подписки.
// Отмена не затрагивает состояние пробного периода.
package cancel

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/khatoa-app/khatoa/internal/http/response"
	"github.com/khatoa-app/khatoa/internal/lib/sl"
	"github.com/khatoa-app/khatoa/internal/models"
)

// Service описывает интерфейс сервиса подписок для отмены тарифа.
type Service interface {
	CancelSubscription(ctx context.Context) error
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
	const op = "handlers.subscription.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.entitlements.CancelSubscription(r.Context()); err != nil {
		log.Error("failed to cancel subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to cancel subscription"))
		return
	}
	log.Info("subscription cancelled")

	render.JSON(w, r, response.StatusOKWithData(h.entitlements.Status(r.Context())))
}
