// Package plans реализует HTTP-обработчик списка доступных тарифов.
package plans

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/khatoa-app/khatoa/internal/http/response"
	"github.com/khatoa-app/khatoa/internal/models"
)

// Service описывает интерфейс сервиса подписок для чтения каталога тарифов.
type Service interface {
	Plans() []models.Plan
}

type Handler struct {
	log          *slog.Logger
	entitlements Service
}

func New(log *slog.Logger, entitlements Service) *Handler {
	return &Handler{log: log, entitlements: entitlements}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.plans"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans := h.entitlements.Plans()
	log.Info("plan catalog read", slog.Int("count", len(plans)))

	render.JSON(w, r, response.StatusOKWithData(plans))
}
