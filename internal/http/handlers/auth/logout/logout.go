// Package logout реализует HTTP-обработчик завершения сессии пользователя.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/khatoa-app/khatoa/internal/http/response"
	"github.com/khatoa-app/khatoa/internal/models"
)

// Service описывает интерфейс сервиса идентификации для выхода.
type Service interface {
	Logout(ctx context.Context) *models.AuthResult
}

type Handler struct {
	log  *slog.Logger
	auth Service
}

func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{log: log, auth: auth}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	result := h.auth.Logout(r.Context())
	log.Info("session cleared")

	render.JSON(w, r, response.StatusOKWithData(result))
}
