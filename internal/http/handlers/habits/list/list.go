// Package list реализует HTTP-обработчик каталога доступных привычек.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/khatoa-app/khatoa/internal/http/response"
	"github.com/khatoa-app/khatoa/internal/models"
)

// Service описывает интерфейс сервиса привычек для чтения каталога.
type Service interface {
	Catalog() []models.Habit
}

type Handler struct {
	log    *slog.Logger
	habits Service
}

func New(log *slog.Logger, habits Service) *Handler {
	return &Handler{log: log, habits: habits}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.habits.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	catalog := h.habits.Catalog()
	log.Info("habit catalog read", slog.Int("count", len(catalog)))

	render.JSON(w, r, response.StatusOKWithData(catalog))
}
