// Package toggle реализует HTTP-обработчик отметки привычки за сегодня.
//
// Повторная отметка той же привычки снимает ее. В ответе — новое состояние.
package toggle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/khatoa-app/khatoa/internal/http/middlewarectx"
	"github.com/khatoa-app/khatoa/internal/http/response"
	"github.com/khatoa-app/khatoa/internal/lib/sl"
	"github.com/khatoa-app/khatoa/internal/services/habits"
)

// Service описывает интерфейс сервиса привычек для отметки выполнения.
type Service interface {
	ToggleToday(ctx context.Context, userID, habitID string) (bool, error)
}

type Handler struct {
	log    *slog.Logger
	habits Service
}

func New(log *slog.Logger, habits Service) *Handler {
	return &Handler{log: log, habits: habits}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.habits.toggle"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	habitID := chi.URLParam(r, "habitID")
	completed, err := h.habits.ToggleToday(r.Context(), userID, habitID)
	if err != nil {
		log.Error("failed to toggle habit", sl.Err(err), slog.String("habit_id", habitID))
		if errors.Is(err, habits.ErrUnknownHabit) {
			render.Status(r, http.StatusNotFound)
		} else {
			render.Status(r, http.StatusInternalServerError)
		}
		render.JSON(w, r, response.Error("failed to toggle habit"))
		return
	}
	log.Info("habit toggled", slog.String("habit_id", habitID), slog.Bool("completed", completed))

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"habitId":   habitID,
		"completed": completed,
	}))
}
