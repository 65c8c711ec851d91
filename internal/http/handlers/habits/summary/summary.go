// Package summary реализует HTTP-обработчик сводки прогресса пользователя:
// очки, серия подряд и выполнение за сегодня по выбранным привычкам.
package summary

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/khatoa-app/khatoa/internal/http/middlewarectx"
	"github.com/khatoa-app/khatoa/internal/http/response"
	"github.com/khatoa-app/khatoa/internal/lib/sl"
	"github.com/khatoa-app/khatoa/internal/models"
)

// HabitsService описывает интерфейс сервиса привычек для построения сводки.
type HabitsService interface {
	Summary(ctx context.Context, userID string, selected []string) (models.HabitsSummary, error)
}

// AuthService отдает профиль текущего пользователя с его выбором привычек.
type AuthService interface {
	CurrentUser() *models.User
}

type Handler struct {
	log    *slog.Logger
	habits HabitsService
	auth   AuthService
}

func New(log *slog.Logger, habits HabitsService, auth AuthService) *Handler {
	return &Handler{log: log, habits: habits, auth: auth}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.habits.summary"

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

	var selected []string
	if user := h.auth.CurrentUser(); user != nil {
		selected = user.SelectedHabits
	}

	result, err := h.habits.Summary(r.Context(), userID, selected)
	if err != nil {
		log.Error("failed to build summary", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build summary"))
		return
	}
	log.Info("summary built",
		slog.Int("total_points", result.TotalPoints),
		slog.Int("streak", result.Streak))

	render.JSON(w, r, response.StatusOKWithData(result))
}
