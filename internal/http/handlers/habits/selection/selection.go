// Package selection реализует HTTP-обработчик выбора привычек пользователя.
//
// Список проверяется по каталогу и сохраняется в профиле текущего пользователя.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/khatoa-app/khatoa/internal/http/response"
	"github.com/khatoa-app/khatoa/internal/lib/sl"
	"github.com/khatoa-app/khatoa/internal/models"
	authservice "github.com/khatoa-app/khatoa/internal/services/auth"
)

// Request — входные данные выбора привычек.
type Request struct {
	HabitIDs []string `json:"habitIds" validate:"required"`
}

// HabitsService описывает интерфейс сервиса привычек для проверки выбора.
type HabitsService interface {
	ValidateSelection(ids []string) error
}

// AuthService описывает интерфейс сервиса идентификации для обновления профиля.
type AuthService interface {
	UpdateUser(ctx context.Context, upd models.UserUpdate) *models.AuthResult
}

type Handler struct {
	log      *slog.Logger
	habits   HabitsService
	auth     AuthService
	validate *validator.Validate
}

func New(log *slog.Logger, habits HabitsService, auth AuthService) *Handler {
	return &Handler{
		log:      log,
		habits:   habits,
		auth:     auth,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.habits.selection"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.habits.ValidateSelection(req.HabitIDs); err != nil {
		log.Error("unknown habit in selection", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	result := h.auth.UpdateUser(r.Context(), models.UserUpdate{
		SelectedHabits: &req.HabitIDs,
	})
	if !result.Success {
		log.Error("failed to save selection", slog.String("reason", result.Message))
		if errors.Is(result.Err, authservice.ErrNotAuthenticated) {
			render.Status(r, http.StatusUnauthorized)
		} else {
			render.Status(r, http.StatusInternalServerError)
		}
		render.JSON(w, r, response.Error(result.Message))
		return
	}
	log.Info("habit selection saved", slog.Int("count", len(req.HabitIDs)))

	render.JSON(w, r, response.StatusOKWithData(result))
}
