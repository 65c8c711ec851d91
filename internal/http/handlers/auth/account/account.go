// Package account реализует HTTP-обработчики профиля текущего пользователя:
// чтение учетной записи и обновление ее полей.
//
// В отдаваемую запись подмешивается проекция состояния подписки — запись
// пользователя сама по себе хранит только данные профиля.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/khatoa-app/khatoa/internal/http/response"
	"github.com/khatoa-app/khatoa/internal/lib/sl"
	"github.com/khatoa-app/khatoa/internal/models"
	authservice "github.com/khatoa-app/khatoa/internal/services/auth"
)

// AuthService описывает интерфейс сервиса идентификации для работы с профилем.
type AuthService interface {
	CurrentUser() *models.User
	UpdateUser(ctx context.Context, upd models.UserUpdate) *models.AuthResult
}

// EntitlementService отдает проекцию состояния подписки для записи пользователя.
type EntitlementService interface {
	Projection(ctx context.Context) models.UserSubscription
}

// GetHandler возвращает профиль текущего пользователя.
type GetHandler struct {
	log          *slog.Logger
	auth         AuthService
	entitlements EntitlementService
}

func NewGet(log *slog.Logger, auth AuthService, entitlements EntitlementService) *GetHandler {
	return &GetHandler{log: log, auth: auth, entitlements: entitlements}
}

func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.account.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user := h.auth.CurrentUser()
	if user == nil {
		log.Error("no active session")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("not authenticated"))
		return
	}

	user.Subscription = h.entitlements.Projection(r.Context())

	render.JSON(w, r, response.StatusOKWithData(user))
}

// UpdateHandler обновляет поля профиля текущего пользователя.
// Отсутствующие в теле запроса поля не изменяются.
type UpdateHandler struct {
	log  *slog.Logger
	auth AuthService
}

func NewUpdate(log *slog.Logger, auth AuthService) *UpdateHandler {
	return &UpdateHandler{log: log, auth: auth}
}

func (h *UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.account.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var upd models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	result := h.auth.UpdateUser(r.Context(), upd)
	if !result.Success {
		log.Error("profile update failed", slog.String("reason", result.Message))
		if errors.Is(result.Err, authservice.ErrNotAuthenticated) {
			render.Status(r, http.StatusUnauthorized)
		} else {
			render.Status(r, http.StatusInternalServerError)
		}
		render.JSON(w, r, response.Error(result.Message))
		return
	}
	log.Info("profile updated", slog.String("user_id", result.User.ID))

	render.JSON(w, r, response.StatusOKWithData(result))
}
