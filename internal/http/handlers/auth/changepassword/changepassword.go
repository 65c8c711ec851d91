// Package changepassword реализует HTTP-обработчик смены пароля активной сессии.
package changepassword

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

// Request — входные данные смены пароля.
type Request struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// Service описывает интерфейс сервиса идентификации для смены пароля.
type Service interface {
	ChangePassword(ctx context.Context, data models.ChangePasswordData) *models.AuthResult
}

type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.changepassword"

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

	result := h.auth.ChangePassword(r.Context(), models.ChangePasswordData{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if !result.Success {
		log.Error("password change failed", slog.String("reason", result.Message))
		switch {
		case errors.Is(result.Err, authservice.ErrNotAuthenticated):
			render.Status(r, http.StatusUnauthorized)
		case errors.Is(result.Err, authservice.ErrInvalidCredentials):
			render.Status(r, http.StatusForbidden)
		case errors.Is(result.Err, authservice.ErrValidation):
			render.Status(r, http.StatusUnprocessableEntity)
		default:
			render.Status(r, http.StatusInternalServerError)
		}
		render.JSON(w, r, response.Error(result.Message))
		return
	}
	log.Info("password changed")

	render.JSON(w, r, response.StatusOKWithData(result))
}
