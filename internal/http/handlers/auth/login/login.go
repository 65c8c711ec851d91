// Package login реализует HTTP-обработчик входа пользователя по email и паролю.
package login

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

// Request — входные данные для входа.
type Request struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// Service описывает интерфейс сервиса идентификации для входа.
type Service interface {
	Login(ctx context.Context, creds models.Credentials) *models.AuthResult
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
	const op = "handlers.auth.login"

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

	result := h.auth.Login(r.Context(), models.Credentials{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if !result.Success {
		log.Error("login failed", sl.Email(req.Email), slog.String("reason", result.Message))
		render.Status(r, statusFor(result.Err))
		render.JSON(w, r, response.Error(result.Message))
		return
	}
	log.Info("user logged in", slog.String("user_id", result.User.ID))

	render.JSON(w, r, response.StatusOKWithData(result))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, authservice.ErrEmailNotFound):
		return http.StatusNotFound
	case errors.Is(err, authservice.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
