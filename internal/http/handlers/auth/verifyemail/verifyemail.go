// Package verifyemail реализует HTTP-обработчики подтверждения email:
// отправку кода подтверждения и проверку введенного кода.
package verifyemail

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

// SendRequest — входные данные запроса кода подтверждения.
type SendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ConfirmRequest — входные данные проверки кода подтверждения.
type ConfirmRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// Service описывает интерфейс сервиса идентификации для подтверждения email.
type Service interface {
	SendVerificationCode(ctx context.Context, email string) *models.AuthResult
	VerifyEmail(ctx context.Context, email, code string) *models.AuthResult
}

// SendHandler отправляет код подтверждения на email пользователя.
type SendHandler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

func NewSend(log *slog.Logger, auth Service) *SendHandler {
	return &SendHandler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

func (h *SendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verifyemail.send"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req SendRequest
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

	result := h.auth.SendVerificationCode(r.Context(), req.Email)
	if !result.Success {
		log.Error("failed to send verification code", sl.Email(req.Email))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(result.Message))
		return
	}
	log.Info("verification code issued", sl.Email(req.Email))

	render.JSON(w, r, response.StatusOKWithData(result))
}

// ConfirmHandler проверяет код и помечает email подтвержденным.
type ConfirmHandler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

func NewConfirm(log *slog.Logger, auth Service) *ConfirmHandler {
	return &ConfirmHandler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

func (h *ConfirmHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verifyemail.confirm"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req ConfirmRequest
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

	result := h.auth.VerifyEmail(r.Context(), req.Email, req.Code)
	if !result.Success {
		log.Error("email verification failed", sl.Email(req.Email), slog.String("reason", result.Message))
		if errors.Is(result.Err, authservice.ErrInvalidCode) {
			render.Status(r, http.StatusUnprocessableEntity)
		} else {
			render.Status(r, http.StatusInternalServerError)
		}
		render.JSON(w, r, response.Error(result.Message))
		return
	}
	log.Info("email verified", sl.Email(req.Email))

	render.JSON(w, r, response.StatusOKWithData(result))
}
