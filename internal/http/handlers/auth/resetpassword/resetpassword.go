// Package resetpassword реализует HTTP-обработчик запроса кода сброса пароля.
//
// Код отправляется на указанный email; ответ не раскрывает, существует
// ли такая учетная запись.
package resetpassword

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

// Request — входные данные запроса сброса пароля.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service описывает интерфейс сервиса идентификации для сброса пароля.
type Service interface {
	ResetPassword(ctx context.Context, email string) *models.AuthResult
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
	const op = "handlers.auth.resetpassword"

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

	result := h.auth.ResetPassword(r.Context(), req.Email)
	if !result.Success {
		log.Error("reset request failed", sl.Email(req.Email), slog.String("reason", result.Message))
		if errors.Is(result.Err, authservice.ErrEmailNotFound) {
			render.Status(r, http.StatusNotFound)
		} else {
			render.Status(r, http.StatusInternalServerError)
		}
		render.JSON(w, r, response.Error(result.Message))
		return
	}
	log.Info("reset code issued", sl.Email(req.Email))

	render.JSON(w, r, response.StatusOKWithData(result))
}
