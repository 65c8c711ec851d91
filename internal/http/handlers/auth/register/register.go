// Package register реализует HTTP-обработчик регистрации нового пользователя.
//
// Handler валидирует входные данные, вызывает сервис идентификации и
// возвращает созданного пользователя вместе с сессионным токеном.
package register

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

// Request — входные данные для регистрации.
type Request struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Phone           string `json:"phone"`
	DateOfBirth     string `json:"dateOfBirth"`
	Gender          string `json:"gender"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
}

// Service описывает интерфейс сервиса идентификации для регистрации.
type Service interface {
	Register(ctx context.Context, data models.RegisterData) *models.AuthResult
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
	const op = "handlers.auth.register"

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
	log.Info("request body decoded", sl.Email(req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result := h.auth.Register(r.Context(), models.RegisterData{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Phone:           req.Phone,
		DateOfBirth:     req.DateOfBirth,
		Gender:          models.Gender(req.Gender),
		AgreeToTerms:    req.AgreeToTerms,
	})
	if !result.Success {
		log.Error("registration failed", slog.String("reason", result.Message))
		render.Status(r, statusFor(result.Err))
		render.JSON(w, r, response.Error(result.Message))
		return
	}
	log.Info("user registered", slog.String("user_id", result.User.ID))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(result))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, authservice.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, authservice.ErrDuplicateEmail):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
