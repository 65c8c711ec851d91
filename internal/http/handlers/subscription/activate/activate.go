// Package activate реализует HTTP-обработчик оформления платной подписки.
//
// Сначала проводится платеж через платежный шлюз, и только при успешном
// списании активируется тариф. Повторная активация перезаписывает текущий
// план без суммирования сроков.
package activate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/khatoa-app/khatoa/internal/http/middlewarectx"
	"github.com/khatoa-app/khatoa/internal/http/response"
	"github.com/khatoa-app/khatoa/internal/lib/sl"
	"github.com/khatoa-app/khatoa/internal/models"
	"github.com/khatoa-app/khatoa/internal/paymentprovider"
)

// Request — входные данные оформления подписки.
type Request struct {
	PlanID string `json:"planId" validate:"required,oneof=monthly yearly lifetime"`
}

// Service описывает интерфейс сервиса подписок для активации тарифа.
type Service interface {
	PlanByID(planID string) (models.Plan, bool)
	ActivateSubscription(ctx context.Context, planID string) bool
	Status(ctx context.Context) models.SubscriptionStatus
}

type Handler struct {
	log          *slog.Logger
	entitlements Service
	payments     paymentprovider.Processor
	validate     *validator.Validate
}

func New(log *slog.Logger, entitlements Service, payments paymentprovider.Processor) *Handler {
	return &Handler{
		log:          log,
		entitlements: entitlements,
		payments:     payments,
		validate:     validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.activate"

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

	plan, ok := h.entitlements.PlanByID(req.PlanID)
	if !ok {
		log.Error("unknown plan", slog.String("plan_id", req.PlanID))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("unknown plan"))
		return
	}

	userID, _ := middlewarectx.UserIDFromContext(r.Context())
	charge, err := h.payments.Charge(r.Context(), paymentprovider.ChargeRequest{
		UserID:      userID,
		PlanID:      plan.ID,
		Amount:      float64(plan.Price),
		Description: plan.Name,
	})
	if err != nil || !charge.Success {
		log.Error("payment failed", sl.Err(err), slog.String("plan_id", plan.ID))
		render.Status(r, http.StatusPaymentRequired)
		render.JSON(w, r, response.Error("payment failed"))
		return
	}
	log.Info("payment processed", slog.String("reference_id", charge.ReferenceID))

	if !h.entitlements.ActivateSubscription(r.Context(), plan.ID) {
		log.Error("failed to activate subscription", slog.String("plan_id", plan.ID))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to activate subscription"))
		return
	}
	log.Info("subscription activated", slog.String("plan_id", plan.ID))

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment": charge,
		"status":  h.entitlements.Status(r.Context()),
	}))
}
