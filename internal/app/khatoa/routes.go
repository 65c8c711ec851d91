// Package khatoa предоставляет маршруты для основного приложения.
package khatoa

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/khatoa-app/khatoa/internal/http/handlers/auth/account"
	"github.com/khatoa-app/khatoa/internal/http/handlers/auth/changepassword"
	"github.com/khatoa-app/khatoa/internal/http/handlers/auth/login"
	"github.com/khatoa-app/khatoa/internal/http/handlers/auth/logout"
	"github.com/khatoa-app/khatoa/internal/http/handlers/auth/register"
	"github.com/khatoa-app/khatoa/internal/http/handlers/auth/resetpassword"
	"github.com/khatoa-app/khatoa/internal/http/handlers/auth/resetverify"
	"github.com/khatoa-app/khatoa/internal/http/handlers/auth/verifyemail"
	habitlist "github.com/khatoa-app/khatoa/internal/http/handlers/habits/list"
	"github.com/khatoa-app/khatoa/internal/http/handlers/habits/selection"
	"github.com/khatoa-app/khatoa/internal/http/handlers/habits/summary"
	"github.com/khatoa-app/khatoa/internal/http/handlers/habits/toggle"
	"github.com/khatoa-app/khatoa/internal/http/handlers/subscription/activate"
	"github.com/khatoa-app/khatoa/internal/http/handlers/subscription/cancel"
	"github.com/khatoa-app/khatoa/internal/http/handlers/subscription/featureaccess"
	"github.com/khatoa-app/khatoa/internal/http/handlers/subscription/plans"
	"github.com/khatoa-app/khatoa/internal/http/handlers/subscription/status"
	"github.com/khatoa-app/khatoa/internal/http/handlers/subscription/trial"
	"github.com/khatoa-app/khatoa/internal/http/middlewarectx"
	"github.com/khatoa-app/khatoa/internal/paymentprovider"
	authservice "github.com/khatoa-app/khatoa/internal/services/auth"
	"github.com/khatoa-app/khatoa/internal/services/entitlement"
	"github.com/khatoa-app/khatoa/internal/services/habits"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.Service, entitlementService *entitlement.Service, habitsService *habits.Service, payments paymentprovider.Processor) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/password/reset", resetpassword.New(logger, authService).ServeHTTP)
		r.Post("/password/reset/verify", resetverify.New(logger, authService).ServeHTTP)
		r.Get("/subscription/plans", plans.New(logger, entitlementService).ServeHTTP)

		// Группа с проверкой сессионного токена
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/logout", logout.New(logger, authService).ServeHTTP)
			r.Post("/password/change", changepassword.New(logger, authService).ServeHTTP)
			r.Post("/verification/send", verifyemail.NewSend(logger, authService).ServeHTTP)
			r.Post("/verification/verify", verifyemail.NewConfirm(logger, authService).ServeHTTP)
			r.Get("/account", account.NewGet(logger, authService, entitlementService).ServeHTTP)
			r.Put("/account", account.NewUpdate(logger, authService).ServeHTTP)

			r.Get("/subscription/status", status.New(logger, entitlementService).ServeHTTP)
			r.Post("/subscription/activate", activate.New(logger, entitlementService, payments).ServeHTTP)
			r.Post("/subscription/cancel", cancel.New(logger, entitlementService).ServeHTTP)
			r.Post("/subscription/trial", trial.New(logger, entitlementService).ServeHTTP)
			r.Get("/features/{featureID}/access", featureaccess.New(logger, entitlementService).ServeHTTP)

			r.Get("/habits", habitlist.New(logger, habitsService).ServeHTTP)
			r.Put("/habits/selection", selection.New(logger, habitsService, authService).ServeHTTP)
			r.Post("/habits/{habitID}/toggle", toggle.New(logger, habitsService).ServeHTTP)
			r.Get("/habits/summary", summary.New(logger, habitsService, authService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
