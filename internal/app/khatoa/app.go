// Package khatoa собирает и запускает основное приложение: хранилище,
// сервисы и HTTP-сервер с graceful shutdown.
package khatoa

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/khatoa-app/khatoa/internal/config"
	"github.com/khatoa-app/khatoa/internal/kvstore"
	"github.com/khatoa-app/khatoa/internal/lib/email"
	"github.com/khatoa-app/khatoa/internal/lib/token"
	"github.com/khatoa-app/khatoa/internal/paymentprovider"
	authservice "github.com/khatoa-app/khatoa/internal/services/auth"
	"github.com/khatoa-app/khatoa/internal/services/entitlement"
	"github.com/khatoa-app/khatoa/internal/services/habits"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	store  *kvstore.Redis
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := kvstore.NewRedis(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	tokens := token.NewMaker(cfg.SecretKey, cfg.TokenTTL)
	mail := email.NewLogSender(logger)
	payments := paymentprovider.NewMockProcessor()

	authService := authservice.New(store, tokens, mail, logger)
	authService.Restore(ctx)

	entitlementService := entitlement.New(store, logger, cfg.PeriodDays)
	habitsService := habits.New(store, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, entitlementService, habitsService, payments)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.store.Db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		return err
	}
}
