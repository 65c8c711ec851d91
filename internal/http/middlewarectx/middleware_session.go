// Package middlewarectx содержит HTTP middleware для проверки сессионного
// токена и ограничения частоты запросов.
//
// SessionMiddleware проверяет наличие и валидность токена в заголовке
// Authorization, и в случае успеха добавляет в контекст идентификатор
// и email пользователя для дальнейшего использования в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/khatoa-app/khatoa/internal/http/response"
	"github.com/khatoa-app/khatoa/internal/lib/sl"
	"github.com/khatoa-app/khatoa/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID — ключ для идентификатора пользователя в контексте.
	UserID Key = "user_id"
	// UserEmail — ключ для email пользователя в контексте.
	UserEmail Key = "user_email"
)

// SessionValidator описывает интерфейс сервиса для проверки сессионного токена.
type SessionValidator interface {
	ValidateSession(token string) (*models.User, error)
}

// SessionMiddleware возвращает HTTP middleware, который проверяет токен
// сессии в заголовке Authorization.
//
// Если токен валиден, добавляет идентификатор и email пользователя в контекст
// запроса, иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func SessionMiddleware(sessions SessionValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := sessions.ValidateSession(tokenStr)
			if err != nil {
				log.Error("invalid or expired session token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired session token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserID, user.ID)
			ctx = context.WithValue(ctx, UserEmail, user.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext извлекает идентификатор пользователя из контекста запроса.
func UserIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserID).(string)
	return uid, ok && uid != ""
}
