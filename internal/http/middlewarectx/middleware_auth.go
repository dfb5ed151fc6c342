// Package middlewarectx содержит HTTP middleware для проверки сессионного JWT и роли.
//
// Authenticate достаёт токен из cookie или заголовка Authorization, проверяет его
// и кладёт claims в контекст. RequireRole пропускает только пользователей с нужной ролью.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/shop-admin/internal/http/response"
	"github.com/magabrotheeeer/shop-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/shop-admin/internal/lib/sl"
	"github.com/magabrotheeeer/shop-admin/internal/models"
)

type ctxKey struct{}

// TokenParser проверяет токен и возвращает его claims.
type TokenParser interface {
	ParseToken(token string) (*jwt.CustomClaims, error)
}

// TokenExtractor достаёт токен из запроса.
type TokenExtractor interface {
	ExtractToken(r *http.Request) (string, bool)
}

// WithClaims кладёт claims в контекст.
func WithClaims(ctx context.Context, claims *jwt.CustomClaims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

// ClaimsFromContext возвращает claims, сохранённые Authenticate.
func ClaimsFromContext(ctx context.Context) (*jwt.CustomClaims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*jwt.CustomClaims)
	return claims, ok && claims != nil
}

// Authenticate возвращает middleware, который пропускает запрос только с валидным токеном.
//
// Без токена ответ 401, с непрошедшим проверку токеном 403.
func Authenticate(parser TokenParser, transport TokenExtractor, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, ok := transport.ExtractToken(r)
			if !ok {
				log.Info("access token missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("access token required"))
				return
			}

			claims, err := parser.ParseToken(token)
			if err != nil {
				log.Info("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole пропускает только пользователей с ролью role. Ставится после Authenticate.
func RequireRole(role models.Role, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRole"
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("access token required"))
				return
			}
			if claims.Role != role {
				log.Info("role check failed",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("user_id", claims.UserID),
					slog.String("role", string(claims.Role)),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(string(role)+" access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
