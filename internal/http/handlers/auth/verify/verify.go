// Package verify возвращает пользователя, которому принадлежит текущий токен сессии.
package verify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/shop-admin/internal/http/response"
	"github.com/magabrotheeeer/shop-admin/internal/lib/sl"
	"github.com/magabrotheeeer/shop-admin/internal/models"
	"github.com/magabrotheeeer/shop-admin/internal/services/auth"
)

// Response — пользователь текущей сессии.
type Response struct {
	User models.PublicUser `json:"user"`
}

// Service восстанавливает пользователя по токену.
type Service interface {
	VerifyIdentity(ctx context.Context, token string) (models.PublicUser, error)
}

// TokenExtractor достаёт токен из cookie или заголовка.
type TokenExtractor interface {
	ExtractToken(r *http.Request) (string, bool)
}

// Handler обрабатывает проверку сессии.
type Handler struct {
	log       *slog.Logger
	service   Service
	extractor TokenExtractor
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, extractor TokenExtractor) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		extractor: extractor,
	}
}

// ServeHTTP godoc
// @Summary Проверка сессии
// @Description Возвращает пользователя по токену из cookie или заголовка Authorization.
// @Tags Auth
// @Produce  json
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Нет токена или он недействителен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/verify [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token, ok := h.extractor.ExtractToken(r)
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("no token provided"))
		return
	}

	user, err := h.service.VerifyIdentity(r.Context(), token)
	if errors.Is(err, auth.ErrUnauthenticated) {
		log.Info("token rejected", sl.Err(err))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid token"))
		return
	}
	if err != nil {
		log.Error("failed to verify session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	render.JSON(w, r, Response{User: user})
}
