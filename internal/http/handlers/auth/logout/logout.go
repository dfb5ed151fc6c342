// Package logout реализует выход: cookie сессии сбрасывается, состояние на сервере не хранится.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/shop-admin/internal/http/response"
)

// Session сбрасывает cookie сессии.
type Session interface {
	ClearSessionCookie(w http.ResponseWriter)
}

// Handler обрабатывает выход из системы.
type Handler struct {
	log     *slog.Logger
	session Session
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, session Session) *Handler {
	return &Handler{
		log:     log,
		session: session,
	}
}

// ServeHTTP godoc
// @Summary Выход из системы
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Message
// @Router /api/auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	h.session.ClearSessionCookie(w)
	h.log.Info("session cookie cleared",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	render.JSON(w, r, response.Message{Message: "Logged out successfully"})
}
