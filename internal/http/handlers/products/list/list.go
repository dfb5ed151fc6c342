// Package list отдаёт каталог товаров.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/shop-admin/internal/http/response"
	"github.com/magabrotheeeer/shop-admin/internal/lib/sl"
	"github.com/magabrotheeeer/shop-admin/internal/models"
)

// Service описывает получение каталога.
type Service interface {
	List(ctx context.Context) ([]*models.Product, error)
}

// Handler обрабатывает GET /api/products и GET /api/admin/products.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Каталог товаров
// @Tags Products
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Product}
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.products.list"

	products, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error("failed to list products",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list products"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(products))
}
