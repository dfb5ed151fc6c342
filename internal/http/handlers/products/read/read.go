// Package read реализует получение товара по id.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/shop-admin/internal/http/response"
	"github.com/magabrotheeeer/shop-admin/internal/lib/sl"
	"github.com/magabrotheeeer/shop-admin/internal/models"
	"github.com/magabrotheeeer/shop-admin/internal/storage"
)

// Service описывает чтение товара.
type Service interface {
	Get(ctx context.Context, id string) (*models.Product, error)
}

// Handler обрабатывает GET /api/products/{id}.
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
// @Summary Товар по id
// @Tags Products
// @Produce  json
// @Param id path string true "ID товара"
// @Success 200 {object} response.Response{data=models.Product}
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/products/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.products.read"

	id := chi.URLParam(r, "id")
	product, err := h.service.Get(r.Context(), id)
	if errors.Is(err, storage.ErrProductNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("product not found"))
		return
	}
	if err != nil {
		h.log.Error("failed to read product",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("id", id),
			sl.Err(err),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read product"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(product))
}
