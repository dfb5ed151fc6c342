// Package update реализует полное обновление товара. Новая картинка заменяет
// thumbnail, без неё прежняя остаётся.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/shop-admin/internal/http/handlers/products/form"
	"github.com/magabrotheeeer/shop-admin/internal/http/response"
	"github.com/magabrotheeeer/shop-admin/internal/lib/imagestore"
	"github.com/magabrotheeeer/shop-admin/internal/lib/sl"
	"github.com/magabrotheeeer/shop-admin/internal/models"
	"github.com/magabrotheeeer/shop-admin/internal/storage"
)

// Service описывает обновление товара.
type Service interface {
	Update(ctx context.Context, id string, in models.ProductInput, thumb *imagestore.Image) (*models.Product, error)
}

// Handler обрабатывает PATCH /api/products/{id}.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
	maxBytes int64
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, maxBytes int64) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
		maxBytes: maxBytes,
	}
}

// ServeHTTP godoc
// @Summary Обновление товара
// @Tags Products
// @Accept  multipart/form-data
// @Produce  json
// @Param id path string true "ID товара"
// @Param thumbnail formData file false "Новая картинка"
// @Success 200 {object} response.Response{data=models.Product}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/products/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.products.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := form.ParseRequest(w, r, h.maxBytes); err != nil {
		h.formError(w, r, log, err)
		return
	}
	in, thumb, err := form.Product(r, form.FieldThumbnail, h.maxBytes)
	if err != nil {
		h.formError(w, r, log, err)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	product, err := h.service.Update(r.Context(), id, in, thumb)
	if errors.Is(err, storage.ErrProductNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("product not found"))
		return
	}
	if err != nil {
		log.Error("failed to update product", slog.String("id", id), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update product"))
		return
	}

	log.Info("product updated", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(product))
}

func (h *Handler) formError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	if status, msg, ok := form.ClientError(err); ok {
		log.Info("invalid product form", sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}
	log.Error("failed to read product form", sl.Err(err))
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error("invalid request body"))
}
