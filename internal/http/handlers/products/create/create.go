// Package create реализует создание товара из multipart-формы с необязательной картинкой.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/shop-admin/internal/http/handlers/products/form"
	"github.com/magabrotheeeer/shop-admin/internal/http/response"
	"github.com/magabrotheeeer/shop-admin/internal/lib/imagestore"
	"github.com/magabrotheeeer/shop-admin/internal/lib/sl"
	"github.com/magabrotheeeer/shop-admin/internal/models"
)

// Service описывает создание товара.
type Service interface {
	Create(ctx context.Context, in models.ProductInput, thumb *imagestore.Image) (*models.Product, error)
}

// Handler обрабатывает POST /api/products.
type Handler struct {
	log       *slog.Logger
	service   Service
	validate  *validator.Validate
	maxBytes  int64
	fileField string
}

// New создает новый экземпляр Handler. Картинка читается из поля fileField.
func New(log *slog.Logger, service Service, maxBytes int64, fileField string) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		validate:  validator.New(),
		maxBytes:  maxBytes,
		fileField: fileField,
	}
}

// ServeHTTP godoc
// @Summary Создание товара
// @Tags Products
// @Accept  multipart/form-data
// @Produce  json
// @Param name formData string true "Название"
// @Param price formData number true "Цена"
// @Param description formData string true "Описание"
// @Param category formData string true "Категория"
// @Param brand formData string true "Бренд"
// @Param stock formData integer true "Остаток"
// @Param discountPercentage formData number false "Скидка, %"
// @Param rating formData number false "Рейтинг"
// @Param thumbnail formData file false "Картинка"
// @Success 201 {object} response.Response{data=models.Product}
// @Failure 400 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/products [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.products.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	in, thumb, err := h.parse(w, r)
	if err != nil {
		if status, msg, ok := form.ClientError(err); ok {
			log.Info("invalid product form", sl.Err(err))
			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}
		log.Error("failed to read product form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(in); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	product, err := h.service.Create(r.Context(), in, thumb)
	if err != nil {
		log.Error("failed to create product", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create product"))
		return
	}

	log.Info("product created", slog.String("id", product.ID), slog.Bool("thumbnail", thumb != nil))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(product))
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) (models.ProductInput, *imagestore.Image, error) {
	if err := form.ParseRequest(w, r, h.maxBytes); err != nil {
		return models.ProductInput{}, nil, err
	}
	return form.Product(r, h.fileField, h.maxBytes)
}
