// Package image реализует загрузку картинки товара во внешнее хранилище.
//
// Если в форме указан productId, загруженная картинка становится thumbnail товара.
package image

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/shop-admin/internal/http/handlers/products/form"
	"github.com/magabrotheeeer/shop-admin/internal/http/response"
	"github.com/magabrotheeeer/shop-admin/internal/lib/imagestore"
	"github.com/magabrotheeeer/shop-admin/internal/lib/sl"
	"github.com/magabrotheeeer/shop-admin/internal/storage"
)

// FieldImage — поле формы с файлом.
const FieldImage = "image"

// Response — результат загрузки.
type Response struct {
	ImageURL string `json:"imageUrl"`
	Message  string `json:"message"`
}

// Service загружает картинку и при необходимости привязывает её к товару.
type Service interface {
	UploadImage(ctx context.Context, img imagestore.Image, productID string) (string, error)
}

// Handler обрабатывает POST /api/upload/image.
type Handler struct {
	log      *slog.Logger
	service  Service
	maxBytes int64
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, maxBytes int64) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		maxBytes: maxBytes,
	}
}

// ServeHTTP godoc
// @Summary Загрузка картинки
// @Tags Upload
// @Accept  multipart/form-data
// @Produce  json
// @Param image formData file true "Картинка"
// @Param productId formData string false "ID товара"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/upload/image [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upload.image"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	img, err := h.read(w, r)
	if err != nil {
		if status, msg, ok := form.ClientError(err); ok {
			log.Info("image rejected", sl.Err(err))
			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}
		log.Info("failed to read upload form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	productID := strings.TrimSpace(r.FormValue("productId"))
	url, err := h.service.UploadImage(r.Context(), *img, productID)
	if errors.Is(err, storage.ErrProductNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("product not found"))
		return
	}
	if err != nil {
		log.Error("failed to upload image", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to upload image"))
		return
	}

	log.Info("image uploaded", slog.String("url", url), slog.String("product_id", productID))
	render.JSON(w, r, Response{ImageURL: url, Message: "Image uploaded successfully"})
}

func (h *Handler) read(w http.ResponseWriter, r *http.Request) (*imagestore.Image, error) {
	if err := form.ParseRequest(w, r, h.maxBytes); err != nil {
		return nil, err
	}
	if r.MultipartForm == nil {
		return nil, imagestore.ErrNoFile
	}
	return imagestore.FromMultipart(r, FieldImage, h.maxBytes)
}
