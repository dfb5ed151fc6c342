// Package form разбирает multipart-форму товара: текстовые поля и необязательную картинку.
package form

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/shop-admin/internal/lib/imagestore"
	"github.com/magabrotheeeer/shop-admin/internal/models"
)

// FieldThumbnail — поле формы с картинкой товара.
const FieldThumbnail = "thumbnail"

// memoryLimit — сколько формы держать в памяти, остальное уходит во временные файлы.
const memoryLimit = 1 << 20

// ErrInvalidField — числовое поле формы отсутствует или не разбирается.
var ErrInvalidField = errors.New("invalid form field")

// ParseRequest ограничивает тело запроса и разбирает форму. Поддерживаются
// multipart/form-data и application/x-www-form-urlencoded.
//
// Превышение лимита возвращает imagestore.ErrTooLarge.
func ParseRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if maxBytes > 0 {
		// запас на текстовые поля и границы multipart
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+memoryLimit)
	}
	err := r.ParseMultipartForm(memoryLimit)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return imagestore.ErrTooLarge
	}
	if err != nil {
		return fmt.Errorf("form.ParseRequest: %w", err)
	}
	return nil
}

// Product читает поля товара из разобранной формы и картинку из поля fileField.
// Картинки может не быть, тогда возвращается nil.
func Product(r *http.Request, fileField string, maxBytes int64) (models.ProductInput, *imagestore.Image, error) {
	in := models.ProductInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Brand:       strings.TrimSpace(r.FormValue("brand")),
		Thumbnail:   strings.TrimSpace(r.FormValue("thumbnail")),
	}

	var err error
	if in.Price, err = floatField(r, "price", true); err != nil {
		return in, nil, err
	}
	if in.Stock, err = intField(r, "stock", true); err != nil {
		return in, nil, err
	}
	if in.DiscountPercentage, err = floatField(r, "discountPercentage", false); err != nil {
		return in, nil, err
	}
	if in.Rating, err = floatField(r, "rating", false); err != nil {
		return in, nil, err
	}

	if r.MultipartForm == nil {
		return in, nil, nil
	}
	img, err := imagestore.FromMultipart(r, fileField, maxBytes)
	if errors.Is(err, imagestore.ErrNoFile) {
		return in, nil, nil
	}
	if err != nil {
		return in, nil, err
	}
	return in, img, nil
}

// floatField возвращает 0 для пустого необязательного поля.
func floatField(r *http.Request, name string, required bool) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%w: %s is required", ErrInvalidField, name)
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidField, name)
	}
	return v, nil
}

func intField(r *http.Request, name string, required bool) (int, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%w: %s is required", ErrInvalidField, name)
		}
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidField, name)
	}
	return v, nil
}

// ClientError сопоставляет ошибку разбора формы или картинки с HTTP-статусом.
// При ok == false ошибка не клиентская.
func ClientError(err error) (status int, msg string, ok bool) {
	switch {
	case errors.Is(err, imagestore.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, imagestore.ErrTooLarge.Error(), true
	case errors.Is(err, imagestore.ErrNotImage):
		return http.StatusBadRequest, imagestore.ErrNotImage.Error(), true
	case errors.Is(err, imagestore.ErrNoFile):
		return http.StatusBadRequest, imagestore.ErrNoFile.Error(), true
	case errors.Is(err, ErrInvalidField):
		return http.StatusBadRequest, err.Error(), true
	default:
		return 0, "", false
	}
}
