// Package imagestore принимает картинки товаров и выгружает их во внешнее хранилище.
//
// Поддерживаются два провайдера: S3 (или совместимый, например MinIO) и Cloudinary.
// Оба возвращают публичный URL загруженного файла.
package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
)

var (
	// ErrNoFile — в форме нет файла.
	ErrNoFile = errors.New("no file uploaded")
	// ErrNotImage — тип файла не image/*.
	ErrNotImage = errors.New("only image files are allowed")
	// ErrTooLarge — файл больше допустимого размера.
	ErrTooLarge = errors.New("file too large")
)

// Image — загруженный файл в памяти.
type Image struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Size возвращает размер файла в байтах.
func (i Image) Size() int64 {
	return int64(len(i.Body))
}

// Uploader выгружает картинку и возвращает её публичный URL.
type Uploader interface {
	Upload(ctx context.Context, img Image) (string, error)
}

// Validate проверяет тип и размер картинки.
func Validate(img Image, maxBytes int64) error {
	if !strings.HasPrefix(strings.ToLower(img.ContentType), "image/") {
		return ErrNotImage
	}
	if maxBytes > 0 && img.Size() > maxBytes {
		return ErrTooLarge
	}
	return nil
}

// FromMultipart читает файл field из уже разобранной multipart-формы и проверяет его.
// Если файла нет, возвращается ErrNoFile.
func FromMultipart(r *http.Request, field string, maxBytes int64) (*Image, error) {
	const op = "imagestore.FromMultipart"
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrNoFile
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = file.Close()
	}()
	return read(file, header, maxBytes)
}

func read(file multipart.File, header *multipart.FileHeader, maxBytes int64) (*Image, error) {
	const op = "imagestore.read"
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, ErrTooLarge
	}

	var reader io.Reader = file
	if maxBytes > 0 {
		reader = io.LimitReader(file, maxBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(body)
	}

	img := &Image{
		Filename:    cleanName(header.Filename),
		ContentType: contentType,
		Body:        body,
	}
	if err := Validate(*img, maxBytes); err != nil {
		return nil, err
	}
	return img, nil
}

// cleanName оставляет только имя файла без каталогов и пробелов.
func cleanName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Join(strings.Fields(name), "-")
	if name == "." || name == "/" || name == "" {
		return "image"
	}
	return name
}

func (i Image) reader() io.Reader {
	return bytes.NewReader(i.Body)
}
