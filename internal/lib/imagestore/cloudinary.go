package imagestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/magabrotheeeer/shop-admin/internal/config"
)

type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryUploader выгружает картинки в Cloudinary.
type CloudinaryUploader struct {
	api    cloudinaryAPI
	folder string
}

// NewCloudinary создаёт клиента Cloudinary по ключам из конфига.
func NewCloudinary(cfg config.Upload) (*CloudinaryUploader, error) {
	const op = "imagestore.NewCloudinary"
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &CloudinaryUploader{api: &cld.Upload, folder: cfg.CloudinaryFolder}, nil
}

// Upload выгружает картинку в папку из конфига и возвращает secure_url.
func (u *CloudinaryUploader) Upload(ctx context.Context, img Image) (string, error) {
	const op = "imagestore.CloudinaryUpload"
	res, err := u.api.Upload(ctx, img.reader(), uploader.UploadParams{Folder: u.folder})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("%s: %w", op, errors.New(res.Error.Message))
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("%s: empty secure_url", op)
	}
	return res.SecureURL, nil
}
