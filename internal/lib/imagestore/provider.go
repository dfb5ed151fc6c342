package imagestore

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/shop-admin/internal/config"
)

const (
	// ProviderS3 — Amazon S3 или совместимое хранилище.
	ProviderS3 = "s3"
	// ProviderCloudinary использует Cloudinary.
	ProviderCloudinary = "cloudinary"
)

// New выбирает провайдера по cfg.Provider.
func New(ctx context.Context, cfg config.Upload) (Uploader, error) {
	switch cfg.Provider {
	case ProviderS3:
		return NewS3(ctx, cfg)
	case ProviderCloudinary:
		return NewCloudinary(cfg)
	default:
		return nil, fmt.Errorf("imagestore.New: unknown provider %q", cfg.Provider)
	}
}
