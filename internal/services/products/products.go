// Package products реализует каталог товаров с read-through кэшем и загрузкой картинок.
package products

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/magabrotheeeer/shop-admin/internal/lib/imagestore"
	"github.com/magabrotheeeer/shop-admin/internal/lib/sl"
	"github.com/magabrotheeeer/shop-admin/internal/models"
)

// Ключи кэша.
const (
	KeyAll = "products:all"
)

// KeyProduct — ключ кэша одного товара.
func KeyProduct(id string) string {
	return "product:" + id
}

// Repository — хранилище товаров.
type Repository interface {
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error)
	SetProductThumbnail(ctx context.Context, id, url string) error
	DeleteProduct(ctx context.Context, id string) error
}

// Cache хранит значения в JSON.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Service управляет каталогом товаров.
type Service struct {
	repo     Repository
	cache    Cache
	uploader imagestore.Uploader
	ttl      time.Duration
	log      *slog.Logger

	// gen растёт при каждой инвалидации. Чтение, заставшее инвалидацию,
	// не оставляет в кэше прочитанное до неё значение.
	gen atomic.Uint64
}

// NewService создаёт сервис товаров. ttl задаёт время жизни записей кэша.
func NewService(repo Repository, cache Cache, uploader imagestore.Uploader, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		uploader: uploader,
		ttl:      ttl,
		log:      log,
	}
}

// Create сохраняет товар. Если передана картинка, она загружается и становится thumbnail.
func (s *Service) Create(ctx context.Context, in models.ProductInput, thumb *imagestore.Image) (*models.Product, error) {
	const op = "products.Create"
	if thumb != nil {
		url, err := s.uploader.Upload(ctx, *thumb)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		in.Thumbnail = url
	}
	p, err := s.repo.CreateProduct(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, KeyAll)
	s.log.Info("created product", slog.String("id", p.ID))
	return p, nil
}

// Get читает товар сначала из кэша, затем из хранилища.
func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	const op = "products.Get"
	key := KeyProduct(id)
	var cached models.Product
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}
	gen := s.gen.Load()
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, key, p, gen)
	return p, nil
}

// List возвращает весь каталог, новые товары первыми.
func (s *Service) List(ctx context.Context) ([]*models.Product, error) {
	const op = "products.List"
	var cached []*models.Product
	if s.fromCache(ctx, KeyAll, &cached) && cached != nil {
		return cached, nil
	}
	gen := s.gen.Load()
	list, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, KeyAll, list, gen)
	return list, nil
}

// Update полностью заменяет поля товара. Thumbnail меняется только при новой картинке.
func (s *Service) Update(ctx context.Context, id string, in models.ProductInput, thumb *imagestore.Image) (*models.Product, error) {
	const op = "products.Update"
	in.Thumbnail = ""
	if thumb != nil {
		url, err := s.uploader.Upload(ctx, *thumb)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		in.Thumbnail = url
	}
	p, err := s.repo.UpdateProduct(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, KeyAll, KeyProduct(id))
	s.log.Info("updated product", slog.String("id", id))
	return p, nil
}

// Delete удаляет товар.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "products.Delete"
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, KeyAll, KeyProduct(id))
	s.log.Info("deleted product", slog.String("id", id))
	return nil
}

// UploadImage загружает картинку и, если указан productID, делает её thumbnail товара.
// Для несуществующего товара картинка не загружается.
func (s *Service) UploadImage(ctx context.Context, img imagestore.Image, productID string) (string, error) {
	const op = "products.UploadImage"
	if productID != "" {
		if _, err := s.repo.GetProduct(ctx, productID); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}
	url, err := s.uploader.Upload(ctx, img)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if productID == "" {
		return url, nil
	}
	if err := s.repo.SetProductThumbnail(ctx, productID, url); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, KeyAll, KeyProduct(productID))
	return url, nil
}

func (s *Service) fromCache(ctx context.Context, key string, dst any) bool {
	found, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

// toCache кладёт value, прочитанное при поколении gen. Если за это время была
// инвалидация, значение не кладётся, а положенное удаляется.
func (s *Service) toCache(ctx context.Context, key string, value any, gen uint64) {
	if s.gen.Load() != gen {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
		return
	}
	if s.gen.Load() != gen {
		s.drop(ctx, key)
	}
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	s.gen.Add(1)
	s.drop(ctx, keys...)
}

func (s *Service) drop(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to remove from cache", slog.Any("keys", keys), sl.Err(err))
	}
}
