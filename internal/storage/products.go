package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/shop-admin/internal/models"
)

const productColumns = `id, name, price, description, category, brand, stock,
			      discount_percentage, rating, thumbnail, created_at, updated_at`

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Category, &p.Brand, &p.Stock,
		&p.DiscountPercentage, &p.Rating, &p.Thumbnail, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct сохраняет товар и возвращает его с присвоенным id.
func (s *Storage) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	const op = "storage.CreateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO products (name, price, description, category, brand, stock,
			      discount_percentage, rating, thumbnail)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + productColumns
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query,
		in.Name, in.Price, in.Description, in.Category, in.Brand, in.Stock,
		in.DiscountPercentage, in.Rating, in.Thumbnail))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetProduct возвращает товар по id.
func (s *Storage) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "storage.GetProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}

	query := `SELECT ` + productColumns + `
			  FROM products
			  WHERE id = $1`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListProducts возвращает все товары, новые первыми.
func (s *Storage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + `
			  FROM products
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProduct перезаписывает поля товара. Пустой Thumbnail оставляет текущую картинку.
func (s *Storage) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}

	query := `UPDATE products
			  SET name = $2,
			      price = $3,
			      description = $4,
			      category = $5,
			      brand = $6,
			      stock = $7,
			      discount_percentage = $8,
			      rating = $9,
			      thumbnail = COALESCE(NULLIF($10, ''), thumbnail),
			      updated_at = now()
			  WHERE id = $1
			  RETURNING ` + productColumns
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, id,
		in.Name, in.Price, in.Description, in.Category, in.Brand, in.Stock,
		in.DiscountPercentage, in.Rating, in.Thumbnail))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// SetProductThumbnail меняет только картинку товара.
func (s *Storage) SetProductThumbnail(ctx context.Context, id, url string) error {
	const op = "storage.SetProductThumbnail"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if !validID(id) {
		return fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE products SET thumbnail = $2, updated_at = now() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	return nil
}

// DeleteProduct удаляет товар.
func (s *Storage) DeleteProduct(ctx context.Context, id string) error {
	const op = "storage.DeleteProduct"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if !validID(id) {
		return fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	return nil
}
