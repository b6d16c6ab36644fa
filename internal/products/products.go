package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("product not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

const productColumns = `id, name, COALESCE(description, ''), price, COALESCE(original_price, 0),
	COALESCE(image_url, ''), COALESCE(category, ''), stock_quantity, is_active, created_at, updated_at`

func (c *Conf) InsertProduct(ctx context.Context, np NewProduct) (Product, error) {
	product := Product{
		ID:            uuid.NewString(),
		Name:          np.Name,
		Description:   np.Description,
		Price:         np.Price,
		OriginalPrice: np.OriginalPrice,
		ImageURL:      np.ImageURL,
		Category:      np.Category,
		StockQuantity: np.StockQuantity,
		IsActive:      np.IsActive,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	query := `
		INSERT INTO products (id, name, description, price, original_price, image_url, category, stock_quantity, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := c.db.ExecContext(ctx, query, product.ID, product.Name, product.Description, product.Price,
		product.OriginalPrice, product.ImageURL, product.Category, product.StockQuantity, product.IsActive,
		product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("inserting product: %w", err)
	}

	return product, nil
}

func (c *Conf) GetProductByID(ctx context.Context, productID string) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p Product
	err := c.db.QueryRowContext(ctx, query, productID).Scan(&p.ID, &p.Name, &p.Description, &p.Price,
		&p.OriginalPrice, &p.ImageURL, &p.Category, &p.StockQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("querying product: %w", err)
	}

	return p, nil
}

func (c *Conf) UpdateProduct(ctx context.Context, productID string, np NewProduct) (Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, original_price = $4, image_url = $5,
		    category = $6, stock_quantity = $7, is_active = $8, updated_at = NOW()
		WHERE id = $9
	`
	result, err := c.db.ExecContext(ctx, query, np.Name, np.Description, np.Price, np.OriginalPrice,
		np.ImageURL, np.Category, np.StockQuantity, np.IsActive, productID)
	if err != nil {
		return Product{}, fmt.Errorf("updating product: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return Product{}, fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return Product{}, ErrNotFound
	}

	return c.GetProductByID(ctx, productID)
}

func (c *Conf) DeleteProduct(ctx context.Context, productID string) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProducts returns one page of the catalog, newest first. The storefront
// sees active products only; the admin console sets IncludeInactive. Search
// is a substring match on the product name.
func (c *Conf) ListProducts(ctx context.Context, filter Filter) ([]Product, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 12
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 OR is_active = TRUE)
		  AND ($2 = '' OR category = $2)
		  AND ($3 = '' OR name LIKE '%' || $3 || '%')
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := c.db.QueryContext(ctx, query, filter.IncludeInactive, filter.Category, filter.Search,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var list []Product
	for rows.Next() {
		var p Product
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.ImageURL,
			&p.Category, &p.StockQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating products: %w", err)
	}

	countQuery := `
		SELECT COUNT(*)
		FROM products
		WHERE ($1 OR is_active = TRUE)
		  AND ($2 = '' OR category = $2)
		  AND ($3 = '' OR name LIKE '%' || $3 || '%')
	`
	var total int
	if err := c.db.QueryRowContext(ctx, countQuery, filter.IncludeInactive, filter.Category, filter.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	return list, total, nil
}

// Categories lists the distinct non-empty categories of active products.
func (c *Conf) Categories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT category FROM products
		WHERE is_active = TRUE AND category IS NOT NULL AND category <> ''
		ORDER BY category
	`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var cat string
		if err := rows.Scan(&cat); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return categories, nil
}

func (c *Conf) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return count, nil
}
