package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotFound          = errors.New("cart item not found")
	ErrProductNotFound   = errors.New("product not found")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// AddToCart puts quantity units of a product into the user's cart. An
// existing line for the same product is merged, and the merged quantity is
// checked against current stock. Stock is not reserved here.
func (c *Conf) AddToCart(ctx context.Context, userID string, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		var stock int
		queryStock := `SELECT stock_quantity FROM products WHERE id = $1 FOR UPDATE`
		err := tx.QueryRowContext(ctx, queryStock, productID).Scan(&stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProductNotFound
			}
			return fmt.Errorf("querying product stock: %w", err)
		}

		queryItem := `
			SELECT id, quantity
			FROM cart_items
			WHERE user_id = $1 AND product_id = $2
		`
		var itemID string
		var existingQuantity int
		err = tx.QueryRowContext(ctx, queryItem, userID, productID).Scan(&itemID, &existingQuantity)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// No line for this product yet.
				if quantity > stock {
					return fmt.Errorf("requested %d, available %d: %w", quantity, stock, ErrInsufficientStock)
				}
				queryInsert := `
					INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
					VALUES ($1, $2, $3, $4, NOW(), NOW())
				`
				if _, err := tx.ExecContext(ctx, queryInsert, uuid.NewString(), userID, productID, quantity); err != nil {
					return fmt.Errorf("inserting cart item: %w", err)
				}
				return nil
			}
			return fmt.Errorf("querying cart item: %w", err)
		}

		newQuantity := existingQuantity + quantity
		if newQuantity > stock {
			return fmt.Errorf("requested %d, available %d: %w", newQuantity, stock, ErrInsufficientStock)
		}

		queryUpdate := `UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2`
		if _, err := tx.ExecContext(ctx, queryUpdate, newQuantity, itemID); err != nil {
			return fmt.Errorf("updating cart item quantity: %w", err)
		}
		return nil
	})
}

// UpdateItem sets the quantity of one of the caller's cart lines. A
// non-positive quantity removes the line.
func (c *Conf) UpdateItem(ctx context.Context, userID string, itemID string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(ctx, userID, itemID)
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		queryItem := `
			SELECT ci.product_id, p.stock_quantity
			FROM cart_items ci
			JOIN products p ON p.id = ci.product_id
			WHERE ci.id = $1 AND ci.user_id = $2
		`
		var productID string
		var stock int
		err := tx.QueryRowContext(ctx, queryItem, itemID, userID).Scan(&productID, &stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("querying cart item: %w", err)
		}

		if quantity > stock {
			return fmt.Errorf("requested %d, available %d: %w", quantity, stock, ErrInsufficientStock)
		}

		queryUpdate := `UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2`
		if _, err := tx.ExecContext(ctx, queryUpdate, quantity, itemID); err != nil {
			return fmt.Errorf("updating cart item: %w", err)
		}
		return nil
	})
}

// RemoveItem deletes one of the caller's cart lines.
func (c *Conf) RemoveItem(ctx context.Context, userID string, itemID string) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return fmt.Errorf("deleting cart item: %w", err)
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

// Items returns the user's cart lines joined with their products, plus the
// cart total recomputed from current prices.
func (c *Conf) Items(ctx context.Context, userID string) (CartResponse, error) {
	query := `
		SELECT ci.id, ci.product_id, p.name, COALESCE(p.image_url, ''), ci.quantity, p.price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`
	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return CartResponse{}, fmt.Errorf("querying cart items: %w", err)
	}
	defer rows.Close()

	var resp CartResponse
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.ImageURL, &item.Quantity, &item.UnitPrice); err != nil {
			return CartResponse{}, fmt.Errorf("scanning cart item: %w", err)
		}
		item.LineTotal = int64(item.Quantity) * item.UnitPrice
		resp.Items = append(resp.Items, item)
		resp.Total += item.LineTotal
	}
	if err := rows.Err(); err != nil {
		return CartResponse{}, fmt.Errorf("iterating cart items: %w", err)
	}

	return resp, nil
}

// Total recomputes the cart total from current product prices.
func (c *Conf) Total(ctx context.Context, userID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(ci.quantity * p.price), 0)
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
	`
	var total int64
	if err := c.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("computing cart total: %w", err)
	}
	return total, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if er := tx.Rollback(); er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
