package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/didi5-com/dotlesspaints/internal/payments"

	"github.com/google/uuid"
)

var (
	ErrNotFound             = errors.New("order not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrCheckoutFailed       = errors.New("checkout failed")
	ErrInvalidStatus        = errors.New("invalid order status")
)

// Publisher emits domain events. Satisfied by the kafka store.
type Publisher interface {
	ProduceMessage(ctx context.Context, topic string, key []byte, value []byte) error
}

type Conf struct {
	db       *sql.DB
	verifier payments.Verifier
	events   Publisher
}

// NewConf wires the order store with the payment gateway verifier and an
// optional event publisher.
func NewConf(db *sql.DB, verifier payments.Verifier, events Publisher) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	if verifier == nil {
		return Conf{}, fmt.Errorf("verifier is nil")
	}
	return Conf{db: db, verifier: verifier, events: events}, nil
}

// Checkout converts the user's cart into an order in one transaction:
// snapshot line prices, create the order and its items, decrement stock,
// clear the cart. Stock was validated when items entered the cart and is
// not re-checked here.
func (c *Conf) Checkout(ctx context.Context, userID string, no NewOrder) (Order, error) {
	method, err := c.activePaymentMethod(ctx, no.PaymentMethodID)
	if err != nil {
		return Order{}, err
	}

	var order Order
	err = c.withTx(ctx, func(tx *sql.Tx) error {
		queryLines := `
			SELECT ci.product_id, ci.quantity, p.price
			FROM cart_items ci
			JOIN products p ON p.id = ci.product_id
			WHERE ci.user_id = $1
		`
		rows, err := tx.QueryContext(ctx, queryLines, userID)
		if err != nil {
			return fmt.Errorf("querying cart lines: %w", err)
		}
		defer rows.Close()

		type line struct {
			productID string
			quantity  int
			price     int64
		}
		var lines []line
		for rows.Next() {
			var l line
			if err := rows.Scan(&l.productID, &l.quantity, &l.price); err != nil {
				return fmt.Errorf("scanning cart line: %w", err)
			}
			lines = append(lines, l)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating cart lines: %w", err)
		}

		if len(lines) == 0 {
			return ErrEmptyCart
		}

		var total int64
		for _, l := range lines {
			total += int64(l.quantity) * l.price
		}

		order = Order{
			ID:              uuid.NewString(),
			UserID:          userID,
			TotalAmount:     total,
			Status:          StatusPending,
			PaymentStatus:   PaymentPending,
			PaymentMethodID: method.ID,
			ShippingAddress: no.ShippingAddress,
			Phone:           no.Phone,
			CreatedAt:       time.Now().UTC(),
			UpdatedAt:       time.Now().UTC(),
		}

		queryOrder := `
			INSERT INTO orders (id, user_id, total_amount, status, payment_status, payment_method_id, shipping_address, phone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err = tx.ExecContext(ctx, queryOrder, order.ID, order.UserID, order.TotalAmount, order.Status,
			order.PaymentStatus, order.PaymentMethodID, order.ShippingAddress, order.Phone,
			order.CreatedAt, order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("inserting order: %w", err)
		}

		queryItem := `
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		queryStock := `
			UPDATE products SET stock_quantity = stock_quantity - $1, updated_at = NOW() WHERE id = $2
		`
		for _, l := range lines {
			lineTotal := int64(l.quantity) * l.price
			if _, err := tx.ExecContext(ctx, queryItem, uuid.NewString(), order.ID, l.productID, l.quantity, l.price, lineTotal); err != nil {
				return fmt.Errorf("inserting order item: %w", err)
			}
			if _, err := tx.ExecContext(ctx, queryStock, l.quantity, l.productID); err != nil {
				return fmt.Errorf("decrementing stock: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clearing cart: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			return Order{}, err
		}
		return Order{}, fmt.Errorf("%v: %w", err, ErrCheckoutFailed)
	}

	return order, nil
}

// GetUserOrder returns one of the caller's own orders with its items.
func (c *Conf) GetUserOrder(ctx context.Context, userID string, orderID string) (OrderWithItems, error) {
	order, err := c.getOrder(ctx, orderID)
	if err != nil {
		return OrderWithItems{}, err
	}
	if order.UserID != userID {
		return OrderWithItems{}, ErrNotFound
	}

	items, err := c.orderItems(ctx, orderID)
	if err != nil {
		return OrderWithItems{}, err
	}

	return OrderWithItems{Order: order, Items: items}, nil
}

// GetOrder returns any order with its items. Admin use.
func (c *Conf) GetOrder(ctx context.Context, orderID string) (OrderWithItems, error) {
	order, err := c.getOrder(ctx, orderID)
	if err != nil {
		return OrderWithItems{}, err
	}
	items, err := c.orderItems(ctx, orderID)
	if err != nil {
		return OrderWithItems{}, err
	}
	return OrderWithItems{Order: order, Items: items}, nil
}

// ListUserOrders pages the caller's order history, newest first.
func (c *Conf) ListUserOrders(ctx context.Context, userID string, page int, pageSize int) ([]Order, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return c.queryOrders(ctx, query, userID, pageSize, (page-1)*pageSize)
}

// ListOrders pages all orders for the admin console, optionally filtered by
// status.
func (c *Conf) ListOrders(ctx context.Context, status string, page int, pageSize int) ([]Order, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return c.queryOrders(ctx, query, status, pageSize, (page-1)*pageSize)
}

// UpdateStatus moves an order to a new fulfilment status. Only the statuses
// an admin may set by hand are accepted; pending_verification is reserved
// for the payment flow.
func (c *Conf) UpdateStatus(ctx context.Context, orderID string, status string) error {
	switch status {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
	default:
		return ErrInvalidStatus
	}

	result, err := c.db.ExecContext(ctx, `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, orderID)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Conf) CountOrders(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return count, nil
}

func (c *Conf) CountOrdersByStatus(ctx context.Context, status string) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting orders by status: %w", err)
	}
	return count, nil
}

// PaidRevenue sums total_amount over paid orders.
func (c *Conf) PaidRevenue(ctx context.Context) (int64, error) {
	var revenue int64
	query := `SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE payment_status = $1`
	if err := c.db.QueryRowContext(ctx, query, PaymentPaid).Scan(&revenue); err != nil {
		return 0, fmt.Errorf("summing paid revenue: %w", err)
	}
	return revenue, nil
}

func (c *Conf) RecentOrders(ctx context.Context, limit int) ([]Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`
	return c.queryOrders(ctx, query, limit)
}

const orderColumns = `id, user_id, total_amount, status, payment_status, COALESCE(payment_reference, ''),
	COALESCE(payment_method_id::text, ''), COALESCE(shipping_address, ''), COALESCE(phone, ''), created_at, updated_at`

func (c *Conf) getOrder(ctx context.Context, orderID string) (Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var o Order
	err := c.db.QueryRowContext(ctx, query, orderID).Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status,
		&o.PaymentStatus, &o.PaymentReference, &o.PaymentMethodID, &o.ShippingAddress, &o.Phone,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("querying order: %w", err)
	}
	return o, nil
}

func (c *Conf) orderItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, total_price
		FROM order_items
		WHERE order_id = $1
	`
	rows, err := c.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order items: %w", err)
	}
	return items, nil
}

func (c *Conf) queryOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var list []Order
	for rows.Next() {
		var o Order
		err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentStatus, &o.PaymentReference,
			&o.PaymentMethodID, &o.ShippingAddress, &o.Phone, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}
	return list, nil
}

func (c *Conf) activePaymentMethod(ctx context.Context, methodID string) (payments.PaymentMethod, error) {
	query := `SELECT id, method_type, is_active FROM payment_methods WHERE id = $1`

	var m payments.PaymentMethod
	err := c.db.QueryRowContext(ctx, query, methodID).Scan(&m.ID, &m.MethodType, &m.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return payments.PaymentMethod{}, ErrInvalidPaymentMethod
		}
		return payments.PaymentMethod{}, fmt.Errorf("querying payment method: %w", err)
	}
	if !m.IsActive {
		return payments.PaymentMethod{}, ErrInvalidPaymentMethod
	}
	return m, nil
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
