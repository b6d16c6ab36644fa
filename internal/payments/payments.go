package payments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("payment method not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

func (c *Conf) InsertMethod(ctx context.Context, nm NewPaymentMethod) (PaymentMethod, error) {
	if err := ValidateConfiguration(nm.MethodType, nm.Configuration); err != nil {
		return PaymentMethod{}, err
	}

	configJSON, err := json.Marshal(nm.Configuration)
	if err != nil {
		return PaymentMethod{}, fmt.Errorf("marshalling configuration: %w", err)
	}

	method := PaymentMethod{
		ID:            uuid.NewString(),
		Name:          nm.Name,
		MethodType:    nm.MethodType,
		Configuration: nm.Configuration,
		Instructions:  nm.Instructions,
		IsActive:      nm.IsActive,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	query := `
		INSERT INTO payment_methods (id, name, method_type, configuration, instructions, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = c.db.ExecContext(ctx, query, method.ID, method.Name, method.MethodType, configJSON,
		method.Instructions, method.IsActive, method.CreatedAt, method.UpdatedAt)
	if err != nil {
		return PaymentMethod{}, fmt.Errorf("inserting payment method: %w", err)
	}

	return method, nil
}

func (c *Conf) UpdateMethod(ctx context.Context, methodID string, nm NewPaymentMethod) (PaymentMethod, error) {
	if err := ValidateConfiguration(nm.MethodType, nm.Configuration); err != nil {
		return PaymentMethod{}, err
	}

	configJSON, err := json.Marshal(nm.Configuration)
	if err != nil {
		return PaymentMethod{}, fmt.Errorf("marshalling configuration: %w", err)
	}

	query := `
		UPDATE payment_methods
		SET name = $1, method_type = $2, configuration = $3, instructions = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
	`
	result, err := c.db.ExecContext(ctx, query, nm.Name, nm.MethodType, configJSON, nm.Instructions, nm.IsActive, methodID)
	if err != nil {
		return PaymentMethod{}, fmt.Errorf("updating payment method: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return PaymentMethod{}, fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return PaymentMethod{}, ErrNotFound
	}

	return c.GetMethodByID(ctx, methodID)
}

func (c *Conf) DeleteMethod(ctx context.Context, methodID string) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM payment_methods WHERE id = $1`, methodID)
	if err != nil {
		return fmt.Errorf("deleting payment method: %w", err)
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

func (c *Conf) GetMethodByID(ctx context.Context, methodID string) (PaymentMethod, error) {
	query := `
		SELECT id, name, method_type, configuration, COALESCE(instructions, ''), is_active, created_at, updated_at
		FROM payment_methods
		WHERE id = $1
	`
	var m PaymentMethod
	var configJSON []byte
	err := c.db.QueryRowContext(ctx, query, methodID).Scan(&m.ID, &m.Name, &m.MethodType, &configJSON,
		&m.Instructions, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PaymentMethod{}, ErrNotFound
		}
		return PaymentMethod{}, fmt.Errorf("querying payment method: %w", err)
	}

	if err := json.Unmarshal(configJSON, &m.Configuration); err != nil {
		return PaymentMethod{}, fmt.Errorf("unmarshalling configuration: %w", err)
	}

	return m, nil
}

// ListMethods returns payment methods, newest first. With activeOnly the
// list is restricted to methods offered at checkout.
func (c *Conf) ListMethods(ctx context.Context, activeOnly bool) ([]PaymentMethod, error) {
	query := `
		SELECT id, name, method_type, configuration, COALESCE(instructions, ''), is_active, created_at, updated_at
		FROM payment_methods
		WHERE ($1 = FALSE OR is_active = TRUE)
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("querying payment methods: %w", err)
	}
	defer rows.Close()

	var list []PaymentMethod
	for rows.Next() {
		var m PaymentMethod
		var configJSON []byte
		err := rows.Scan(&m.ID, &m.Name, &m.MethodType, &configJSON, &m.Instructions, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning payment method: %w", err)
		}
		if err := json.Unmarshal(configJSON, &m.Configuration); err != nil {
			return nil, fmt.Errorf("unmarshalling configuration: %w", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payment methods: %w", err)
	}

	return list, nil
}
