package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("message not found")

// ContactMessage is one inbox entry from the storefront contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type NewContactMessage struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=1000"`
}

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

func (c *Conf) InsertMessage(ctx context.Context, nm NewContactMessage) (ContactMessage, error) {
	msg := ContactMessage{
		ID:        uuid.NewString(),
		Name:      nm.Name,
		Email:     nm.Email,
		Message:   nm.Message,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO contact_messages (id, name, email, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`
	if _, err := c.db.ExecContext(ctx, query, msg.ID, msg.Name, msg.Email, msg.Message, msg.CreatedAt); err != nil {
		return ContactMessage{}, fmt.Errorf("inserting contact message: %w", err)
	}

	return msg, nil
}

// ListMessages pages the inbox, newest first.
func (c *Conf) ListMessages(ctx context.Context, page int, pageSize int) ([]ContactMessage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	query := `
		SELECT id, name, email, message, is_read, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := c.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("querying contact messages: %w", err)
	}
	defer rows.Close()

	var list []ContactMessage
	for rows.Next() {
		var m ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning contact message: %w", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact messages: %w", err)
	}

	return list, nil
}

func (c *Conf) MarkRead(ctx context.Context, messageID string) error {
	result, err := c.db.ExecContext(ctx, `UPDATE contact_messages SET is_read = TRUE WHERE id = $1`, messageID)
	if err != nil {
		return fmt.Errorf("marking message read: %w", err)
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

func (c *Conf) CountUnread(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages WHERE is_read = FALSE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting unread messages: %w", err)
	}
	return count, nil
}
