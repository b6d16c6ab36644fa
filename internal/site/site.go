package site

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("customization not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// Resolve maps element keys to content for the active rows of a section,
// in position order. An empty section resolves across all sections.
func (c *Conf) Resolve(ctx context.Context, section string) (map[string]string, error) {
	query := `
		SELECT element_key, COALESCE(content, '')
		FROM site_customizations
		WHERE is_active = TRUE AND ($1 = '' OR section = $1)
		ORDER BY position_order
	`
	rows, err := c.db.QueryContext(ctx, query, section)
	if err != nil {
		return nil, fmt.Errorf("querying customizations: %w", err)
	}
	defer rows.Close()

	content := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning customization: %w", err)
		}
		content[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customizations: %w", err)
	}

	return content, nil
}

// ResolveValue returns the content of a single active element, or "" when
// the element is absent or inactive.
func (c *Conf) ResolveValue(ctx context.Context, section string, elementKey string) (string, error) {
	query := `
		SELECT COALESCE(content, '')
		FROM site_customizations
		WHERE is_active = TRUE AND section = $1 AND element_key = $2
		ORDER BY position_order
		LIMIT 1
	`
	var content string
	err := c.db.QueryRowContext(ctx, query, section, elementKey).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("querying customization: %w", err)
	}
	return content, nil
}

// ResolveStyles maps element keys to parsed style properties for the active
// rows of a section. Rows whose style payload does not parse are skipped,
// never surfaced as an error.
func (c *Conf) ResolveStyles(ctx context.Context, section string) (map[string]map[string]string, error) {
	query := `
		SELECT element_key, style_properties
		FROM site_customizations
		WHERE is_active = TRUE AND ($1 = '' OR section = $1) AND style_properties IS NOT NULL
		ORDER BY position_order
	`
	rows, err := c.db.QueryContext(ctx, query, section)
	if err != nil {
		return nil, fmt.Errorf("querying customization styles: %w", err)
	}
	defer rows.Close()

	styles := make(map[string]map[string]string)
	for rows.Next() {
		var key string
		var raw []byte
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scanning customization style: %w", err)
		}
		props := ParseStyleProperties(raw)
		if props == nil {
			continue
		}
		styles[key] = props
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customization styles: %w", err)
	}

	return styles, nil
}

// ParseStyleProperties decodes a style payload into css-property/value
// pairs, returning nil for payloads that do not parse.
func ParseStyleProperties(raw []byte) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var props map[string]string
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil
	}
	return props
}

func (c *Conf) InsertCustomization(ctx context.Context, nc NewCustomization) (Customization, error) {
	styleJSON, err := json.Marshal(nc.StyleProperties)
	if err != nil {
		return Customization{}, fmt.Errorf("marshalling style properties: %w", err)
	}

	custom := Customization{
		ID:              uuid.NewString(),
		Section:         nc.Section,
		ElementType:     nc.ElementType,
		ElementKey:      nc.ElementKey,
		Content:         nc.Content,
		StyleProperties: nc.StyleProperties,
		PositionOrder:   nc.PositionOrder,
		IsActive:        nc.IsActive,
		UpdatedAt:       time.Now().UTC(),
	}

	query := `
		INSERT INTO site_customizations (id, section, element_type, element_key, content, style_properties, position_order, is_active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = c.db.ExecContext(ctx, query, custom.ID, custom.Section, custom.ElementType, custom.ElementKey,
		custom.Content, styleJSON, custom.PositionOrder, custom.IsActive, custom.UpdatedAt)
	if err != nil {
		return Customization{}, fmt.Errorf("inserting customization: %w", err)
	}

	return custom, nil
}

func (c *Conf) UpdateCustomization(ctx context.Context, customizationID string, nc NewCustomization) (Customization, error) {
	styleJSON, err := json.Marshal(nc.StyleProperties)
	if err != nil {
		return Customization{}, fmt.Errorf("marshalling style properties: %w", err)
	}

	query := `
		UPDATE site_customizations
		SET section = $1, element_type = $2, element_key = $3, content = $4, style_properties = $5,
		    position_order = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
	`
	result, err := c.db.ExecContext(ctx, query, nc.Section, nc.ElementType, nc.ElementKey, nc.Content,
		styleJSON, nc.PositionOrder, nc.IsActive, customizationID)
	if err != nil {
		return Customization{}, fmt.Errorf("updating customization: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return Customization{}, fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return Customization{}, ErrNotFound
	}

	return c.GetCustomizationByID(ctx, customizationID)
}

func (c *Conf) DeleteCustomization(ctx context.Context, customizationID string) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM site_customizations WHERE id = $1`, customizationID)
	if err != nil {
		return fmt.Errorf("deleting customization: %w", err)
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

func (c *Conf) GetCustomizationByID(ctx context.Context, customizationID string) (Customization, error) {
	query := `
		SELECT id, section, element_type, element_key, COALESCE(content, ''), style_properties, position_order, is_active, updated_at
		FROM site_customizations
		WHERE id = $1
	`
	var cu Customization
	var raw []byte
	err := c.db.QueryRowContext(ctx, query, customizationID).Scan(&cu.ID, &cu.Section, &cu.ElementType,
		&cu.ElementKey, &cu.Content, &raw, &cu.PositionOrder, &cu.IsActive, &cu.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Customization{}, ErrNotFound
		}
		return Customization{}, fmt.Errorf("querying customization: %w", err)
	}
	cu.StyleProperties = ParseStyleProperties(raw)

	return cu, nil
}

// ListCustomizations pages all rows for the admin console, grouped by
// section in position order.
func (c *Conf) ListCustomizations(ctx context.Context, page int, pageSize int) ([]Customization, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	query := `
		SELECT id, section, element_type, element_key, COALESCE(content, ''), style_properties, position_order, is_active, updated_at
		FROM site_customizations
		ORDER BY section, position_order
		LIMIT $1 OFFSET $2
	`
	rows, err := c.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("querying customizations: %w", err)
	}
	defer rows.Close()

	var list []Customization
	for rows.Next() {
		var cu Customization
		var raw []byte
		err := rows.Scan(&cu.ID, &cu.Section, &cu.ElementType, &cu.ElementKey, &cu.Content, &raw,
			&cu.PositionOrder, &cu.IsActive, &cu.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning customization: %w", err)
		}
		cu.StyleProperties = ParseStyleProperties(raw)
		list = append(list, cu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customizations: %w", err)
	}

	return list, nil
}
