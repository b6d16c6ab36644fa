package site

import "time"

// Customization is an editable content or style fragment addressed by
// (section, element_type, element_key) and rendered by the presentation
// layer.
type Customization struct {
	ID              string            `json:"id"`
	Section         string            `json:"section"`
	ElementType     string            `json:"element_type"`
	ElementKey      string            `json:"element_key"`
	Content         string            `json:"content"`
	StyleProperties map[string]string `json:"style_properties"`
	PositionOrder   int               `json:"position_order"`
	IsActive        bool              `json:"is_active"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type NewCustomization struct {
	Section         string            `json:"section" validate:"required,max=50"`
	ElementType     string            `json:"element_type" validate:"required,oneof=text image color style"`
	ElementKey      string            `json:"element_key" validate:"required,max=100"`
	Content         string            `json:"content"`
	StyleProperties map[string]string `json:"style_properties"`
	PositionOrder   int               `json:"position_order"`
	IsActive        bool              `json:"is_active"`
}
