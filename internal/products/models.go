package products

import "time"

// Product is a catalog entry. Prices are stored in the smallest currency
// unit (kobo).
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	OriginalPrice int64     `json:"original_price"`
	ImageURL      string    `json:"image_url"`
	Category      string    `json:"category"`
	StockQuantity int       `json:"stock_quantity"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DiscountPercentage is the rounded discount implied by original_price,
// or 0 when no discount applies.
func (p Product) DiscountPercentage() int {
	if p.OriginalPrice > p.Price && p.OriginalPrice > 0 {
		return int(float64(p.OriginalPrice-p.Price)/float64(p.OriginalPrice)*100 + 0.5)
	}
	return 0
}

type NewProduct struct {
	Name          string `json:"name" validate:"required,max=100"`
	Description   string `json:"description"`
	Price         int64  `json:"price" validate:"required,min=1"`
	OriginalPrice int64  `json:"original_price" validate:"omitempty,min=1"`
	ImageURL      string `json:"image_url" validate:"max=200"`
	Category      string `json:"category" validate:"max=50"`
	StockQuantity int    `json:"stock_quantity" validate:"min=0"`
	IsActive      bool   `json:"is_active"`
}

// Filter narrows and pages a product listing.
type Filter struct {
	Category        string
	Search          string
	Page            int
	PageSize        int
	IncludeInactive bool
}
