package orders

import "time"

// Order lifecycle states.
const (
	StatusPending             = "pending"
	StatusConfirmed           = "confirmed"
	StatusShipped             = "shipped"
	StatusDelivered           = "delivered"
	StatusCancelled           = "cancelled"
	StatusPendingVerification = "pending_verification"
)

// Payment states. PaymentPaid is terminal: no code path reverts it.
const (
	PaymentPending             = "pending"
	PaymentPaid                = "paid"
	PaymentFailed              = "failed"
	PaymentRefunded            = "refunded"
	PaymentPendingVerification = "pending_verification"
)

// Order is the aggregate root for a purchase. TotalAmount is a snapshot
// taken at checkout and never recomputed.
type Order struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	TotalAmount      int64     `json:"total_amount"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"payment_status"`
	PaymentReference string    `json:"payment_reference"`
	PaymentMethodID  string    `json:"payment_method_id"`
	ShippingAddress  string    `json:"shipping_address"`
	Phone            string    `json:"phone"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// OrderItem is an immutable snapshot of a purchased line: unit price is the
// product's price at checkout time, decoupled from later price changes.
type OrderItem struct {
	ID         string `json:"id"`
	OrderID    string `json:"order_id"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	TotalPrice int64  `json:"total_price"`
}

type OrderWithItems struct {
	Order
	Items []OrderItem `json:"items"`
}

// NewOrder is the checkout request payload.
type NewOrder struct {
	ShippingAddress string `json:"shipping_address" validate:"required,max=200"`
	Phone           string `json:"phone" validate:"required,max=20"`
	PaymentMethodID string `json:"payment_method_id" validate:"required"`
}
