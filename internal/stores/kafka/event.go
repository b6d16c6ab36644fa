package kafka

import "time"

const (
	TopicAccountCreated = `dotlesspaints.account-created`
	TopicOrderPaid      = `dotlesspaints.order-paid`
)

// AccountCreatedEvent is published when a new user signs up.
type AccountCreatedEvent struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderPaidEvent is published when an order's payment reaches paid.
type OrderPaidEvent struct {
	OrderId   string    `json:"order_id"`
	UserId    string    `json:"user_id"`
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
