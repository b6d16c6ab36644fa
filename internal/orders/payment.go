package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/didi5-com/dotlesspaints/internal/stores/kafka"
	"github.com/didi5-com/dotlesspaints/pkg/logkey"
)

var (
	ErrAlreadyPaid        = errors.New("order already paid")
	ErrMissingReference   = errors.New("no payment reference provided")
	ErrVerificationFailed = errors.New("payment verification failed")
)

// ConfirmGatewayPayment drives the gateway leg of the payment state machine:
// verify the reference with the external gateway, and on success move the
// order to confirmed/paid and record the reference. On any verification
// failure the order is left untouched so the buyer can retry; there is no
// retry loop here.
func (c *Conf) ConfirmGatewayPayment(ctx context.Context, userID string, orderID string, reference string) (Order, error) {
	order, err := c.getOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if order.UserID != userID {
		return Order{}, ErrNotFound
	}

	if order.PaymentStatus == PaymentPaid {
		return order, ErrAlreadyPaid
	}

	if reference == "" {
		return Order{}, ErrMissingReference
	}

	result, err := c.verifier.VerifyTransaction(ctx, reference)
	if err != nil {
		return Order{}, fmt.Errorf("%v: %w", err, ErrVerificationFailed)
	}
	if !result.Success {
		return Order{}, fmt.Errorf("gateway reported status %q: %w", result.Status, ErrVerificationFailed)
	}

	query := `
		UPDATE orders
		SET status = $1, payment_status = $2, payment_reference = $3, updated_at = NOW()
		WHERE id = $4 AND payment_status <> $2
	`
	if _, err := c.db.ExecContext(ctx, query, StatusConfirmed, PaymentPaid, reference, orderID); err != nil {
		return Order{}, fmt.Errorf("recording paid order: %w", err)
	}

	c.publishOrderPaid(ctx, orderID, userID, reference, order.TotalAmount)

	return c.getOrder(ctx, orderID)
}

// ConfirmSelfReportedPayment handles the manual and crypto legs: the buyer
// claims payment was sent, and the order parks in pending_verification until
// an admin reconciles it. It never moves an order straight to paid.
func (c *Conf) ConfirmSelfReportedPayment(ctx context.Context, userID string, orderID string) (Order, error) {
	order, err := c.getOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if order.UserID != userID {
		return Order{}, ErrNotFound
	}

	if order.PaymentStatus == PaymentPaid {
		return order, ErrAlreadyPaid
	}

	query := `
		UPDATE orders
		SET status = $1, payment_status = $2, updated_at = NOW()
		WHERE id = $3 AND payment_status <> $4
	`
	if _, err := c.db.ExecContext(ctx, query, StatusPendingVerification, PaymentPendingVerification, orderID, PaymentPaid); err != nil {
		return Order{}, fmt.Errorf("marking order pending verification: %w", err)
	}

	return c.getOrder(ctx, orderID)
}

// ResolvePaymentStatus is the admin side of the manual/crypto flow: settle a
// self-reported payment as paid or failed. Paid orders are terminal and are
// never changed again.
func (c *Conf) ResolvePaymentStatus(ctx context.Context, orderID string, paymentStatus string) (Order, error) {
	if paymentStatus != PaymentPaid && paymentStatus != PaymentFailed {
		return Order{}, ErrInvalidStatus
	}

	order, err := c.getOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if order.PaymentStatus == PaymentPaid {
		return order, ErrAlreadyPaid
	}

	status := order.Status
	if paymentStatus == PaymentPaid {
		status = StatusConfirmed
	}

	query := `
		UPDATE orders
		SET status = $1, payment_status = $2, updated_at = NOW()
		WHERE id = $3 AND payment_status <> $4
	`
	if _, err := c.db.ExecContext(ctx, query, status, paymentStatus, orderID, PaymentPaid); err != nil {
		return Order{}, fmt.Errorf("resolving payment status: %w", err)
	}

	if paymentStatus == PaymentPaid {
		c.publishOrderPaid(ctx, orderID, order.UserID, order.PaymentReference, order.TotalAmount)
	}

	return c.getOrder(ctx, orderID)
}

// publishOrderPaid emits the order-paid event. Failures are logged, not
// returned: the payment already settled and must not be lost to a broker
// hiccup.
func (c *Conf) publishOrderPaid(ctx context.Context, orderID string, userID string, reference string, amount int64) {
	if c.events == nil {
		return
	}

	event := kafka.OrderPaidEvent{
		OrderId:   orderID,
		UserId:    userID,
		Reference: reference,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	jsonData, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal OrderPaidEvent", slog.String(logkey.ERROR, err.Error()))
		return
	}

	if err := c.events.ProduceMessage(ctx, kafka.TopicOrderPaid, []byte(orderID), jsonData); err != nil {
		slog.Error("failed to produce order paid event", slog.String(logkey.ERROR, err.Error()),
			slog.String("OrderID", orderID))
	}
}
