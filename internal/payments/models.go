package payments

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	MethodGateway = "gateway"
	MethodManual  = "manual"
	MethodCrypto  = "crypto"
)

var ErrInvalidConfiguration = errors.New("invalid payment method configuration")

// PaymentMethod is a way to pay for an order. Configuration is a typed
// key-value map whose required keys depend on the method type; it is
// validated when the method is created or edited, not when read.
type PaymentMethod struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	MethodType    string            `json:"method_type"`
	Configuration map[string]string `json:"configuration"`
	Instructions  string            `json:"instructions"`
	IsActive      bool              `json:"is_active"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type NewPaymentMethod struct {
	Name          string            `json:"name" validate:"required,max=50"`
	MethodType    string            `json:"method_type" validate:"required,oneof=gateway manual crypto"`
	Configuration map[string]string `json:"configuration"`
	Instructions  string            `json:"instructions"`
	IsActive      bool              `json:"is_active"`
}

// requiredConfigKeys maps a method type to the keys its configuration must
// carry. Values may be blank until the operator fills them in.
var requiredConfigKeys = map[string][]string{
	MethodGateway: {"public_key", "secret_key"},
	MethodManual:  {"account_name", "account_number", "bank_name"},
}

// ValidateConfiguration enforces the per-type configuration schema at write
// time. Crypto methods need at least one wallet address key (btc_address,
// eth_address, ...).
func ValidateConfiguration(methodType string, config map[string]string) error {
	switch methodType {
	case MethodGateway, MethodManual:
		for _, key := range requiredConfigKeys[methodType] {
			if _, ok := config[key]; !ok {
				return fmt.Errorf("missing %q key for %s method: %w", key, methodType, ErrInvalidConfiguration)
			}
		}
		return nil
	case MethodCrypto:
		for key := range config {
			if strings.HasSuffix(key, "_address") {
				return nil
			}
		}
		return fmt.Errorf("crypto method needs at least one *_address key: %w", ErrInvalidConfiguration)
	default:
		return fmt.Errorf("unknown method type %q: %w", methodType, ErrInvalidConfiguration)
	}
}
