package payments

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		methodType string
		config     map[string]string
		wantErr    bool
	}{
		{
			name:       "gateway with both keys",
			methodType: MethodGateway,
			config:     map[string]string{"public_key": "pk_test_x", "secret_key": "sk_test_x"},
		},
		{
			name:       "gateway missing secret key",
			methodType: MethodGateway,
			config:     map[string]string{"public_key": "pk_test_x"},
			wantErr:    true,
		},
		{
			name:       "gateway with blank values is accepted",
			methodType: MethodGateway,
			config:     map[string]string{"public_key": "", "secret_key": ""},
		},
		{
			name:       "manual with bank details",
			methodType: MethodManual,
			config:     map[string]string{"account_name": "Dotless Paints", "account_number": "0123456789", "bank_name": "GTBank"},
		},
		{
			name:       "manual missing bank name",
			methodType: MethodManual,
			config:     map[string]string{"account_name": "Dotless Paints", "account_number": "0123456789"},
			wantErr:    true,
		},
		{
			name:       "crypto with one wallet address",
			methodType: MethodCrypto,
			config:     map[string]string{"btc_address": "bc1qxyz"},
		},
		{
			name:       "crypto with several wallets",
			methodType: MethodCrypto,
			config:     map[string]string{"btc_address": "bc1qxyz", "eth_address": "0xabc"},
		},
		{
			name:       "crypto without any address key",
			methodType: MethodCrypto,
			config:     map[string]string{"network": "mainnet"},
			wantErr:    true,
		},
		{
			name:       "crypto with empty config",
			methodType: MethodCrypto,
			config:     map[string]string{},
			wantErr:    true,
		},
		{
			name:       "unknown method type",
			methodType: "cheque",
			config:     map[string]string{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfiguration(tt.methodType, tt.config)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
		})
	}
}
