package products

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscountPercentage(t *testing.T) {
	tests := []struct {
		name    string
		price   int64
		origin  int64
		percent int
	}{
		{name: "half price", price: 500000, origin: 1000000, percent: 50},
		{name: "quarter off", price: 750000, origin: 1000000, percent: 25},
		{name: "rounds to nearest", price: 666700, origin: 1000000, percent: 33},
		{name: "no original price", price: 500000, origin: 0, percent: 0},
		{name: "original equals price", price: 500000, origin: 500000, percent: 0},
		{name: "original below price", price: 500000, origin: 400000, percent: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: tt.price, OriginalPrice: tt.origin}
			require.Equal(t, tt.percent, p.DiscountPercentage())
		})
	}
}
