package handlers

import (
	"encoding/json"
	"testing"

	"github.com/didi5-com/dotlesspaints/internal/products"

	"github.com/stretchr/testify/require"
)

func TestProductResponseCarriesDiscount(t *testing.T) {
	p := products.Product{
		ID:            "p1",
		Name:          "Canvas 40x60",
		Price:         500000,
		OriginalPrice: 1000000,
	}

	data, err := json.Marshal(toProductResponse(p))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.EqualValues(t, 50, got["discount_percentage"])
	require.EqualValues(t, 500000, got["price"])
}

func TestProductResponseNoDiscount(t *testing.T) {
	data, err := json.Marshal(toProductResponse(products.Product{ID: "p2", Price: 500000}))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.EqualValues(t, 0, got["discount_percentage"])
}

func TestProductResponsesKeepOrder(t *testing.T) {
	list := []products.Product{
		{ID: "a", Price: 100, OriginalPrice: 200},
		{ID: "b", Price: 300},
	}

	out := toProductResponses(list)
	require.Len(t, out, 2)
	require.Equal(t, "a", out[0].ID)
	require.Equal(t, 50, out[0].DiscountPercentage)
	require.Equal(t, "b", out[1].ID)
	require.Equal(t, 0, out[1].DiscountPercentage)
}
