package handlers

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/didi5-com/dotlesspaints/internal/auth"
	"github.com/didi5-com/dotlesspaints/internal/cart"
	"github.com/didi5-com/dotlesspaints/internal/messages"
	"github.com/didi5-com/dotlesspaints/internal/orders"
	"github.com/didi5-com/dotlesspaints/internal/payments"
	"github.com/didi5-com/dotlesspaints/internal/products"
	"github.com/didi5-com/dotlesspaints/internal/site"
	"github.com/didi5-com/dotlesspaints/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keys := auth.NewKeysFromPrivate(privateKey)

	h := NewHandler(users.Conf{}, products.Conf{}, cart.Conf{}, orders.Conf{},
		payments.Conf{}, messages.Conf{}, site.Conf{}, nil, keys)
	return API("/api/v1", keys, h)
}

func TestHealthCheck(t *testing.T) {
	r := testAPI(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ok")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := testAPI(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/checkout"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/admin/dashboard"},
		{http.MethodGet, "/api/v1/admin/orders"},
	}

	for _, route := range routes {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(route.method, route.path, nil)
		r.ServeHTTP(w, req)
		require.Equalf(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}
