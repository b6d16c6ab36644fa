package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyTransactionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/ref_123", r.URL.Path)
		require.Equal(t, "Bearer sk_test_x", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": true, "message": "Verification successful", "data": {"status": "success"}}`))
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, "sk_test_x")
	result, err := client.VerifyTransaction(context.Background(), "ref_123")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "success", result.Status)
}

func TestVerifyTransactionFailedPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": true, "message": "Verification successful", "data": {"status": "failed"}}`))
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, "sk_test_x")
	result, err := client.VerifyTransaction(context.Background(), "ref_123")
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "failed", result.Status)
}

func TestVerifyTransactionGatewayRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": false, "message": "Transaction reference not found", "data": {"status": ""}}`))
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, "sk_test_x")
	result, err := client.VerifyTransaction(context.Background(), "bogus")
	require.NoError(t, err)
	require.False(t, result.Success)
}

func TestVerifyTransactionNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, "bad_key")
	_, err := client.VerifyTransaction(context.Background(), "ref_123")
	require.Error(t, err)
}

func TestVerifyTransactionTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewGatewayClient(srv.URL, "sk_test_x")
	_, err := client.VerifyTransaction(context.Background(), "ref_123")
	require.Error(t, err)
}
