package settlement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainClientSettle(t *testing.T) {
	var got payRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/x402/pay", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(payResponse{TxHash: "5KtP9UzJ"})
	}))
	defer srv.Close()

	c := NewChainClient(srv.URL, zerolog.Nop())
	receipt, err := c.Settle(context.Background(), "treasury:asset-vendor", 1.0)
	require.NoError(t, err)

	assert.Equal(t, "5KtP9UzJ", receipt.TxID)
	assert.NotEmpty(t, receipt.IdempotencyKey)
	assert.Equal(t, receipt.IdempotencyKey, got.IdempotencyKey)
	assert.Equal(t, "treasury:asset-vendor", got.To)
	assert.Equal(t, 1.0, got.Amount)
}

func TestChainClientPaymentNotProven(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c := NewChainClient(srv.URL, zerolog.Nop())
	_, err := c.Settle(context.Background(), "x", 0.05)
	assert.ErrorIs(t, err, ErrPaymentNotProven)
}

func TestChainClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chain unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewChainClient(srv.URL, zerolog.Nop())
	_, err := c.Settle(context.Background(), "x", 1.0)
	assert.ErrorIs(t, err, ErrSettlementFailed)
}

func TestChainClientMissingTxHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewChainClient(srv.URL, zerolog.Nop())
	_, err := c.Settle(context.Background(), "x", 1.0)
	assert.ErrorIs(t, err, ErrSettlementFailed)
}
