package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ChainClient settles transfers against an x402-style payment backend over
// HTTP. The backend is expected to expose POST {base}/x402/pay accepting
// {"to", "amount", "idempotency_key"} and responding {"tx_hash"}.
type ChainClient struct {
	BaseURL string
	Client  *http.Client

	log zerolog.Logger
}

// NewChainClient creates a settlement client. If baseURL is empty it
// defaults to the local sandbox endpoint.
func NewChainClient(baseURL string, log zerolog.Logger) *ChainClient {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8000"
	}
	return &ChainClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("component", "settlement").Logger(),
	}
}

type payRequest struct {
	To             string  `json:"to"`
	Amount         float64 `json:"amount"`
	IdempotencyKey string  `json:"idempotency_key"`
}

type payResponse struct {
	TxHash string `json:"tx_hash"`
	Error  string `json:"error,omitempty"`
}

// Settle submits the transfer and blocks until the backend confirms it.
func (c *ChainClient) Settle(ctx context.Context, destination string, amount float64) (Receipt, error) {
	key := uuid.NewString()

	body, err := json.Marshal(payRequest{To: destination, Amount: amount, IdempotencyKey: key})
	if err != nil {
		return Receipt{}, fmt.Errorf("encode pay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/x402/pay", bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("build pay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug().Str("to", destination).Float64("amount", amount).Str("key", key).Msg("submitting settlement")

	resp, err := c.Client.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrSettlementFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: read response: %v", ErrSettlementFailed, err)
	}

	if resp.StatusCode == http.StatusPaymentRequired {
		return Receipt{}, ErrPaymentNotProven
	}
	if resp.StatusCode != http.StatusOK {
		return Receipt{}, fmt.Errorf("%w: status %d: %s", ErrSettlementFailed, resp.StatusCode, string(raw))
	}

	var out payResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Receipt{}, fmt.Errorf("%w: decode response: %v", ErrSettlementFailed, err)
	}
	if out.TxHash == "" {
		return Receipt{}, fmt.Errorf("%w: response missing tx_hash", ErrSettlementFailed)
	}

	c.log.Info().Str("tx", out.TxHash).Str("key", key).Msg("settlement confirmed")
	return Receipt{TxID: out.TxHash, IdempotencyKey: key}, nil
}
