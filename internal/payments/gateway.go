package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// VerificationResult is the gateway's answer for one transaction reference.
type VerificationResult struct {
	Success bool
	Status  string
}

// Verifier checks a transaction reference against an external payment
// gateway.
type Verifier interface {
	VerifyTransaction(ctx context.Context, reference string) (VerificationResult, error)
}

// GatewayClient verifies transactions against a Paystack-compatible REST
// endpoint using a bearer secret key. Each call is a single best-effort
// request; there is no retry loop.
type GatewayClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewGatewayClient(baseURL string, secretKey string) *GatewayClient {
	return &GatewayClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status string `json:"status"`
	} `json:"data"`
}

// VerifyTransaction asks the gateway about a reference. Success means the
// gateway acknowledged the request and reports the transaction as
// successful; any transport failure or non-200 response is an error.
func (g *GatewayClient) VerifyTransaction(ctx context.Context, reference string) (VerificationResult, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", g.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("creating verification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("calling payment gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return VerificationResult{}, fmt.Errorf("payment gateway returned %s", resp.Status)
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return VerificationResult{}, fmt.Errorf("decoding gateway response: %w", err)
	}

	return VerificationResult{
		Success: vr.Status && vr.Data.Status == "success",
		Status:  vr.Data.Status,
	}, nil
}
