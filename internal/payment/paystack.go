package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.paystack.co"

// PaystackGateway talks to the Paystack transaction-initialize REST
// endpoint. The secret key authenticates the merchant; the shopper
// then completes payment on the returned authorization URL.
type PaystackGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPaystackGateway(secretKey string) *PaystackGateway {
	return &PaystackGateway{
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type initializeRequest struct {
	Email     string `json:"email"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

func (g *PaystackGateway) Initialize(ctx context.Context, req ChargeRequest) (*Handoff, error) {
	body, err := json.Marshal(initializeRequest{
		Email:     req.Email,
		Amount:    req.AmountKobo,
		Currency:  req.Currency,
		Reference: req.Reference,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build initialize request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paystack initialize call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("paystack initialize returned %d: %s", resp.StatusCode, raw)
	}

	var out initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode initialize response: %w", err)
	}
	if !out.Status {
		return nil, fmt.Errorf("paystack refused to initialize: %s", out.Message)
	}

	return &Handoff{
		AuthorizationURL: out.Data.AuthorizationURL,
		AccessCode:       out.Data.AccessCode,
		Reference:        out.Data.Reference,
	}, nil
}
