/**
 * @description
 * This package provides a client for the Coinbase Commerce API. The donation
 * flow only needs fixed-price charges: the donor pays crypto at a hosted
 * checkout page and Coinbase posts lifecycle webhooks back to us.
 *
 * @dependencies
 * - net/http, encoding/json: Standard Go libraries for making API requests.
 */

package coinbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultBaseURL = "https://api.commerce.coinbase.com"
	apiVersion     = "2018-03-22"
)

// Client is the Coinbase Commerce API client.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new Coinbase Commerce API client.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ErrorResponse represents an error payload from the Coinbase Commerce API.
type ErrorResponse struct {
	ErrorDetail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
	HTTPStatus  int    `json:"-"`
	RawResponse string `json:"-"`
}

func (e *ErrorResponse) Error() string {
	if e.ErrorDetail.Message != "" {
		return fmt.Sprintf("coinbase api error (status %d): %s: %s", e.HTTPStatus, e.ErrorDetail.Type, e.ErrorDetail.Message)
	}
	return fmt.Sprintf("coinbase api error (status %d): %s", e.HTTPStatus, e.RawResponse)
}

// CreateChargeRequest is the payload for POST /charges.
type CreateChargeRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PricingType string            `json:"pricing_type"`
	LocalPrice  LocalPrice        `json:"local_price"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	CancelURL   string            `json:"cancel_url,omitempty"`
}

// LocalPrice is a fiat amount expressed as a decimal string.
type LocalPrice struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Charge is the subset of the charge resource the donation flow uses.
type Charge struct {
	ID        string            `json:"id"`
	Code      string            `json:"code"`
	HostedURL string            `json:"hosted_url"`
	Metadata  map[string]string `json:"metadata"`
}

type chargeEnvelope struct {
	Data Charge `json:"data"`
}

// FormatAmount renders an amount in cents as the decimal string the API expects.
func FormatAmount(amountCents int64) string {
	return fmt.Sprintf("%d.%02d", amountCents/100, amountCents%100)
}

// CreateCharge creates a fixed-price hosted charge.
func (c *Client) CreateCharge(ctx context.Context, reqPayload CreateChargeRequest) (*Charge, error) {
	body, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-CC-Api-Key", c.APIKey)
	req.Header.Set("X-CC-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &ErrorResponse{HTTPStatus: resp.StatusCode, RawResponse: string(respBody)}
		_ = json.Unmarshal(respBody, apiErr)
		return nil, apiErr
	}

	var envelope chargeEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &envelope.Data, nil
}
