/**
 * @description
 * This package provides a client for the Paystack API, covering transaction
 * initialization (hosted checkout) and verification. Amounts are expressed in
 * the currency subunit (kobo for NGN), matching what the API expects.
 *
 * @dependencies
 * - net/http, encoding/json: Standard Go libraries for making API requests.
 */

package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.paystack.co"

// Client is the Paystack API client.
type Client struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

// NewClient creates a new Paystack API client.
func NewClient(secretKey string) *Client {
	return &Client{
		BaseURL:   DefaultBaseURL,
		SecretKey: secretKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ErrorResponse represents an error payload from the Paystack API.
type ErrorResponse struct {
	StatusFlag  bool   `json:"status"`
	Message     string `json:"message"`
	HTTPStatus  int    `json:"-"`
	RawResponse string `json:"-"`
}

func (e *ErrorResponse) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("paystack api error (status %d): %s", e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("paystack api error (status %d): %s", e.HTTPStatus, e.RawResponse)
}

// InitializeRequest is the payload for POST /transaction/initialize.
type InitializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"` // in subunits (kobo)
	Reference   string `json:"reference,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

// InitializeResponse carries the hosted checkout details.
type InitializeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// TransactionData is the verification result for a transaction.
type TransactionData struct {
	Status    string `json:"status"` // "success", "failed", "abandoned"
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeTransaction starts a hosted checkout session.
func (c *Client) InitializeTransaction(ctx context.Context, reqPayload InitializeRequest) (*InitializeResponse, error) {
	var out InitializeResponse
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", reqPayload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTransaction checks the final state of a transaction by reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*TransactionData, error) {
	var out TransactionData
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request payload: %w", err)
		}
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &ErrorResponse{HTTPStatus: resp.StatusCode, RawResponse: string(respBody)}
		_ = json.Unmarshal(respBody, apiErr)
		return apiErr
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if !envelope.Status {
		return &ErrorResponse{HTTPStatus: resp.StatusCode, Message: envelope.Message, RawResponse: string(respBody)}
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
