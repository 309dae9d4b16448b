/**
 * @description
 * This package provides a client for the PayPal REST API, covering the two
 * calls the donation flow needs: creating a checkout order and capturing it
 * after donor approval. Access tokens are fetched with the client-credentials
 * grant and cached until shortly before expiry.
 *
 * @dependencies
 * - net/http, encoding/json: Standard Go libraries for making API requests.
 */

package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"
)

// Client is the PayPal API client.
type Client struct {
	BaseURL    string
	ClientID   string
	Secret     string
	HTTPClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new PayPal API client. mode selects the live or sandbox
// environment; anything other than "live" uses the sandbox.
func NewClient(clientID, secret, mode string) *Client {
	baseURL := SandboxBaseURL
	if strings.EqualFold(strings.TrimSpace(mode), "live") {
		baseURL = LiveBaseURL
	}
	return &Client{
		BaseURL:  baseURL,
		ClientID: clientID,
		Secret:   secret,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ErrorResponse represents an error payload from the PayPal API.
type ErrorResponse struct {
	Name        string `json:"name"`
	Message     string `json:"message"`
	DebugID     string `json:"debug_id"`
	HTTPStatus  int    `json:"-"`
	RawResponse string `json:"-"`
}

func (e *ErrorResponse) Error() string {
	if e.Name != "" || e.Message != "" {
		return fmt.Sprintf("paypal api error (status %d): %s: %s", e.HTTPStatus, e.Name, e.Message)
	}
	return fmt.Sprintf("paypal api error (status %d): %s", e.HTTPStatus, e.RawResponse)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Order is the subset of the PayPal order resource the donation flow uses.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links"`
}

// Link is a HATEOAS link in an order response.
type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

// ApprovalURL returns the donor-facing approval link, or "" when absent.
func (o *Order) ApprovalURL() string {
	for _, link := range o.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			return link.Href
		}
	}
	return ""
}

// token returns a valid access token, refreshing it when needed.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.ClientID, c.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", c.apiError(resp.StatusCode, body)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	c.accessToken = tok.AccessToken
	// Refresh one minute early to avoid using a token at the expiry edge.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

// CreateOrder creates a CAPTURE-intent order for the given amount.
// amountCents is converted to a decimal string for the API.
func (c *Client) CreateOrder(ctx context.Context, amountCents int64, currency, returnURL, cancelURL string) (*Order, error) {
	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": currency,
					"value":         fmt.Sprintf("%d.%02d", amountCents/100, amountCents%100),
				},
			},
		},
		"application_context": map[string]string{
			"return_url": returnURL,
			"cancel_url": cancelURL,
		},
	}

	var order Order
	if err := c.post(ctx, "/v2/checkout/orders", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CaptureOrder captures an approved order. A captured order reports status
// "COMPLETED".
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.post(ctx, "/v2/checkout/orders/"+orderID+"/capture", struct{}{}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	accessToken, err := c.token(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
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
		return c.apiError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) apiError(status int, body []byte) error {
	apiErr := &ErrorResponse{HTTPStatus: status, RawResponse: string(body)}
	_ = json.Unmarshal(body, apiErr)
	return apiErr
}
