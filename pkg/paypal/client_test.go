package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(serverURL string) *Client {
	c := NewClient("client-id", "client-secret", "sandbox")
	c.BaseURL = serverURL
	return c
}

func TestCreateOrder(t *testing.T) {
	var tokenRequests, orderRequests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			tokenRequests++
			user, pass, ok := r.BasicAuth()
			if !ok || user != "client-id" || pass != "client-secret" {
				t.Errorf("unexpected basic auth %q/%q", user, pass)
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "tok_123",
				"expires_in":   3600,
			})
		case "/v2/checkout/orders":
			orderRequests++
			if got := r.Header.Get("Authorization"); got != "Bearer tok_123" {
				t.Errorf("unexpected authorization header %q", got)
			}
			var payload struct {
				Intent        string `json:"intent"`
				PurchaseUnits []struct {
					Amount struct {
						CurrencyCode string `json:"currency_code"`
						Value        string `json:"value"`
					} `json:"amount"`
				} `json:"purchase_units"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode order payload: %v", err)
			}
			if payload.Intent != "CAPTURE" {
				t.Errorf("expected CAPTURE intent, got %q", payload.Intent)
			}
			if payload.PurchaseUnits[0].Amount.Value != "12.05" {
				t.Errorf("expected amount 12.05, got %q", payload.PurchaseUnits[0].Amount.Value)
			}
			json.NewEncoder(w).Encode(Order{
				ID:     "ORDER123",
				Status: "CREATED",
				Links: []Link{
					{Rel: "self", Href: "https://api.example/orders/ORDER123"},
					{Rel: "approve", Href: "https://paypal.example/approve/ORDER123"},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	order, err := client.CreateOrder(context.Background(), 1205, "USD",
		"https://donate.example/return", "https://donate.example/cancel")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.ID != "ORDER123" {
		t.Fatalf("unexpected order id %q", order.ID)
	}
	if got := order.ApprovalURL(); got != "https://paypal.example/approve/ORDER123" {
		t.Fatalf("unexpected approval url %q", got)
	}

	// A second call reuses the cached token.
	if _, err := client.CreateOrder(context.Background(), 500, "USD", "r", "c"); err != nil {
		t.Fatalf("second CreateOrder failed: %v", err)
	}
	if tokenRequests != 1 {
		t.Fatalf("expected one token request, got %d", tokenRequests)
	}
	if orderRequests != 2 {
		t.Fatalf("expected two order requests, got %d", orderRequests)
	}
}

func TestCaptureOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "tok_123", "expires_in": 3600})
		case "/v2/checkout/orders/ORDER123/capture":
			json.NewEncoder(w).Encode(Order{ID: "ORDER123", Status: "COMPLETED"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	order, err := testClient(server.URL).CaptureOrder(context.Background(), "ORDER123")
	if err != nil {
		t.Fatalf("CaptureOrder failed: %v", err)
	}
	if order.Status != "COMPLETED" {
		t.Fatalf("expected COMPLETED, got %q", order.Status)
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "tok_123", "expires_in": 3600})
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"name":    "UNPROCESSABLE_ENTITY",
			"message": "The requested action could not be performed.",
		})
	}))
	defer server.Close()

	_, err := testClient(server.URL).CreateOrder(context.Background(), 1205, "USD", "r", "c")
	var apiErr *ErrorResponse
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected ErrorResponse, got %v", err)
	}
	if apiErr.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", apiErr.HTTPStatus)
	}
	if apiErr.Name != "UNPROCESSABLE_ENTITY" {
		t.Fatalf("unexpected error name %q", apiErr.Name)
	}
}

func TestNewClientModeSelection(t *testing.T) {
	if c := NewClient("id", "secret", "live"); c.BaseURL != LiveBaseURL {
		t.Fatalf("expected live base url, got %q", c.BaseURL)
	}
	if c := NewClient("id", "secret", "sandbox"); c.BaseURL != SandboxBaseURL {
		t.Fatalf("expected sandbox base url, got %q", c.BaseURL)
	}
	if c := NewClient("id", "secret", ""); c.BaseURL != SandboxBaseURL {
		t.Fatalf("expected sandbox default, got %q", c.BaseURL)
	}
}
