package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(serverURL string) *Client {
	c := NewClient("sk_test_secret")
	c.BaseURL = serverURL
	return c
}

func TestInitializeTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_secret" {
			t.Errorf("unexpected authorization header %q", got)
		}

		var payload InitializeRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.Amount != 750000 {
			t.Errorf("expected amount 750000, got %d", payload.Amount)
		}
		if payload.Reference == "" {
			t.Error("expected a reference")
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]string{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         payload.Reference,
			},
		})
	}))
	defer server.Close()

	out, err := testClient(server.URL).InitializeTransaction(context.Background(), InitializeRequest{
		Email:     "ada@example.com",
		Amount:    750000,
		Reference: "DON-1",
	})
	if err != nil {
		t.Fatalf("InitializeTransaction failed: %v", err)
	}
	if out.AuthorizationURL != "https://checkout.paystack.com/abc123" {
		t.Fatalf("unexpected authorization url %q", out.AuthorizationURL)
	}
	if out.Reference != "DON-1" {
		t.Fatalf("unexpected reference %q", out.Reference)
	}
}

func TestVerifyTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/DON-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]interface{}{
				"status":    "success",
				"reference": "DON-1",
				"amount":    750000,
				"currency":  "NGN",
			},
		})
	}))
	defer server.Close()

	data, err := testClient(server.URL).VerifyTransaction(context.Background(), "DON-1")
	if err != nil {
		t.Fatalf("VerifyTransaction failed: %v", err)
	}
	if data.Status != "success" {
		t.Fatalf("expected success, got %q", data.Status)
	}
	if data.Amount != 750000 {
		t.Fatalf("unexpected amount %d", data.Amount)
	}
}

func TestEnvelopeFailureBecomesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Invalid key",
		})
	}))
	defer server.Close()

	_, err := testClient(server.URL).VerifyTransaction(context.Background(), "DON-1")
	var apiErr *ErrorResponse
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected ErrorResponse, got %v", err)
	}
	if apiErr.Message != "Invalid key" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestHTTPErrorBecomesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"status": false, "message": "Invalid key"})
	}))
	defer server.Close()

	_, err := testClient(server.URL).VerifyTransaction(context.Background(), "DON-1")
	var apiErr *ErrorResponse
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected ErrorResponse, got %v", err)
	}
	if apiErr.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", apiErr.HTTPStatus)
	}
}
