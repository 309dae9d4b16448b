package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/helpinghands/crowdfund/internal/domain"
	"github.com/helpinghands/crowdfund/pkg/paystack"
)

func TestBuildSelectsAdapterByType(t *testing.T) {
	opts := BuildOptions{PayPalMode: "sandbox", NGNPerUSDRate: 1500}
	creds := domain.PaymentMethodCredentials{
		PayPalClientID:    "id",
		PayPalSecret:      "secret",
		PaystackSecretKey: "sk",
		CoinbaseAPIKey:    "ck",
		BankName:          "First Bank",
		AccountName:       "Helping Hands",
		AccountNumber:     "0123456789",
	}

	for methodType, want := range map[string]string{
		domain.MethodPayPal:   domain.MethodPayPal,
		domain.MethodPaystack: domain.MethodPaystack,
		domain.MethodCoinbase: domain.MethodCoinbase,
		domain.MethodBank:     domain.MethodBank,
	} {
		adapter := Build(methodType, creds, opts)
		if adapter == nil {
			t.Fatalf("expected adapter for %q", methodType)
		}
		if adapter.Type() != want {
			t.Fatalf("expected type %q, got %q", want, adapter.Type())
		}
	}

	if Build("venmo", creds, opts) != nil {
		t.Fatal("expected nil adapter for unknown type")
	}
}

func TestPaystackKoboConversion(t *testing.T) {
	adapter := NewPaystackAdapter("sk", 1500)

	// $50.00 at 1500 NGN/USD is 7,500,000 kobo.
	if got := adapter.koboAmount(5000); got != 7500000 {
		t.Fatalf("expected 7500000 kobo, got %d", got)
	}
	// Fractional products round to the nearest kobo.
	rounding := NewPaystackAdapter("sk", 1499.5)
	if got := rounding.koboAmount(1); got != 1500 {
		t.Fatalf("expected 1500 kobo, got %d", got)
	}
}

func TestPaystackRateDefaultsToIdentity(t *testing.T) {
	adapter := NewPaystackAdapter("sk", 0)
	if got := adapter.koboAmount(5000); got != 5000 {
		t.Fatalf("expected identity conversion, got %d", got)
	}
}

func TestBankTransferInitiate(t *testing.T) {
	adapter := NewBankTransferAdapter(domain.PaymentMethodCredentials{
		BankName:      "First Bank",
		AccountName:   "Helping Hands Relief",
		AccountNumber: "0123456789",
	})

	donation := &domain.Donation{ID: uuid.New(), Amount: 5000}
	initiation, err := adapter.Initiate(context.Background(), InitiateParams{Donation: donation})
	if err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	if initiation.RedirectURL != "" {
		t.Fatalf("expected no redirect for bank transfers, got %q", initiation.RedirectURL)
	}
	wantReference := "DON-" + donation.ID.String()
	if initiation.ProviderReference != wantReference {
		t.Fatalf("expected reference %q, got %q", wantReference, initiation.ProviderReference)
	}
	for _, fragment := range []string{"First Bank", "Helping Hands Relief", "0123456789", wantReference} {
		if !strings.Contains(initiation.Instructions, fragment) {
			t.Fatalf("expected instructions to contain %q, got:\n%s", fragment, initiation.Instructions)
		}
	}
}

func TestCoinbaseConfirmIsUnsupported(t *testing.T) {
	adapter := NewCoinbaseAdapter("ck")
	if _, err := adapter.Confirm(context.Background(), "ch_1"); err != ErrConfirmUnsupported {
		t.Fatalf("expected ErrConfirmUnsupported, got %v", err)
	}
}

func TestBankTransferConfirmIsUnsupported(t *testing.T) {
	adapter := NewBankTransferAdapter(domain.PaymentMethodCredentials{BankName: "First Bank"})
	if _, err := adapter.Confirm(context.Background(), "DON-1"); err != ErrConfirmUnsupported {
		t.Fatalf("expected ErrConfirmUnsupported, got %v", err)
	}
}

func TestPaystackInitiateChargesInNGN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload paystack.InitializeRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.Currency != "NGN" {
			t.Errorf("expected currency NGN, got %q", payload.Currency)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]string{
				"authorization_url": "https://checkout.paystack.com/abc",
				"reference":         payload.Reference,
			},
		})
	}))
	defer server.Close()

	adapter := NewPaystackAdapter("sk", 1500)
	adapter.client.BaseURL = server.URL

	donation := &domain.Donation{ID: uuid.New(), DonorEmail: "ada@example.com", Amount: 5000}
	if _, err := adapter.Initiate(context.Background(), InitiateParams{Donation: donation}); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
}
