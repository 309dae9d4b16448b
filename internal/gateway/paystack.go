package gateway

import (
	"context"
	"fmt"
	"math"

	"github.com/helpinghands/crowdfund/internal/domain"
	"github.com/helpinghands/crowdfund/pkg/paystack"
)

// PaystackAdapter collects donations through Paystack hosted checkout.
// Paystack settles in NGN, so USD donation amounts are converted to kobo at
// the configured rate before initialization.
type PaystackAdapter struct {
	client        *paystack.Client
	ngnPerUSDRate float64
}

// NewPaystackAdapter creates the Paystack payment path.
func NewPaystackAdapter(secretKey string, ngnPerUSDRate float64) *PaystackAdapter {
	if ngnPerUSDRate <= 0 {
		ngnPerUSDRate = 1
	}
	return &PaystackAdapter{
		client:        paystack.NewClient(secretKey),
		ngnPerUSDRate: ngnPerUSDRate,
	}
}

func (a *PaystackAdapter) Type() string { return domain.MethodPaystack }

// koboAmount converts a USD amount in cents to NGN kobo.
func (a *PaystackAdapter) koboAmount(amountCents int64) int64 {
	return int64(math.Round(float64(amountCents) * a.ngnPerUSDRate))
}

// Initiate starts a hosted checkout session. The donation id is used as the
// provider reference ("DON-<id>") so webhooks can find the donation.
func (a *PaystackAdapter) Initiate(ctx context.Context, params InitiateParams) (*Initiation, error) {
	reference := fmt.Sprintf("DON-%s", params.Donation.ID)

	resp, err := a.client.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:       params.Donation.DonorEmail,
		Amount:      a.koboAmount(params.Donation.Amount),
		Currency:    "NGN",
		Reference:   reference,
		CallbackURL: params.CallbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("paystack initialization failed: %w", err)
	}

	return &Initiation{
		RedirectURL:       resp.AuthorizationURL,
		ProviderReference: resp.Reference,
	}, nil
}

// Confirm verifies the transaction state with Paystack.
func (a *PaystackAdapter) Confirm(ctx context.Context, reference string) (*Confirmation, error) {
	data, err := a.client.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("paystack verification failed: %w", err)
	}
	return &Confirmation{Completed: data.Status == "success"}, nil
}
