package gateway

import (
	"context"
	"fmt"

	"github.com/helpinghands/crowdfund/internal/domain"
	"github.com/helpinghands/crowdfund/pkg/coinbase"
)

// CoinbaseAdapter collects donations through Coinbase Commerce hosted charges.
// Settlement is webhook-driven: charge:confirmed completes the donation.
type CoinbaseAdapter struct {
	client *coinbase.Client
}

// NewCoinbaseAdapter creates the crypto payment path.
func NewCoinbaseAdapter(apiKey string) *CoinbaseAdapter {
	return &CoinbaseAdapter{client: coinbase.NewClient(apiKey)}
}

func (a *CoinbaseAdapter) Type() string { return domain.MethodCoinbase }

// Initiate creates a fixed-price hosted charge. The donation and campaign ids
// travel in the charge metadata so the webhook can settle the right donation.
func (a *CoinbaseAdapter) Initiate(ctx context.Context, params InitiateParams) (*Initiation, error) {
	donorName := params.Donation.DonorName
	if params.Donation.Anonymous || donorName == "" {
		donorName = "an anonymous donor"
	}

	charge, err := a.client.CreateCharge(ctx, coinbase.CreateChargeRequest{
		Name:        fmt.Sprintf("Donation to %s", params.Campaign.Title),
		Description: fmt.Sprintf("Donation by %s", donorName),
		PricingType: "fixed_price",
		LocalPrice: coinbase.LocalPrice{
			Amount:   coinbase.FormatAmount(params.Donation.Amount),
			Currency: params.Donation.Currency,
		},
		Metadata: map[string]string{
			"donation_id": params.Donation.ID.String(),
			"campaign_id": params.Campaign.ID.String(),
		},
		RedirectURL: params.ReturnURL,
		CancelURL:   params.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("coinbase charge creation failed: %w", err)
	}

	return &Initiation{
		RedirectURL:       charge.HostedURL,
		ProviderReference: charge.ID,
	}, nil
}

// Confirm is unsupported; Coinbase payments settle via webhook only.
func (a *CoinbaseAdapter) Confirm(ctx context.Context, reference string) (*Confirmation, error) {
	return nil, ErrConfirmUnsupported
}
