package gateway

import (
	"context"
	"fmt"

	"github.com/helpinghands/crowdfund/internal/domain"
	"github.com/helpinghands/crowdfund/pkg/paypal"
)

// PayPalAdapter collects donations through PayPal checkout orders.
type PayPalAdapter struct {
	client *paypal.Client
}

// NewPayPalAdapter creates the PayPal payment path.
func NewPayPalAdapter(clientID, secret, mode string) *PayPalAdapter {
	return &PayPalAdapter{client: paypal.NewClient(clientID, secret, mode)}
}

func (a *PayPalAdapter) Type() string { return domain.MethodPayPal }

// Initiate creates a CAPTURE-intent order and returns the approval redirect.
func (a *PayPalAdapter) Initiate(ctx context.Context, params InitiateParams) (*Initiation, error) {
	order, err := a.client.CreateOrder(ctx,
		params.Donation.Amount, params.Donation.Currency, params.ReturnURL, params.CancelURL)
	if err != nil {
		return nil, fmt.Errorf("paypal order creation failed: %w", err)
	}

	approvalURL := order.ApprovalURL()
	if approvalURL == "" {
		return nil, fmt.Errorf("paypal order %s has no approval link", order.ID)
	}

	return &Initiation{
		RedirectURL:       approvalURL,
		ProviderReference: order.ID,
	}, nil
}

// Confirm captures the approved order. Only a COMPLETED capture settles the
// donation.
func (a *PayPalAdapter) Confirm(ctx context.Context, reference string) (*Confirmation, error) {
	order, err := a.client.CaptureOrder(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("paypal order capture failed: %w", err)
	}
	return &Confirmation{Completed: order.Status == "COMPLETED"}, nil
}
