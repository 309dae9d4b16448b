/**
 * @description
 * Donation operations: initiation through the payment gateways and the
 * settlement paths (return URLs, callbacks, webhooks, admin confirmation).
 *
 * Settlement is idempotent end to end: the repository only completes a
 * donation that is still pending, so a replayed webhook, a donor refreshing
 * the return URL, or an admin double-clicking confirm credits the campaign
 * exactly once.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/helpinghands/crowdfund/internal/domain"
	"github.com/helpinghands/crowdfund/internal/gateway"
	"github.com/helpinghands/crowdfund/internal/store"
	"github.com/helpinghands/crowdfund/pkg/rabbitmq"
)

// CreateDonation records a pending donation against a published campaign and
// dispatches it to the selected gateway. When the gateway fails, the donation
// stays pending and the donor receives manual payment instructions instead of
// an error, so the contribution is never lost.
func (s *Service) CreateDonation(ctx context.Context, campaignID uuid.UUID, req domain.CreateDonationRequest) (*domain.DonationInitiation, error) {
	if err := Validate(
		FieldRule{Name: "donor_name", Checks: []func() string{Required(req.DonorName), MaxLength(req.DonorName, 120)}},
		FieldRule{Name: "donor_email", Checks: []func() string{Required(req.DonorEmail), Email(req.DonorEmail)}},
		FieldRule{Name: "amount", Checks: []func() string{Positive(req.Amount)}},
		FieldRule{Name: "method", Checks: []func() string{Required(req.Method), OneOf(req.Method,
			domain.MethodPayPal, domain.MethodPaystack, domain.MethodCoinbase, domain.MethodBank)}},
	); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.DonorEmail))
	if err := s.consumeLimit(ctx, "donate", email, s.opts.DonateRateLimitPerMin); err != nil {
		return nil, err
	}

	campaign, err := s.repo.FindCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.State != domain.CampaignStatePublished {
		return nil, ErrCampaignNotPublished
	}

	method, err := s.repo.FindEnabledPaymentMethodByType(ctx, req.Method)
	if err != nil {
		if errors.Is(err, store.ErrPaymentMethodNotFound) {
			return nil, ErrMethodDisabled
		}
		return nil, fmt.Errorf("failed to load payment method: %w", err)
	}

	creds, err := s.methodCredentials(method)
	if err != nil {
		return nil, err
	}
	adapter := s.buildAdapter(req.Method, creds)
	if adapter == nil {
		return nil, ErrMethodDisabled
	}

	donation := &domain.Donation{
		ID:              uuid.New(),
		CampaignID:      campaignID,
		DonorName:       strings.TrimSpace(req.DonorName),
		DonorEmail:      email,
		Anonymous:       req.Anonymous,
		Amount:          req.Amount,
		Currency:        "USD",
		Method:          req.Method,
		PaymentMethodID: &method.ID,
		Status:          domain.DonationStatusPending,
	}
	if err := s.repo.CreateDonation(ctx, donation); err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	initiation, err := adapter.Initiate(ctx, s.initiateParams(donation, campaign))
	if err != nil {
		log.Printf("level=warn component=app msg=\"gateway initiation failed; falling back to manual instructions\" donation_id=%s method=%s err=%v",
			donation.ID, req.Method, err)
		return &domain.DonationInitiation{
			DonationID: donation.ID,
			Method:     req.Method,
			Instructions: fmt.Sprintf(
				"We could not reach the payment provider. Your donation is recorded with reference DON-%s; "+
					"please contact support or retry shortly to complete payment.", donation.ID),
		}, nil
	}

	if initiation.ProviderReference != "" {
		if err := s.repo.SetDonationProviderReference(ctx, donation.ID, initiation.ProviderReference); err != nil {
			return nil, fmt.Errorf("failed to record provider reference: %w", err)
		}
	}

	return &domain.DonationInitiation{
		DonationID:   donation.ID,
		Method:       req.Method,
		RedirectURL:  initiation.RedirectURL,
		Instructions: initiation.Instructions,
	}, nil
}

func (s *Service) initiateParams(donation *domain.Donation, campaign *domain.Campaign) gateway.InitiateParams {
	base := s.opts.BaseURL
	return gateway.InitiateParams{
		Donation:    donation,
		Campaign:    campaign,
		ReturnURL:   fmt.Sprintf("%s/donations/paypal/return?donation_id=%s", base, donation.ID),
		CancelURL:   fmt.Sprintf("%s/donations/%s/cancel", base, donation.ID),
		CallbackURL: base + "/donations/paystack/callback",
	}
}

// ConfirmPayPalReturn captures the order when the donor lands back on the
// return URL. Only a completed capture settles; anything else leaves the
// donation pending so the donor can retry.
func (s *Service) ConfirmPayPalReturn(ctx context.Context, donationID uuid.UUID, orderID string) (bool, error) {
	donation, err := s.repo.FindDonationByID(ctx, donationID)
	if err != nil {
		return false, err
	}
	if donation.Method != domain.MethodPayPal {
		return false, &ValidationError{Fields: map[string]string{"donation_id": "is not a paypal donation"}}
	}
	if donation.Status == domain.DonationStatusCompleted {
		return false, nil
	}
	// The capture must target the order this donation was initiated with.
	// A caller-supplied token that names a different order is rejected.
	if donation.ProviderReference != nil {
		if orderID != "" && orderID != *donation.ProviderReference {
			return false, &ValidationError{Fields: map[string]string{"token": "does not match this donation"}}
		}
		orderID = *donation.ProviderReference
	}

	adapter, err := s.adapterForDonation(ctx, donation)
	if err != nil {
		return false, err
	}
	confirmation, err := adapter.Confirm(ctx, orderID)
	if err != nil {
		return false, &GatewayError{Method: domain.MethodPayPal, Err: err}
	}
	if !confirmation.Completed {
		return false, nil
	}
	return s.settle(ctx, donation.ID)
}

// ConfirmPaystackCallback verifies the transaction when the donor returns
// from Paystack checkout.
func (s *Service) ConfirmPaystackCallback(ctx context.Context, reference string) (bool, error) {
	donation, err := s.repo.FindDonationByProviderReference(ctx, reference)
	if err != nil {
		return false, err
	}
	if donation.Method != domain.MethodPaystack {
		return false, &ValidationError{Fields: map[string]string{"reference": "is not a paystack donation"}}
	}
	if donation.Status == domain.DonationStatusCompleted {
		return false, nil
	}

	adapter, err := s.adapterForDonation(ctx, donation)
	if err != nil {
		return false, err
	}
	confirmation, err := adapter.Confirm(ctx, reference)
	if err != nil {
		return false, &GatewayError{Method: domain.MethodPaystack, Err: err}
	}
	if !confirmation.Completed {
		return false, nil
	}
	return s.settle(ctx, donation.ID)
}

// SettleDonationByReference settles the donation a verified webhook event
// points at. Unknown references are reported as not-found; replays are no-ops.
func (s *Service) SettleDonationByReference(ctx context.Context, reference string) (bool, error) {
	donation, err := s.repo.FindDonationByProviderReference(ctx, reference)
	if err != nil {
		return false, err
	}
	return s.settle(ctx, donation.ID)
}

// SettleDonationByID settles a donation identified directly, as with Coinbase
// webhook metadata.
func (s *Service) SettleDonationByID(ctx context.Context, donationID uuid.UUID) (bool, error) {
	return s.settle(ctx, donationID)
}

// FailDonation marks a pending donation failed, used for provider failure
// events and donor-initiated cancellation. The campaign total is untouched.
func (s *Service) FailDonation(ctx context.Context, donationID uuid.UUID) (bool, error) {
	return s.repo.MarkDonationFailed(ctx, donationID)
}

// settle runs the idempotent settlement and, when it applied, fans out the
// event and notifies the campaign owner.
func (s *Service) settle(ctx context.Context, donationID uuid.UUID) (bool, error) {
	applied, err := s.repo.SettleDonation(ctx, donationID)
	if err != nil {
		return false, err
	}
	if !applied {
		return false, nil
	}

	donation, err := s.repo.FindDonationByID(ctx, donationID)
	if err != nil {
		log.Printf("level=error component=app msg=\"settled donation reload failed\" donation_id=%s err=%v", donationID, err)
		return true, nil
	}

	if s.producer != nil {
		if err := s.producer.PublishDonationSettled(ctx, rabbitmq.DonationSettledEvent{
			DonationID: donation.ID,
			CampaignID: donation.CampaignID,
			Amount:     donation.Amount,
			Method:     donation.Method,
			Timestamp:  time.Now().UTC(),
		}); err != nil {
			log.Printf("level=warn component=app msg=\"settlement event publish failed\" donation_id=%s err=%v", donation.ID, err)
		}
	}

	if campaign, err := s.repo.FindCampaignByID(ctx, donation.CampaignID); err == nil {
		donor := donation.DonorName
		if donation.Anonymous || donor == "" {
			donor = "An anonymous donor"
		}
		s.notify(ctx, campaign.OwnerID,
			"New donation received",
			fmt.Sprintf("%s donated to %q.", donor, campaign.Title),
			domain.NotificationKindDonation)
	}

	return true, nil
}

// adapterForDonation rebuilds the gateway adapter a donation was initiated
// with, from the stored payment method's credentials.
func (s *Service) adapterForDonation(ctx context.Context, donation *domain.Donation) (gateway.Adapter, error) {
	var method *domain.PaymentMethod
	var err error
	if donation.PaymentMethodID != nil {
		method, err = s.repo.FindPaymentMethodByID(ctx, *donation.PaymentMethodID)
	} else {
		method, err = s.repo.FindEnabledPaymentMethodByType(ctx, donation.Method)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment method: %w", err)
	}

	creds, err := s.methodCredentials(method)
	if err != nil {
		return nil, err
	}
	adapter := s.buildAdapter(donation.Method, creds)
	if adapter == nil {
		return nil, ErrMethodDisabled
	}
	return adapter, nil
}

// PaystackWebhookSecret returns the secret key used to verify Paystack
// webhook signatures.
func (s *Service) PaystackWebhookSecret(ctx context.Context) string {
	if method, err := s.repo.FindEnabledPaymentMethodByType(ctx, domain.MethodPaystack); err == nil {
		if creds, err := s.methodCredentials(method); err == nil && creds.PaystackSecretKey != "" {
			return creds.PaystackSecretKey
		}
	}
	return s.opts.EnvCredentials.PaystackSecretKey
}

// CoinbaseWebhookSecret returns the shared secret used to verify Coinbase
// Commerce webhook signatures.
func (s *Service) CoinbaseWebhookSecret(ctx context.Context) string {
	if method, err := s.repo.FindEnabledPaymentMethodByType(ctx, domain.MethodCoinbase); err == nil {
		if creds, err := s.methodCredentials(method); err == nil && creds.CoinbaseWebhookSecret != "" {
			return creds.CoinbaseWebhookSecret
		}
	}
	return s.opts.EnvCredentials.CoinbaseWebhookSecret
}
