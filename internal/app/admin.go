/**
 * @description
 * Admin operations: the dashboard aggregates, KYC review, campaign
 * moderation, bank transfer confirmation, payment method management, user
 * administration, and donor appreciation mail. Every money-relevant decision
 * here is audit-logged and mirrored onto the event bus.
 */

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/helpinghands/crowdfund/internal/domain"
)

// Moderation and review decisions accepted by the admin endpoints.
const (
	DecisionApprove   = "approve"
	DecisionReject    = "reject"
	DecisionPublish   = "publish"
	DecisionUnpublish = "unpublish"
)

// GetDashboardStats returns the admin overview aggregates.
func (s *Service) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	return s.repo.GetDashboardStats(ctx)
}

// ListKYCQueue returns KYC submissions in the given status, pending by default.
func (s *Service) ListKYCQueue(ctx context.Context, status string, limit, offset int) ([]domain.KYCSubmission, error) {
	if status == "" {
		status = domain.KYCStatusPending
	}
	return s.repo.ListKYCByStatus(ctx, status, limit, offset)
}

// ReviewKYC applies an approve or reject decision to a pending submission,
// notifies the user in-app, and emails them the outcome.
func (s *Service) ReviewKYC(ctx context.Context, adminID, kycID uuid.UUID, decision string) (*domain.KYCSubmission, error) {
	var status string
	switch decision {
	case DecisionApprove:
		status = domain.KYCStatusVerified
	case DecisionReject:
		status = domain.KYCStatusRejected
	default:
		return nil, &ValidationError{Fields: map[string]string{"decision": "must be approve or reject"}}
	}

	sub, err := s.repo.ReviewKYCSubmission(ctx, kycID, status)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &adminID, "kyc."+decision+"d", "kyc", &kycID, "", "")

	var title, body string
	if status == domain.KYCStatusVerified {
		title = "Identity verified"
		body = "Your identity documents were approved. You can now create campaigns."
	} else {
		title = "Identity verification rejected"
		body = "Your identity documents were rejected. Please review them and submit again."
	}
	s.notify(ctx, sub.UserID, title, body, domain.NotificationKindKYC)

	if user, err := s.repo.FindUserByID(ctx, sub.UserID); err == nil && s.mail != nil {
		if err := s.mail.Send(user.Email, title, fmt.Sprintf("Hello %s,\n\n%s\n", user.Name, body)); err != nil {
			log.Printf("level=warn component=app msg=\"kyc decision mail failed\" user_id=%s err=%v", sub.UserID, err)
		}
	}

	return sub, nil
}

// ListCampaignsForReview returns campaigns by state, the review queue by default.
func (s *Service) ListCampaignsForReview(ctx context.Context, state string, limit, offset int) ([]domain.Campaign, error) {
	if state == "" {
		state = domain.CampaignStatePendingApproval
	}
	return s.repo.ListCampaigns(ctx, domain.CampaignListOptions{State: state, Limit: limit, Offset: offset})
}

// ModerateCampaign applies a publish, reject, or unpublish decision.
func (s *Service) ModerateCampaign(ctx context.Context, adminID, campaignID uuid.UUID, decision string) (*domain.Campaign, error) {
	var fromState, toState string
	switch decision {
	case DecisionPublish:
		fromState, toState = domain.CampaignStatePendingApproval, domain.CampaignStatePublished
	case DecisionReject:
		fromState, toState = domain.CampaignStatePendingApproval, domain.CampaignStateRejected
	case DecisionUnpublish:
		fromState, toState = domain.CampaignStatePublished, domain.CampaignStateDraft
	default:
		return nil, &ValidationError{Fields: map[string]string{"decision": "must be publish, reject, or unpublish"}}
	}

	campaign, err := s.repo.UpdateCampaignState(ctx, campaignID, fromState, toState)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &adminID, "campaign."+decision+"ed", "campaign", &campaignID, campaign.Title, "")

	var title, body string
	switch decision {
	case DecisionPublish:
		title = "Campaign published"
		body = fmt.Sprintf("Your campaign %q is now live and accepting donations.", campaign.Title)
	case DecisionReject:
		title = "Campaign rejected"
		body = fmt.Sprintf("Your campaign %q was not approved.", campaign.Title)
	case DecisionUnpublish:
		title = "Campaign unpublished"
		body = fmt.Sprintf("Your campaign %q was taken offline by an administrator.", campaign.Title)
	}
	s.notify(ctx, campaign.OwnerID, title, body, domain.NotificationKindCampaign)

	return campaign, nil
}

// DeleteCampaign removes a campaign entirely.
func (s *Service) DeleteCampaign(ctx context.Context, adminID, campaignID uuid.UUID) error {
	if err := s.repo.DeleteCampaign(ctx, campaignID); err != nil {
		return err
	}
	s.audit(ctx, &adminID, "campaign.deleted", "campaign", &campaignID, "", "")
	return nil
}

// ListDonationsAdmin returns donations for the back office.
func (s *Service) ListDonationsAdmin(ctx context.Context, opts domain.DonationListOptions) ([]domain.Donation, error) {
	return s.repo.ListDonations(ctx, opts)
}

// ConfirmBankDonation settles a pending bank transfer donation after the
// admin has verified receipt. Only bank donations take this path.
func (s *Service) ConfirmBankDonation(ctx context.Context, adminID, donationID uuid.UUID) (bool, error) {
	donation, err := s.repo.FindDonationByID(ctx, donationID)
	if err != nil {
		return false, err
	}
	if donation.Method != domain.MethodBank {
		return false, &ValidationError{Fields: map[string]string{"donation_id": "is not a bank transfer donation"}}
	}
	if donation.Status != domain.DonationStatusPending {
		return false, &ValidationError{Fields: map[string]string{"donation_id": "is not pending"}}
	}

	applied, err := s.settle(ctx, donationID)
	if err != nil {
		return false, err
	}
	if applied {
		s.audit(ctx, &adminID, "donation.confirmed", "donation", &donationID,
			fmt.Sprintf("bank transfer amount=%d", donation.Amount), "")
	}
	return applied, nil
}

// CreatePaymentMethod registers a payment channel, sealing its credentials.
func (s *Service) CreatePaymentMethod(ctx context.Context, adminID uuid.UUID, req domain.CreatePaymentMethodRequest) (*domain.PaymentMethod, error) {
	if err := Validate(
		FieldRule{Name: "name", Checks: []func() string{Required(req.Name), MaxLength(req.Name, 120)}},
		FieldRule{Name: "type", Checks: []func() string{Required(req.Type), OneOf(req.Type,
			domain.MethodPayPal, domain.MethodPaystack, domain.MethodCoinbase, domain.MethodBank)}},
	); err != nil {
		return nil, err
	}
	if err := validateCredentials(req.Type, req.Credentials); err != nil {
		return nil, err
	}

	var sealed string
	if s.box != nil {
		plaintext, err := json.Marshal(req.Credentials)
		if err != nil {
			return nil, fmt.Errorf("failed to encode credentials: %w", err)
		}
		sealed, err = s.box.Seal(plaintext)
		if err != nil {
			return nil, fmt.Errorf("failed to seal credentials: %w", err)
		}
	}

	pm := &domain.PaymentMethod{
		ID:                   uuid.New(),
		Name:                 strings.TrimSpace(req.Name),
		Type:                 req.Type,
		Enabled:              true,
		DisplayDetails:       req.DisplayDetails,
		EncryptedCredentials: sealed,
	}
	if err := s.repo.CreatePaymentMethod(ctx, pm); err != nil {
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}

	s.audit(ctx, &adminID, "payment_method.created", "payment_method", &pm.ID, pm.Type, "")
	return pm, nil
}

// validateCredentials checks that the fields the method type requires are set.
func validateCredentials(methodType string, creds domain.PaymentMethodCredentials) error {
	fields := map[string]string{}
	switch methodType {
	case domain.MethodPayPal:
		if creds.PayPalClientID == "" {
			fields["paypal_client_id"] = "is required"
		}
		if creds.PayPalSecret == "" {
			fields["paypal_secret"] = "is required"
		}
	case domain.MethodPaystack:
		if creds.PaystackSecretKey == "" {
			fields["paystack_secret_key"] = "is required"
		}
		if creds.PaystackPublicKey == "" {
			fields["paystack_public_key"] = "is required"
		}
	case domain.MethodCoinbase:
		if creds.CoinbaseAPIKey == "" {
			fields["coinbase_api_key"] = "is required"
		}
	case domain.MethodBank:
		if creds.BankName == "" {
			fields["bank_name"] = "is required"
		}
		if creds.AccountName == "" {
			fields["account_name"] = "is required"
		}
		if creds.AccountNumber == "" {
			fields["account_number"] = "is required"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ListPaymentMethods returns configured methods. Credentials never leave the
// service sealed or otherwise; the domain type omits them from JSON.
func (s *Service) ListPaymentMethods(ctx context.Context, enabledOnly bool) ([]domain.PaymentMethod, error) {
	return s.repo.ListPaymentMethods(ctx, enabledOnly)
}

// SetPaymentMethodEnabled toggles a payment channel.
func (s *Service) SetPaymentMethodEnabled(ctx context.Context, adminID, methodID uuid.UUID, enabled bool) error {
	if err := s.repo.SetPaymentMethodEnabled(ctx, methodID, enabled); err != nil {
		return err
	}
	action := "payment_method.disabled"
	if enabled {
		action = "payment_method.enabled"
	}
	s.audit(ctx, &adminID, action, "payment_method", &methodID, "", "")
	return nil
}

// DeletePaymentMethod removes a payment channel configuration.
func (s *Service) DeletePaymentMethod(ctx context.Context, adminID, methodID uuid.UUID) error {
	if err := s.repo.DeletePaymentMethod(ctx, methodID); err != nil {
		return err
	}
	s.audit(ctx, &adminID, "payment_method.deleted", "payment_method", &methodID, "", "")
	return nil
}

// ListUsers returns accounts for the back office.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.repo.ListUsers(ctx, limit, offset)
}

// ToggleUserAdmin flips a user's admin flag. Admins cannot demote themselves,
// which keeps at least one admin reachable.
func (s *Service) ToggleUserAdmin(ctx context.Context, adminID, userID uuid.UUID) (*domain.User, error) {
	if adminID == userID {
		return nil, &ValidationError{Fields: map[string]string{"user_id": "cannot change your own admin status"}}
	}
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetUserAdmin(ctx, userID, !user.IsAdmin); err != nil {
		return nil, err
	}
	user.IsAdmin = !user.IsAdmin

	action := "user.admin_revoked"
	if user.IsAdmin {
		action = "user.admin_granted"
	}
	s.audit(ctx, &adminID, action, "user", &userID, "", "")
	return user, nil
}

// AppreciateUser emails a thank-you note to a user on behalf of the team.
func (s *Service) AppreciateUser(ctx context.Context, adminID, userID uuid.UUID, message string) error {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(message) == "" {
		message = "Thank you for your generous support. It makes a real difference."
	}
	if s.mail == nil {
		return &ValidationError{Fields: map[string]string{"message": "mail delivery is not configured"}}
	}
	if err := s.mail.Send(user.Email, "A note of appreciation",
		fmt.Sprintf("Hello %s,\n\n%s\n", user.Name, message)); err != nil {
		return fmt.Errorf("failed to send appreciation mail: %w", err)
	}
	s.audit(ctx, &adminID, "user.appreciated", "user", &userID, "", "")
	return nil
}
