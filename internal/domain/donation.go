/**
 * @description
 * This file defines the donation domain model and the DTOs exchanged with the
 * payment gateways. A donation is created in the `pending` state and moves to
 * `completed` exactly once, at which point its amount is credited to the
 * campaign's raised total.
 *
 * @notes
 * - ProviderReference holds the gateway-side identifier (PayPal order id,
 *   Paystack reference, Coinbase charge id). Webhooks and callbacks settle
 *   donations by this reference.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Donation status values. Transitions out of pending are terminal.
const (
	DonationStatusPending   = "pending"
	DonationStatusCompleted = "completed"
	DonationStatusFailed    = "failed"
)

// Supported payment method types.
const (
	MethodPayPal   = "paypal"
	MethodPaystack = "paystack"
	MethodCoinbase = "coinbase"
	MethodBank     = "bank"
)

// Donation represents a single contribution to a campaign. Donors are not
// required to hold an account, so donor identity is captured inline.
type Donation struct {
	ID                uuid.UUID  `json:"id"`
	CampaignID        uuid.UUID  `json:"campaign_id"`
	DonorName         string     `json:"donor_name"`
	DonorEmail        string     `json:"donor_email"`
	Anonymous         bool       `json:"anonymous"`
	Amount            int64      `json:"amount"` // in cents
	Currency          string     `json:"currency"`
	Method            string     `json:"method"`
	PaymentMethodID   *uuid.UUID `json:"payment_method_id,omitempty"`
	ProviderReference *string    `json:"provider_reference,omitempty"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// CreateDonationRequest is the DTO for starting a donation against a campaign.
type CreateDonationRequest struct {
	DonorName  string `json:"donor_name"`
	DonorEmail string `json:"donor_email"`
	Anonymous  bool   `json:"anonymous"`
	Amount     int64  `json:"amount"` // in cents
	Method     string `json:"method"`
}

// DonationInitiation is the response to a donation request. Exactly one of
// RedirectURL or Instructions is populated: hosted gateways return a checkout
// URL, the bank path and gateway failures return manual payment instructions.
type DonationInitiation struct {
	DonationID   uuid.UUID `json:"donation_id"`
	Method       string    `json:"method"`
	RedirectURL  string    `json:"redirect_url,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
}

// DonationListOptions controls filtering for admin donation listings.
type DonationListOptions struct {
	Status     string
	Method     string
	CampaignID *uuid.UUID
	Limit      int
	Offset     int
}

// ValidMethod reports whether m names a supported payment method type.
func ValidMethod(m string) bool {
	switch m {
	case MethodPayPal, MethodPaystack, MethodCoinbase, MethodBank:
		return true
	}
	return false
}
