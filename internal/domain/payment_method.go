/**
 * @description
 * This file defines the configurable payment method model. Admins register one
 * record per gateway (or bank account) with the credentials needed to talk to
 * it; credentials are sealed with AES-GCM before they reach the database and
 * are never returned by list endpoints.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is an admin-managed payment channel configuration.
// EncryptedCredentials holds the sealed JSON credential blob.
type PaymentMethod struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Type                 string    `json:"type"`
	Enabled              bool      `json:"enabled"`
	DisplayDetails       string    `json:"display_details"`
	EncryptedCredentials string    `json:"-"`
	CreatedAt            time.Time `json:"created_at"`
}

// PaymentMethodCredentials is the plaintext credential set for one method.
// Only the fields relevant to the method's type are populated.
type PaymentMethodCredentials struct {
	PayPalClientID        string `json:"paypal_client_id,omitempty"`
	PayPalSecret          string `json:"paypal_secret,omitempty"`
	PaystackSecretKey     string `json:"paystack_secret_key,omitempty"`
	PaystackPublicKey     string `json:"paystack_public_key,omitempty"`
	CoinbaseAPIKey        string `json:"coinbase_api_key,omitempty"`
	CoinbaseWebhookSecret string `json:"coinbase_webhook_secret,omitempty"`
	BankName              string `json:"bank_name,omitempty"`
	AccountName           string `json:"account_name,omitempty"`
	AccountNumber         string `json:"account_number,omitempty"`
}

// CreatePaymentMethodRequest is the admin DTO for registering a payment channel.
type CreatePaymentMethodRequest struct {
	Name           string                   `json:"name"`
	Type           string                   `json:"type"`
	DisplayDetails string                   `json:"display_details"`
	Credentials    PaymentMethodCredentials `json:"credentials"`
}
