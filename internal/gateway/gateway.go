/**
 * @description
 * This package defines the payment gateway contract and its four
 * implementations: PayPal, Paystack, Coinbase Commerce, and manual bank
 * transfer. Each adapter turns a pending donation into either a hosted
 * checkout redirect or a set of manual payment instructions, and can confirm
 * a provider-side payment by reference.
 *
 * Adapters are constructed per request from the decrypted credentials of the
 * admin-configured payment method, so rotating credentials takes effect
 * without a restart.
 */

package gateway

import (
	"context"
	"errors"

	"github.com/helpinghands/crowdfund/internal/domain"
)

var (
	// ErrConfirmUnsupported is returned by adapters whose payments are
	// confirmed exclusively through webhooks or admin action.
	ErrConfirmUnsupported = errors.New("synchronous confirmation not supported for this method")
)

// InitiateParams carries everything an adapter needs to start a payment.
type InitiateParams struct {
	Donation *domain.Donation
	Campaign *domain.Campaign
	// Hosted gateways send the donor back to these URLs.
	ReturnURL   string
	CancelURL   string
	CallbackURL string
}

// Initiation is the outcome of starting a payment. Exactly one of RedirectURL
// or Instructions is set. ProviderReference is recorded on the donation so
// later confirmations can find it.
type Initiation struct {
	RedirectURL       string
	Instructions      string
	ProviderReference string
}

// Confirmation is the outcome of checking a payment with the provider.
type Confirmation struct {
	Completed bool
}

// Adapter is the contract every payment path implements.
type Adapter interface {
	// Type returns the payment method type this adapter serves.
	Type() string
	// Initiate starts payment collection for a pending donation.
	Initiate(ctx context.Context, params InitiateParams) (*Initiation, error)
	// Confirm checks the provider-side payment identified by reference.
	Confirm(ctx context.Context, reference string) (*Confirmation, error)
}

// Build constructs the adapter for a method type from decrypted credentials.
// Unknown types return nil.
func Build(methodType string, creds domain.PaymentMethodCredentials, opts BuildOptions) Adapter {
	switch methodType {
	case domain.MethodPayPal:
		return NewPayPalAdapter(creds.PayPalClientID, creds.PayPalSecret, opts.PayPalMode)
	case domain.MethodPaystack:
		return NewPaystackAdapter(creds.PaystackSecretKey, opts.NGNPerUSDRate)
	case domain.MethodCoinbase:
		return NewCoinbaseAdapter(creds.CoinbaseAPIKey)
	case domain.MethodBank:
		return NewBankTransferAdapter(creds)
	}
	return nil
}

// BuildOptions carries environment-level adapter settings that are not part
// of the stored credentials.
type BuildOptions struct {
	PayPalMode    string  // "live" or "sandbox"
	NGNPerUSDRate float64 // conversion rate for Paystack charges
}
