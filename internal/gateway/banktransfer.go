package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/helpinghands/crowdfund/internal/domain"
)

// BankTransferAdapter is the manual payment path: the donor receives the
// configured account details and an admin confirms the donation after the
// transfer arrives.
type BankTransferAdapter struct {
	creds domain.PaymentMethodCredentials
}

// NewBankTransferAdapter creates the manual bank transfer path.
func NewBankTransferAdapter(creds domain.PaymentMethodCredentials) *BankTransferAdapter {
	return &BankTransferAdapter{creds: creds}
}

func (a *BankTransferAdapter) Type() string { return domain.MethodBank }

// Initiate returns transfer instructions. No provider is involved, so the
// donation id doubles as the reference the donor should quote.
func (a *BankTransferAdapter) Initiate(ctx context.Context, params InitiateParams) (*Initiation, error) {
	var b strings.Builder
	b.WriteString("Please transfer the donation amount to the account below and quote the reference.\n")
	if a.creds.BankName != "" {
		fmt.Fprintf(&b, "Bank: %s\n", a.creds.BankName)
	}
	if a.creds.AccountName != "" {
		fmt.Fprintf(&b, "Account name: %s\n", a.creds.AccountName)
	}
	if a.creds.AccountNumber != "" {
		fmt.Fprintf(&b, "Account number: %s\n", a.creds.AccountNumber)
	}
	fmt.Fprintf(&b, "Reference: DON-%s\n", params.Donation.ID)
	b.WriteString("Your donation will be confirmed once the transfer is verified.")

	return &Initiation{
		Instructions:      b.String(),
		ProviderReference: fmt.Sprintf("DON-%s", params.Donation.ID),
	}, nil
}

// Confirm is unsupported: no provider can vouch for a manual transfer, so
// settlement happens only through the admin confirmation path.
func (a *BankTransferAdapter) Confirm(ctx context.Context, reference string) (*Confirmation, error) {
	return nil, ErrConfirmUnsupported
}
