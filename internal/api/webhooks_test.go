package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/helpinghands/crowdfund/internal/app"
	"github.com/helpinghands/crowdfund/internal/domain"
	"github.com/helpinghands/crowdfund/internal/store"
)

// webhookRepoStub holds one donation addressable by id and reference.
type webhookRepoStub struct {
	store.Repository

	donation *domain.Donation
	raised   int64
}

func (s *webhookRepoStub) FindDonationByID(ctx context.Context, id uuid.UUID) (*domain.Donation, error) {
	if s.donation == nil || s.donation.ID != id {
		return nil, store.ErrDonationNotFound
	}
	d := *s.donation
	return &d, nil
}

func (s *webhookRepoStub) FindDonationByProviderReference(ctx context.Context, reference string) (*domain.Donation, error) {
	if s.donation == nil || s.donation.ProviderReference == nil || *s.donation.ProviderReference != reference {
		return nil, store.ErrDonationNotFound
	}
	d := *s.donation
	return &d, nil
}

func (s *webhookRepoStub) SettleDonation(ctx context.Context, donationID uuid.UUID) (bool, error) {
	if s.donation == nil || s.donation.ID != donationID {
		return false, store.ErrDonationNotFound
	}
	if s.donation.Status != domain.DonationStatusPending {
		return false, nil
	}
	s.donation.Status = domain.DonationStatusCompleted
	s.raised += s.donation.Amount
	return true, nil
}

func (s *webhookRepoStub) MarkDonationFailed(ctx context.Context, donationID uuid.UUID) (bool, error) {
	if s.donation == nil || s.donation.ID != donationID {
		return false, store.ErrDonationNotFound
	}
	if s.donation.Status != domain.DonationStatusPending {
		return false, nil
	}
	s.donation.Status = domain.DonationStatusFailed
	return true, nil
}

func (s *webhookRepoStub) FindEnabledPaymentMethodByType(ctx context.Context, methodType string) (*domain.PaymentMethod, error) {
	return nil, store.ErrPaymentMethodNotFound
}

func (s *webhookRepoStub) FindCampaignByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	return nil, store.ErrCampaignNotFound
}

func webhookHandlers(t *testing.T, repo *webhookRepoStub) *Handlers {
	t.Helper()
	service := app.NewService(repo, nil, nil, nil, nil, app.Options{
		JWTSecret: "test-secret",
		EnvCredentials: domain.PaymentMethodCredentials{
			PaystackSecretKey:     "sk_test_secret",
			CoinbaseWebhookSecret: "whsec_shared",
		},
	})
	return NewHandlers(service, t.TempDir(), 1<<20)
}

func pendingPaystackDonation() *webhookRepoStub {
	reference := "DON-1"
	return &webhookRepoStub{donation: &domain.Donation{
		ID:                uuid.New(),
		CampaignID:        uuid.New(),
		Amount:            5000,
		Method:            domain.MethodPaystack,
		ProviderReference: &reference,
		Status:            domain.DonationStatusPending,
	}}
}

func paystackSign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func coinbaseSign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackWebhook_ValidSignatureSettles(t *testing.T) {
	repo := pendingPaystackDonation()
	h := webhookHandlers(t, repo)

	body := []byte(`{"event":"charge.success","data":{"reference":"DON-1","status":"success","amount":500000}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", bytes.NewReader(body))
	req.Header.Set("X-Paystack-Signature", paystackSign("sk_test_secret", body))
	rec := httptest.NewRecorder()

	h.PaystackWebhookHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.donation.Status != domain.DonationStatusCompleted {
		t.Fatalf("expected donation completed, got %q", repo.donation.Status)
	}
	if repo.raised != 5000 {
		t.Fatalf("expected raised=5000, got %d", repo.raised)
	}
}

func TestPaystackWebhook_InvalidSignatureRejectedWithoutMutation(t *testing.T) {
	repo := pendingPaystackDonation()
	h := webhookHandlers(t, repo)

	body := []byte(`{"event":"charge.success","data":{"reference":"DON-1"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", bytes.NewReader(body))
	req.Header.Set("X-Paystack-Signature", paystackSign("wrong_secret", body))
	rec := httptest.NewRecorder()

	h.PaystackWebhookHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if repo.donation.Status != domain.DonationStatusPending {
		t.Fatalf("expected donation untouched, got %q", repo.donation.Status)
	}
	if repo.raised != 0 {
		t.Fatalf("expected no credit, got %d", repo.raised)
	}
}

func TestPaystackWebhook_ReplayIsAcknowledgedWithoutDoubleCredit(t *testing.T) {
	repo := pendingPaystackDonation()
	h := webhookHandlers(t, repo)

	body := []byte(`{"event":"charge.success","data":{"reference":"DON-1","status":"success","amount":500000}}`)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", bytes.NewReader(body))
		req.Header.Set("X-Paystack-Signature", paystackSign("sk_test_secret", body))
		rec := httptest.NewRecorder()
		h.PaystackWebhookHandler(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("delivery %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	if repo.raised != 5000 {
		t.Fatalf("expected a single credit of 5000, got %d", repo.raised)
	}
}

func TestPaystackWebhook_IgnoresOtherEvents(t *testing.T) {
	repo := pendingPaystackDonation()
	h := webhookHandlers(t, repo)

	body := []byte(`{"event":"transfer.success","data":{"reference":"DON-1"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", bytes.NewReader(body))
	req.Header.Set("X-Paystack-Signature", paystackSign("sk_test_secret", body))
	rec := httptest.NewRecorder()

	h.PaystackWebhookHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if repo.donation.Status != domain.DonationStatusPending {
		t.Fatalf("expected donation untouched, got %q", repo.donation.Status)
	}
}

func TestCoinbaseWebhook_ConfirmedSettles(t *testing.T) {
	repo := pendingPaystackDonation()
	repo.donation.Method = domain.MethodCoinbase
	h := webhookHandlers(t, repo)

	body := []byte(fmt.Sprintf(
		`{"event":{"type":"charge:confirmed","data":{"id":"ch_1","code":"ABCD","metadata":{"donation_id":"%s"}}}}`,
		repo.donation.ID))
	req := httptest.NewRequest(http.MethodPost, "/webhooks/coinbase", bytes.NewReader(body))
	req.Header.Set("X-CC-Webhook-Signature", coinbaseSign("whsec_shared", body))
	rec := httptest.NewRecorder()

	h.CoinbaseWebhookHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if repo.donation.Status != domain.DonationStatusCompleted {
		t.Fatalf("expected donation completed, got %q", repo.donation.Status)
	}
}

func TestCoinbaseWebhook_InvalidSignatureRejected(t *testing.T) {
	repo := pendingPaystackDonation()
	repo.donation.Method = domain.MethodCoinbase
	h := webhookHandlers(t, repo)

	body := []byte(fmt.Sprintf(
		`{"event":{"type":"charge:confirmed","data":{"metadata":{"donation_id":"%s"}}}}`, repo.donation.ID))
	req := httptest.NewRequest(http.MethodPost, "/webhooks/coinbase", bytes.NewReader(body))
	req.Header.Set("X-CC-Webhook-Signature", "deadbeef")
	rec := httptest.NewRecorder()

	h.CoinbaseWebhookHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if repo.donation.Status != domain.DonationStatusPending {
		t.Fatalf("expected donation untouched, got %q", repo.donation.Status)
	}
}

func TestCoinbaseWebhook_FailedEventMarksDonationFailed(t *testing.T) {
	repo := pendingPaystackDonation()
	repo.donation.Method = domain.MethodCoinbase
	h := webhookHandlers(t, repo)

	body := []byte(fmt.Sprintf(
		`{"event":{"type":"charge:failed","data":{"id":"ch_1","metadata":{"donation_id":"%s"}}}}`,
		repo.donation.ID))
	req := httptest.NewRequest(http.MethodPost, "/webhooks/coinbase", bytes.NewReader(body))
	req.Header.Set("X-CC-Webhook-Signature", coinbaseSign("whsec_shared", body))
	rec := httptest.NewRecorder()

	h.CoinbaseWebhookHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if repo.donation.Status != domain.DonationStatusFailed {
		t.Fatalf("expected donation failed, got %q", repo.donation.Status)
	}
	if repo.raised != 0 {
		t.Fatalf("expected no credit, got %d", repo.raised)
	}
}

func TestCoinbaseWebhook_MissingMetadataAcknowledged(t *testing.T) {
	repo := pendingPaystackDonation()
	h := webhookHandlers(t, repo)

	body := []byte(`{"event":{"type":"charge:confirmed","data":{"id":"ch_1","metadata":{}}}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/coinbase", bytes.NewReader(body))
	req.Header.Set("X-CC-Webhook-Signature", coinbaseSign("whsec_shared", body))
	rec := httptest.NewRecorder()

	h.CoinbaseWebhookHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unattributable charge, got %d", rec.Code)
	}
	if repo.donation.Status != domain.DonationStatusPending {
		t.Fatalf("expected donation untouched, got %q", repo.donation.Status)
	}
}
