package coinbase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Webhook event types posted by Coinbase Commerce.
const (
	EventChargeConfirmed = "charge:confirmed"
	EventChargeFailed    = "charge:failed"
	EventChargePending   = "charge:pending"
)

// VerifyWebhookSignature checks the X-CC-Webhook-Signature header against the
// raw request body. Coinbase signs the body with HMAC-SHA256 using the
// endpoint's shared secret, hex encoded.
func VerifyWebhookSignature(sharedSecret string, body []byte, signature string) bool {
	if sharedSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(sharedSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookEvent is the envelope Coinbase Commerce posts to webhook endpoints.
type WebhookEvent struct {
	Event struct {
		Type string `json:"type"`
		Data struct {
			ID       string            `json:"id"`
			Code     string            `json:"code"`
			Metadata map[string]string `json:"metadata"`
		} `json:"data"`
	} `json:"event"`
}
