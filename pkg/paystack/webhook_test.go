package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"testing"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"reference":"DON-1","status":"success","amount":500000}}`)

	if !VerifyWebhookSignature(secret, body, signBody(secret, body)) {
		t.Fatal("expected valid signature to verify")
	}
	if VerifyWebhookSignature(secret, body, signBody("wrong_secret", body)) {
		t.Fatal("expected signature from the wrong secret to fail")
	}
	if VerifyWebhookSignature(secret, append(body, ' '), signBody(secret, body)) {
		t.Fatal("expected altered body to fail verification")
	}
	if VerifyWebhookSignature(secret, body, "") {
		t.Fatal("expected missing signature to fail")
	}
	if VerifyWebhookSignature("", body, signBody(secret, body)) {
		t.Fatal("expected missing secret to fail")
	}
}

func TestWebhookEventDecoding(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"reference":"DON-abc","status":"success","amount":500000}}`)

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if event.Event != "charge.success" {
		t.Fatalf("unexpected event %q", event.Event)
	}
	if event.Data.Reference != "DON-abc" {
		t.Fatalf("unexpected reference %q", event.Data.Reference)
	}
	if event.Data.Amount != 500000 {
		t.Fatalf("unexpected amount %d", event.Data.Amount)
	}
}
