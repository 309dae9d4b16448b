/**
 * @description
 * Webhook endpoints for the payment providers. Both handlers follow the same
 * discipline: buffer the raw body, verify the provider's HMAC signature
 * against it, and only then decode and act. A failed signature check returns
 * 400 without touching any donation.
 *
 * @dependencies
 * - pkg/paystack, pkg/coinbase: Signature verification and event envelopes.
 */

package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/helpinghands/crowdfund/pkg/coinbase"
	"github.com/helpinghands/crowdfund/pkg/paystack"
)

// PaystackWebhookHandler handles POST /webhooks/paystack.
func (h *Handlers) PaystackWebhookHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	signature := r.Header.Get("X-Paystack-Signature")
	secret := h.service.PaystackWebhookSecret(r.Context())
	if !paystack.VerifyWebhookSignature(secret, body, signature) {
		log.Printf("level=warn component=webhooks msg=\"paystack signature verification failed\" remote=%s", r.RemoteAddr)
		h.writeError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	var event paystack.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	switch event.Event {
	case "charge.success":
		settled, err := h.service.SettleDonationByReference(r.Context(), event.Data.Reference)
		if err != nil {
			// Unknown references are acknowledged so the provider stops
			// retrying; anything else is a real failure.
			log.Printf("level=warn component=webhooks msg=\"paystack settlement failed\" reference=%s err=%v",
				event.Data.Reference, err)
		} else if settled {
			log.Printf("level=info component=webhooks msg=\"donation settled via paystack webhook\" reference=%s",
				event.Data.Reference)
		}
	default:
		log.Printf("level=info component=webhooks msg=\"ignoring paystack event\" event=%s", event.Event)
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// CoinbaseWebhookHandler handles POST /webhooks/coinbase.
func (h *Handlers) CoinbaseWebhookHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	signature := r.Header.Get("X-CC-Webhook-Signature")
	secret := h.service.CoinbaseWebhookSecret(r.Context())
	if !coinbase.VerifyWebhookSignature(secret, body, signature) {
		log.Printf("level=warn component=webhooks msg=\"coinbase signature verification failed\" remote=%s", r.RemoteAddr)
		h.writeError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	var event coinbase.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	donationID, err := uuid.Parse(event.Event.Data.Metadata["donation_id"])
	if err != nil {
		// Charges created outside the donation flow carry no donation id.
		log.Printf("level=info component=webhooks msg=\"coinbase event without donation metadata\" type=%s", event.Event.Type)
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
		return
	}

	switch event.Event.Type {
	case coinbase.EventChargeConfirmed:
		settled, err := h.service.SettleDonationByID(r.Context(), donationID)
		if err != nil {
			log.Printf("level=warn component=webhooks msg=\"coinbase settlement failed\" donation_id=%s err=%v", donationID, err)
		} else if settled {
			log.Printf("level=info component=webhooks msg=\"donation settled via coinbase webhook\" donation_id=%s", donationID)
		}
	case coinbase.EventChargeFailed:
		if _, err := h.service.FailDonation(r.Context(), donationID); err != nil {
			log.Printf("level=warn component=webhooks msg=\"coinbase failure handling failed\" donation_id=%s err=%v", donationID, err)
		}
	default:
		log.Printf("level=info component=webhooks msg=\"ignoring coinbase event\" type=%s", event.Event.Type)
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
