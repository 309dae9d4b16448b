package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds.
const (
	NotificationKindInfo     = "info"
	NotificationKindKYC      = "kyc"
	NotificationKindCampaign = "campaign"
	NotificationKindDonation = "donation"
)

// Notification is an in-app message shown to a user.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Kind      string    `json:"kind"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
