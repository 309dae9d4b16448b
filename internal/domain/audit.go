package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records a privileged or money-relevant action for later review.
type AuditLog struct {
	ID        uuid.UUID  `json:"id"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	Action    string     `json:"action"`
	Entity    string     `json:"entity"`
	EntityID  *uuid.UUID `json:"entity_id,omitempty"`
	Detail    string     `json:"detail,omitempty"`
	IPAddress string     `json:"ip_address,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// DashboardStats is the admin overview aggregate.
type DashboardStats struct {
	TotalUsers         int64 `json:"total_users"`
	TotalCampaigns     int64 `json:"total_campaigns"`
	PendingKYC         int64 `json:"pending_kyc"`
	PendingCampaigns   int64 `json:"pending_campaigns"`
	CompletedDonations int64 `json:"completed_donations"`
	TotalRaised        int64 `json:"total_raised"` // in cents
}
