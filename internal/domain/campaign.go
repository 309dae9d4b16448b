/**
 * @description
 * This file defines the campaign domain model and its moderation state machine.
 * Campaigns move draft -> pending_approval -> published, with rejection as a
 * terminal review outcome; only published campaigns accept donations.
 *
 * @notes
 * - Amounts are stored as `int64` in the smallest currency unit (cents) to
 *   avoid floating-point inaccuracies with financial data.
 * - RaisedAmount is only ever mutated by donation settlement.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Campaign states.
const (
	CampaignStateDraft           = "draft"
	CampaignStatePendingApproval = "pending_approval"
	CampaignStatePublished       = "published"
	CampaignStateRejected        = "rejected"
)

// Campaign represents a fundraising campaign owned by a verified user.
type Campaign struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	GoalAmount   int64      `json:"goal_amount"`   // in cents
	RaisedAmount int64      `json:"raised_amount"` // in cents
	ImagePath    *string    `json:"image_path,omitempty"`
	Category     string     `json:"category"`
	Location     string     `json:"location"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	State        string     `json:"state"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CreateCampaignRequest is the DTO for creating a new draft campaign.
type CreateCampaignRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	GoalAmount  int64      `json:"goal_amount"` // in cents
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	ImagePath   *string    `json:"image_path,omitempty"`
}

// CampaignListOptions controls filtering and pagination for campaign listings.
type CampaignListOptions struct {
	Category string
	Location string
	State    string
	Limit    int
	Offset   int
}

// CampaignDetail is the public detail view: the campaign plus its most recent
// completed donations.
type CampaignDetail struct {
	Campaign        *Campaign  `json:"campaign"`
	RecentDonations []Donation `json:"recent_donations"`
}
