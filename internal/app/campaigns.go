/**
 * @description
 * Campaign operations: creation (gated on verified KYC), submission for
 * review, and public listing and detail. Moderation decisions live with the
 * admin operations.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/helpinghands/crowdfund/internal/domain"
	"github.com/helpinghands/crowdfund/internal/store"
)

// CreateCampaign creates a draft campaign for the user. Only users whose
// latest KYC submission is verified may create campaigns.
func (s *Service) CreateCampaign(ctx context.Context, ownerID uuid.UUID, req domain.CreateCampaignRequest) (*domain.Campaign, error) {
	if err := Validate(
		FieldRule{Name: "title", Checks: []func() string{Required(req.Title), MaxLength(req.Title, 200)}},
		FieldRule{Name: "description", Checks: []func() string{Required(req.Description)}},
		FieldRule{Name: "goal_amount", Checks: []func() string{Positive(req.GoalAmount)}},
		FieldRule{Name: "category", Checks: []func() string{Required(req.Category)}},
	); err != nil {
		return nil, err
	}

	sub, err := s.repo.FindLatestKYCByUserID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrKYCNotFound) {
			return nil, ErrKYCRequired
		}
		return nil, fmt.Errorf("failed to load kyc status: %w", err)
	}
	if sub.Status != domain.KYCStatusVerified {
		return nil, ErrKYCRequired
	}

	campaign := &domain.Campaign{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		ImagePath:   req.ImagePath,
		Category:    req.Category,
		Location:    req.Location,
		EndDate:     req.EndDate,
		State:       domain.CampaignStateDraft,
	}
	if err := s.repo.CreateCampaign(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.audit(ctx, &ownerID, "campaign.created", "campaign", &campaign.ID, campaign.Title, "")
	return campaign, nil
}

// SubmitCampaign moves the owner's draft into the review queue.
func (s *Service) SubmitCampaign(ctx context.Context, ownerID, campaignID uuid.UUID) (*domain.Campaign, error) {
	campaign, err := s.repo.FindCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.OwnerID != ownerID {
		return nil, ErrNotAuthorized
	}

	updated, err := s.repo.UpdateCampaignState(ctx, campaignID,
		domain.CampaignStateDraft, domain.CampaignStatePendingApproval)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &ownerID, "campaign.submitted", "campaign", &campaignID, "", "")
	return updated, nil
}

// ListPublishedCampaigns returns published campaigns for public browsing.
func (s *Service) ListPublishedCampaigns(ctx context.Context, opts domain.CampaignListOptions) ([]domain.Campaign, error) {
	opts.State = domain.CampaignStatePublished
	return s.repo.ListCampaigns(ctx, opts)
}

// GetCampaignDetail returns a campaign with its recent completed donations.
// Unpublished campaigns are only visible to their owner and admins; viewerID
// is nil for anonymous requests.
func (s *Service) GetCampaignDetail(ctx context.Context, campaignID uuid.UUID, viewerID *uuid.UUID, viewerIsAdmin bool) (*domain.CampaignDetail, error) {
	campaign, err := s.repo.FindCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.State != domain.CampaignStatePublished {
		isOwner := viewerID != nil && *viewerID == campaign.OwnerID
		if !isOwner && !viewerIsAdmin {
			return nil, store.ErrCampaignNotFound
		}
	}

	recent, err := s.repo.ListRecentCompletedDonations(ctx, campaignID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent donations: %w", err)
	}
	// Hide donor identity on anonymous donations in the public view.
	for i := range recent {
		if recent[i].Anonymous {
			recent[i].DonorName = "Anonymous"
			recent[i].DonorEmail = ""
		}
	}

	return &domain.CampaignDetail{Campaign: campaign, RecentDonations: recent}, nil
}
