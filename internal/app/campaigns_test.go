package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/helpinghands/crowdfund/internal/domain"
	"github.com/helpinghands/crowdfund/internal/store"
)

// campaignRepoStub serves the KYC gate and state transitions in memory.
type campaignRepoStub struct {
	store.Repository

	latestKYC *domain.KYCSubmission
	campaign  *domain.Campaign
	recent    []domain.Donation

	created *domain.Campaign
}

func (s *campaignRepoStub) FindLatestKYCByUserID(ctx context.Context, userID uuid.UUID) (*domain.KYCSubmission, error) {
	if s.latestKYC == nil {
		return nil, store.ErrKYCNotFound
	}
	return s.latestKYC, nil
}

func (s *campaignRepoStub) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	s.created = c
	return nil
}

func (s *campaignRepoStub) FindCampaignByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	if s.campaign == nil || s.campaign.ID != id {
		return nil, store.ErrCampaignNotFound
	}
	c := *s.campaign
	return &c, nil
}

func (s *campaignRepoStub) UpdateCampaignState(ctx context.Context, id uuid.UUID, fromState, toState string) (*domain.Campaign, error) {
	if s.campaign == nil || s.campaign.ID != id {
		return nil, store.ErrCampaignNotFound
	}
	if s.campaign.State != fromState {
		return nil, store.ErrInvalidStateChange
	}
	s.campaign.State = toState
	c := *s.campaign
	return &c, nil
}

func (s *campaignRepoStub) ListRecentCompletedDonations(ctx context.Context, campaignID uuid.UUID, limit int) ([]domain.Donation, error) {
	return append([]domain.Donation(nil), s.recent...), nil
}

func (s *campaignRepoStub) CreateAuditLog(ctx context.Context, entry *domain.AuditLog) error {
	return nil
}

func campaignService(repo store.Repository) *Service {
	return NewService(repo, nil, nil, nil, nil, Options{JWTSecret: "test-secret"})
}

func validCampaignRequest() domain.CreateCampaignRequest {
	return domain.CreateCampaignRequest{
		Title:       "Rebuild the Community Clinic",
		Description: "Funds medical equipment after the flood.",
		GoalAmount:  250000,
		Category:    "health",
		Location:    "Lagos",
	}
}

func TestCreateCampaign_RequiresVerifiedKYC(t *testing.T) {
	tests := []struct {
		name      string
		latestKYC *domain.KYCSubmission
		wantErr   error
	}{
		{name: "no submission", latestKYC: nil, wantErr: ErrKYCRequired},
		{name: "pending submission", latestKYC: &domain.KYCSubmission{Status: domain.KYCStatusPending}, wantErr: ErrKYCRequired},
		{name: "rejected submission", latestKYC: &domain.KYCSubmission{Status: domain.KYCStatusRejected}, wantErr: ErrKYCRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &campaignRepoStub{latestKYC: tt.latestKYC}
			svc := campaignService(repo)

			_, err := svc.CreateCampaign(context.Background(), uuid.New(), validCampaignRequest())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if repo.created != nil {
				t.Fatal("expected no campaign row without verified kyc")
			}
		})
	}
}

func TestCreateCampaign_VerifiedUserGetsDraft(t *testing.T) {
	repo := &campaignRepoStub{latestKYC: &domain.KYCSubmission{Status: domain.KYCStatusVerified}}
	svc := campaignService(repo)
	ownerID := uuid.New()

	campaign, err := svc.CreateCampaign(context.Background(), ownerID, validCampaignRequest())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if campaign.State != domain.CampaignStateDraft {
		t.Fatalf("expected draft state, got %q", campaign.State)
	}
	if campaign.OwnerID != ownerID {
		t.Fatal("expected campaign to be owned by the creator")
	}
	if campaign.RaisedAmount != 0 {
		t.Fatalf("expected raised to start at zero, got %d", campaign.RaisedAmount)
	}
}

func TestSubmitCampaign_OnlyOwnerMaySubmit(t *testing.T) {
	ownerID := uuid.New()
	repo := &campaignRepoStub{campaign: &domain.Campaign{
		ID:      uuid.New(),
		OwnerID: ownerID,
		State:   domain.CampaignStateDraft,
	}}
	svc := campaignService(repo)

	_, err := svc.SubmitCampaign(context.Background(), uuid.New(), repo.campaign.ID)
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	updated, err := svc.SubmitCampaign(context.Background(), ownerID, repo.campaign.ID)
	if err != nil {
		t.Fatalf("expected nil error for owner, got %v", err)
	}
	if updated.State != domain.CampaignStatePendingApproval {
		t.Fatalf("expected pending_approval, got %q", updated.State)
	}
}

func TestSubmitCampaign_RejectsNonDraft(t *testing.T) {
	ownerID := uuid.New()
	repo := &campaignRepoStub{campaign: &domain.Campaign{
		ID:      uuid.New(),
		OwnerID: ownerID,
		State:   domain.CampaignStatePublished,
	}}
	svc := campaignService(repo)

	_, err := svc.SubmitCampaign(context.Background(), ownerID, repo.campaign.ID)
	if !errors.Is(err, store.ErrInvalidStateChange) {
		t.Fatalf("expected ErrInvalidStateChange, got %v", err)
	}
}

func TestGetCampaignDetail_HidesUnpublishedFromStrangers(t *testing.T) {
	ownerID := uuid.New()
	repo := &campaignRepoStub{campaign: &domain.Campaign{
		ID:      uuid.New(),
		OwnerID: ownerID,
		State:   domain.CampaignStateDraft,
	}}
	svc := campaignService(repo)

	if _, err := svc.GetCampaignDetail(context.Background(), repo.campaign.ID, nil, false); !errors.Is(err, store.ErrCampaignNotFound) {
		t.Fatalf("expected not-found for anonymous viewer, got %v", err)
	}

	strangerID := uuid.New()
	if _, err := svc.GetCampaignDetail(context.Background(), repo.campaign.ID, &strangerID, false); !errors.Is(err, store.ErrCampaignNotFound) {
		t.Fatalf("expected not-found for stranger, got %v", err)
	}

	if _, err := svc.GetCampaignDetail(context.Background(), repo.campaign.ID, &ownerID, false); err != nil {
		t.Fatalf("expected owner to see the draft, got %v", err)
	}

	adminID := uuid.New()
	if _, err := svc.GetCampaignDetail(context.Background(), repo.campaign.ID, &adminID, true); err != nil {
		t.Fatalf("expected admin to see the draft, got %v", err)
	}
}

func TestGetCampaignDetail_MasksAnonymousDonors(t *testing.T) {
	repo := &campaignRepoStub{
		campaign: &domain.Campaign{
			ID:    uuid.New(),
			State: domain.CampaignStatePublished,
		},
		recent: []domain.Donation{
			{DonorName: "Ada Obi", DonorEmail: "ada@example.com", Anonymous: false, Amount: 5000},
			{DonorName: "Chidi Eze", DonorEmail: "chidi@example.com", Anonymous: true, Amount: 2500},
		},
	}
	svc := campaignService(repo)

	detail, err := svc.GetCampaignDetail(context.Background(), repo.campaign.ID, nil, false)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(detail.RecentDonations) != 2 {
		t.Fatalf("expected 2 recent donations, got %d", len(detail.RecentDonations))
	}
	if detail.RecentDonations[0].DonorName != "Ada Obi" {
		t.Fatalf("expected named donor to stay visible, got %q", detail.RecentDonations[0].DonorName)
	}
	if detail.RecentDonations[1].DonorName != "Anonymous" || detail.RecentDonations[1].DonorEmail != "" {
		t.Fatalf("expected anonymous donor to be masked, got %q / %q",
			detail.RecentDonations[1].DonorName, detail.RecentDonations[1].DonorEmail)
	}
}
