package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/helpinghands/crowdfund/internal/domain"
	"github.com/helpinghands/crowdfund/internal/store"
)

// adminRepoStub backs the moderation and back office tests.
type adminRepoStub struct {
	store.Repository

	campaign *domain.Campaign
	donation *domain.Donation
	kyc      *domain.KYCSubmission
	user     *domain.User

	notifications []domain.Notification
	setAdminValue *bool
}

func (s *adminRepoStub) ReviewKYCSubmission(ctx context.Context, id uuid.UUID, status string) (*domain.KYCSubmission, error) {
	if s.kyc == nil || s.kyc.ID != id {
		return nil, store.ErrKYCNotFound
	}
	if s.kyc.Status != domain.KYCStatusPending {
		return nil, store.ErrInvalidStateChange
	}
	s.kyc.Status = status
	sub := *s.kyc
	return &sub, nil
}

func (s *adminRepoStub) UpdateCampaignState(ctx context.Context, id uuid.UUID, fromState, toState string) (*domain.Campaign, error) {
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

func (s *adminRepoStub) FindCampaignByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	if s.campaign == nil || s.campaign.ID != id {
		return nil, store.ErrCampaignNotFound
	}
	c := *s.campaign
	return &c, nil
}

func (s *adminRepoStub) FindDonationByID(ctx context.Context, id uuid.UUID) (*domain.Donation, error) {
	if s.donation == nil || s.donation.ID != id {
		return nil, store.ErrDonationNotFound
	}
	d := *s.donation
	return &d, nil
}

func (s *adminRepoStub) SettleDonation(ctx context.Context, donationID uuid.UUID) (bool, error) {
	if s.donation == nil || s.donation.ID != donationID {
		return false, store.ErrDonationNotFound
	}
	if s.donation.Status != domain.DonationStatusPending {
		return false, nil
	}
	s.donation.Status = domain.DonationStatusCompleted
	if s.campaign != nil {
		s.campaign.RaisedAmount += s.donation.Amount
	}
	return true, nil
}

func (s *adminRepoStub) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if s.user == nil || s.user.ID != userID {
		return nil, store.ErrUserNotFound
	}
	u := *s.user
	return &u, nil
}

func (s *adminRepoStub) SetUserAdmin(ctx context.Context, userID uuid.UUID, isAdmin bool) error {
	s.setAdminValue = &isAdmin
	return nil
}

func (s *adminRepoStub) CreateNotification(ctx context.Context, n *domain.Notification) error {
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *adminRepoStub) CreateAuditLog(ctx context.Context, entry *domain.AuditLog) error {
	return nil
}

func adminService(repo store.Repository) *Service {
	return NewService(repo, nil, nil, nil, nil, Options{JWTSecret: "test-secret"})
}

func TestReviewKYC_ApproveVerifiesAndNotifies(t *testing.T) {
	userID := uuid.New()
	repo := &adminRepoStub{
		kyc:  &domain.KYCSubmission{ID: uuid.New(), UserID: userID, Status: domain.KYCStatusPending},
		user: &domain.User{ID: userID, Email: "ada@example.com", Name: "Ada Obi"},
	}
	svc := adminService(repo)

	sub, err := svc.ReviewKYC(context.Background(), uuid.New(), repo.kyc.ID, DecisionApprove)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if sub.Status != domain.KYCStatusVerified {
		t.Fatalf("expected verified, got %q", sub.Status)
	}
	if len(repo.notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(repo.notifications))
	}
	if repo.notifications[0].UserID != userID {
		t.Fatal("expected notification for the reviewed user")
	}
}

func TestReviewKYC_RejectsUnknownDecision(t *testing.T) {
	repo := &adminRepoStub{
		kyc: &domain.KYCSubmission{ID: uuid.New(), Status: domain.KYCStatusPending},
	}
	svc := adminService(repo)

	_, err := svc.ReviewKYC(context.Background(), uuid.New(), repo.kyc.ID, "escalate")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if repo.kyc.Status != domain.KYCStatusPending {
		t.Fatalf("expected submission untouched, got %q", repo.kyc.Status)
	}
}

func TestReviewKYC_AlreadyReviewedFails(t *testing.T) {
	repo := &adminRepoStub{
		kyc: &domain.KYCSubmission{ID: uuid.New(), Status: domain.KYCStatusVerified},
	}
	svc := adminService(repo)

	_, err := svc.ReviewKYC(context.Background(), uuid.New(), repo.kyc.ID, DecisionReject)
	if !errors.Is(err, store.ErrInvalidStateChange) {
		t.Fatalf("expected ErrInvalidStateChange, got %v", err)
	}
}

func TestModerateCampaign_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		fromState string
		decision  string
		wantState string
		wantErr   bool
	}{
		{name: "publish from review queue", fromState: domain.CampaignStatePendingApproval, decision: DecisionPublish, wantState: domain.CampaignStatePublished},
		{name: "reject from review queue", fromState: domain.CampaignStatePendingApproval, decision: DecisionReject, wantState: domain.CampaignStateRejected},
		{name: "unpublish live campaign", fromState: domain.CampaignStatePublished, decision: DecisionUnpublish, wantState: domain.CampaignStateDraft},
		{name: "publish a draft fails", fromState: domain.CampaignStateDraft, decision: DecisionPublish, wantErr: true},
		{name: "unknown decision fails", fromState: domain.CampaignStatePendingApproval, decision: "archive", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &adminRepoStub{campaign: &domain.Campaign{
				ID:      uuid.New(),
				OwnerID: uuid.New(),
				Title:   "Flood Relief",
				State:   tt.fromState,
			}}
			svc := adminService(repo)

			campaign, err := svc.ModerateCampaign(context.Background(), uuid.New(), repo.campaign.ID, tt.decision)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if campaign.State != tt.wantState {
				t.Fatalf("expected state %q, got %q", tt.wantState, campaign.State)
			}
			if len(repo.notifications) != 1 {
				t.Fatalf("expected owner notification, got %d", len(repo.notifications))
			}
		})
	}
}

func TestConfirmBankDonation_SettlesPendingBankTransfer(t *testing.T) {
	campaign := &domain.Campaign{ID: uuid.New(), OwnerID: uuid.New(), Title: "Flood Relief", State: domain.CampaignStatePublished}
	repo := &adminRepoStub{
		campaign: campaign,
		donation: &domain.Donation{
			ID:         uuid.New(),
			CampaignID: campaign.ID,
			Amount:     10000,
			Method:     domain.MethodBank,
			Status:     domain.DonationStatusPending,
		},
	}
	svc := adminService(repo)

	applied, err := svc.ConfirmBankDonation(context.Background(), uuid.New(), repo.donation.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !applied {
		t.Fatal("expected settlement to apply")
	}
	if campaign.RaisedAmount != 10000 {
		t.Fatalf("expected raised=10000, got %d", campaign.RaisedAmount)
	}
}

func TestConfirmBankDonation_RejectsNonBankMethod(t *testing.T) {
	repo := &adminRepoStub{
		donation: &domain.Donation{
			ID:     uuid.New(),
			Amount: 10000,
			Method: domain.MethodPaystack,
			Status: domain.DonationStatusPending,
		},
	}
	svc := adminService(repo)

	_, err := svc.ConfirmBankDonation(context.Background(), uuid.New(), repo.donation.ID)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if repo.donation.Status != domain.DonationStatusPending {
		t.Fatalf("expected donation untouched, got %q", repo.donation.Status)
	}
}

func TestConfirmBankDonation_RejectsNonPending(t *testing.T) {
	repo := &adminRepoStub{
		donation: &domain.Donation{
			ID:     uuid.New(),
			Amount: 10000,
			Method: domain.MethodBank,
			Status: domain.DonationStatusCompleted,
		},
	}
	svc := adminService(repo)

	_, err := svc.ConfirmBankDonation(context.Background(), uuid.New(), repo.donation.ID)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestToggleUserAdmin_RejectsSelfChange(t *testing.T) {
	adminID := uuid.New()
	repo := &adminRepoStub{user: &domain.User{ID: adminID, IsAdmin: true}}
	svc := adminService(repo)

	_, err := svc.ToggleUserAdmin(context.Background(), adminID, adminID)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if repo.setAdminValue != nil {
		t.Fatal("expected no admin flag write on self-change")
	}
}

func TestToggleUserAdmin_FlipsFlag(t *testing.T) {
	userID := uuid.New()
	repo := &adminRepoStub{user: &domain.User{ID: userID, IsAdmin: false}}
	svc := adminService(repo)

	user, err := svc.ToggleUserAdmin(context.Background(), uuid.New(), userID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !user.IsAdmin {
		t.Fatal("expected user to be promoted")
	}
	if repo.setAdminValue == nil || !*repo.setAdminValue {
		t.Fatal("expected admin flag write with true")
	}
}

func TestAppreciateUser_RequiresConfiguredMail(t *testing.T) {
	userID := uuid.New()
	repo := &adminRepoStub{user: &domain.User{ID: userID, Email: "ada@example.com", Name: "Ada Obi"}}
	svc := adminService(repo)

	err := svc.AppreciateUser(context.Background(), uuid.New(), userID, "")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError without a mailer, got %v", err)
	}
}
