/**
 * @description
 * This file defines the `Repository` interface, the contract for all data
 * access required by the application services. Keeping the interface separate
 * from the PostgreSQL implementation decouples business logic from the
 * database and lets tests substitute in-memory stubs.
 *
 * @dependencies
 * - context: Standard Go library.
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain: For the domain models.
 */

package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/helpinghands/crowdfund/internal/domain"
)

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// User methods
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateUserProfile(ctx context.Context, userID uuid.UUID, name *string, profileImagePath *string) error
	SetUserAdmin(ctx context.Context, userID uuid.UUID, isAdmin bool) error
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)

	// KYC methods
	CreateKYCSubmission(ctx context.Context, sub *domain.KYCSubmission) error
	FindLatestKYCByUserID(ctx context.Context, userID uuid.UUID) (*domain.KYCSubmission, error)
	FindKYCByID(ctx context.Context, id uuid.UUID) (*domain.KYCSubmission, error)
	ListKYCByStatus(ctx context.Context, status string, limit, offset int) ([]domain.KYCSubmission, error)
	ReviewKYCSubmission(ctx context.Context, id uuid.UUID, status string) (*domain.KYCSubmission, error)

	// Campaign methods
	CreateCampaign(ctx context.Context, c *domain.Campaign) error
	FindCampaignByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	ListCampaigns(ctx context.Context, opts domain.CampaignListOptions) ([]domain.Campaign, error)
	UpdateCampaignState(ctx context.Context, id uuid.UUID, fromState, toState string) (*domain.Campaign, error)
	DeleteCampaign(ctx context.Context, id uuid.UUID) error

	// Donation methods
	CreateDonation(ctx context.Context, d *domain.Donation) error
	FindDonationByID(ctx context.Context, id uuid.UUID) (*domain.Donation, error)
	FindDonationByProviderReference(ctx context.Context, reference string) (*domain.Donation, error)
	SetDonationProviderReference(ctx context.Context, id uuid.UUID, reference string) error
	ListDonations(ctx context.Context, opts domain.DonationListOptions) ([]domain.Donation, error)
	ListRecentCompletedDonations(ctx context.Context, campaignID uuid.UUID, limit int) ([]domain.Donation, error)
	// SettleDonation transitions a pending donation to completed and credits the
	// campaign's raised total in one transaction. It reports false without error
	// when the donation was not pending, so repeated confirmations are no-ops.
	SettleDonation(ctx context.Context, donationID uuid.UUID) (bool, error)
	MarkDonationFailed(ctx context.Context, donationID uuid.UUID) (bool, error)

	// Payment method methods
	CreatePaymentMethod(ctx context.Context, pm *domain.PaymentMethod) error
	FindPaymentMethodByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error)
	FindEnabledPaymentMethodByType(ctx context.Context, methodType string) (*domain.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, enabledOnly bool) ([]domain.PaymentMethod, error)
	SetPaymentMethodEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
	DeletePaymentMethod(ctx context.Context, id uuid.UUID) error

	// Content methods
	CreateNews(ctx context.Context, n *domain.News) error
	FindNewsByID(ctx context.Context, id uuid.UUID) (*domain.News, error)
	ListNews(ctx context.Context, limit, offset int) ([]domain.News, error)
	DeleteNews(ctx context.Context, id uuid.UUID) error
	CreateComment(ctx context.Context, c *domain.Comment) error
	ListCommentsByNewsID(ctx context.Context, newsID uuid.UUID) ([]domain.Comment, error)
	CreateLocation(ctx context.Context, l *domain.Location) error
	ListLocations(ctx context.Context, activeOnly bool) ([]domain.Location, error)
	DeleteLocation(ctx context.Context, id uuid.UUID) error

	// Notification methods
	CreateNotification(ctx context.Context, n *domain.Notification) error
	ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) (bool, error)
	CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error)

	// Audit and reporting methods
	CreateAuditLog(ctx context.Context, entry *domain.AuditLog) error
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	SumCompletedDonations(ctx context.Context, campaignID uuid.UUID) (int64, error)
}
