/**
 * @description
 * PostgreSQL queries for donations and their settlement. Settlement is the
 * money-critical path: a donation's amount must be credited to its campaign's
 * raised total exactly once, no matter how many times a gateway confirms it.
 *
 * The conditional `UPDATE ... WHERE status = 'pending'` inside a single
 * transaction is what enforces that. A second confirmation matches zero rows
 * and the transaction commits without touching the campaign.
 */

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/helpinghands/crowdfund/internal/domain"
)

const donationColumns = `id, campaign_id, donor_name, donor_email, anonymous, amount, currency,
       method, payment_method_id, provider_reference, status, created_at, completed_at`

func scanDonation(row pgx.Row, d *domain.Donation) error {
	return row.Scan(
		&d.ID, &d.CampaignID, &d.DonorName, &d.DonorEmail, &d.Anonymous,
		&d.Amount, &d.Currency, &d.Method, &d.PaymentMethodID,
		&d.ProviderReference, &d.Status, &d.CreatedAt, &d.CompletedAt,
	)
}

// CreateDonation inserts a new pending donation.
func (r *PostgresRepository) CreateDonation(ctx context.Context, d *domain.Donation) error {
	query := `
		INSERT INTO donations (id, campaign_id, donor_name, donor_email, anonymous, amount,
		                       currency, method, payment_method_id, provider_reference, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query,
		d.ID, d.CampaignID, d.DonorName, d.DonorEmail, d.Anonymous, d.Amount,
		d.Currency, d.Method, d.PaymentMethodID, d.ProviderReference, d.Status,
	).Scan(&d.CreatedAt)
}

// FindDonationByID retrieves a donation by its ID.
func (r *PostgresRepository) FindDonationByID(ctx context.Context, id uuid.UUID) (*domain.Donation, error) {
	var d domain.Donation
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`
	err := scanDonation(r.db.QueryRow(ctx, query, id), &d)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindDonationByProviderReference retrieves a donation by the gateway-side
// reference attached during initiation. Webhooks settle through this lookup.
func (r *PostgresRepository) FindDonationByProviderReference(ctx context.Context, reference string) (*domain.Donation, error) {
	var d domain.Donation
	query := `SELECT ` + donationColumns + ` FROM donations WHERE provider_reference = $1`
	err := scanDonation(r.db.QueryRow(ctx, query, reference), &d)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return &d, nil
}

// SetDonationProviderReference attaches the gateway reference after initiation.
func (r *PostgresRepository) SetDonationProviderReference(ctx context.Context, id uuid.UUID, reference string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE donations SET provider_reference = $2 WHERE id = $1`, id, reference)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrDonationNotFound
	}
	return nil
}

// ListDonations returns donations newest first, filtered by the options.
func (r *PostgresRepository) ListDonations(ctx context.Context, opts domain.DonationListOptions) ([]domain.Donation, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	conditions := []string{}
	args := []interface{}{}
	argPos := 1
	addCondition := func(clause string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(clause, argPos))
		args = append(args, value)
		argPos++
	}

	if opts.Status != "" {
		addCondition("status = $%d", opts.Status)
	}
	if opts.Method != "" {
		addCondition("method = $%d", opts.Method)
	}
	if opts.CampaignID != nil {
		addCondition("campaign_id = $%d", *opts.CampaignID)
	}

	query := `SELECT ` + donationColumns + ` FROM donations`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, opts.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := scanDonation(rows, &d); err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// ListRecentCompletedDonations returns the latest completed donations for a
// campaign's public detail view.
func (r *PostgresRepository) ListRecentCompletedDonations(ctx context.Context, campaignID uuid.UUID, limit int) ([]domain.Donation, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT ` + donationColumns + `
		FROM donations
		WHERE campaign_id = $1 AND status = 'completed'
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, campaignID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := scanDonation(rows, &d); err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// SettleDonation completes a pending donation and credits the campaign total
// atomically. Returns (false, nil) when the donation exists but is no longer
// pending, so callers can treat duplicate confirmations as no-ops.
func (r *PostgresRepository) SettleDonation(ctx context.Context, donationID uuid.UUID) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var campaignID uuid.UUID
	var amount int64
	query := `
		UPDATE donations
		SET status = 'completed', completed_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING campaign_id, amount
	`
	err = tx.QueryRow(ctx, query, donationID).Scan(&campaignID, &amount)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Either already settled/failed or missing entirely.
			if _, findErr := r.FindDonationByID(ctx, donationID); findErr != nil {
				return false, findErr
			}
			return false, nil
		}
		return false, err
	}

	result, err := tx.Exec(ctx,
		`UPDATE campaigns SET raised_amount = raised_amount + $2, updated_at = NOW() WHERE id = $1`,
		campaignID, amount)
	if err != nil {
		return false, err
	}
	if result.RowsAffected() == 0 {
		return false, ErrCampaignNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit settlement transaction: %w", err)
	}
	return true, nil
}

// MarkDonationFailed moves a pending donation to failed. The campaign total
// is untouched. Returns (false, nil) when the donation was not pending.
func (r *PostgresRepository) MarkDonationFailed(ctx context.Context, donationID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE donations SET status = 'failed' WHERE id = $1 AND status = 'pending'`, donationID)
	if err != nil {
		return false, err
	}
	if result.RowsAffected() == 0 {
		if _, findErr := r.FindDonationByID(ctx, donationID); findErr != nil {
			return false, findErr
		}
		return false, nil
	}
	return true, nil
}

// SumCompletedDonations returns the completed-donation total for a campaign.
// Used by reconciliation checks against the stored raised_amount.
func (r *PostgresRepository) SumCompletedDonations(ctx context.Context, campaignID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM donations WHERE campaign_id = $1 AND status = 'completed'`,
		campaignID).Scan(&total)
	return total, err
}
