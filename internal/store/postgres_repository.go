/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository`
 * interface for users, KYC submissions, and campaigns. Donation and content
 * queries live in sibling files.
 *
 * @dependencies
 * - context, errors: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/helpinghands/crowdfund/internal/domain"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrKYCNotFound           = errors.New("kyc submission not found")
	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrDonationNotFound      = errors.New("donation not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrNewsNotFound          = errors.New("news article not found")
	ErrLocationNotFound      = errors.New("location not found")
	ErrInvalidStateChange    = errors.New("invalid state transition")
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateUser inserts a new user. Emails are stored lowercased and must be unique.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, is_admin, email_verified, created_at)
		VALUES ($1, lower(btrim($2)), $3, $4, $5, $6, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.IsAdmin, user.EmailVerified,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation on the email index
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// FindUserByEmail retrieves a user by email, case-insensitively.
func (r *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `
		SELECT id, email, password_hash, name, is_admin, email_verified, profile_image_path, created_at
		FROM users
		WHERE email = lower(btrim($1))
	`
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&user.IsAdmin, &user.EmailVerified, &user.ProfileImagePath, &user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByID retrieves a user by their ID.
func (r *PostgresRepository) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `
		SELECT id, email, password_hash, name, is_admin, email_verified, profile_image_path, created_at
		FROM users
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&user.IsAdmin, &user.EmailVerified, &user.ProfileImagePath, &user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUserProfile applies the provided profile fields; nil fields are left unchanged.
func (r *PostgresRepository) UpdateUserProfile(ctx context.Context, userID uuid.UUID, name *string, profileImagePath *string) error {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
		    profile_image_path = COALESCE($3, profile_image_path),
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query, userID, name, profileImagePath)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetUserAdmin toggles the admin flag for a user.
func (r *PostgresRepository) SetUserAdmin(ctx context.Context, userID uuid.UUID, isAdmin bool) error {
	result, err := r.db.Exec(ctx, `UPDATE users SET is_admin = $2, updated_at = NOW() WHERE id = $1`, userID, isAdmin)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListUsers returns users newest first.
func (r *PostgresRepository) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, email, password_hash, name, is_admin, email_verified, profile_image_path, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.Name,
			&user.IsAdmin, &user.EmailVerified, &user.ProfileImagePath, &user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateKYCSubmission inserts a new pending KYC record for a user.
func (r *PostgresRepository) CreateKYCSubmission(ctx context.Context, sub *domain.KYCSubmission) error {
	query := `
		INSERT INTO kyc_submissions (id, user_id, document_path, id_type, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING submitted_at
	`
	return r.db.QueryRow(ctx, query,
		sub.ID, sub.UserID, sub.DocumentPath, sub.IDType, sub.Status,
	).Scan(&sub.SubmittedAt)
}

// FindLatestKYCByUserID returns the user's most recent submission, which
// decides their effective KYC status.
func (r *PostgresRepository) FindLatestKYCByUserID(ctx context.Context, userID uuid.UUID) (*domain.KYCSubmission, error) {
	var sub domain.KYCSubmission
	query := `
		SELECT id, user_id, document_path, id_type, status, submitted_at, reviewed_at
		FROM kyc_submissions
		WHERE user_id = $1
		ORDER BY submitted_at DESC
		LIMIT 1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&sub.ID, &sub.UserID, &sub.DocumentPath, &sub.IDType,
		&sub.Status, &sub.SubmittedAt, &sub.ReviewedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrKYCNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindKYCByID retrieves a single KYC submission.
func (r *PostgresRepository) FindKYCByID(ctx context.Context, id uuid.UUID) (*domain.KYCSubmission, error) {
	var sub domain.KYCSubmission
	query := `
		SELECT id, user_id, document_path, id_type, status, submitted_at, reviewed_at
		FROM kyc_submissions
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&sub.ID, &sub.UserID, &sub.DocumentPath, &sub.IDType,
		&sub.Status, &sub.SubmittedAt, &sub.ReviewedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrKYCNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// ListKYCByStatus returns submissions in a given status, oldest first so
// reviewers work the queue in submission order.
func (r *PostgresRepository) ListKYCByStatus(ctx context.Context, status string, limit, offset int) ([]domain.KYCSubmission, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, user_id, document_path, id_type, status, submitted_at, reviewed_at
		FROM kyc_submissions
		WHERE status = $1
		ORDER BY submitted_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.KYCSubmission
	for rows.Next() {
		var sub domain.KYCSubmission
		if err := rows.Scan(
			&sub.ID, &sub.UserID, &sub.DocumentPath, &sub.IDType,
			&sub.Status, &sub.SubmittedAt, &sub.ReviewedAt,
		); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// ReviewKYCSubmission moves a pending submission to verified or rejected.
// Reviews of already-reviewed submissions fail with ErrInvalidStateChange.
func (r *PostgresRepository) ReviewKYCSubmission(ctx context.Context, id uuid.UUID, status string) (*domain.KYCSubmission, error) {
	var sub domain.KYCSubmission
	query := `
		UPDATE kyc_submissions
		SET status = $2, reviewed_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, user_id, document_path, id_type, status, submitted_at, reviewed_at
	`
	err := r.db.QueryRow(ctx, query, id, status).Scan(
		&sub.ID, &sub.UserID, &sub.DocumentPath, &sub.IDType,
		&sub.Status, &sub.SubmittedAt, &sub.ReviewedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Distinguish a missing row from one that is not pending.
			if _, findErr := r.FindKYCByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, ErrInvalidStateChange
		}
		return nil, err
	}
	return &sub, nil
}

// CreateCampaign inserts a new campaign in the draft state.
func (r *PostgresRepository) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	query := `
		INSERT INTO campaigns (id, owner_id, title, description, goal_amount, raised_amount,
		                       image_path, category, location, end_date, state, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9, $10, NOW())
		RETURNING raised_amount, created_at
	`
	return r.db.QueryRow(ctx, query,
		c.ID, c.OwnerID, c.Title, c.Description, c.GoalAmount,
		c.ImagePath, c.Category, c.Location, c.EndDate, c.State,
	).Scan(&c.RaisedAmount, &c.CreatedAt)
}

// FindCampaignByID retrieves a campaign by its ID.
func (r *PostgresRepository) FindCampaignByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	var c domain.Campaign
	query := `
		SELECT id, owner_id, title, description, goal_amount, raised_amount,
		       image_path, category, location, end_date, state, created_at
		FROM campaigns
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.GoalAmount, &c.RaisedAmount,
		&c.ImagePath, &c.Category, &c.Location, &c.EndDate, &c.State, &c.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListCampaigns returns campaigns newest first, filtered by the options.
func (r *PostgresRepository) ListCampaigns(ctx context.Context, opts domain.CampaignListOptions) ([]domain.Campaign, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 12
	}

	conditions := []string{}
	args := []interface{}{}
	argPos := 1
	addCondition := func(clause string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(clause, argPos))
		args = append(args, value)
		argPos++
	}

	if opts.State != "" {
		addCondition("state = $%d", opts.State)
	}
	if opts.Category != "" {
		addCondition("category = $%d", opts.Category)
	}
	if opts.Location != "" {
		addCondition("location = $%d", opts.Location)
	}

	query := `
		SELECT id, owner_id, title, description, goal_amount, raised_amount,
		       image_path, category, location, end_date, state, created_at
		FROM campaigns
	`
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

	var campaigns []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(
			&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.GoalAmount, &c.RaisedAmount,
			&c.ImagePath, &c.Category, &c.Location, &c.EndDate, &c.State, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// UpdateCampaignState performs a guarded state transition. The update only
// applies when the campaign is currently in fromState.
func (r *PostgresRepository) UpdateCampaignState(ctx context.Context, id uuid.UUID, fromState, toState string) (*domain.Campaign, error) {
	var c domain.Campaign
	query := `
		UPDATE campaigns
		SET state = $3, updated_at = NOW()
		WHERE id = $1 AND state = $2
		RETURNING id, owner_id, title, description, goal_amount, raised_amount,
		          image_path, category, location, end_date, state, created_at
	`
	err := r.db.QueryRow(ctx, query, id, fromState, toState).Scan(
		&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.GoalAmount, &c.RaisedAmount,
		&c.ImagePath, &c.Category, &c.Location, &c.EndDate, &c.State, &c.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			if _, findErr := r.FindCampaignByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, ErrInvalidStateChange
		}
		return nil, err
	}
	return &c, nil
}

// DeleteCampaign removes a campaign and its donations.
func (r *PostgresRepository) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCampaignNotFound
	}
	return nil
}
