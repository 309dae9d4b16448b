/**
 * @description
 * PostgreSQL queries for payment method configuration, editorial content
 * (news, comments, locations), in-app notifications, audit logging, and the
 * admin dashboard aggregates.
 */

package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/helpinghands/crowdfund/internal/domain"
)

// CreatePaymentMethod inserts an admin-configured payment channel. The
// credentials column holds the sealed blob produced by internal/secrets.
func (r *PostgresRepository) CreatePaymentMethod(ctx context.Context, pm *domain.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (id, name, type, enabled, display_details, encrypted_credentials, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query,
		pm.ID, pm.Name, pm.Type, pm.Enabled, pm.DisplayDetails, pm.EncryptedCredentials,
	).Scan(&pm.CreatedAt)
}

// FindPaymentMethodByID retrieves a payment method, including the sealed credentials.
func (r *PostgresRepository) FindPaymentMethodByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error) {
	var pm domain.PaymentMethod
	query := `
		SELECT id, name, type, enabled, display_details, encrypted_credentials, created_at
		FROM payment_methods
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&pm.ID, &pm.Name, &pm.Type, &pm.Enabled, &pm.DisplayDetails, &pm.EncryptedCredentials, &pm.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return &pm, nil
}

// FindEnabledPaymentMethodByType returns the newest enabled method of a type.
func (r *PostgresRepository) FindEnabledPaymentMethodByType(ctx context.Context, methodType string) (*domain.PaymentMethod, error) {
	var pm domain.PaymentMethod
	query := `
		SELECT id, name, type, enabled, display_details, encrypted_credentials, created_at
		FROM payment_methods
		WHERE type = $1 AND enabled = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.QueryRow(ctx, query, methodType).Scan(
		&pm.ID, &pm.Name, &pm.Type, &pm.Enabled, &pm.DisplayDetails, &pm.EncryptedCredentials, &pm.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return &pm, nil
}

// ListPaymentMethods returns configured methods, optionally only enabled ones.
func (r *PostgresRepository) ListPaymentMethods(ctx context.Context, enabledOnly bool) ([]domain.PaymentMethod, error) {
	query := `
		SELECT id, name, type, enabled, display_details, encrypted_credentials, created_at
		FROM payment_methods
	`
	if enabledOnly {
		query += ` WHERE enabled = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []domain.PaymentMethod
	for rows.Next() {
		var pm domain.PaymentMethod
		if err := rows.Scan(
			&pm.ID, &pm.Name, &pm.Type, &pm.Enabled, &pm.DisplayDetails, &pm.EncryptedCredentials, &pm.CreatedAt,
		); err != nil {
			return nil, err
		}
		methods = append(methods, pm)
	}
	return methods, rows.Err()
}

// SetPaymentMethodEnabled toggles a payment method.
func (r *PostgresRepository) SetPaymentMethodEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	result, err := r.db.Exec(ctx,
		`UPDATE payment_methods SET enabled = $2 WHERE id = $1`, id, enabled)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPaymentMethodNotFound
	}
	return nil
}

// DeletePaymentMethod removes a payment method configuration.
func (r *PostgresRepository) DeletePaymentMethod(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM payment_methods WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPaymentMethodNotFound
	}
	return nil
}

// CreateNews inserts a new article.
func (r *PostgresRepository) CreateNews(ctx context.Context, n *domain.News) error {
	query := `
		INSERT INTO news (id, author_id, title, content, image_path, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, n.ID, n.AuthorID, n.Title, n.Content, n.ImagePath).Scan(&n.CreatedAt)
}

// FindNewsByID retrieves an article.
func (r *PostgresRepository) FindNewsByID(ctx context.Context, id uuid.UUID) (*domain.News, error) {
	var n domain.News
	query := `SELECT id, author_id, title, content, image_path, created_at FROM news WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&n.ID, &n.AuthorID, &n.Title, &n.Content, &n.ImagePath, &n.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return &n, nil
}

// ListNews returns articles newest first.
func (r *PostgresRepository) ListNews(ctx context.Context, limit, offset int) ([]domain.News, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT id, author_id, title, content, image_path, created_at
		FROM news
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.News
	for rows.Next() {
		var n domain.News
		if err := rows.Scan(&n.ID, &n.AuthorID, &n.Title, &n.Content, &n.ImagePath, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// DeleteNews removes an article and its comments.
func (r *PostgresRepository) DeleteNews(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNewsNotFound
	}
	return nil
}

// CreateComment inserts a user comment on an article.
func (r *PostgresRepository) CreateComment(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (id, news_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, c.ID, c.NewsID, c.UserID, c.Content).Scan(&c.CreatedAt)
}

// ListCommentsByNewsID returns an article's comments newest first, joined
// with the author's display name.
func (r *PostgresRepository) ListCommentsByNewsID(ctx context.Context, newsID uuid.UUID) ([]domain.Comment, error) {
	query := `
		SELECT c.id, c.news_id, c.user_id, u.name, c.content, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.news_id = $1
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, newsID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.NewsID, &c.UserID, &c.AuthorName, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreateLocation inserts a directory location.
func (r *PostgresRepository) CreateLocation(ctx context.Context, l *domain.Location) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO locations (id, name, country, active) VALUES ($1, $2, $3, $4)`,
		l.ID, l.Name, l.Country, l.Active)
	return err
}

// ListLocations returns the location directory.
func (r *PostgresRepository) ListLocations(ctx context.Context, activeOnly bool) ([]domain.Location, error) {
	query := `SELECT id, name, country, active FROM locations`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Country, &l.Active); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// DeleteLocation removes a directory location.
func (r *PostgresRepository) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// CreateNotification inserts an in-app notification for a user.
func (r *PostgresRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, body, kind, read, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, n.ID, n.UserID, n.Title, n.Body, n.Kind).Scan(&n.CreatedAt)
}

// ListNotifications returns a user's notifications newest first.
func (r *PostgresRepository) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, user_id, title, body, kind, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Kind, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkNotificationRead marks one of the user's notifications read. Returns
// false when no matching unread notification exists.
func (r *PostgresRepository) MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2 AND read = FALSE`,
		notificationID, userID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// CountUnreadNotifications returns the user's unread notification count.
func (r *PostgresRepository) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID).Scan(&count)
	return count, err
}

// CreateAuditLog records a privileged action. Audit writes never fail the
// calling operation; callers log and continue on error.
func (r *PostgresRepository) CreateAuditLog(ctx context.Context, entry *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, entity, entity_id, detail, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query,
		entry.ID, entry.ActorID, entry.Action, entry.Entity, entry.EntityID, entry.Detail, entry.IPAddress,
	).Scan(&entry.CreatedAt)
}

// GetDashboardStats computes the admin overview aggregates in one round trip.
func (r *PostgresRepository) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM campaigns),
			(SELECT COUNT(*) FROM kyc_submissions WHERE status = 'pending'),
			(SELECT COUNT(*) FROM campaigns WHERE state = 'pending_approval'),
			(SELECT COUNT(*) FROM donations WHERE status = 'completed'),
			(SELECT COALESCE(SUM(amount), 0) FROM donations WHERE status = 'completed')
	`
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalUsers, &stats.TotalCampaigns, &stats.PendingKYC,
		&stats.PendingCampaigns, &stats.CompletedDonations, &stats.TotalRaised,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
