/**
 * @description
 * Editorial content and notification operations: news publishing (admin),
 * public article reads, authenticated comments, the location directory, and
 * per-user in-app notifications.
 */

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/helpinghands/crowdfund/internal/domain"
)

// CreateNews publishes an article. Admin only; the handler enforces that.
func (s *Service) CreateNews(ctx context.Context, authorID uuid.UUID, req domain.CreateNewsRequest) (*domain.News, error) {
	if err := Validate(
		FieldRule{Name: "title", Checks: []func() string{Required(req.Title), MaxLength(req.Title, 200)}},
		FieldRule{Name: "content", Checks: []func() string{Required(req.Content)}},
	); err != nil {
		return nil, err
	}

	article := &domain.News{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		ImagePath: req.ImagePath,
	}
	if err := s.repo.CreateNews(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to create news article: %w", err)
	}

	s.audit(ctx, &authorID, "news.created", "news", &article.ID, article.Title, "")
	return article, nil
}

// ListNews returns articles newest first.
func (s *Service) ListNews(ctx context.Context, limit, offset int) ([]domain.News, error) {
	return s.repo.ListNews(ctx, limit, offset)
}

// GetNewsDetail returns an article with its comments.
func (s *Service) GetNewsDetail(ctx context.Context, newsID uuid.UUID) (*domain.NewsDetail, error) {
	article, err := s.repo.FindNewsByID(ctx, newsID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.ListCommentsByNewsID(ctx, newsID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return &domain.NewsDetail{News: article, Comments: comments}, nil
}

// DeleteNews removes an article.
func (s *Service) DeleteNews(ctx context.Context, adminID, newsID uuid.UUID) error {
	if err := s.repo.DeleteNews(ctx, newsID); err != nil {
		return err
	}
	s.audit(ctx, &adminID, "news.deleted", "news", &newsID, "", "")
	return nil
}

// AddComment posts an authenticated user's comment on an article.
func (s *Service) AddComment(ctx context.Context, userID, newsID uuid.UUID, content string) (*domain.Comment, error) {
	if err := Validate(
		FieldRule{Name: "content", Checks: []func() string{Required(content), MaxLength(content, 2000)}},
	); err != nil {
		return nil, err
	}
	// Reject comments on articles that do not exist.
	if _, err := s.repo.FindNewsByID(ctx, newsID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:      uuid.New(),
		NewsID:  newsID,
		UserID:  userID,
		Content: strings.TrimSpace(content),
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// CreateLocation adds a directory entry.
func (s *Service) CreateLocation(ctx context.Context, adminID uuid.UUID, name, country string) (*domain.Location, error) {
	if err := Validate(
		FieldRule{Name: "name", Checks: []func() string{Required(name), MaxLength(name, 120)}},
		FieldRule{Name: "country", Checks: []func() string{Required(country), MaxLength(country, 120)}},
	); err != nil {
		return nil, err
	}
	location := &domain.Location{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(name),
		Country: strings.TrimSpace(country),
		Active:  true,
	}
	if err := s.repo.CreateLocation(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	s.audit(ctx, &adminID, "location.created", "location", &location.ID, location.Name, "")
	return location, nil
}

// ListLocations returns the directory, active entries only for public use.
func (s *Service) ListLocations(ctx context.Context, activeOnly bool) ([]domain.Location, error) {
	return s.repo.ListLocations(ctx, activeOnly)
}

// DeleteLocation removes a directory entry.
func (s *Service) DeleteLocation(ctx context.Context, adminID, locationID uuid.UUID) error {
	if err := s.repo.DeleteLocation(ctx, locationID); err != nil {
		return err
	}
	s.audit(ctx, &adminID, "location.deleted", "location", &locationID, "", "")
	return nil
}

// ListNotifications returns the user's notifications newest first.
func (s *Service) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Notification, error) {
	return s.repo.ListNotifications(ctx, userID, limit, offset)
}

// MarkNotificationRead marks one of the user's notifications read.
func (s *Service) MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) (bool, error) {
	return s.repo.MarkNotificationRead(ctx, userID, notificationID)
}

// CountUnreadNotifications returns the user's unread badge count.
func (s *Service) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnreadNotifications(ctx, userID)
}
