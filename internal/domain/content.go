/**
 * @description
 * This file defines the editorial content models: news articles published by
 * admins, reader comments on them, and the location directory used to tag
 * campaigns.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// News is an admin-authored article.
type News struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImagePath *string   `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a user comment on a news article.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	NewsID     uuid.UUID `json:"news_id"`
	UserID     uuid.UUID `json:"user_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Location is a directory entry campaigns can be tagged with.
type Location struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Country string    `json:"country"`
	Active  bool      `json:"active"`
}

// CreateNewsRequest is the admin DTO for publishing an article.
type CreateNewsRequest struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	ImagePath *string `json:"image_path,omitempty"`
}

// NewsDetail is the public article view with its comments, newest first.
type NewsDetail struct {
	News     *News     `json:"news"`
	Comments []Comment `json:"comments"`
}
