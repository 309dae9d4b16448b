/**
 * @description
 * This file defines the user and KYC domain models. A user's ability to create
 * campaigns is gated on the outcome of their most recent KYC submission, so the
 * two concepts live together.
 *
 * @notes
 * - KYC review is append-only: a resubmission after rejection creates a fresh
 *   pending record, and the latest record decides the user's effective status.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// KYC status values. The latest submission's status is the user's effective status.
const (
	KYCStatusPending  = "pending"
	KYCStatusVerified = "verified"
	KYCStatusRejected = "rejected"
)

// Accepted identity document types for KYC submissions.
const (
	IDTypePassport      = "passport"
	IDTypeDriverLicense = "driver_license"
	IDTypeNationalID    = "national_id"
)

// User represents a registered account. PasswordHash is never serialized.
type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Name             string    `json:"name"`
	IsAdmin          bool      `json:"is_admin"`
	EmailVerified    bool      `json:"email_verified"`
	ProfileImagePath *string   `json:"profile_image_path,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// KYCSubmission is one identity review record for a user.
type KYCSubmission struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	DocumentPath string     `json:"document_path"`
	IDType       string     `json:"id_type"`
	Status       string     `json:"status"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
}

// RegisterRequest is the DTO for account creation.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the DTO for credential login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued bearer token and the authenticated profile.
type AuthResponse struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

// Profile is the public view of a user, including the derived KYC status.
// KYCStatus is empty when the user has never submitted documents.
type Profile struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	IsAdmin          bool      `json:"is_admin"`
	KYCStatus        string    `json:"kyc_status,omitempty"`
	ProfileImagePath *string   `json:"profile_image_path,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// UpdateProfileRequest carries the mutable profile fields.
type UpdateProfileRequest struct {
	Name             *string `json:"name,omitempty"`
	ProfileImagePath *string `json:"profile_image_path,omitempty"`
}

// ValidIDType reports whether t is one of the accepted document types.
func ValidIDType(t string) bool {
	switch t {
	case IDTypePassport, IDTypeDriverLicense, IDTypeNationalID:
		return true
	}
	return false
}
