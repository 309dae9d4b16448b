/**
 * @description
 * Account operations: registration, credential login with JWT issuance,
 * profile reads and updates, and KYC document submission. Passwords are
 * hashed with bcrypt; tokens are HS256 with the user id as subject and an
 * admin claim.
 *
 * @dependencies
 * - github.com/golang-jwt/jwt/v5: Token issuance.
 * - golang.org/x/crypto/bcrypt: Password hashing.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/helpinghands/crowdfund/internal/domain"
	"github.com/helpinghands/crowdfund/internal/store"
)

// Register creates a new account and returns an authenticated session.
func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	if err := Validate(
		FieldRule{Name: "email", Checks: []func() string{Required(req.Email), Email(req.Email)}},
		FieldRule{Name: "password", Checks: []func() string{Required(req.Password), MinLength(req.Password, 8)}},
		FieldRule{Name: "name", Checks: []func() string{Required(req.Name), MaxLength(req.Name, 120)}},
	); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, &ValidationError{Fields: map[string]string{"email": "is already registered"}}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit(ctx, &user.ID, "user.registered", "user", &user.ID, "", "")

	return s.authResponse(ctx, user)
}

// Login verifies credentials and returns an authenticated session. Attempts
// are rate limited per email.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	if err := Validate(
		FieldRule{Name: "email", Checks: []func() string{Required(req.Email)}},
		FieldRule{Name: "password", Checks: []func() string{Required(req.Password)}},
	); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.consumeLimit(ctx, "login", email, s.opts.LoginRateLimitPerMin); err != nil {
		return nil, err
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(ctx, user)
}

func (s *Service) authResponse(ctx context.Context, user *domain.User) (*domain.AuthResponse, error) {
	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileFor(ctx, user)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{Token: token, User: profile}, nil
}

// issueToken signs an HS256 token with the user id as subject.
func (s *Service) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"adm": user.IsAdmin,
		"iat": now.Unix(),
		"exp": now.Add(s.opts.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.opts.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// GetProfile returns the user's profile with their derived KYC status.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profileFor(ctx, user)
}

func (s *Service) profileFor(ctx context.Context, user *domain.User) (*domain.Profile, error) {
	profile := &domain.Profile{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		IsAdmin:          user.IsAdmin,
		ProfileImagePath: user.ProfileImagePath,
		CreatedAt:        user.CreatedAt,
	}
	sub, err := s.repo.FindLatestKYCByUserID(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, store.ErrKYCNotFound) {
			return nil, fmt.Errorf("failed to load kyc status: %w", err)
		}
	} else {
		profile.KYCStatus = sub.Status
	}
	return profile, nil
}

// UpdateProfile applies the provided profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	if req.Name != nil {
		if err := Validate(
			FieldRule{Name: "name", Checks: []func() string{Required(*req.Name), MaxLength(*req.Name, 120)}},
		); err != nil {
			return nil, err
		}
	}
	if err := s.repo.UpdateUserProfile(ctx, userID, req.Name, req.ProfileImagePath); err != nil {
		return nil, err
	}
	s.audit(ctx, &userID, "user.profile_updated", "user", &userID, "", "")
	return s.GetProfile(ctx, userID)
}

// SubmitKYC records a new pending KYC submission. Users with a pending or
// verified submission cannot submit again; a rejected user may resubmit.
func (s *Service) SubmitKYC(ctx context.Context, userID uuid.UUID, documentPath, idType string) (*domain.KYCSubmission, error) {
	if err := Validate(
		FieldRule{Name: "document", Checks: []func() string{Required(documentPath)}},
		FieldRule{Name: "id_type", Checks: []func() string{Required(idType), OneOf(idType,
			domain.IDTypePassport, domain.IDTypeDriverLicense, domain.IDTypeNationalID)}},
	); err != nil {
		return nil, err
	}

	latest, err := s.repo.FindLatestKYCByUserID(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrKYCNotFound) {
		return nil, fmt.Errorf("failed to load kyc status: %w", err)
	}
	if latest != nil && latest.Status != domain.KYCStatusRejected {
		return nil, &ValidationError{Fields: map[string]string{
			"document": fmt.Sprintf("a %s submission already exists", latest.Status),
		}}
	}

	sub := &domain.KYCSubmission{
		ID:           uuid.New(),
		UserID:       userID,
		DocumentPath: documentPath,
		IDType:       idType,
		Status:       domain.KYCStatusPending,
	}
	if err := s.repo.CreateKYCSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create kyc submission: %w", err)
	}

	s.audit(ctx, &userID, "kyc.submitted", "kyc", &sub.ID, idType, "")
	return sub, nil
}
