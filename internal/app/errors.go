/**
 * @description
 * This file defines the typed errors the application services return. The API
 * layer maps these onto HTTP status codes with errors.Is / errors.As, keeping
 * status decisions out of business logic.
 */

package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotAuthorized covers missing permissions: non-admin hitting admin
	// surface, non-owner mutating a campaign.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrKYCRequired is returned when a user without verified KYC tries to
	// create a campaign.
	ErrKYCRequired = errors.New("verified kyc required")
	// ErrCampaignNotPublished is returned when a donation targets a campaign
	// that is not accepting donations.
	ErrCampaignNotPublished = errors.New("campaign is not published")
	// ErrMethodDisabled is returned when the requested payment method is
	// missing or disabled.
	ErrMethodDisabled = errors.New("payment method not available")
	// ErrInvalidCredentials is returned for a failed login without revealing
	// which part of the credential pair was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidSignature is returned when a webhook signature check fails.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrRateLimited is returned when a redis rate limit window is exhausted.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ValidationError carries per-field messages for a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// GatewayError wraps a payment provider failure. The donation flow treats it
// as non-fatal: the donation stays pending and the donor gets fallback
// instructions.
type GatewayError struct {
	Method string
	Err    error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Method, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }
