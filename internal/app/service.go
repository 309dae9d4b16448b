/**
 * @description
 * This file defines the application service, the orchestration layer between
 * the HTTP handlers and the repository, payment gateways, event bus, and
 * mailer. Auth, campaign, donation, content, and admin operations live in
 * sibling files within this package.
 *
 * @dependencies
 * - internal/store: The data access layer.
 * - internal/secrets: AES-GCM sealing for stored gateway credentials.
 * - pkg/rabbitmq: Event fan-out for settlements and audit records.
 * - pkg/mailer: SMTP delivery for KYC and appreciation mail.
 */

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/helpinghands/crowdfund/internal/domain"
	"github.com/helpinghands/crowdfund/internal/gateway"
	"github.com/helpinghands/crowdfund/internal/secrets"
	"github.com/helpinghands/crowdfund/internal/store"
	"github.com/helpinghands/crowdfund/pkg/mailer"
	"github.com/helpinghands/crowdfund/pkg/rabbitmq"
)

// Options carries the environment-level settings the service needs beyond its
// collaborators.
type Options struct {
	JWTSecret     string
	TokenTTL      time.Duration
	BaseURL       string
	PayPalMode    string
	NGNPerUSDRate float64

	// Fallback gateway credentials used when the stored payment method has
	// none configured.
	EnvCredentials domain.PaymentMethodCredentials

	LoginRateLimitPerMin  int
	DonateRateLimitPerMin int
}

// Service orchestrates the application's business logic.
type Service struct {
	repo     store.Repository
	producer rabbitmq.Publisher
	mail     mailer.Sender
	box      *secrets.Box
	limiter  RateLimiter
	opts     Options

	// buildAdapter is swappable in tests.
	buildAdapter func(methodType string, creds domain.PaymentMethodCredentials) gateway.Adapter
}

// RateLimiter consumes one request from a fixed window. Implementations must
// tolerate being nil-backed and fail open.
type RateLimiter interface {
	ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (count int, retryAfterSeconds int, err error)
}

// NewService creates the application service. producer, mail, box, and
// limiter may be nil; the affected features degrade rather than fail.
func NewService(repo store.Repository, producer rabbitmq.Publisher, mail mailer.Sender, box *secrets.Box, limiter RateLimiter, opts Options) *Service {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	s := &Service{
		repo:     repo,
		producer: producer,
		mail:     mail,
		box:      box,
		limiter:  limiter,
		opts:     opts,
	}
	s.buildAdapter = func(methodType string, creds domain.PaymentMethodCredentials) gateway.Adapter {
		return gateway.Build(methodType, creds, gateway.BuildOptions{
			PayPalMode:    opts.PayPalMode,
			NGNPerUSDRate: opts.NGNPerUSDRate,
		})
	}
	return s
}

// consumeLimit applies a redis-backed rate limit, failing open on limiter
// errors so an unavailable Redis never blocks the product flows.
func (s *Service) consumeLimit(ctx context.Context, scope, subject string, limit int) error {
	if s.limiter == nil || limit <= 0 {
		return nil
	}
	count, _, err := s.limiter.ConsumeRateLimit(ctx, scope, subject, limit, time.Minute)
	if err != nil {
		log.Printf("level=warn component=app msg=\"rate limiter unavailable; allowing request\" scope=%s err=%v", scope, err)
		return nil
	}
	if count > limit {
		return ErrRateLimited
	}
	return nil
}

// audit persists an audit record and mirrors it onto the event bus. Audit
// failures are logged, never propagated.
func (s *Service) audit(ctx context.Context, actorID *uuid.UUID, action, entity string, entityID *uuid.UUID, detail, ip string) {
	entry := &domain.AuditLog{
		ID:        uuid.New(),
		ActorID:   actorID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		IPAddress: ip,
	}
	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		log.Printf("level=error component=app msg=\"audit log write failed\" action=%s err=%v", action, err)
	}
	if s.producer != nil {
		if err := s.producer.PublishAuditEvent(ctx, rabbitmq.AuditEvent{
			ActorID:   actorID,
			Action:    action,
			Entity:    entity,
			EntityID:  entityID,
			Detail:    detail,
			Timestamp: time.Now().UTC(),
		}); err != nil {
			log.Printf("level=warn component=app msg=\"audit event publish failed\" action=%s err=%v", action, err)
		}
	}
}

// notify creates an in-app notification, logging on failure.
func (s *Service) notify(ctx context.Context, userID uuid.UUID, title, body, kind string) {
	n := &domain.Notification{
		ID:     uuid.New(),
		UserID: userID,
		Title:  title,
		Body:   body,
		Kind:   kind,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		log.Printf("level=error component=app msg=\"notification create failed\" user_id=%s err=%v", userID, err)
	}
}

// methodCredentials opens the sealed credential blob of a payment method,
// falling back to environment-configured credentials when the record has none.
func (s *Service) methodCredentials(pm *domain.PaymentMethod) (domain.PaymentMethodCredentials, error) {
	if pm.EncryptedCredentials == "" {
		return s.opts.EnvCredentials, nil
	}
	if s.box == nil {
		return domain.PaymentMethodCredentials{}, fmt.Errorf("credentials are sealed but no encryption key is configured")
	}
	plaintext, err := s.box.Open(pm.EncryptedCredentials)
	if err != nil {
		return domain.PaymentMethodCredentials{}, fmt.Errorf("failed to open payment method credentials: %w", err)
	}
	var creds domain.PaymentMethodCredentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return domain.PaymentMethodCredentials{}, fmt.Errorf("failed to decode payment method credentials: %w", err)
	}
	return creds, nil
}
