package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/casuse/website-backend/internal/platform/mailer"
	"github.com/casuse/website-backend/internal/repo/postgres"
	"github.com/casuse/website-backend/pkg/config"
	"github.com/casuse/website-backend/pkg/events"
	"github.com/casuse/website-backend/pkg/logger"
	"github.com/casuse/website-backend/pkg/metrics"
)

// RegistrationService covers the public side of an account: sign up and the
// one-time password setup that follows it.
type RegistrationService interface {
	Register(ctx context.Context, req *domain.RegistrationRequest) (*domain.Customer, error)
	ValidateSetupToken(ctx context.Context, token string) (email string, err error)
	CompletePasswordSetup(ctx context.Context, token string, req *domain.PasswordSetupRequest) error
}

type registrationService struct {
	customers postgres.CustomersRepo
	tokens    postgres.RegistrationTokensRepo
	hasher    PasswordHasher
	mailer    mailer.Service
	eventBus  events.Publisher
	config    *config.Config
	log       *zap.Logger
	now       func() time.Time
}

func NewRegistrationService(
	customers postgres.CustomersRepo,
	tokens postgres.RegistrationTokensRepo,
	hasher PasswordHasher,
	mailer mailer.Service,
	eventBus events.Publisher,
	config *config.Config,
	log *zap.Logger,
) RegistrationService {
	return &registrationService{
		customers: customers,
		tokens:    tokens,
		hasher:    hasher,
		mailer:    mailer,
		eventBus:  eventBus,
		config:    config,
		log:       log,
		now:       time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, req *domain.RegistrationRequest) (*domain.Customer, error) {
	const op = "service.Register"
	log := logger.WithContext(ctx, s.log)

	req.Normalize()
	if err := req.Validate(); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	existing, err := s.customers.FindByEmail(ctx, req.Email)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		return nil, domain.ErrDuplicateEmail
	}

	customer, err := s.customers.Create(ctx, req.ToNewCustomer())
	if errors.Is(err, domain.ErrDuplicateEmail) {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		return nil, err
	}
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// The customer row is already committed; a failure here leaves it without a token.
	tok, err := s.tokens.Create(ctx, customer.ID, s.config.RegistrationTokenTTL())
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		log.Error("registration token not created", zap.String("customer_id", customer.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("%s: create token: %w", op, err)
	}

	if setupURL, err := SetupURL(s.config.Public.BaseURL, tok.Token); err != nil {
		log.Warn("password setup url not built", zap.String("customer_id", customer.ID.String()), zap.Error(err))
	} else if err := s.mailer.SendPasswordSetup(ctx, customer, setupURL); err != nil {
		log.Warn("password setup link not sent", zap.String("customer_id", customer.ID.String()), zap.Error(err))
	}

	if err := s.eventBus.Publish(ctx, events.CustomerRegistered, events.CustomerRegisteredEvent{
		CustomerID:   customer.ID.String(),
		Email:        customer.Email,
		CustomerType: string(customer.CustomerType),
		RegisteredAt: customer.CreatedAt,
	}); err != nil {
		log.Warn("publish event failed", zap.String("subject", events.CustomerRegistered), zap.Error(err))
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	log.Info("customer registered", zap.String("customer_id", customer.ID.String()))
	return customer, nil
}

func (s *registrationService) ValidateSetupToken(ctx context.Context, token string) (string, error) {
	_, customer, err := s.resolveToken(ctx, token)
	if err != nil {
		return "", err
	}
	return customer.Email, nil
}

func (s *registrationService) CompletePasswordSetup(ctx context.Context, token string, req *domain.PasswordSetupRequest) error {
	const op = "service.CompletePasswordSetup"

	if req.Password != req.PasswordConfirm {
		metrics.PasswordSetupsTotal.WithLabelValues(metrics.OutcomeMismatch).Inc()
		return domain.ErrPasswordMismatch
	}

	tok, customer, err := s.resolveToken(ctx, token)
	if err != nil {
		metrics.PasswordSetupsTotal.WithLabelValues(setupOutcome(err)).Inc()
		return err
	}

	if err := domain.CheckPasswordStrength(req.Password); err != nil {
		metrics.PasswordSetupsTotal.WithLabelValues(metrics.OutcomeWeak).Inc()
		return err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		metrics.PasswordSetupsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("%s: hash: %w", op, err)
	}

	if err := s.tokens.CompletePasswordSetup(ctx, tok.ID, customer.ID, hash); err != nil {
		metrics.PasswordSetupsTotal.WithLabelValues(setupOutcome(err)).Inc()
		if errors.Is(err, domain.ErrInvalidOrExpiredToken) || errors.Is(err, domain.ErrOrphanToken) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	log := logger.WithContext(ctx, s.log)
	if err := s.eventBus.Publish(ctx, events.CustomerPasswordSet, events.CustomerPasswordSetEvent{
		CustomerID: customer.ID.String(),
		Email:      customer.Email,
		SetAt:      s.now().UTC(),
	}); err != nil {
		log.Warn("publish event failed", zap.String("subject", events.CustomerPasswordSet), zap.Error(err))
	}

	metrics.PasswordSetupsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	log.Info("password set", zap.String("customer_id", customer.ID.String()))
	return nil
}

// resolveToken finds a usable token and the customer it belongs to.
func (s *registrationService) resolveToken(ctx context.Context, token string) (*domain.RegistrationToken, *domain.Customer, error) {
	const op = "service.resolveToken"

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil, domain.ErrInvalidOrExpiredToken
	}

	tok, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if tok == nil || !tok.IsUsable(s.now()) {
		return nil, nil, domain.ErrInvalidOrExpiredToken
	}

	customer, err := s.customers.FindByID(ctx, tok.CustomerID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if customer == nil {
		return nil, nil, domain.ErrOrphanToken
	}
	return tok, customer, nil
}

func setupOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidOrExpiredToken):
		return metrics.OutcomeInvalidToken
	case errors.Is(err, domain.ErrOrphanToken):
		return metrics.OutcomeOrphan
	default:
		return metrics.OutcomeError
	}
}

// SetupURL joins the public site address with the password setup page for token.
func SetupURL(baseURL, token string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q is not absolute", baseURL)
	}
	return base + setupPath + "?" + url.Values{tokenParam: {token}}.Encode(), nil
}
