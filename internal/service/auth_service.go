package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/casuse/website-backend/internal/repo/postgres"
	"github.com/casuse/website-backend/pkg/config"
	"github.com/casuse/website-backend/pkg/logger"
	"github.com/casuse/website-backend/pkg/metrics"
)

type AuthService interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenResponse, error)
	// Authenticate turns a raw bearer token into the active customer it names.
	Authenticate(ctx context.Context, token string) (*domain.Customer, error)
}

type authService struct {
	customers postgres.CustomersRepo
	hasher    PasswordHasher
	issuer    TokenIssuer
	config    *config.Config
	log       *zap.Logger
}

func NewAuthService(
	customers postgres.CustomersRepo,
	hasher PasswordHasher,
	issuer TokenIssuer,
	config *config.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		customers: customers,
		hasher:    hasher,
		issuer:    issuer,
		config:    config,
		log:       log,
	}
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenResponse, error) {
	const op = "service.Login"

	req.Normalize()
	if err := req.Validate(); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	customer, err := s.customers.FindByEmail(ctx, req.Email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Unknown email, no password yet and a wrong password look the same to the caller.
	if customer == nil || !customer.HasPassword() || !s.hasher.Verify(req.Password, *customer.HashedPassword) {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeInvalidCredentials).Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !customer.IsActive {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeInactive).Inc()
		return nil, domain.ErrInactiveAccount
	}

	token, err := s.issuer.NewAccessToken(customer.Email, customer.ID, customer.IsAdmin, s.config.AccessTokenTTL())
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: issue token: %w", op, err)
	}

	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	logger.WithContext(ctx, s.log).Info("customer logged in", zap.String("customer_id", customer.ID.String()))
	return &domain.TokenResponse{AccessToken: token, TokenType: TokenType}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Customer, error) {
	const op = "service.Authenticate"

	claims, err := s.issuer.Parse(token)
	if err != nil {
		logger.WithContext(ctx, s.log).Debug("bearer token rejected", zap.Error(err))
		return nil, domain.ErrUnauthenticated
	}

	// The email claim is re-resolved so deleted or deactivated accounts lose access.
	customer, err := s.customers.FindByEmail(ctx, claims.Email())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if customer == nil || !customer.IsActive {
		return nil, domain.ErrUnauthenticated
	}
	return customer, nil
}
