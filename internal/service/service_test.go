package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/casuse/website-backend/internal/platform/auth"
	"github.com/casuse/website-backend/internal/repo/memory"
	"github.com/casuse/website-backend/pkg/config"
)

type sentMail struct {
	customer *domain.Customer
	url      string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendPasswordSetup(_ context.Context, c *domain.Customer, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{customer: c, url: url})
	return m.err
}

type published struct {
	subject string
	data    interface{}
}

type recordingBus struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (b *recordingBus) Publish(_ context.Context, subject string, data interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, published{subject: subject, data: data})
	return b.err
}

func (b *recordingBus) Close() error { return nil }

type failingTokens struct {
	*memory.RegistrationTokens
}

func (failingTokens) Create(context.Context, uuid.UUID, time.Duration) (*domain.RegistrationToken, error) {
	return nil, errors.New("db down")
}

// staticTokens always finds tok, whatever happened to the rows behind it.
type staticTokens struct {
	*memory.RegistrationTokens
	tok domain.RegistrationToken
}

func (s staticTokens) FindByToken(_ context.Context, token string) (*domain.RegistrationToken, error) {
	if token != s.tok.Token {
		return nil, nil
	}
	cp := s.tok
	return &cp, nil
}

type fixture struct {
	store    *memory.Store
	mailer   *recordingMailer
	bus      *recordingBus
	hasher   *auth.PasswordHasher
	issuer   *auth.TokenIssuer
	cfg      *config.Config
	reg      *registrationService
	authSvc  AuthService
	customer CustomerService
}

func testConfig() *config.Config {
	return &config.Config{
		Env: config.EnvLocal,
		Auth: config.AuthConfig{
			JWTSecret:                   "test-secret",
			JWTAlgorithm:                "HS256",
			AccessTokenExpireMinutes:    60,
			RegistrationTokenTTLMinutes: 60,
			PasswordHashScheme:          auth.SchemeBcrypt,
			BcryptCost:                  bcrypt.MinCost,
		},
		Public: config.PublicConfig{BaseURL: "http://localhost:20190/"},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig()

	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordHashScheme, cfg.Auth.BcryptCost)
	require.NoError(t, err)
	issuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm, cfg.AccessTokenTTL())
	require.NoError(t, err)

	store := memory.NewStore()
	mailer := &recordingMailer{}
	bus := &recordingBus{}
	log := zap.NewNop()

	reg := NewRegistrationService(store.Customers(), store.Tokens(), hasher, mailer, bus, cfg, log).(*registrationService)

	return &fixture{
		store:    store,
		mailer:   mailer,
		bus:      bus,
		hasher:   hasher,
		issuer:   issuer,
		cfg:      cfg,
		reg:      reg,
		authSvc:  NewAuthService(store.Customers(), hasher, issuer, cfg, log),
		customer: NewCustomerService(store.Customers()),
	}
}

func registration(email string) *domain.RegistrationRequest {
	return &domain.RegistrationRequest{
		Email:        email,
		FirstName:    "Sofía",
		LastName:     "López",
		CustomerType: domain.CustomerIndividual,
	}
}

// registerWithPassword runs the full public flow and returns the customer.
func (f *fixture) registerWithPassword(t *testing.T, email, password string) *domain.Customer {
	t.Helper()
	ctx := context.Background()
	c, err := f.reg.Register(ctx, registration(email))
	require.NoError(t, err)
	tokens := f.store.TokensFor(c.ID)
	require.Len(t, tokens, 1)
	require.NoError(t, f.reg.CompletePasswordSetup(ctx, tokens[0].Token, &domain.PasswordSetupRequest{
		Password:        password,
		PasswordConfirm: password,
	}))
	return c
}
