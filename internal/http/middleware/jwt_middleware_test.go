package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/casuse/website-backend/internal/http/middleware"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (*domain.Customer, error) {
	args := m.Called(ctx, token)
	c, _ := args.Get(0).(*domain.Customer)
	return c, args.Error(1)
}

func protected(authn middleware.Authenticator) http.Handler {
	log := zap.NewNop()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(middleware.Customer(r).Email))
	})
	return middleware.RequireCustomer(authn, log)(middleware.RequireAdmin(log)(ok))
}

func doGet(h http.Handler, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/customers", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireCustomer_MissingHeader(t *testing.T) {
	authn := &mockAuthenticator{}
	h := protected(authn)

	for _, authz := range []string{"", "Basic abc", "Bearer ", "Bearer"} {
		rec := doGet(h, authz)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, authz)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	}
	authn.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestRequireCustomer_InvalidToken(t *testing.T) {
	authn := &mockAuthenticator{}
	authn.On("Authenticate", mock.Anything, "bad").Return(nil, domain.ErrUnauthenticated)

	rec := doGet(protected(authn), "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	authn.AssertExpectations(t)
}

func TestRequireAdmin_ForbiddenForRegularCustomer(t *testing.T) {
	authn := &mockAuthenticator{}
	authn.On("Authenticate", mock.Anything, "tok").
		Return(&domain.Customer{ID: uuid.New(), Email: "user@example.com", IsActive: true}, nil)

	rec := doGet(protected(authn), "Bearer tok")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	authn := &mockAuthenticator{}
	authn.On("Authenticate", mock.Anything, "tok").
		Return(&domain.Customer{ID: uuid.New(), Email: "admin@casuse.mx", IsActive: true, IsAdmin: true}, nil)

	rec := doGet(protected(authn), "bearer tok")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@casuse.mx", rec.Body.String())
}
