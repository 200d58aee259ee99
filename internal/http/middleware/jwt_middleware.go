package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/casuse/website-backend/internal/http/response"
	"github.com/casuse/website-backend/pkg/logger"
)

type ctxKey string

const CtxCustomer ctxKey = "customer"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Customer, error)
}

// RequireCustomer resolves the bearer token into an active customer and
// stores it in the request context.
func RequireCustomer(authn Authenticator, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				response.FromError(w, log, domain.ErrUnauthenticated)
				return
			}
			customer, err := authn.Authenticate(r.Context(), raw)
			if err != nil {
				response.FromError(w, logger.WithContext(r.Context(), log), err)
				return
			}
			ctx := context.WithValue(r.Context(), CtxCustomer, customer)
			ctx = logger.WithCustomerID(ctx, customer.ID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after RequireCustomer.
func RequireAdmin(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := Customer(r)
			if c == nil {
				response.FromError(w, log, domain.ErrUnauthenticated)
				return
			}
			if !c.IsAdmin {
				response.FromError(w, log, domain.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func Customer(r *http.Request) *domain.Customer {
	v := r.Context().Value(CtxCustomer)
	if v == nil {
		return nil
	}
	return v.(*domain.Customer)
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
