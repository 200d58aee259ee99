package mailer

import (
	"context"

	"github.com/casuse/website-backend/internal/domain"
)

// Service delivers the password setup link to a freshly registered customer.
type Service interface {
	SendPasswordSetup(ctx context.Context, customer *domain.Customer, setupURL string) error
}
