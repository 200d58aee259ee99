package mailer

import (
	"context"

	"go.uber.org/zap"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/casuse/website-backend/pkg/logger"
)

// LogMailer writes the setup link to the log instead of sending an email.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordSetup(ctx context.Context, customer *domain.Customer, setupURL string) error {
	logger.WithContext(ctx, m.log).Info("password setup link",
		zap.String("customer_id", customer.ID.String()),
		zap.String("to", customer.Email),
		zap.String("name", customer.FirstName+" "+customer.LastName),
		zap.String("setup_url", setupURL),
	)
	return nil
}
