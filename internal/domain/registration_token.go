package domain

import (
	"time"

	"github.com/google/uuid"
)

type RegistrationToken struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Token      string    `json:"-"`
	ExpiresAt  time.Time `json:"expires_at"`
	Used       bool      `json:"used"`
	CreatedAt  time.Time `json:"created_at"`
}

func (t *RegistrationToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsUsable reports whether the token can still authorize a password setup:
// never consumed and strictly before its expiry.
func (t *RegistrationToken) IsUsable(now time.Time) bool {
	return !t.Used && !t.IsExpired(now)
}
