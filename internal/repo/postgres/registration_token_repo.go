package postgres

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// tokenBytes is the entropy of an external registration token value.
const tokenBytes = 32

const tokenCols = `id, customer_id, token, expires_at, used, created_at`

// RegistrationTokensRepo stores the single-use tickets that authorize a
// password setup.
type RegistrationTokensRepo interface {
	// FindByToken looks a token up by its external value. Nil when unknown.
	FindByToken(ctx context.Context, token string) (*domain.RegistrationToken, error)
	// Create issues a fresh random token for customerID valid for ttl.
	Create(ctx context.Context, customerID uuid.UUID, ttl time.Duration) (*domain.RegistrationToken, error)
	// MarkUsed sets used=true. Calling it twice leaves the row unchanged.
	MarkUsed(ctx context.Context, id uuid.UUID) error
	// CompletePasswordSetup stores the hash and consumes the token in one transaction.
	CompletePasswordSetup(ctx context.Context, tokenID, customerID uuid.UUID, hash string) error
}

type RegistrationTokensRepoImpl struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewRegistrationTokensRepo(pool *pgxpool.Pool) *RegistrationTokensRepoImpl {
	return &RegistrationTokensRepoImpl{pool: pool, now: time.Now}
}

func scanToken(row pgx.Row) (*domain.RegistrationToken, error) {
	var t domain.RegistrationToken
	if err := row.Scan(&t.ID, &t.CustomerID, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *RegistrationTokensRepoImpl) FindByToken(ctx context.Context, token string) (*domain.RegistrationToken, error) {
	const op = "postgres.RegistrationTokensRepo.FindByToken"

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	t, err := scanToken(r.pool.QueryRow(ctx, `SELECT `+tokenCols+` FROM registration_tokens WHERE token = $1`, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

func (r *RegistrationTokensRepoImpl) Create(ctx context.Context, customerID uuid.UUID, ttl time.Duration) (*domain.RegistrationToken, error) {
	const op = "postgres.RegistrationTokensRepo.Create"

	value, err := NewTokenValue()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	t, err := scanToken(r.pool.QueryRow(ctx, `
INSERT INTO registration_tokens (id, customer_id, token, expires_at, used)
VALUES ($1, $2, $3, $4, FALSE)
RETURNING `+tokenCols,
		uuid.New(), customerID, value, r.now().UTC().Add(ttl),
	))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

func (r *RegistrationTokensRepoImpl) MarkUsed(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.RegistrationTokensRepo.MarkUsed"

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `UPDATE registration_tokens SET used = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RegistrationTokensRepoImpl) CompletePasswordSetup(ctx context.Context, tokenID, customerID uuid.UUID, hash string) error {
	const op = "postgres.RegistrationTokensRepo.CompletePasswordSetup"

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE customers SET hashed_password = $1, updated_at = now() WHERE id = $2`,
			hash, customerID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrOrphanToken
		}
		// Only an unused token may be consumed; a concurrent setup loses here.
		tag, err = tx.Exec(ctx,
			`UPDATE registration_tokens SET used = TRUE WHERE id = $1 AND used = FALSE`,
			tokenID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrInvalidOrExpiredToken
		}
		return nil
	})
	if errors.Is(err, domain.ErrOrphanToken) || errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NewTokenValue returns a URL-safe random string carrying 32 bytes of entropy.
func NewTokenValue() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
