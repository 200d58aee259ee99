package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/casuse/website-backend/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("WEBSITE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("WEBSITE_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := database.Connect(ctx, url, database.Options{})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.EnsureSchema(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE registration_tokens, customers`)
	require.NoError(t, err)
	return pool
}

func strPtr(s string) *string { return &s }

func newCustomer(email, first, last string, ct domain.CustomerType) domain.NewCustomer {
	return domain.NewCustomer{Email: email, FirstName: first, LastName: last, CustomerType: ct}
}

func TestCustomersRepo_CreateAndFind(t *testing.T) {
	pool := testPool(t)
	repo := NewCustomersRepo(pool)
	ctx := context.Background()

	c, err := repo.Create(ctx, newCustomer("Ana@Example.com", "Ana", "Martínez", domain.CustomerCompany))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.Nil(t, c.HashedPassword)
	assert.True(t, c.IsActive)
	assert.False(t, c.IsAdmin)
	assert.Equal(t, domain.DefaultCountry, c.Country)
	assert.False(t, c.CreatedAt.IsZero())

	byEmail, err := repo.FindByEmail(ctx, "ANA@example.COM")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, c.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, c.Email, byID.Email)

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCustomersRepo_DuplicateEmail(t *testing.T) {
	pool := testPool(t)
	repo := NewCustomersRepo(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, newCustomer("dup@example.com", "A", "B", domain.CustomerIndividual))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newCustomer("DUP@example.com", "C", "D", domain.CustomerIndividual))
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestCustomersRepo_List(t *testing.T) {
	pool := testPool(t)
	repo := NewCustomersRepo(pool)
	ctx := context.Background()

	sofia := newCustomer("sofia@example.com", "Sofía", "López", domain.CustomerIndividual)
	_, err := repo.Create(ctx, sofia)
	require.NoError(t, err)
	lopezCo := newCustomer("info@acme.mx", "Miguel", "Hernández", domain.CustomerCompany)
	lopezCo.CompanyName = strPtr("Lopez Construcciones")
	_, err = repo.Create(ctx, lopezCo)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newCustomer("luis@example.com", "Luis", "García", domain.CustomerIndividual))
	require.NoError(t, err)

	items, total, err := repo.List(ctx, domain.CustomerFilter{Search: "LOPEZ"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "info@acme.mx", items[0].Email)

	items, total, err = repo.List(ctx, domain.CustomerFilter{CustomerType: domain.CustomerIndividual})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, c := range items {
		assert.Equal(t, domain.CustomerIndividual, c.CustomerType)
	}

	items, total, err = repo.List(ctx, domain.CustomerFilter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "luis@example.com", items[0].Email)

	_, total, err = repo.List(ctx, domain.CustomerFilter{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRegistrationTokensRepo_Lifecycle(t *testing.T) {
	pool := testPool(t)
	customers := NewCustomersRepo(pool)
	tokens := NewRegistrationTokensRepo(pool)
	ctx := context.Background()

	c, err := customers.Create(ctx, newCustomer("tok@example.com", "T", "K", domain.CustomerIndividual))
	require.NoError(t, err)

	tok, err := tokens.Create(ctx, c.ID, time.Hour)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(tok.Token), 43)
	assert.False(t, tok.Used)
	assert.True(t, tok.IsUsable(time.Now()))

	found, err := tokens.FindByToken(ctx, tok.Token)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, c.ID, found.CustomerID)

	unknown, err := tokens.FindByToken(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, unknown)

	require.NoError(t, tokens.CompletePasswordSetup(ctx, tok.ID, c.ID, "$2a$10$hash"))

	found, err = tokens.FindByToken(ctx, tok.Token)
	require.NoError(t, err)
	assert.True(t, found.Used)

	updated, err := customers.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.HashedPassword)
	assert.Equal(t, "$2a$10$hash", *updated.HashedPassword)

	err = tokens.CompletePasswordSetup(ctx, tok.ID, c.ID, "$2a$10$other")
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)

	require.NoError(t, tokens.MarkUsed(ctx, tok.ID))
	require.NoError(t, tokens.MarkUsed(ctx, tok.ID))
}

func TestRegistrationTokensRepo_CascadeOnCustomerDelete(t *testing.T) {
	pool := testPool(t)
	customers := NewCustomersRepo(pool)
	tokens := NewRegistrationTokensRepo(pool)
	ctx := context.Background()

	c, err := customers.Create(ctx, newCustomer("gone@example.com", "G", "O", domain.CustomerIndividual))
	require.NoError(t, err)
	tok, err := tokens.Create(ctx, c.ID, time.Hour)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, c.ID)
	require.NoError(t, err)

	found, err := tokens.FindByToken(ctx, tok.Token)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestNewTokenValue(t *testing.T) {
	a, err := NewTokenValue()
	require.NoError(t, err)
	b, err := NewTokenValue()
	require.NoError(t, err)
	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}
