package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerJSON_FlatAndWithoutHash(t *testing.T) {
	hash := "$2b$10$secret"
	street := "Av. Reforma"
	c := Customer{
		ID:             uuid.New(),
		Email:          "ana@example.com",
		HashedPassword: &hash,
		FirstName:      "Ana",
		LastName:       "Martínez",
		CustomerType:   CustomerCompany,
		IsActive:       true,
		IsAdmin:        true,
		Address:        Address{Street: &street, Country: DefaultCountry},
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	b, err := json.Marshal(c)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "hashed_password")
	assert.NotContains(t, string(b), "secret")
	assert.Equal(t, "Av. Reforma", m["address_street"])
	assert.Equal(t, "Mexico", m["address_country"])
	assert.Equal(t, true, m["is_admin"])
	assert.Contains(t, m, "created_at")

	b, err = json.Marshal(c.ToListItem())
	require.NoError(t, err)
	m = map[string]any{}
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "is_admin")
	assert.NotContains(t, m, "created_at")
	assert.Equal(t, "company", m["customer_type"])
}

func TestCustomerFilter_Normalize(t *testing.T) {
	f := CustomerFilter{Offset: -3}
	f.Normalize()
	assert.Equal(t, 0, f.Offset)
	assert.Equal(t, DefaultPageLimit, f.Limit)

	f = CustomerFilter{Limit: 500}
	f.Normalize()
	assert.Equal(t, DefaultPageLimit, f.Limit)
}

func TestRegistrationToken_IsUsable(t *testing.T) {
	now := time.Now()
	tok := RegistrationToken{ExpiresAt: now.Add(time.Minute)}

	assert.True(t, tok.IsUsable(now))
	assert.False(t, tok.IsUsable(now.Add(time.Minute)), "expiry is exclusive")
	assert.False(t, tok.IsUsable(now.Add(2*time.Minute)))

	tok.Used = true
	assert.False(t, tok.IsUsable(now))
}
