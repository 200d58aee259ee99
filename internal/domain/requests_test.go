package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }

func TestRegistrationRequest_NormalizeAndValidate(t *testing.T) {
	r := RegistrationRequest{
		Email:        "  Ana@Example.COM ",
		FirstName:    " Ana ",
		LastName:     "Martínez",
		CustomerType: " Company",
		PhoneNumber:  sp("+52 55 1234 5678"),
		CompanyName:  sp("   "),
		AddressCity:  sp(" CDMX "),
	}
	r.Normalize()
	require.NoError(t, r.Validate())

	assert.Equal(t, "ana@example.com", r.Email)
	assert.Equal(t, "Ana", r.FirstName)
	assert.Equal(t, CustomerCompany, r.CustomerType)
	assert.Nil(t, r.CompanyName)
	assert.Equal(t, "CDMX", *r.AddressCity)

	nc := r.ToNewCustomer()
	assert.Equal(t, DefaultCountry, nc.Address.Country)
	assert.False(t, nc.IsAdmin)
	assert.Nil(t, nc.HashedPassword)
}

func TestRegistrationRequest_Invalid(t *testing.T) {
	base := func() RegistrationRequest {
		return RegistrationRequest{Email: "a@b.mx", FirstName: "A", LastName: "B", CustomerType: CustomerIndividual}
	}

	tests := []struct {
		name   string
		mutate func(r *RegistrationRequest)
	}{
		{"bad email", func(r *RegistrationRequest) { r.Email = "nope" }},
		{"missing first name", func(r *RegistrationRequest) { r.FirstName = " " }},
		{"unknown type", func(r *RegistrationRequest) { r.CustomerType = "particulier" }},
		{"bad phone", func(r *RegistrationRequest) { r.PhoneNumber = sp("call me") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base()
			tt.mutate(&r)
			r.Normalize()
			err := r.Validate()
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	r := base()
	r.Normalize()
	assert.NoError(t, r.Validate())
}

func TestRegistrationRequest_KeepsExplicitCountry(t *testing.T) {
	r := RegistrationRequest{Email: "a@b.mx", FirstName: "A", LastName: "B", CustomerType: CustomerIndividual, AddressCountry: sp("USA")}
	r.Normalize()
	assert.Equal(t, "USA", r.ToNewCustomer().Address.Country)
}

func TestLoginRequest(t *testing.T) {
	r := LoginRequest{Email: " X@Y.mx ", Password: "p"}
	r.Normalize()
	assert.Equal(t, "x@y.mx", r.Email)
	assert.NoError(t, r.Validate())

	assert.ErrorIs(t, LoginRequest{Email: "x@y.mx"}.Validate(), ErrValidation)
}
