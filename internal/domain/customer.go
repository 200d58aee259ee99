package domain

import (
	"time"

	"github.com/google/uuid"
)

type CustomerType string

const (
	CustomerIndividual CustomerType = "individual"
	CustomerCompany    CustomerType = "company"
)

const DefaultCountry = "Mexico"

func (t CustomerType) Valid() bool {
	return t == CustomerIndividual || t == CustomerCompany
}

// Address is flattened into the customer JSON so the admin UI sees
// address_street, address_city, ... at the top level.
type Address struct {
	Street       *string `json:"address_street"`
	ExtNumber    *string `json:"address_ext_number"`
	IntNumber    *string `json:"address_int_number"`
	Neighborhood *string `json:"address_neighborhood"`
	City         *string `json:"address_city"`
	State        *string `json:"address_state"`
	PostalCode   *string `json:"address_postal_code"`
	Country      string  `json:"address_country"`
}

type Customer struct {
	ID             uuid.UUID    `json:"id"`
	Email          string       `json:"email"`
	HashedPassword *string      `json:"-"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	PhoneNumber    *string      `json:"phone_number"`
	CustomerType   CustomerType `json:"customer_type"`
	Description    *string      `json:"description"`
	IsActive       bool         `json:"is_active"`
	IsAdmin        bool         `json:"is_admin"`
	CompanyName    *string      `json:"company_name"`
	TaxID          *string      `json:"tax_id"`
	Address
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPassword reports whether password setup has been completed.
func (c *Customer) HasPassword() bool {
	return c.HashedPassword != nil && *c.HashedPassword != ""
}

// NewCustomer carries everything needed to insert a customer row.
type NewCustomer struct {
	Email          string
	HashedPassword *string
	FirstName      string
	LastName       string
	PhoneNumber    *string
	CustomerType   CustomerType
	Description    *string
	IsAdmin        bool
	CompanyName    *string
	TaxID          *string
	Address        Address
}

type CustomerFilter struct {
	Search       string
	CustomerType CustomerType
	Offset       int
	Limit        int
}

const DefaultPageLimit = 100

func (f *CustomerFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > DefaultPageLimit {
		f.Limit = DefaultPageLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// CustomerListItem is the directory view of a customer.
type CustomerListItem struct {
	ID           uuid.UUID    `json:"id"`
	Email        string       `json:"email"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	PhoneNumber  *string      `json:"phone_number"`
	CustomerType CustomerType `json:"customer_type"`
	Description  *string      `json:"description"`
	CompanyName  *string      `json:"company_name"`
	TaxID        *string      `json:"tax_id"`
	Address
	IsActive bool `json:"is_active"`
}

type CustomerList struct {
	Items []CustomerListItem `json:"items"`
	Total int                `json:"total"`
}

func (c *Customer) ToListItem() CustomerListItem {
	return CustomerListItem{
		ID:           c.ID,
		Email:        c.Email,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		PhoneNumber:  c.PhoneNumber,
		CustomerType: c.CustomerType,
		Description:  c.Description,
		CompanyName:  c.CompanyName,
		TaxID:        c.TaxID,
		Address:      c.Address,
		IsActive:     c.IsActive,
	}
}
