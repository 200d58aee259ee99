package domain

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// DefaultPhoneRegion is used to parse phone numbers written without a
// country prefix.
const DefaultPhoneRegion = "MX"

type RegistrationRequest struct {
	Email               string       `json:"email"`
	FirstName           string       `json:"first_name"`
	LastName            string       `json:"last_name"`
	PhoneNumber         *string      `json:"phone_number"`
	CustomerType        CustomerType `json:"customer_type"`
	Description         *string      `json:"description"`
	CompanyName         *string      `json:"company_name"`
	TaxID               *string      `json:"tax_id"`
	AddressStreet       *string      `json:"address_street"`
	AddressExtNumber    *string      `json:"address_ext_number"`
	AddressIntNumber    *string      `json:"address_int_number"`
	AddressNeighborhood *string      `json:"address_neighborhood"`
	AddressCity         *string      `json:"address_city"`
	AddressState        *string      `json:"address_state"`
	AddressPostalCode   *string      `json:"address_postal_code"`
	AddressCountry      *string      `json:"address_country"`
}

func (r *RegistrationRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.CustomerType = CustomerType(strings.ToLower(strings.TrimSpace(string(r.CustomerType))))

	for _, p := range []**string{
		&r.PhoneNumber, &r.Description, &r.CompanyName, &r.TaxID,
		&r.AddressStreet, &r.AddressExtNumber, &r.AddressIntNumber, &r.AddressNeighborhood,
		&r.AddressCity, &r.AddressState, &r.AddressPostalCode, &r.AddressCountry,
	} {
		*p = trimOptional(*p)
	}
}

func (r RegistrationRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 255), validation.Match(emailRegex).Error("must be a valid email address")),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.CustomerType, validation.Required, validation.In(CustomerIndividual, CustomerCompany)),
		validation.Field(&r.PhoneNumber, validation.NilOrNotEmpty, validation.Length(1, 50), validation.By(validPhone)),
		validation.Field(&r.CompanyName, validation.Length(0, 255)),
		validation.Field(&r.TaxID, validation.Length(0, 50)),
		validation.Field(&r.AddressStreet, validation.Length(0, 255)),
		validation.Field(&r.AddressExtNumber, validation.Length(0, 50)),
		validation.Field(&r.AddressIntNumber, validation.Length(0, 50)),
		validation.Field(&r.AddressNeighborhood, validation.Length(0, 255)),
		validation.Field(&r.AddressCity, validation.Length(0, 255)),
		validation.Field(&r.AddressState, validation.Length(0, 255)),
		validation.Field(&r.AddressPostalCode, validation.Length(0, 20)),
		validation.Field(&r.AddressCountry, validation.Length(0, 100)),
	)
	return NewValidationError(err)
}

// ToNewCustomer maps a public registration onto an insertable customer
// without a password and without admin rights.
func (r *RegistrationRequest) ToNewCustomer() NewCustomer {
	country := DefaultCountry
	if r.AddressCountry != nil {
		country = *r.AddressCountry
	}

	return NewCustomer{
		Email:        r.Email,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PhoneNumber:  r.PhoneNumber,
		CustomerType: r.CustomerType,
		Description:  r.Description,
		CompanyName:  r.CompanyName,
		TaxID:        r.TaxID,
		Address: Address{
			Street:       r.AddressStreet,
			ExtNumber:    r.AddressExtNumber,
			IntNumber:    r.AddressIntNumber,
			Neighborhood: r.AddressNeighborhood,
			City:         r.AddressCity,
			State:        r.AddressState,
			PostalCode:   r.AddressPostalCode,
			Country:      country,
		},
	}
}

type RegistrationResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	RegistrationID string `json:"registration_id"`
}

type PasswordSetupTokenInfo struct {
	Status string `json:"status"`
	Email  string `json:"email"`
}

type PasswordSetupRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type PasswordSetupResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r LoginRequest) Validate() error {
	return NewValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	))
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func validPhone(value interface{}) error {
	var phone string
	switch v := value.(type) {
	case *string:
		if v == nil {
			return nil
		}
		phone = *v
	case string:
		phone = v
	}
	if phone == "" {
		return nil
	}
	if _, err := phonenumbers.Parse(phone, DefaultPhoneRegion); err != nil {
		return errors.New("must be a valid phone number")
	}
	return nil
}
