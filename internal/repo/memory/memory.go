// Package memory holds map backed implementations of the postgres
// repositories. They follow the same contracts and are used in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/casuse/website-backend/internal/repo/postgres"
)

type Store struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*domain.Customer
	tokens    map[uuid.UUID]*domain.RegistrationToken
	Now       func() time.Time
}

var (
	_ postgres.CustomersRepo          = (*Customers)(nil)
	_ postgres.RegistrationTokensRepo = (*RegistrationTokens)(nil)
)

func NewStore() *Store {
	return &Store{
		customers: make(map[uuid.UUID]*domain.Customer),
		tokens:    make(map[uuid.UUID]*domain.RegistrationToken),
		Now:       time.Now,
	}
}

func (s *Store) Customers() *Customers       { return &Customers{s: s} }
func (s *Store) Tokens() *RegistrationTokens { return &RegistrationTokens{s: s} }

// SetActive flips is_active, standing in for an admin deactivating an account.
func (s *Store) SetActive(id uuid.UUID, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.customers[id]; ok {
		c.IsActive = active
	}
}

// DeleteCustomer removes the customer and, like the foreign key, its tokens.
func (s *Store) DeleteCustomer(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.customers, id)
	for tid, t := range s.tokens {
		if t.CustomerID == id {
			delete(s.tokens, tid)
		}
	}
}

// TokensFor lists the tokens issued to a customer.
func (s *Store) TokensFor(id uuid.UUID) []domain.RegistrationToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.RegistrationToken
	for _, t := range s.tokens {
		if t.CustomerID == id {
			out = append(out, *t)
		}
	}
	return out
}

type Customers struct{ s *Store }

func (r *Customers) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = domain.NormalizeEmail(email)
	for _, c := range r.s.customers {
		if strings.EqualFold(c.Email, email) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Customers) FindByID(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *Customers) Create(_ context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := domain.NormalizeEmail(in.Email)
	for _, c := range r.s.customers {
		if strings.EqualFold(c.Email, email) {
			return nil, domain.ErrDuplicateEmail
		}
	}

	now := r.s.Now().UTC()
	// Keep creation order observable even when the clock does not move.
	for _, c := range r.s.customers {
		if !now.After(c.CreatedAt) {
			now = c.CreatedAt.Add(time.Microsecond)
		}
	}

	address := in.Address
	if address.Country == "" {
		address.Country = domain.DefaultCountry
	}
	c := &domain.Customer{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: in.HashedPassword,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		PhoneNumber:    in.PhoneNumber,
		CustomerType:   in.CustomerType,
		Description:    in.Description,
		IsActive:       true,
		IsAdmin:        in.IsAdmin,
		CompanyName:    in.CompanyName,
		TaxID:          in.TaxID,
		Address:        address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.s.customers[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *Customers) List(_ context.Context, f domain.CustomerFilter) ([]domain.Customer, int, error) {
	f.Normalize()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(f.Search))
	var matched []domain.Customer
	for _, c := range r.s.customers {
		if f.CustomerType != "" && c.CustomerType != f.CustomerType {
			continue
		}
		if term != "" && !matchesSearch(c, term) {
			continue
		}
		matched = append(matched, *c)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if f.Offset >= total {
		return []domain.Customer{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

func (r *Customers) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.customers), nil
}

func matchesSearch(c *domain.Customer, term string) bool {
	company := ""
	if c.CompanyName != nil {
		company = *c.CompanyName
	}
	for _, v := range []string{c.FirstName, c.LastName, c.Email, company} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

type RegistrationTokens struct{ s *Store }

func (r *RegistrationTokens) FindByToken(_ context.Context, token string) (*domain.RegistrationToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tokens {
		if t.Token == token {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *RegistrationTokens) Create(_ context.Context, customerID uuid.UUID, ttl time.Duration) (*domain.RegistrationToken, error) {
	value, err := postgres.NewTokenValue()
	if err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[customerID]; !ok {
		return nil, domain.ErrNotFound
	}
	now := r.s.Now().UTC()
	t := &domain.RegistrationToken{
		ID:         uuid.New(),
		CustomerID: customerID,
		Token:      value,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}
	r.s.tokens[t.ID] = t
	cp := *t
	return &cp, nil
}

func (r *RegistrationTokens) MarkUsed(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.tokens[id]; ok {
		t.Used = true
	}
	return nil
}

func (r *RegistrationTokens) CompletePasswordSetup(_ context.Context, tokenID, customerID uuid.UUID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.customers[customerID]
	if !ok {
		return domain.ErrOrphanToken
	}
	t, ok := r.s.tokens[tokenID]
	if !ok || t.Used {
		return domain.ErrInvalidOrExpiredToken
	}
	h := hash
	c.HashedPassword = &h
	c.UpdatedAt = r.s.Now().UTC()
	t.Used = true
	return nil
}
