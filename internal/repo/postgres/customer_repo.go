package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const customerCols = `id, email, hashed_password, first_name, last_name, phone_number, customer_type,
description, is_active, is_admin, company_name, tax_id,
address_street, address_ext_number, address_int_number, address_neighborhood,
address_city, address_state, address_postal_code, address_country,
created_at, updated_at`

type CustomersRepo interface {
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	Create(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error)
	List(ctx context.Context, f domain.CustomerFilter) ([]domain.Customer, int, error)
	Count(ctx context.Context) (int, error)
}

type CustomersRepoImpl struct{ pool *pgxpool.Pool }

func NewCustomersRepo(pool *pgxpool.Pool) *CustomersRepoImpl { return &CustomersRepoImpl{pool: pool} }

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	var customerType string
	err := row.Scan(
		&c.ID, &c.Email, &c.HashedPassword, &c.FirstName, &c.LastName, &c.PhoneNumber, &customerType,
		&c.Description, &c.IsActive, &c.IsAdmin, &c.CompanyName, &c.TaxID,
		&c.Street, &c.ExtNumber, &c.IntNumber, &c.Neighborhood,
		&c.City, &c.State, &c.PostalCode, &c.Country,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.CustomerType = domain.CustomerType(customerType)
	return &c, nil
}

// FindByEmail returns nil, nil when no customer matches.
func (r *CustomersRepoImpl) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	const op = "postgres.CustomersRepo.FindByEmail"
	q := `SELECT ` + customerCols + ` FROM customers WHERE lower(email) = lower($1)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanCustomer(r.pool.QueryRow(ctx, q, strings.TrimSpace(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// FindByID returns nil, nil when no customer matches.
func (r *CustomersRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	const op = "postgres.CustomersRepo.FindByID"
	q := `SELECT ` + customerCols + ` FROM customers WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanCustomer(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (r *CustomersRepoImpl) Create(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	const op = "postgres.CustomersRepo.Create"
	q := `
INSERT INTO customers (
	id, email, hashed_password, first_name, last_name, phone_number, customer_type,
	description, is_active, is_admin, company_name, tax_id,
	address_street, address_ext_number, address_int_number, address_neighborhood,
	address_city, address_state, address_postal_code, address_country
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,TRUE,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
RETURNING ` + customerCols

	country := in.Address.Country
	if country == "" {
		country = domain.DefaultCountry
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanCustomer(r.pool.QueryRow(ctx, q,
		uuid.New(), domain.NormalizeEmail(in.Email), in.HashedPassword, in.FirstName, in.LastName, in.PhoneNumber, string(in.CustomerType),
		in.Description, in.IsAdmin, in.CompanyName, in.TaxID,
		in.Address.Street, in.Address.ExtNumber, in.Address.IntNumber, in.Address.Neighborhood,
		in.Address.City, in.Address.State, in.Address.PostalCode, country,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// List returns one page of customers, newest first, plus the number of rows
// matching the filter regardless of the page window.
func (r *CustomersRepoImpl) List(ctx context.Context, f domain.CustomerFilter) ([]domain.Customer, int, error) {
	const op = "postgres.CustomersRepo.List"
	f.Normalize()

	where, args := customerFilterClause(f)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	q := fmt.Sprintf(`SELECT %s FROM customers%s ORDER BY created_at DESC, id DESC OFFSET $%d LIMIT $%d`,
		customerCols, where, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, q, append(args, f.Offset, f.Limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]domain.Customer, 0, f.Limit)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return out, total, nil
}

func (r *CustomersRepoImpl) Count(ctx context.Context) (int, error) {
	const op = "postgres.CustomersRepo.Count"

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func customerFilterClause(f domain.CustomerFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(s))+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(lower(first_name) LIKE $%[1]d ESCAPE '\'
	OR lower(last_name) LIKE $%[1]d ESCAPE '\'
	OR lower(email) LIKE $%[1]d ESCAPE '\'
	OR lower(coalesce(company_name, '')) LIKE $%[1]d ESCAPE '\')`, n))
	}
	if f.CustomerType != "" {
		args = append(args, string(f.CustomerType))
		conds = append(conds, fmt.Sprintf(`customer_type = $%d`, len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
