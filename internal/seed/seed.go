package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/casuse/website-backend/internal/repo/postgres"
)

// DemoPassword is shared by every example customer.
const DemoPassword = "Test1234!"

type Hasher interface {
	Hash(password string) (string, error)
}

func str(s string) *string { return &s }

// Customers returns the example directory. The first entry is the admin.
func Customers() []domain.NewCustomer {
	return []domain.NewCustomer{
		{
			Email:        "admin@casuse.mx",
			FirstName:    "Carlos",
			LastName:     "Ramírez",
			PhoneNumber:  str("+52 33 1234 5678"),
			CustomerType: domain.CustomerCompany,
			Description:  str("Main administrator of the Casuse website."),
			IsAdmin:      true,
			CompanyName:  str("Ventanas Casuse S.A. de C.V."),
			TaxID:        str("VCS921231ABC"),
			Address: domain.Address{
				Street:       str("Av. López Mateos Sur"),
				ExtNumber:    str("1234"),
				IntNumber:    str("Piso 3"),
				Neighborhood: str("Jardines del Bosque"),
				City:         str("Guadalajara"),
				State:        str("Jalisco"),
				PostalCode:   str("44520"),
				Country:      domain.DefaultCountry,
			},
		},
		{
			Email:        "sofia.lopez@example.mx",
			FirstName:    "Sofía",
			LastName:     "López",
			PhoneNumber:  str("+52 55 9876 5432"),
			CustomerType: domain.CustomerIndividual,
			Description:  str("Private customer from CDMX."),
			Address: domain.Address{
				Street:       str("Calle Reforma"),
				ExtNumber:    str("456"),
				IntNumber:    str("Depto 12"),
				Neighborhood: str("Centro"),
				City:         str("Ciudad de México"),
				State:        str("CDMX"),
				PostalCode:   str("06000"),
				Country:      domain.DefaultCountry,
			},
		},
		{
			Email:        "compras@aluminios-azteca.mx",
			FirstName:    "Miguel",
			LastName:     "Hernández",
			PhoneNumber:  str("+52 81 1111 2222"),
			CustomerType: domain.CustomerCompany,
			Description:  str("Aluminium window supplier in Monterrey."),
			CompanyName:  str("Aluminios Azteca S.A. de C.V."),
			TaxID:        str("AAZ850101XYZ"),
			Address: domain.Address{
				Street:       str("Av. Constitución"),
				ExtNumber:    str("789"),
				Neighborhood: str("Centro"),
				City:         str("Monterrey"),
				State:        str("Nuevo León"),
				PostalCode:   str("64000"),
				Country:      domain.DefaultCountry,
			},
		},
		{
			Email:        "luis.garcia@example.mx",
			FirstName:    "Luis",
			LastName:     "García",
			PhoneNumber:  str("+52 33 2222 3333"),
			CustomerType: domain.CustomerIndividual,
			Description:  str("Architect interested in custom profiles."),
			Address: domain.Address{
				Street:       str("Calle Hidalgo"),
				ExtNumber:    str("321"),
				Neighborhood: str("Americana"),
				City:         str("Guadalajara"),
				State:        str("Jalisco"),
				PostalCode:   str("44160"),
				Country:      domain.DefaultCountry,
			},
		},
		{
			Email:        "info@puertas-del-sol.mx",
			FirstName:    "Ana",
			LastName:     "Martínez",
			PhoneNumber:  str("+52 55 3333 4444"),
			CustomerType: domain.CustomerCompany,
			Description:  str("Doors and windows for residential projects."),
			CompanyName:  str("Puertas del Sol S.A. de C.V."),
			TaxID:        str("PDS900101QWE"),
			Address: domain.Address{
				Street:       str("Av. Insurgentes Sur"),
				ExtNumber:    str("1500"),
				IntNumber:    str("Oficina 402"),
				Neighborhood: str("Del Valle"),
				City:         str("Ciudad de México"),
				State:        str("CDMX"),
				PostalCode:   str("03100"),
				Country:      domain.DefaultCountry,
			},
		},
	}
}

// Run inserts the example customers when the customer table is empty and
// reports how many rows it created. Existing emails are skipped.
func Run(ctx context.Context, customers postgres.CustomersRepo, hasher Hasher, log *zap.Logger) (int, error) {
	const op = "seed.Run"

	n, err := customers.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		log.Debug("seed skipped, customers present", zap.Int("count", n))
		return 0, nil
	}

	hash, err := hasher.Hash(DemoPassword)
	if err != nil {
		return 0, fmt.Errorf("%s: hash: %w", op, err)
	}

	created := 0
	for _, c := range Customers() {
		existing, err := customers.FindByEmail(ctx, c.Email)
		if err != nil {
			return created, fmt.Errorf("%s: %w", op, err)
		}
		if existing != nil {
			continue
		}
		c.HashedPassword = &hash
		if _, err := customers.Create(ctx, c); err != nil {
			return created, fmt.Errorf("%s: create %s: %w", op, c.Email, err)
		}
		created++
	}

	log.Info("seeded example customers", zap.Int("created", created))
	return created, nil
}
