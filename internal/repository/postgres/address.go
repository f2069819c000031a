package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/globaltire/storefront/internal/database"
	"github.com/globaltire/storefront/internal/domain"
	apperrors "github.com/globaltire/storefront/internal/errors"
)

// AddressRepository implements repository.AddressRepository using PostgreSQL.
// Each user holds at most one address per kind (billing, shipping).
type AddressRepository struct {
	db database.DBTX
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(db database.DBTX) *AddressRepository {
	return &AddressRepository{db: db}
}

// Get retrieves the address of the given kind for a user.
func (r *AddressRepository) Get(ctx context.Context, userID, kind string) (*domain.Address, error) {
	query := `
		SELECT first_name, last_name, company, address_1, address_2, city, state, postcode, country, email, phone
		FROM addresses
		WHERE user_id = $1 AND kind = $2`

	var a domain.Address
	err := r.db.QueryRow(ctx, query, userID, kind).Scan(
		&a.FirstName,
		&a.LastName,
		&a.Company,
		&a.Address1,
		&a.Address2,
		&a.City,
		&a.State,
		&a.Postcode,
		&a.Country,
		&a.Email,
		&a.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan address: %w", err)
	}

	return &a, nil
}

// Upsert creates or replaces the address of the given kind for a user.
func (r *AddressRepository) Upsert(ctx context.Context, userID, kind string, a *domain.Address) error {
	query := `
		INSERT INTO addresses (user_id, kind, first_name, last_name, company, address_1, address_2, city, state, postcode, country, email, phone, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id, kind) DO UPDATE
		SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, company = EXCLUDED.company,
		    address_1 = EXCLUDED.address_1, address_2 = EXCLUDED.address_2, city = EXCLUDED.city,
		    state = EXCLUDED.state, postcode = EXCLUDED.postcode, country = EXCLUDED.country,
		    email = EXCLUDED.email, phone = EXCLUDED.phone, updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		userID,
		kind,
		a.FirstName,
		a.LastName,
		a.Company,
		a.Address1,
		a.Address2,
		a.City,
		a.State,
		a.Postcode,
		a.Country,
		a.Email,
		a.Phone,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert address: %w", err)
	}

	return nil
}
