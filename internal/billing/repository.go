package billing

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrAddressNotFound = errors.New("billing address not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByCompany(ctx context.Context, companyID int) (*Address, error) {
	addr := &Address{}
	err := r.db.GetContext(ctx, addr, `
		SELECT *
		FROM billing_addresses
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}
	return addr, nil
}

func (r *Repository) Upsert(ctx context.Context, companyID int, req UpsertAddressRequest) (*Address, error) {
	addr := &Address{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO billing_addresses (
			company_id, email_address, phone_number, country_code,
			first_name, middle_name, last_name,
			line_1, line_2, city, state, postal_code, zip_code
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (company_id) DO UPDATE SET
			email_address = EXCLUDED.email_address,
			phone_number = EXCLUDED.phone_number,
			country_code = EXCLUDED.country_code,
			first_name = EXCLUDED.first_name,
			middle_name = EXCLUDED.middle_name,
			last_name = EXCLUDED.last_name,
			line_1 = EXCLUDED.line_1,
			line_2 = EXCLUDED.line_2,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			postal_code = EXCLUDED.postal_code,
			zip_code = EXCLUDED.zip_code,
			updated_at = NOW()
		RETURNING *
	`, companyID, req.EmailAddress, req.PhoneNumber, req.CountryCode,
		req.FirstName, req.MiddleName, req.LastName,
		req.Line1, req.Line2, req.City, req.State, req.PostalCode, req.ZipCode,
	).StructScan(addr)
	if err != nil {
		return nil, err
	}
	return addr, nil
}

func (r *Repository) Delete(ctx context.Context, companyID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM billing_addresses WHERE company_id = $1`, companyID)
	return err
}
