package company

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jobpopapp/backend/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrCompanyNotFound = errors.New("company not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, name, email, phone, country, passwordHash string) (*Company, error) {
	query := `
		INSERT INTO companies (name, email, phone, country, password_hash, is_verified)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING id, name, email, phone, country, password_hash, is_verified, certificate_url, created_at
	`

	var company Company
	err := r.db.GetContext(ctx, &company, query, name, email, phone, country, passwordHash)
	if err != nil {
		return nil, err
	}

	return &company, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*Company, error) {
	query := `
		SELECT id, name, email, phone, country, password_hash, is_verified, certificate_url, created_at
		FROM companies
		WHERE email = $1
	`

	var company Company
	err := r.db.GetContext(ctx, &company, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}

	return &company, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*Company, error) {
	query := `
		SELECT id, name, email, phone, country, password_hash, is_verified, certificate_url, created_at
		FROM companies
		WHERE id = $1
	`

	var company Company
	err := r.db.GetContext(ctx, &company, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}

	return &company, nil
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM companies WHERE email = $1)`, email)
}

// UpdateProfile applies only the non-empty fields. COALESCE with NULLIF keeps
// the stored value when the caller leaves a field blank.
func (r *Repository) UpdateProfile(ctx context.Context, id int, req UpdateProfileRequest) (*Company, error) {
	query := `
		UPDATE companies
		SET name    = COALESCE(NULLIF($2, ''), name),
		    phone   = COALESCE(NULLIF($3, ''), phone),
		    country = COALESCE(NULLIF($4, ''), country)
		WHERE id = $1
		RETURNING id, name, email, phone, country, password_hash, is_verified, certificate_url, created_at
	`

	var company Company
	err := r.db.GetContext(ctx, &company, query, id, req.Name, req.Phone, req.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}

	return &company, nil
}

func (r *Repository) SetCertificateURL(ctx context.Context, id int, certURL string) error {
	query := `UPDATE companies SET certificate_url = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, certURL)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCompanyNotFound
	}

	return nil
}
