package billing

import "time"

// Address is the billing contact Pesapal requires on every order. One row per
// company, upserted.
type Address struct {
	ID           int       `db:"id" json:"id"`
	CompanyID    int       `db:"company_id" json:"company_id"`
	EmailAddress string    `db:"email_address" json:"email_address"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	CountryCode  string    `db:"country_code" json:"country_code"`
	FirstName    string    `db:"first_name" json:"first_name"`
	MiddleName   string    `db:"middle_name" json:"middle_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Line1        string    `db:"line_1" json:"line_1"`
	Line2        string    `db:"line_2" json:"line_2"`
	City         string    `db:"city" json:"city"`
	State        string    `db:"state" json:"state"`
	PostalCode   string    `db:"postal_code" json:"postal_code"`
	ZipCode      string    `db:"zip_code" json:"zip_code"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type UpsertAddressRequest struct {
	EmailAddress string `json:"email_address" binding:"required,email"`
	PhoneNumber  string `json:"phone_number" binding:"required"`
	CountryCode  string `json:"country_code" binding:"required"`
	FirstName    string `json:"first_name" binding:"required"`
	MiddleName   string `json:"middle_name"`
	LastName     string `json:"last_name" binding:"required"`
	Line1        string `json:"line_1"`
	Line2        string `json:"line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	ZipCode      string `json:"zip_code"`
}
