package job

import "time"

type Job struct {
	ID             int        `db:"id" json:"id"`
	CompanyID      int        `db:"company_id" json:"company_id"`
	Title          string     `db:"title" json:"title"`
	Company        string     `db:"company" json:"company"`
	Country        string     `db:"country" json:"country"`
	City           string     `db:"city" json:"city"`
	Salary         string     `db:"salary" json:"salary,omitempty"`
	Deadline       *time.Time `db:"deadline" json:"deadline,omitempty"`
	Description    string     `db:"job_description" json:"job_description"`
	Requirements   string     `db:"requirements" json:"requirements,omitempty"`
	ApplicationURL string     `db:"application_link" json:"application_link,omitempty"`
	Email          string     `db:"email" json:"email,omitempty"`
	CompanyWebsite string     `db:"company_website" json:"company_website,omitempty"`
	Phone          string     `db:"phone" json:"phone,omitempty"`
	IsForeign      bool       `db:"is_foreign" json:"is_foreign"`
	Whatsapp       string     `db:"whatsapp" json:"whatsapp,omitempty"`
	CategoryID     *int       `db:"category_id" json:"category_id,omitempty"`
	CategoryName   *string    `db:"category_name" json:"category_name,omitempty"`
	JobType        string     `db:"job_type" json:"job_type,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type CreateJobRequest struct {
	Title          string     `json:"title" binding:"required"`
	Company        string     `json:"company" binding:"required"`
	Country        string     `json:"country" binding:"required"`
	City           string     `json:"city"`
	Salary         string     `json:"salary"`
	Deadline       *time.Time `json:"deadline"`
	Description    string     `json:"job_description" binding:"required"`
	Requirements   string     `json:"requirements"`
	ApplicationURL string     `json:"application_link"`
	Email          string     `json:"email" binding:"omitempty,email"`
	CompanyWebsite string     `json:"company_website" binding:"omitempty,url"`
	Phone          string     `json:"phone"`
	IsForeign      bool       `json:"is_foreign"`
	Whatsapp       string     `json:"whatsapp"`
	CategoryID     *int       `json:"category_id"`
	JobType        string     `json:"job_type"`
}

// UpdateJobRequest uses pointers so absent fields are told apart from
// zero values.
type UpdateJobRequest struct {
	Title          *string    `json:"title"`
	Company        *string    `json:"company"`
	Country        *string    `json:"country"`
	City           *string    `json:"city"`
	Salary         *string    `json:"salary"`
	Deadline       *time.Time `json:"deadline"`
	Description    *string    `json:"job_description"`
	Requirements   *string    `json:"requirements"`
	ApplicationURL *string    `json:"application_link"`
	Email          *string    `json:"email"`
	CompanyWebsite *string    `json:"company_website"`
	Phone          *string    `json:"phone"`
	IsForeign      *bool      `json:"is_foreign"`
	Whatsapp       *string    `json:"whatsapp"`
	CategoryID     *int       `json:"category_id"`
	JobType        *string    `json:"job_type"`
}

func (r UpdateJobRequest) Empty() bool {
	return r.Title == nil && r.Company == nil && r.Country == nil &&
		r.City == nil && r.Salary == nil && r.Deadline == nil &&
		r.Description == nil && r.Requirements == nil && r.ApplicationURL == nil &&
		r.Email == nil && r.CompanyWebsite == nil && r.Phone == nil &&
		r.IsForeign == nil && r.Whatsapp == nil && r.CategoryID == nil &&
		r.JobType == nil
}
