package job

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrJobNotFound = errors.New("job not found")

const jobColumns = `
	j.id, j.company_id, j.title, j.company, j.country, j.city, j.salary,
	j.deadline, j.job_description, j.requirements, j.application_link,
	j.email, j.company_website, j.phone, j.is_foreign, j.whatsapp,
	j.category_id, c.name AS category_name, j.job_type, j.created_at
`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, companyID int, req CreateJobRequest) (*Job, error) {
	query := `
		INSERT INTO jobs (
			company_id, title, company, country, city, salary, deadline,
			job_description, requirements, application_link, email,
			company_website, phone, is_foreign, whatsapp, category_id, job_type
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, company_id, title, company, country, city, salary,
			deadline, job_description, requirements, application_link,
			email, company_website, phone, is_foreign, whatsapp,
			category_id, job_type, created_at
	`

	var job Job
	err := r.db.GetContext(ctx, &job, query,
		companyID, req.Title, req.Company, req.Country, req.City, req.Salary,
		req.Deadline, req.Description, req.Requirements, req.ApplicationURL,
		req.Email, req.CompanyWebsite, req.Phone, req.IsForeign, req.Whatsapp,
		req.CategoryID, req.JobType,
	)
	if err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *Repository) FindByID(ctx context.Context, id, companyID int) (*Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs j
		LEFT JOIN categories c ON c.id = j.category_id
		WHERE j.id = $1 AND j.company_id = $2
	`

	var job Job
	err := r.db.GetContext(ctx, &job, query, id, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *Repository) ListByCompany(ctx context.Context, companyID int) ([]Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs j
		LEFT JOIN categories c ON c.id = j.category_id
		WHERE j.company_id = $1
		ORDER BY j.created_at DESC
	`

	jobs := []Job{}
	err := r.db.SelectContext(ctx, &jobs, query, companyID)
	if err != nil {
		return nil, err
	}

	return jobs, nil
}

// ListPublic returns jobs for the job-seeker side. A zero categoryID means
// no category filter.
func (r *Repository) ListPublic(ctx context.Context, categoryID, limit, offset int) ([]Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs j
		LEFT JOIN categories c ON c.id = j.category_id
		WHERE ($1 = 0 OR j.category_id = $1)
		  AND (j.deadline IS NULL OR j.deadline >= NOW())
		ORDER BY j.created_at DESC
		LIMIT $2 OFFSET $3
	`

	jobs := []Job{}
	err := r.db.SelectContext(ctx, &jobs, query, categoryID, limit, offset)
	if err != nil {
		return nil, err
	}

	return jobs, nil
}

// Update applies only the provided fields. Nil arguments fall through to the
// stored value via COALESCE.
func (r *Repository) Update(ctx context.Context, id, companyID int, req UpdateJobRequest) (*Job, error) {
	query := `
		UPDATE jobs
		SET title            = COALESCE($3, title),
		    company          = COALESCE($4, company),
		    country          = COALESCE($5, country),
		    city             = COALESCE($6, city),
		    salary           = COALESCE($7, salary),
		    deadline         = COALESCE($8, deadline),
		    job_description  = COALESCE($9, job_description),
		    requirements     = COALESCE($10, requirements),
		    application_link = COALESCE($11, application_link),
		    email            = COALESCE($12, email),
		    company_website  = COALESCE($13, company_website),
		    phone            = COALESCE($14, phone),
		    is_foreign       = COALESCE($15, is_foreign),
		    whatsapp         = COALESCE($16, whatsapp),
		    category_id      = COALESCE($17, category_id),
		    job_type         = COALESCE($18, job_type)
		WHERE id = $1 AND company_id = $2
		RETURNING id, company_id, title, company, country, city, salary,
			deadline, job_description, requirements, application_link,
			email, company_website, phone, is_foreign, whatsapp,
			category_id, job_type, created_at
	`

	var job Job
	err := r.db.GetContext(ctx, &job, query,
		id, companyID,
		req.Title, req.Company, req.Country, req.City, req.Salary,
		req.Deadline, req.Description, req.Requirements, req.ApplicationURL,
		req.Email, req.CompanyWebsite, req.Phone, req.IsForeign, req.Whatsapp,
		req.CategoryID, req.JobType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *Repository) Delete(ctx context.Context, id, companyID int) error {
	query := `DELETE FROM jobs WHERE id = $1 AND company_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, companyID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrJobNotFound
	}

	return nil
}
