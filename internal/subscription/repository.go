package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("subscription not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// CreatePending inserts a new pending subscription row at order submission.
// The activation window is left empty until the gateway confirms payment.
func (r *Repository) CreatePending(ctx context.Context, companyID int, planType PlanType, trackingID, redirectURL string) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO subscriptions (company_id, plan_type, pesapal_tracking_id, transaction_status, is_active, redirect_url)
		VALUES ($1, $2, $3, 'pending', false, $4)
		RETURNING id, company_id, plan_type, pesapal_tracking_id, transaction_status, is_active, start_date, end_date, redirect_url, created_at
	`, companyID, planType, trackingID, redirectURL).StructScan(sub)

	return sub, err
}

func (r *Repository) FindByTrackingID(ctx context.Context, trackingID string) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT *
		FROM subscriptions
		WHERE pesapal_tracking_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, trackingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `SELECT * FROM subscriptions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// FindLatestByCompany returns the newest subscription row for a company.
// Older rows are historical and never authoritative.
func (r *Repository) FindLatestByCompany(ctx context.Context, companyID int) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT *
		FROM subscriptions
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ConditionalActivate flips a pending row to complete and opens its
// entitlement window. The transaction_status predicate makes the check-and-set
// atomic: when a concurrent reconciliation already completed the row, zero
// rows are affected and false is returned, which callers treat as success.
func (r *Repository) ConditionalActivate(ctx context.Context, id int, start, end time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET is_active = true,
		    transaction_status = 'complete',
		    start_date = $2,
		    end_date = $3,
		    redirect_url = ''
		WHERE id = $1
		  AND transaction_status = 'pending'
	`, id, start, end)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *Repository) GetPlans(ctx context.Context) ([]Plan, error) {
	plans := []Plan{}
	err := r.db.SelectContext(ctx, &plans, `
		SELECT id, name, description, price, currency
		FROM subscription_plans
		ORDER BY price
	`)
	return plans, err
}

func (r *Repository) GetPlan(ctx context.Context, id string) (*Plan, error) {
	plan := &Plan{}
	err := r.db.GetContext(ctx, plan, `
		SELECT id, name, description, price, currency
		FROM subscription_plans
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}
