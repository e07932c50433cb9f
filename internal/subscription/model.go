package subscription

import "time"

type PlanType string
type TransactionStatus string

const (
	PlanDaily   PlanType = "daily"
	PlanMonthly PlanType = "monthly"
	PlanAnnual  PlanType = "annual"
	PlanPerJob  PlanType = "per_job"

	StatusPending  TransactionStatus = "pending"
	StatusComplete TransactionStatus = "complete"
	StatusFailed   TransactionStatus = "failed"
)

func (p PlanType) Valid() bool {
	switch p {
	case PlanDaily, PlanMonthly, PlanAnnual, PlanPerJob:
		return true
	}
	return false
}

// WindowEnd computes the entitlement window end for a window starting at
// start. Per-job gets a one-year window for database consistency even though
// it has no natural expiry.
func (p PlanType) WindowEnd(start time.Time) time.Time {
	switch p {
	case PlanDaily:
		return start.AddDate(0, 0, 1)
	case PlanMonthly:
		return start.AddDate(0, 1, 0)
	case PlanAnnual:
		return start.AddDate(1, 0, 0)
	case PlanPerJob:
		return start.AddDate(1, 0, 0)
	default:
		return start
	}
}

// Subscription is one payment attempt for a company. Rows are never deleted;
// a re-subscribe inserts a new row and the latest row by created_at is
// authoritative.
type Subscription struct {
	ID                int               `db:"id" json:"id"`
	CompanyID         int               `db:"company_id" json:"company_id"`
	PlanType          PlanType          `db:"plan_type" json:"plan_type"`
	TrackingID        *string           `db:"pesapal_tracking_id" json:"pesapal_tracking_id,omitempty"`
	TransactionStatus TransactionStatus `db:"transaction_status" json:"transaction_status"`
	IsActive          bool              `db:"is_active" json:"is_active"`
	StartDate         *time.Time        `db:"start_date" json:"start_date,omitempty"`
	EndDate           *time.Time        `db:"end_date" json:"end_date,omitempty"`
	RedirectURL       string            `db:"redirect_url" json:"redirect_url,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
}

// Entitled reports whether this row currently grants posting rights.
func (s *Subscription) Entitled(now time.Time) bool {
	if s == nil || !s.IsActive || s.EndDate == nil {
		return false
	}
	return !now.After(*s.EndDate)
}

// Plan is a purchasable subscription plan. The id doubles as the plan type.
type Plan struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	Currency    string  `db:"currency" json:"currency"`
}
