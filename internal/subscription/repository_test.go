package subscription

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupSubscriptionMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func subscriptionColumns() []string {
	return []string{
		"id", "company_id", "plan_type", "pesapal_tracking_id", "transaction_status",
		"is_active", "start_date", "end_date", "redirect_url", "created_at",
	}
}

func TestCreatePending(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO subscriptions (company_id, plan_type, pesapal_tracking_id, transaction_status, is_active, redirect_url)
		VALUES ($1, $2, $3, 'pending', false, $4)
		RETURNING id, company_id, plan_type, pesapal_tracking_id, transaction_status, is_active, start_date, end_date, redirect_url, created_at
	`)).
		WithArgs(7, PlanMonthly, "TX-100", "https://pay.pesapal.com/iframe/TX-100").
		WillReturnRows(sqlmock.NewRows(subscriptionColumns()).AddRow(
			1, 7, "monthly", "TX-100", "pending",
			false, nil, nil, "https://pay.pesapal.com/iframe/TX-100", now,
		))

	sub, err := repo.CreatePending(ctx, 7, PlanMonthly, "TX-100", "https://pay.pesapal.com/iframe/TX-100")
	require.NoError(t, err)
	require.Equal(t, 7, sub.CompanyID)
	require.Equal(t, StatusPending, sub.TransactionStatus)
	require.False(t, sub.IsActive)
	require.Nil(t, sub.StartDate)
}

func TestFindByTrackingID(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT *
		FROM subscriptions
		WHERE pesapal_tracking_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`)).
		WithArgs("TX-100").
		WillReturnRows(sqlmock.NewRows(subscriptionColumns()).AddRow(
			1, 7, "monthly", "TX-100", "pending",
			false, nil, nil, "", now,
		))

	sub, err := repo.FindByTrackingID(context.Background(), "TX-100")
	require.NoError(t, err)
	require.Equal(t, "TX-100", *sub.TrackingID)
}

func TestFindByTrackingID_NotFound(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT *`)).
		WithArgs("TX-UNKNOWN").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByTrackingID(context.Background(), "TX-UNKNOWN")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindLatestByCompany(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	now := time.Now()
	end := now.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT *
		FROM subscriptions
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(subscriptionColumns()).AddRow(
			3, 7, "monthly", "TX-300", "complete",
			true, now, end, "", now,
		))

	sub, err := repo.FindLatestByCompany(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 3, sub.ID)
	require.True(t, sub.IsActive)
}

func TestConditionalActivate(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	start := time.Now()
	end := start.AddDate(0, 1, 0)

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE subscriptions
		SET is_active = true,
		    transaction_status = 'complete',
		    start_date = $2,
		    end_date = $3,
		    redirect_url = ''
		WHERE id = $1
		  AND transaction_status = 'pending'
	`)).
		WithArgs(1, start, end).
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := repo.ConditionalActivate(context.Background(), 1, start, end)
	require.NoError(t, err)
	require.True(t, applied)
}

func TestConditionalActivate_AlreadyComplete(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	start := time.Now()
	end := start.AddDate(0, 1, 0)

	// Zero rows affected: a concurrent reconcile won the race. Not an error.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE subscriptions`)).
		WithArgs(1, start, end).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.ConditionalActivate(context.Background(), 1, start, end)
	require.NoError(t, err)
	require.False(t, applied)
}

func TestGetPlans(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, name, description, price, currency
		FROM subscription_plans
		ORDER BY price
	`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "currency"}).
			AddRow("per_job", "Per Job Plan", "Pay per job posting", 30.0, "UGX").
			AddRow("monthly", "Monthly Plan", "Unlimited postings for a month", 50.0, "UGX").
			AddRow("annual", "Annual Plan", "Unlimited postings for a year", 500.0, "UGX"))

	plans, err := repo.GetPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 3)
	require.Equal(t, "per_job", plans[0].ID)
}

func TestGetPlan_NotFound(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description, price, currency`)).
		WithArgs("weekly").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetPlan(context.Background(), "weekly")
	require.ErrorIs(t, err, ErrNotFound)
}
