package subscription

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIsEntitled(t *testing.T) {
	t.Run("No subscription row", func(t *testing.T) {
		store := new(MockStore)
		store.On("FindLatestByCompany", mock.Anything, 7).Return(nil, ErrNotFound)

		gate := NewGate(store)
		entitled, err := gate.IsEntitled(context.Background(), 7)

		require.NoError(t, err)
		assert.False(t, entitled)
	})

	t.Run("Active subscription inside window", func(t *testing.T) {
		store := new(MockStore)
		store.On("FindLatestByCompany", mock.Anything, 7).
			Return(completedSub(1, 7, "TX-1", PlanMonthly), nil)

		gate := NewGate(store)
		entitled, err := gate.IsEntitled(context.Background(), 7)

		require.NoError(t, err)
		assert.True(t, entitled)
	})

	t.Run("Complete but expired", func(t *testing.T) {
		start := time.Now().AddDate(0, -2, 0)
		end := start.AddDate(0, 1, 0)
		sub := &Subscription{
			ID:                1,
			CompanyID:         7,
			PlanType:          PlanMonthly,
			TransactionStatus: StatusComplete,
			IsActive:          true,
			StartDate:         &start,
			EndDate:           &end,
		}

		store := new(MockStore)
		store.On("FindLatestByCompany", mock.Anything, 7).Return(sub, nil)

		gate := NewGate(store)
		entitled, err := gate.IsEntitled(context.Background(), 7)

		require.NoError(t, err)
		assert.False(t, entitled, "no implicit renewal after end_date")
	})

	t.Run("Pending subscription", func(t *testing.T) {
		store := new(MockStore)
		store.On("FindLatestByCompany", mock.Anything, 7).
			Return(pendingSub(1, 7, "TX-1", PlanMonthly), nil)

		gate := NewGate(store)
		entitled, err := gate.IsEntitled(context.Background(), 7)

		require.NoError(t, err)
		assert.False(t, entitled)
	})

	t.Run("Store error surfaces", func(t *testing.T) {
		store := new(MockStore)
		store.On("FindLatestByCompany", mock.Anything, 7).Return(nil, errors.New("db down"))

		gate := NewGate(store)
		_, err := gate.IsEntitled(context.Background(), 7)

		assert.Error(t, err)
	})
}

func entitlementRouter(gate *Gate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/jobs",
		func(c *gin.Context) { c.Set("company_id", 7) },
		RequireActiveSubscription(gate),
		func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"ok": true}) },
	)
	return r
}

func TestRequireActiveSubscription(t *testing.T) {
	t.Run("Entitled company passes", func(t *testing.T) {
		store := new(MockStore)
		store.On("FindLatestByCompany", mock.Anything, 7).
			Return(completedSub(1, 7, "TX-1", PlanAnnual), nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
		entitlementRouter(NewGate(store)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Unentitled company gets 403", func(t *testing.T) {
		store := new(MockStore)
		store.On("FindLatestByCompany", mock.Anything, 7).Return(nil, ErrNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
		entitlementRouter(NewGate(store)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "SUBSCRIPTION_REQUIRED")
	})

	t.Run("Store failure is 500, not 403", func(t *testing.T) {
		store := new(MockStore)
		store.On("FindLatestByCompany", mock.Anything, 7).Return(nil, errors.New("db down"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
		entitlementRouter(NewGate(store)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
