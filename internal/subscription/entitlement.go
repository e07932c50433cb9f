package subscription

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jobpopapp/backend/internal/api"
	"github.com/jobpopapp/backend/internal/auth"
	"github.com/jobpopapp/backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// Gate answers "may this company post jobs right now". Pure read; it never
// mutates subscription state, so an expired row keeps its complete status and
// simply stops granting entitlement.
type Gate struct {
	store Store
}

func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

func (g *Gate) IsEntitled(ctx context.Context, companyID int) (bool, error) {
	sub, err := g.store.FindLatestByCompany(ctx, companyID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sub.Entitled(time.Now()), nil
}

// RequireActiveSubscription guards job-posting routes. A missing or expired
// subscription is a 403 for the caller, not a system error.
func RequireActiveSubscription(gate *Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, ok := auth.GetCompanyID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Company not authenticated"})
			c.Abort()
			return
		}

		entitled, err := gate.IsEntitled(c.Request.Context(), companyID)
		if err != nil {
			logger.Errorf("Entitlement check failed for company %d: %v", companyID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify subscription status"})
			c.Abort()
			return
		}

		if !entitled {
			c.JSON(http.StatusForbidden, api.ErrorResponse{
				Error: "Active subscription required to perform this action",
				Code:  "SUBSCRIPTION_REQUIRED",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
