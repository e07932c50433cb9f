package company

import (
	"net/http"

	"github.com/jobpopapp/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireVerified blocks companies whose certificate has not been approved
// yet. Runs after AuthMiddleware.
func RequireVerified(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, ok := auth.GetCompanyID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Company not authenticated"})
			c.Abort()
			return
		}

		company, err := store.FindByID(c.Request.Context(), companyID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Company not found"})
			c.Abort()
			return
		}

		if !company.IsVerified {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Company must be verified before posting jobs",
				"code":  "VERIFICATION_REQUIRED",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
