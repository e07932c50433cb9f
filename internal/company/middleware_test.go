package company

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func verifiedTestRouter(store Store, companyID int, authed bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/jobs", func(c *gin.Context) {
		if authed {
			c.Set("company_id", companyID)
		}
	}, RequireVerified(store), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func TestRequireVerified(t *testing.T) {
	t.Run("verified company passes", func(t *testing.T) {
		store := new(MockStore)
		store.On("FindByID", mock.Anything, 1).Return(&Company{ID: 1, IsVerified: true}, nil)

		r := verifiedTestRouter(store, 1, true)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/jobs", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unverified company is 403", func(t *testing.T) {
		store := new(MockStore)
		store.On("FindByID", mock.Anything, 1).Return(&Company{ID: 1, IsVerified: false}, nil)

		r := verifiedTestRouter(store, 1, true)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/jobs", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "VERIFICATION_REQUIRED")
	})

	t.Run("missing auth context is 401", func(t *testing.T) {
		r := verifiedTestRouter(new(MockStore), 0, false)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/jobs", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown company is 401", func(t *testing.T) {
		store := new(MockStore)
		store.On("FindByID", mock.Anything, 9).Return(nil, errors.New("not found"))

		r := verifiedTestRouter(store, 9, true)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/jobs", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
