package billing

import (
	"errors"
	"net/http"

	"github.com/jobpopapp/backend/internal/auth"
	"github.com/jobpopapp/backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo *Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// Get godoc
// @Summary      Get billing address
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Address
// @Failure      404  {object}  gin.H
// @Router       /api/billing [get]
func (h *Handler) Get(c *gin.Context) {
	companyID, ok := auth.GetCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Company not authenticated"})
		return
	}

	addr, err := h.repo.FindByCompany(c.Request.Context(), companyID)
	if errors.Is(err, ErrAddressNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Billing address not found"})
		return
	}
	if err != nil {
		logger.Errorf("Failed to load billing address for company %d: %v", companyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load billing address"})
		return
	}

	c.JSON(http.StatusOK, addr)
}

// Upsert godoc
// @Summary      Create or update billing address
// @Tags         billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      UpsertAddressRequest  true  "Billing address"
// @Success      201      {object}  Address
// @Failure      400      {object}  gin.H
// @Router       /api/billing [post]
func (h *Handler) Upsert(c *gin.Context) {
	companyID, ok := auth.GetCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Company not authenticated"})
		return
	}

	var req UpsertAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addr, err := h.repo.Upsert(c.Request.Context(), companyID, req)
	if err != nil {
		logger.Errorf("Failed to upsert billing address for company %d: %v", companyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save billing address"})
		return
	}

	c.JSON(http.StatusCreated, addr)
}

// Delete godoc
// @Summary      Delete billing address
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Router       /api/billing [delete]
func (h *Handler) Delete(c *gin.Context) {
	companyID, ok := auth.GetCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Company not authenticated"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), companyID); err != nil {
		logger.Errorf("Failed to delete billing address for company %d: %v", companyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete billing address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Billing address deleted"})
}
