package company

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/jobpopapp/backend/internal/logger"

	"github.com/gin-gonic/gin"
)

func (r *Repository) ListAll(ctx context.Context) ([]Company, error) {
	query := `
		SELECT id, name, email, phone, country, password_hash, is_verified, certificate_url, created_at
		FROM companies
		ORDER BY created_at DESC
	`

	companies := []Company{}
	err := r.db.SelectContext(ctx, &companies, query)
	if err != nil {
		return nil, err
	}

	return companies, nil
}

func (r *Repository) SetVerified(ctx context.Context, id int, verified bool) (*Company, error) {
	query := `
		UPDATE companies
		SET is_verified = $2
		WHERE id = $1
		RETURNING id, name, email, phone, country, password_hash, is_verified, certificate_url, created_at
	`

	var company Company
	err := r.db.GetContext(ctx, &company, query, id, verified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}

	return &company, nil
}

// AdminHandler backs the back-office company review endpoints.
type AdminHandler struct {
	repo *Repository
}

func NewAdminHandler(repo *Repository) *AdminHandler {
	return &AdminHandler{repo: repo}
}

// ListCompanies godoc
// @Summary      List all companies
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Company
// @Router       /api/admin/companies [get]
func (h *AdminHandler) ListCompanies(c *gin.Context) {
	companies, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		logger.Errorf("Failed to list companies: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list companies"})
		return
	}

	c.JSON(http.StatusOK, companies)
}

// GetCompany godoc
// @Summary      Get a company
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Company id"
// @Success      200  {object}  Company
// @Failure      404  {object}  gin.H
// @Router       /api/admin/companies/{id} [get]
func (h *AdminHandler) GetCompany(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company id"})
		return
	}

	company, err := h.repo.FindByID(c.Request.Context(), id)
	if errors.Is(err, ErrCompanyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load company"})
		return
	}

	c.JSON(http.StatusOK, company)
}

type VerificationRequest struct {
	IsVerified *bool `json:"is_verified" binding:"required"`
}

// SetVerification godoc
// @Summary      Approve or revoke a company's verification
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Company id"
// @Param        request  body      VerificationRequest  true  "Verification flag"
// @Success      200      {object}  Company
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /api/admin/companies/{id}/verify [put]
func (h *AdminHandler) SetVerification(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company id"})
		return
	}

	var req VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_verified is required"})
		return
	}

	company, err := h.repo.SetVerified(c.Request.Context(), id, *req.IsVerified)
	if errors.Is(err, ErrCompanyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}
	if err != nil {
		logger.Errorf("Failed to update verification for company %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update verification"})
		return
	}

	logger.Infof("Company %d verification set to %t", id, *req.IsVerified)
	c.JSON(http.StatusOK, company)
}
