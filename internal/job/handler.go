package job

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/jobpopapp/backend/internal/auth"
	"github.com/jobpopapp/backend/internal/logger"
	"github.com/jobpopapp/backend/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type store interface {
	Create(ctx context.Context, companyID int, req CreateJobRequest) (*Job, error)
	FindByID(ctx context.Context, id, companyID int) (*Job, error)
	ListByCompany(ctx context.Context, companyID int) ([]Job, error)
	ListPublic(ctx context.Context, categoryID, limit, offset int) ([]Job, error)
	Update(ctx context.Context, id, companyID int, req UpdateJobRequest) (*Job, error)
	Delete(ctx context.Context, id, companyID int) error
}

type Handler struct {
	repo store
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// Create godoc
// @Summary      Post a job
// @Tags         jobs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateJobRequest  true  "Job posting"
// @Success      201      {object}  Job
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/jobs [post]
func (h *Handler) Create(c *gin.Context) {
	companyID, ok := auth.GetCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Company not authenticated"})
		return
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.repo.Create(c.Request.Context(), companyID, req)
	if err != nil {
		logger.Errorf("Failed to create job for company %d: %v", companyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		return
	}

	metrics.RecordJobCreated()
	c.JSON(http.StatusCreated, job)
}

// ListMine godoc
// @Summary      List the company's own jobs
// @Tags         jobs
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Job
// @Router       /api/jobs/my [get]
func (h *Handler) ListMine(c *gin.Context) {
	companyID, ok := auth.GetCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Company not authenticated"})
		return
	}

	jobs, err := h.repo.ListByCompany(c.Request.Context(), companyID)
	if err != nil {
		logger.Errorf("Failed to list jobs for company %d: %v", companyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jobs"})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// ListPublic godoc
// @Summary      Browse open jobs
// @Description  Public listing for job seekers. Jobs past their deadline are
// @Description  hidden. Filter with ?category_id=, page with ?limit= and
// @Description  ?offset=.
// @Tags         jobs
// @Produce      json
// @Param        category_id  query  int  false  "Category filter"
// @Param        limit        query  int  false  "Page size (default 20, max 100)"
// @Param        offset       query  int  false  "Page offset"
// @Success      200  {array}  Job
// @Router       /api/jobs [get]
func (h *Handler) ListPublic(c *gin.Context) {
	categoryID, _ := strconv.Atoi(c.DefaultQuery("category_id", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	jobs, err := h.repo.ListPublic(c.Request.Context(), categoryID, limit, offset)
	if err != nil {
		logger.Errorf("Failed to list public jobs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jobs"})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// Get godoc
// @Summary      Get one of the company's jobs
// @Tags         jobs
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Job id"
// @Success      200  {object}  Job
// @Failure      404  {object}  gin.H
// @Router       /api/jobs/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	companyID, ok := auth.GetCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Company not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
		return
	}

	job, err := h.repo.FindByID(c.Request.Context(), id, companyID)
	if errors.Is(err, ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found or access denied"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// Update godoc
// @Summary      Update a job
// @Description  Only the provided fields change. Scoped to the company that
// @Description  posted the job.
// @Tags         jobs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int               true  "Job id"
// @Param        request  body      UpdateJobRequest  true  "Fields to update"
// @Success      200      {object}  Job
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /api/jobs/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	companyID, ok := auth.GetCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Company not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
		return
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	job, err := h.repo.Update(c.Request.Context(), id, companyID, req)
	if errors.Is(err, ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found or access denied"})
		return
	}
	if err != nil {
		logger.Errorf("Failed to update job %d for company %d: %v", id, companyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// Delete godoc
// @Summary      Delete a job
// @Tags         jobs
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Job id"
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  gin.H
// @Router       /api/jobs/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	companyID, ok := auth.GetCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Company not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, companyID); errors.Is(err, ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found or access denied"})
		return
	} else if err != nil {
		logger.Errorf("Failed to delete job %d for company %d: %v", id, companyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete job"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}
