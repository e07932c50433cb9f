package category

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/jobpopapp/backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

var ErrCategoryNotFound = errors.New("category not found")

type Category struct {
	ID          int    `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]Category, error) {
	query := `SELECT id, name, description FROM categories ORDER BY name ASC`

	categories := []Category{}
	err := r.db.SelectContext(ctx, &categories, query)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *Repository) Create(ctx context.Context, req CategoryRequest) (*Category, error) {
	query := `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description
	`

	var cat Category
	err := r.db.GetContext(ctx, &cat, query, req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	return &cat, nil
}

func (r *Repository) Update(ctx context.Context, id int, req CategoryRequest) (*Category, error) {
	query := `
		UPDATE categories
		SET name        = $2,
		    description = COALESCE(NULLIF($3, ''), description)
		WHERE id = $1
		RETURNING id, name, description
	`

	var cat Category
	err := r.db.GetContext(ctx, &cat, query, id, req.Name, req.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &cat, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

type Handler struct {
	repo *Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// List godoc
// @Summary      List job categories
// @Tags         categories
// @Produce      json
// @Success      200  {array}  Category
// @Router       /api/categories [get]
func (h *Handler) List(c *gin.Context) {
	categories, err := h.repo.List(c.Request.Context())
	if err != nil {
		logger.Errorf("Failed to list categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// Create godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request  body      CategoryRequest  true  "Category data"
// @Success      201      {object}  Category
// @Failure      400      {object}  gin.H
// @Router       /api/categories [post]
func (h *Handler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	cat, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		logger.Errorf("Failed to create category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, cat)
}

// Update godoc
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id       path      int              true  "Category id"
// @Param        request  body      CategoryRequest  true  "Category data"
// @Success      200      {object}  Category
// @Failure      404      {object}  gin.H
// @Router       /api/categories/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	cat, err := h.repo.Update(c.Request.Context(), id, req)
	if errors.Is(err, ErrCategoryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, cat)
}

// Delete godoc
// @Summary      Delete a category
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "Category id"
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  gin.H
// @Router       /api/categories/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); errors.Is(err, ErrCategoryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
