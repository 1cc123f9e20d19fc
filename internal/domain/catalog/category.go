package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"classly/internal/common"
	"classly/internal/model"
	"classly/internal/pagination"
)

// CategoryRequest is the payload for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

func (s *Store) createCategory(ctx context.Context, cat *model.Category) error {
	if err := s.db.WithContext(ctx).Create(cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.NewDuplicateError("category", "name")
		}
		return fmt.Errorf("inserting category: %w", err)
	}
	return nil
}

func (s *Store) getCategory(ctx context.Context, id string) (*model.Category, error) {
	var cat model.Category
	err := s.db.WithContext(ctx).First(&cat, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching category: %w", err)
	}
	return &cat, nil
}

func (s *Store) updateCategory(ctx context.Context, cat *model.Category) error {
	if err := s.db.WithContext(ctx).Save(cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.NewDuplicateError("category", "name")
		}
		return fmt.Errorf("updating category: %w", err)
	}
	return nil
}

func (s *Store) deleteCategory(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return nil
}

// CreateCategory handles POST /api/v1/categories.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	cat := &model.Category{Name: req.Name, Description: req.Description}
	if err := h.store.createCategory(c.Request.Context(), cat); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, cat)
}

// GetCategory handles GET /api/v1/categories/:id.
func (h *Handler) GetCategory(c *gin.Context) {
	cat, err := h.store.getCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if cat == nil {
		common.HandleError(c, common.NewNotFoundError("category", c.Param("id")))
		return
	}
	common.Success(c, http.StatusOK, cat)
}

// ListCategories handles GET /api/v1/categories.
func (h *Handler) ListCategories(c *gin.Context) {
	var req pagination.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.BindError(c, err)
		return
	}

	q := req.Normalize(h.maxPageSize)
	items, total, err := listPage[model.Category](c.Request.Context(), h.store.db, q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, pagination.NewEnvelope(items, total, q))
}

// UpdateCategory handles PUT /api/v1/categories/:id.
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	cat, err := h.store.getCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if cat == nil {
		common.HandleError(c, common.NewNotFoundError("category", c.Param("id")))
		return
	}

	cat.Name = req.Name
	cat.Description = req.Description
	if err := h.store.updateCategory(c.Request.Context(), cat); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, cat)
}

// DeleteCategory handles DELETE /api/v1/categories/:id.
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.store.deleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
