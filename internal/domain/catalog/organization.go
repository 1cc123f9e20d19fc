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

// OrganizationRequest is the payload for creating or updating an organization.
type OrganizationRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	ContactEmail string `json:"contactEmail" binding:"omitempty,email"`
}

func (s *Store) createOrganization(ctx context.Context, o *model.Organization) error {
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.NewDuplicateError("organization", "name")
		}
		return fmt.Errorf("inserting organization: %w", err)
	}
	return nil
}

func (s *Store) getOrganization(ctx context.Context, id string) (*model.Organization, error) {
	var o model.Organization
	err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching organization: %w", err)
	}
	return &o, nil
}

func (s *Store) updateOrganization(ctx context.Context, o *model.Organization) error {
	if err := s.db.WithContext(ctx).Save(o).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.NewDuplicateError("organization", "name")
		}
		return fmt.Errorf("updating organization: %w", err)
	}
	return nil
}

func (s *Store) deleteOrganization(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.Organization{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting organization: %w", err)
	}
	return nil
}

// CreateOrganization handles POST /api/v1/organizations.
func (h *Handler) CreateOrganization(c *gin.Context) {
	var req OrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	o := &model.Organization{Name: req.Name, ContactEmail: req.ContactEmail}
	if err := h.store.createOrganization(c.Request.Context(), o); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, o)
}

// GetOrganization handles GET /api/v1/organizations/:id.
func (h *Handler) GetOrganization(c *gin.Context) {
	o, err := h.store.getOrganization(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if o == nil {
		common.HandleError(c, common.NewNotFoundError("organization", c.Param("id")))
		return
	}
	common.Success(c, http.StatusOK, o)
}

// ListOrganizations handles GET /api/v1/organizations.
func (h *Handler) ListOrganizations(c *gin.Context) {
	var req pagination.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.BindError(c, err)
		return
	}

	q := req.Normalize(h.maxPageSize)
	items, total, err := listPage[model.Organization](c.Request.Context(), h.store.db, q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, pagination.NewEnvelope(items, total, q))
}

// UpdateOrganization handles PUT /api/v1/organizations/:id.
func (h *Handler) UpdateOrganization(c *gin.Context) {
	var req OrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	o, err := h.store.getOrganization(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if o == nil {
		common.HandleError(c, common.NewNotFoundError("organization", c.Param("id")))
		return
	}

	o.Name = req.Name
	o.ContactEmail = req.ContactEmail
	if err := h.store.updateOrganization(c.Request.Context(), o); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, o)
}

// DeleteOrganization handles DELETE /api/v1/organizations/:id.
func (h *Handler) DeleteOrganization(c *gin.Context) {
	if err := h.store.deleteOrganization(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
