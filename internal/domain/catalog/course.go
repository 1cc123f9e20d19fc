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

// CourseRequest is the payload for creating or updating a course.
type CourseRequest struct {
	Title          string `json:"title" binding:"required,max=255"`
	Description    string `json:"description"`
	CategoryID     string `json:"categoryId" binding:"required,uuid"`
	OrganizationID string `json:"organizationId" binding:"required,uuid"`
	PriceCents     int64  `json:"priceCents" binding:"min=0"`
	OrderIndex     int    `json:"orderIndex" binding:"min=0"`
}

func (s *Store) createCourse(ctx context.Context, course *model.Course) error {
	if err := s.checkCourseRefs(ctx, course); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.NewDuplicateError("course", "order index")
		}
		return fmt.Errorf("inserting course: %w", err)
	}
	return nil
}

func (s *Store) getCourse(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := s.db.WithContext(ctx).First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching course: %w", err)
	}
	return &course, nil
}

func (s *Store) updateCourse(ctx context.Context, course *model.Course) error {
	if err := s.checkCourseRefs(ctx, course); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.NewDuplicateError("course", "order index")
		}
		return fmt.Errorf("updating course: %w", err)
	}
	return nil
}

func (s *Store) deleteCourse(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.Course{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	return nil
}

func (s *Store) checkCourseRefs(ctx context.Context, course *model.Course) error {
	ok, err := s.exists(ctx, &model.Category{}, course.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewNotFoundError("category", course.CategoryID)
	}

	ok, err = s.exists(ctx, &model.Organization{}, course.OrganizationID)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewNotFoundError("organization", course.OrganizationID)
	}
	return nil
}

// CreateCourse handles POST /api/v1/courses.
func (h *Handler) CreateCourse(c *gin.Context) {
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	course := &model.Course{
		Title:          req.Title,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		OrganizationID: req.OrganizationID,
		PriceCents:     req.PriceCents,
		OrderIndex:     req.OrderIndex,
	}
	if err := h.store.createCourse(c.Request.Context(), course); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, course)
}

// GetCourse handles GET /api/v1/courses/:id.
func (h *Handler) GetCourse(c *gin.Context) {
	course, err := h.store.getCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if course == nil {
		common.HandleError(c, common.NewNotFoundError("course", c.Param("id")))
		return
	}
	common.Success(c, http.StatusOK, course)
}

// ListCourses handles GET /api/v1/courses.
func (h *Handler) ListCourses(c *gin.Context) {
	var req pagination.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.BindError(c, err)
		return
	}

	q := req.Normalize(h.maxPageSize)
	items, total, err := listPage[model.Course](c.Request.Context(), h.store.db, q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, pagination.NewEnvelope(items, total, q))
}

// UpdateCourse handles PUT /api/v1/courses/:id.
func (h *Handler) UpdateCourse(c *gin.Context) {
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	course, err := h.store.getCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if course == nil {
		common.HandleError(c, common.NewNotFoundError("course", c.Param("id")))
		return
	}

	course.Title = req.Title
	course.Description = req.Description
	course.CategoryID = req.CategoryID
	course.OrganizationID = req.OrganizationID
	course.PriceCents = req.PriceCents
	course.OrderIndex = req.OrderIndex

	if err := h.store.updateCourse(c.Request.Context(), course); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, course)
}

// DeleteCourse handles DELETE /api/v1/courses/:id.
func (h *Handler) DeleteCourse(c *gin.Context) {
	if err := h.store.deleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
