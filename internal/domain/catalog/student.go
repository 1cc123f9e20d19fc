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

// StudentRequest is the payload for creating or updating a student.
type StudentRequest struct {
	UserID         string `json:"userId" binding:"required,uuid"`
	OrganizationID string `json:"organizationId" binding:"required,uuid"`
	Level          string `json:"level" binding:"max=64"`
}

func (s *Store) createStudent(ctx context.Context, st *model.Student) error {
	if err := s.checkStudentRefs(ctx, st); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(st).Error; err != nil {
		return fmt.Errorf("inserting student: %w", err)
	}
	return nil
}

func (s *Store) getStudent(ctx context.Context, id string) (*model.Student, error) {
	var st model.Student
	err := s.db.WithContext(ctx).First(&st, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching student: %w", err)
	}
	return &st, nil
}

func (s *Store) updateStudent(ctx context.Context, st *model.Student) error {
	if err := s.checkStudentRefs(ctx, st); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(st).Error; err != nil {
		return fmt.Errorf("updating student: %w", err)
	}
	return nil
}

func (s *Store) deleteStudent(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.Student{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting student: %w", err)
	}
	return nil
}

func (s *Store) checkStudentRefs(ctx context.Context, st *model.Student) error {
	ok, err := s.exists(ctx, &model.User{}, st.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewNotFoundError("user", st.UserID)
	}

	ok, err = s.exists(ctx, &model.Organization{}, st.OrganizationID)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewNotFoundError("organization", st.OrganizationID)
	}
	return nil
}

// CreateStudent handles POST /api/v1/students.
func (h *Handler) CreateStudent(c *gin.Context) {
	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	st := &model.Student{
		UserID:         req.UserID,
		OrganizationID: req.OrganizationID,
		Level:          req.Level,
	}
	if err := h.store.createStudent(c.Request.Context(), st); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, st)
}

// GetStudent handles GET /api/v1/students/:id.
func (h *Handler) GetStudent(c *gin.Context) {
	st, err := h.store.getStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if st == nil {
		common.HandleError(c, common.NewNotFoundError("student", c.Param("id")))
		return
	}
	common.Success(c, http.StatusOK, st)
}

// ListStudents handles GET /api/v1/students.
func (h *Handler) ListStudents(c *gin.Context) {
	var req pagination.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.BindError(c, err)
		return
	}

	q := req.Normalize(h.maxPageSize)
	items, total, err := listPage[model.Student](c.Request.Context(), h.store.db, q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, pagination.NewEnvelope(items, total, q))
}

// UpdateStudent handles PUT /api/v1/students/:id.
func (h *Handler) UpdateStudent(c *gin.Context) {
	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	st, err := h.store.getStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if st == nil {
		common.HandleError(c, common.NewNotFoundError("student", c.Param("id")))
		return
	}

	st.UserID = req.UserID
	st.OrganizationID = req.OrganizationID
	st.Level = req.Level

	if err := h.store.updateStudent(c.Request.Context(), st); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, st)
}

// DeleteStudent handles DELETE /api/v1/students/:id.
func (h *Handler) DeleteStudent(c *gin.Context) {
	if err := h.store.deleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
