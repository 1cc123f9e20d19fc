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

// PaymentRequest is the payload for recording a payment.
type PaymentRequest struct {
	StudentID   string `json:"studentId" binding:"required,uuid"`
	CourseID    string `json:"courseId" binding:"required,uuid"`
	AmountCents int64  `json:"amountCents" binding:"required,min=1"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
	Reference   string `json:"reference" binding:"required,max=128"`
}

// PaymentStatusRequest updates the externally observable payment state.
type PaymentStatusRequest struct {
	Status model.PaymentStatus `json:"status" binding:"required,oneof=pending completed failed"`
}

func (s *Store) createPayment(ctx context.Context, p *model.Payment) error {
	if err := s.checkPaymentRefs(ctx, p); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.NewDuplicateError("payment", "reference")
		}
		return fmt.Errorf("inserting payment: %w", err)
	}
	return nil
}

func (s *Store) getPayment(ctx context.Context, id string) (*model.Payment, error) {
	var p model.Payment
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching payment: %w", err)
	}
	return &p, nil
}

func (s *Store) updatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	err := s.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}
	return nil
}

func (s *Store) deletePayment(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.Payment{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting payment: %w", err)
	}
	return nil
}

func (s *Store) checkPaymentRefs(ctx context.Context, p *model.Payment) error {
	ok, err := s.exists(ctx, &model.Student{}, p.StudentID)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewNotFoundError("student", p.StudentID)
	}

	ok, err = s.exists(ctx, &model.Course{}, p.CourseID)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewNotFoundError("course", p.CourseID)
	}
	return nil
}

// CreatePayment handles POST /api/v1/payments.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	p := &model.Payment{
		StudentID:   req.StudentID,
		CourseID:    req.CourseID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Status:      model.PaymentPending,
		Reference:   req.Reference,
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}

	if err := h.store.createPayment(c.Request.Context(), p); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, p)
}

// GetPayment handles GET /api/v1/payments/:id.
func (h *Handler) GetPayment(c *gin.Context) {
	p, err := h.store.getPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if p == nil {
		common.HandleError(c, common.NewNotFoundError("payment", c.Param("id")))
		return
	}
	common.Success(c, http.StatusOK, p)
}

// ListPayments handles GET /api/v1/payments.
func (h *Handler) ListPayments(c *gin.Context) {
	var req pagination.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.BindError(c, err)
		return
	}

	q := req.Normalize(h.maxPageSize)
	items, total, err := listPage[model.Payment](c.Request.Context(), h.store.db, q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, pagination.NewEnvelope(items, total, q))
}

// UpdatePayment handles PUT /api/v1/payments/:id. Only the status moves
// after creation; amounts and references are immutable.
func (h *Handler) UpdatePayment(c *gin.Context) {
	var req PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	p, err := h.store.getPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if p == nil {
		common.HandleError(c, common.NewNotFoundError("payment", c.Param("id")))
		return
	}

	if err := h.store.updatePaymentStatus(c.Request.Context(), p.ID, req.Status); err != nil {
		common.HandleError(c, err)
		return
	}
	p.Status = req.Status
	common.Success(c, http.StatusOK, p)
}

// DeletePayment handles DELETE /api/v1/payments/:id.
func (h *Handler) DeletePayment(c *gin.Context) {
	if err := h.store.deletePayment(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
