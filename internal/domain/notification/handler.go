package notification

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"classly/internal/common"
	"classly/internal/pagination"
)

// Handler handles HTTP requests for the notification domain.
type Handler struct {
	service     *Service
	maxPageSize int
}

// NewHandler creates a new notification handler. maxPageSize caps history
// page sizes; zero or negative falls back to the package default.
func NewHandler(service *Service, maxPageSize int) *Handler {
	return &Handler{service: service, maxPageSize: maxPageSize}
}

// Send handles POST /api/v1/notifications/send.
// Persists the pending record, enqueues the fan-out and returns 202.
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	n, err := h.service.Dispatch(c.Request.Context(), &req)
	if err != nil {
		slog.Error("dispatch failed", "recipient", req.RecipientID, "type", req.Type, "error", err)
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusAccepted, n)
}

// History handles GET /api/v1/users/:id/notifications.
func (h *Handler) History(c *gin.Context) {
	var req pagination.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.BindError(c, err)
		return
	}

	env, err := h.service.History(c.Request.Context(), c.Param("id"), req.Normalize(h.maxPageSize))
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, env)
}

// UnreadCount handles GET /api/v1/users/:id/notifications/unread-count.
func (h *Handler) UnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, UnreadCountResponse{Unread: count})
}

// MarkRead handles POST /api/v1/users/:id/notifications/mark-read.
func (h *Handler) MarkRead(c *gin.Context) {
	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	updated, err := h.service.MarkRead(c.Request.Context(), c.Param("id"), req.IDs)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, MarkReadResponse{Updated: updated})
}

// RegisterRoutes registers notification routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/notifications/send", h.Send)

	users := rg.Group("/users/:id")
	users.GET("/notifications", h.History)
	users.GET("/notifications/unread-count", h.UnreadCount)
	users.POST("/notifications/mark-read", h.MarkRead)
}
