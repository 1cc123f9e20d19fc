package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classly/internal/common"
	"classly/internal/model"
	"classly/internal/pagination"
)

// CreateRequest is the payload for creating a user.
type CreateRequest struct {
	Name                      string `json:"name" binding:"required,max=255"`
	Email                     string `json:"email" binding:"required,email"`
	EmailNotificationsEnabled *bool  `json:"emailNotificationsEnabled"`
}

// UpdateRequest is the payload for updating a user.
type UpdateRequest struct {
	Name                      string `json:"name" binding:"required,max=255"`
	Email                     string `json:"email" binding:"required,email"`
	EmailNotificationsEnabled *bool  `json:"emailNotificationsEnabled"`
}

// SubscriptionRequest registers a browser push subscription.
type SubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	P256dh   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// DeviceTokenRequest registers a mobile push token.
type DeviceTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required,oneof=android ios"`
}

// Handler handles HTTP requests for the user domain.
type Handler struct {
	store       *Store
	maxPageSize int
}

// NewHandler creates a new user handler. maxPageSize caps listing page
// sizes; zero or negative falls back to the package default.
func NewHandler(store *Store, maxPageSize int) *Handler {
	return &Handler{store: store, maxPageSize: maxPageSize}
}

// Create handles POST /api/v1/users.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	u := &model.User{
		Name:                      req.Name,
		Email:                     req.Email,
		EmailNotificationsEnabled: true,
	}
	if req.EmailNotificationsEnabled != nil {
		u.EmailNotificationsEnabled = *req.EmailNotificationsEnabled
	}

	if err := h.store.Create(c.Request.Context(), u); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, u)
}

// Get handles GET /api/v1/users/:id.
func (h *Handler) Get(c *gin.Context) {
	u, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if u == nil {
		common.HandleError(c, common.NewNotFoundError("user", c.Param("id")))
		return
	}
	common.Success(c, http.StatusOK, u)
}

// List handles GET /api/v1/users.
func (h *Handler) List(c *gin.Context) {
	var req pagination.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.BindError(c, err)
		return
	}

	q := req.Normalize(h.maxPageSize)
	items, total, err := h.store.List(c.Request.Context(), q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, pagination.NewEnvelope(items, total, q))
}

// Update handles PUT /api/v1/users/:id.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	u, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if u == nil {
		common.HandleError(c, common.NewNotFoundError("user", c.Param("id")))
		return
	}

	u.Name = req.Name
	u.Email = req.Email
	if req.EmailNotificationsEnabled != nil {
		u.EmailNotificationsEnabled = *req.EmailNotificationsEnabled
	}

	if err := h.store.Update(c.Request.Context(), u); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, u)
}

// Delete handles DELETE /api/v1/users/:id.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSubscription handles POST /api/v1/users/:id/push-subscriptions.
func (h *Handler) AddSubscription(c *gin.Context) {
	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	if err := h.requireUser(c); err != nil {
		common.HandleError(c, err)
		return
	}

	sub := &model.PushSubscription{
		UserID:   c.Param("id"),
		Endpoint: req.Endpoint,
		P256dh:   req.P256dh,
		Auth:     req.Auth,
	}
	if err := h.store.AddPushSubscription(c.Request.Context(), sub); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, sub)
}

// AddDeviceToken handles POST /api/v1/users/:id/device-tokens.
func (h *Handler) AddDeviceToken(c *gin.Context) {
	var req DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	if err := h.requireUser(c); err != nil {
		common.HandleError(c, err)
		return
	}

	tok := &model.DeviceToken{
		UserID:   c.Param("id"),
		Token:    req.Token,
		Platform: req.Platform,
	}
	if err := h.store.AddDeviceToken(c.Request.Context(), tok); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, tok)
}

func (h *Handler) requireUser(c *gin.Context) error {
	u, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if u == nil {
		return common.NewNotFoundError("user", c.Param("id"))
	}
	return nil
}

// RegisterRoutes registers user routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/users", h.Create)
	rg.GET("/users", h.List)
	rg.GET("/users/:id", h.Get)
	rg.PUT("/users/:id", h.Update)
	rg.DELETE("/users/:id", h.Delete)
	rg.POST("/users/:id/push-subscriptions", h.AddSubscription)
	rg.POST("/users/:id/device-tokens", h.AddDeviceToken)
}
