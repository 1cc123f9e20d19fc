package notification

import "classly/internal/model"

// SendRequest is the API request payload for dispatching a notification.
type SendRequest struct {
	RecipientID string                 `json:"recipientId" binding:"required,uuid"`
	Type        model.NotificationType `json:"type" binding:"required,oneof=SYSTEM_ALERT COURSE_UPDATE ENROLLMENT PAYMENT_RECEIPT"`
	Title       string                 `json:"title" binding:"required,max=255"`
	Content     string                 `json:"content" binding:"required"`
	ActionURL   string                 `json:"actionUrl" binding:"omitempty,url"`
}

// MarkReadRequest is the API request payload for bulk mark-as-read.
type MarkReadRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}

// MarkReadResponse reports how many rows were actually updated.
type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

// UnreadCountResponse carries a user's unread notification count.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
