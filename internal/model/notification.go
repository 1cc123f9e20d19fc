package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationStatus is the delivery state of a notification. A record is
// created pending and transitions exactly once to a terminal state.
type NotificationStatus string

const (
	NotificationPending       NotificationStatus = "PENDING"
	NotificationSent          NotificationStatus = "SENT"
	NotificationPartiallySent NotificationStatus = "PARTIALLY_SENT"
	NotificationFailed        NotificationStatus = "FAILED"
)

// NotificationType enumerates the kinds of notifications the platform sends.
type NotificationType string

const (
	TypeSystemAlert    NotificationType = "SYSTEM_ALERT"
	TypeCourseUpdate   NotificationType = "COURSE_UPDATE"
	TypeEnrollment     NotificationType = "ENROLLMENT"
	TypePaymentReceipt NotificationType = "PAYMENT_RECEIPT"
)

// Notification is a persisted message to a user. CreatedAt is immutable;
// the record is mutated only once more after creation, to set the terminal
// status.
type Notification struct {
	ID        string             `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string             `gorm:"type:uuid;index;not null" json:"userId"`
	Type      NotificationType   `gorm:"not null" json:"type"`
	Title     string             `gorm:"not null" json:"title"`
	Content   string             `gorm:"not null" json:"content"`
	ActionURL string             `json:"actionUrl,omitempty"`
	Status    NotificationStatus `gorm:"not null;default:PENDING;index" json:"status"`
	Read      bool               `gorm:"not null;default:false;index" json:"read"`
	Audit
}

// BeforeCreate assigns a UUID primary key.
func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
