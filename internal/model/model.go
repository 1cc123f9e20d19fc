// Package model holds the persisted entities shared across domains.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit is the shared created/updated timestamp pair embedded by value in
// every entity.
type Audit struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User is a platform account and the recipient of notifications.
type User struct {
	ID                        string `gorm:"type:uuid;primaryKey" json:"id"`
	Name                      string `gorm:"not null" json:"name"`
	Email                     string `gorm:"uniqueIndex;not null" json:"email"`
	EmailNotificationsEnabled bool   `gorm:"not null;default:true" json:"emailNotificationsEnabled"`
	Audit

	PushSubscriptions []PushSubscription `json:"-"`
	DeviceTokens      []DeviceToken      `json:"-"`
}

// BeforeCreate assigns a UUID primary key.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PushSubscription is a browser web-push subscription registered by a user.
type PushSubscription struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string `gorm:"type:uuid;index;not null" json:"userId"`
	Endpoint string `gorm:"uniqueIndex;not null" json:"endpoint"`
	P256dh   string `gorm:"not null" json:"p256dh"`
	Auth     string `gorm:"not null" json:"auth"`
	Audit
}

// BeforeCreate assigns a UUID primary key.
func (s *PushSubscription) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// DeviceToken is a mobile push-messaging token registered by a user.
type DeviceToken struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string `gorm:"type:uuid;index;not null" json:"userId"`
	Token    string `gorm:"uniqueIndex;not null" json:"token"`
	Platform string `gorm:"not null" json:"platform"`
	Audit
}

// BeforeCreate assigns a UUID primary key.
func (d *DeviceToken) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
