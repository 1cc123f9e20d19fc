package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is a school or company enrolling students.
type Organization struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string `gorm:"uniqueIndex;not null" json:"name"`
	ContactEmail string `json:"contactEmail"`
	Audit
}

// BeforeCreate assigns a UUID primary key.
func (o *Organization) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Category groups courses in the catalog.
type Category struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	Audit
}

// BeforeCreate assigns a UUID primary key.
func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Course is a catalog entry. OrderIndex positions the course within its
// category and must be unique there.
type Course struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string `gorm:"not null" json:"title"`
	Description    string `json:"description"`
	CategoryID     string `gorm:"type:uuid;index;not null;uniqueIndex:idx_category_order" json:"categoryId"`
	OrganizationID string `gorm:"type:uuid;index;not null" json:"organizationId"`
	PriceCents     int64  `gorm:"not null" json:"priceCents"`
	OrderIndex     int    `gorm:"not null;uniqueIndex:idx_category_order" json:"orderIndex"`
	Audit
}

// BeforeCreate assigns a UUID primary key.
func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Student links a user to the organization they study under.
type Student struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string `gorm:"type:uuid;index;not null" json:"userId"`
	OrganizationID string `gorm:"type:uuid;index;not null" json:"organizationId"`
	Level          string `json:"level"`
	Audit
}

// BeforeCreate assigns a UUID primary key.
func (s *Student) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// PaymentStatus is the externally observable state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment records a student paying for a course.
type Payment struct {
	ID          string        `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID   string        `gorm:"type:uuid;index;not null" json:"studentId"`
	CourseID    string        `gorm:"type:uuid;index;not null" json:"courseId"`
	AmountCents int64         `gorm:"not null" json:"amountCents"`
	Currency    string        `gorm:"not null;default:USD" json:"currency"`
	Status      PaymentStatus `gorm:"not null;default:pending" json:"status"`
	Reference   string        `gorm:"uniqueIndex" json:"reference"`
	Audit
}

// BeforeCreate assigns a UUID primary key.
func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
