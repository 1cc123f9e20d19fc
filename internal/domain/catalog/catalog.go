// Package catalog owns the course-catalog entities: organizations,
// categories, courses, students and payments.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"classly/internal/pagination"
)

// Store persists the catalog entities on gorm.
type Store struct {
	db *gorm.DB
}

// NewStore creates a gorm-backed catalog store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// exists reports whether a row of the given entity type with this id exists.
func (s *Store) exists(ctx context.Context, entity any, id string) (bool, error) {
	err := s.db.WithContext(ctx).Select("id").First(entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking reference: %w", err)
	}
	return true, nil
}

// listPage runs a count + windowed find for one entity table.
func listPage[T any](ctx context.Context, db *gorm.DB, q pagination.QueryDescriptor) ([]T, int64, error) {
	var zero T

	var total int64
	if err := db.WithContext(ctx).Model(&zero).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting rows: %w", err)
	}

	var items []T
	if err := db.WithContext(ctx).Model(&zero).Scopes(q.Scope()).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("listing rows: %w", err)
	}
	return items, total, nil
}

// Handler handles HTTP requests for the catalog domain.
type Handler struct {
	store       *Store
	maxPageSize int
}

// NewHandler creates a new catalog handler. maxPageSize caps listing page
// sizes; zero or negative falls back to the package default.
func NewHandler(store *Store, maxPageSize int) *Handler {
	return &Handler{store: store, maxPageSize: maxPageSize}
}

// RegisterRoutes registers all catalog routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/organizations", h.CreateOrganization)
	rg.GET("/organizations", h.ListOrganizations)
	rg.GET("/organizations/:id", h.GetOrganization)
	rg.PUT("/organizations/:id", h.UpdateOrganization)
	rg.DELETE("/organizations/:id", h.DeleteOrganization)

	rg.POST("/categories", h.CreateCategory)
	rg.GET("/categories", h.ListCategories)
	rg.GET("/categories/:id", h.GetCategory)
	rg.PUT("/categories/:id", h.UpdateCategory)
	rg.DELETE("/categories/:id", h.DeleteCategory)

	rg.POST("/courses", h.CreateCourse)
	rg.GET("/courses", h.ListCourses)
	rg.GET("/courses/:id", h.GetCourse)
	rg.PUT("/courses/:id", h.UpdateCourse)
	rg.DELETE("/courses/:id", h.DeleteCourse)

	rg.POST("/students", h.CreateStudent)
	rg.GET("/students", h.ListStudents)
	rg.GET("/students/:id", h.GetStudent)
	rg.PUT("/students/:id", h.UpdateStudent)
	rg.DELETE("/students/:id", h.DeleteStudent)

	rg.POST("/payments", h.CreatePayment)
	rg.GET("/payments", h.ListPayments)
	rg.GET("/payments/:id", h.GetPayment)
	rg.PUT("/payments/:id", h.UpdatePayment)
	rg.DELETE("/payments/:id", h.DeletePayment)
}
