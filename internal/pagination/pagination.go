// Package pagination normalizes untrusted paging input into a bounded query
// descriptor and wraps query results in a uniform envelope.
package pagination

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// DefaultSize is the page size used when the client sends none.
	DefaultSize = 10
	// MaxSize is the page size cap applied when no configured maximum is
	// given; larger values are clamped, not rejected.
	MaxSize = 100
	// DefaultSortBy is the sort column used when the client sends none.
	DefaultSortBy = "created_at"
)

// PageRequest carries raw, untrusted paging parameters as bound from the
// query string. Zero values mean "absent".
type PageRequest struct {
	Page          int    `form:"page"`
	Size          int    `form:"size"`
	SortBy        string `form:"sortBy"`
	SortDirection string `form:"sortDirection"`
}

// QueryDescriptor is a validated paging window. Invariants: Page >= 0 and
// 1 <= Size <= MaxSize.
type QueryDescriptor struct {
	Page       int
	Size       int
	SortBy     string
	Descending bool
}

// Normalize converts a raw request into a valid descriptor. It never fails:
// negative pages become 0, out-of-range sizes are defaulted or clamped, and
// any sort direction other than a case-insensitive "asc" falls back to
// descending. maxSize caps the page size; zero or negative means MaxSize.
func (r PageRequest) Normalize(maxSize int) QueryDescriptor {
	if maxSize <= 0 {
		maxSize = MaxSize
	}
	d := QueryDescriptor{
		Page:   r.Page,
		Size:   r.Size,
		SortBy: strings.TrimSpace(r.SortBy),
	}
	if d.Page < 0 {
		d.Page = 0
	}
	if d.Size <= 0 {
		d.Size = DefaultSize
	}
	if d.Size > maxSize {
		d.Size = maxSize
	}
	if d.SortBy == "" {
		d.SortBy = DefaultSortBy
	}
	d.Descending = !strings.EqualFold(strings.TrimSpace(r.SortDirection), "asc")
	return d
}

// Offset returns the row offset of the descriptor's page.
func (d QueryDescriptor) Offset() int {
	return d.Page * d.Size
}

// Scope returns a gorm scope applying the descriptor's window and ordering.
// The sort column goes through clause.Column so gorm quotes it.
func (d QueryDescriptor) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Order(clause.OrderByColumn{
				Column: clause.Column{Name: d.SortBy},
				Desc:   d.Descending,
			}).
			Offset(d.Offset()).
			Limit(d.Size)
	}
}

// Envelope is the uniform wrapper around one page of results.
type Envelope[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
	First      bool  `json:"first"`
	Last       bool  `json:"last"`
	Empty      bool  `json:"empty"`
}

// NewEnvelope wraps a page of items with paging metadata derived from the
// descriptor that produced it.
func NewEnvelope[T any](items []T, totalItems int64, d QueryDescriptor) Envelope[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int((totalItems + int64(d.Size) - 1) / int64(d.Size))
	return Envelope[T]{
		Items:      items,
		Page:       d.Page,
		Size:       d.Size,
		TotalItems: totalItems,
		TotalPages: totalPages,
		First:      d.Page == 0,
		Last:       d.Page == totalPages-1 || totalPages == 0,
		Empty:      len(items) == 0,
	}
}
