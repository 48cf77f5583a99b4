package types

import (
	"time"

	"github.com/google/uuid"
)

// InternshipListing represents an internship opportunity
type InternshipListing struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	TechStack   []string  `json:"tech_stack"`
	Location    string    `json:"location"`
	Stipend     string    `json:"stipend,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	ApplyLink   string    `json:"apply_link,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateInternshipRequest represents the request to publish a new listing.
type CreateInternshipRequest struct {
	Title       string   `json:"title" validate:"required"`
	Company     string   `json:"company" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required"`
	TechStack   []string `json:"tech_stack" validate:"omitempty,dive,required"`
	Stipend     string   `json:"stipend,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	ApplyLink   string   `json:"apply_link,omitempty" validate:"omitempty,url"`
}

// InternshipFilters holds optional filters for listing internships
type InternshipFilters struct {
	Search    string
	Tags      []string
	TechStack []string
	Location  string
	Page      int
	Limit     int
}

// Offset returns the row offset for the requested page.
func (f InternshipFilters) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// FilterOptions lists the distinct values present across active listings.
type FilterOptions struct {
	Tags       []string `json:"tags"`
	TechStacks []string `json:"tech_stacks"`
	Locations  []string `json:"locations"`
}

// Pagination is returned alongside paged collections.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes the page count for total items split into pages of limit.
func NewPagination(total, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
