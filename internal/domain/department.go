package domain

import "time"

// Department represents an organizational unit that owns tickets.
type Department struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category classifies tickets within a department. Position fixes the
// enumeration order used for deterministic classification tie-breaks.
type Category struct {
	ID           string
	Name         string
	Description  string
	DepartmentID string
	Position     int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SubCategory refines a category.
type SubCategory struct {
	ID         string
	Name       string
	CategoryID string
	IsActive   bool
	CreatedAt  time.Time
}
