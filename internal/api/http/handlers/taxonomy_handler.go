package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// TaxonomyHandler serves the department and category lists backing the
// ticket submission form.
type TaxonomyHandler struct {
	departments repository.DepartmentRepository
}

// NewTaxonomyHandler constructs handler.
func NewTaxonomyHandler(departments repository.DepartmentRepository) *TaxonomyHandler {
	return &TaxonomyHandler{departments: departments}
}

// ListDepartments GET /departments.
func (h *TaxonomyHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.departments.ListDepartments(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		items = append(items, dto.DepartmentResponse{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListCategories GET /categories.
func (h *TaxonomyHandler) ListCategories(c *fiber.Ctx) error {
	var departmentID *string
	if dept := c.Query("department_id"); dept != "" {
		departmentID = &dept
	}
	categories, err := h.departments.ListCategories(c.Context(), departmentID)
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		items = append(items, dto.CategoryResponse{
			ID:           cat.ID,
			Name:         cat.Name,
			Description:  cat.Description,
			DepartmentID: cat.DepartmentID,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
