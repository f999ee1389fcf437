package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/shopapp/internal/services"
)

// CatalogHandler manages category endpoints.
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ListCategories returns all categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories()
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Get categories successfully", categories)
}

// GetCategory returns a single category by id.
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	category, err := h.catalog.GetCategory(uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Get category successfully", category)
}

// CreateCategory persists a new category. Admin only.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	category, err := h.catalog.CreateCategory(req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "Insert category successfully", category)
}

// UpdateCategory renames an existing category. Admin only.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	category, err := h.catalog.UpdateCategory(uint(id), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Update category successfully", category)
}

// DeleteCategory removes a category unless products still reference it.
// Admin only.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.catalog.DeleteCategory(uint(id)); err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Delete category successfully", nil)
}
