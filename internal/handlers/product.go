package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/shopapp/internal/models"
	"github.com/example/shopapp/internal/services"
	"github.com/example/shopapp/internal/utils"
)

// ProductHandler manages product endpoints.
type ProductHandler struct {
	catalog *services.CatalogService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type createProductRequest struct {
	Name        string  `json:"name" validate:"required,max=350"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity" validate:"min=0"`
	Thumbnail   string  `json:"thumbnail"`
	Description string  `json:"description"`
	CategoryID  uint    `json:"category_id" validate:"required"`
}

// CreateProduct persists a new product. Admin only.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	product, err := h.catalog.CreateProduct(services.CreateProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Thumbnail:   req.Thumbnail,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "Insert product successfully", product)
}

// GetProduct returns one product with category and images.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	product, err := h.catalog.GetProduct(uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Get product successfully", product)
}

// ListProducts returns products matching keyword and optional category.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	categoryID := c.QueryInt("category_id", 0)

	products, total, err := h.catalog.SearchProducts(c.Query("keyword"), uint(categoryID), pg)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, "Get products successfully", products, pg.Page, pg.Limit, total)
}

// UpdateProduct applies a partial product update. Admin only.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var patch services.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	product, err := h.catalog.UpdateProduct(uint(id), patch)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Update product successfully", product)
}

// DeleteProduct removes a product and its images. Admin only.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.catalog.DeleteProduct(uint(id)); err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Delete product successfully", nil)
}

type addImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,max=300"`
}

// AddImage appends a gallery image to a product. Admin only.
func (h *ProductHandler) AddImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req addImageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	image, err := h.catalog.AddProductImage(uint(id), req.ImageURL)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "Upload product image successfully", image)
}

// ListImages returns the gallery of one product.
func (h *ProductHandler) ListImages(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	product, err := h.catalog.GetProduct(uint(id))
	if err != nil {
		return respondError(c, err)
	}

	images := product.Images
	if images == nil {
		images = []models.ProductImage{}
	}
	return respondSuccess(c, "Get product images successfully", images)
}
