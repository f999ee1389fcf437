package services

import (
	"strings"

	"github.com/example/shopapp/internal/models"
	"github.com/example/shopapp/internal/store"
	"github.com/example/shopapp/internal/utils"
)

// CatalogService implements product and category management.
type CatalogService struct {
	catalog *store.CatalogStore
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(catalog *store.CatalogStore) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// CreateProductInput carries the product creation fields.
type CreateProductInput struct {
	Name        string
	Price       float64
	Quantity    int
	Thumbnail   string
	Description string
	CategoryID  uint
}

// CreateProduct persists a new product after checking price bounds and
// category existence.
func (s *CatalogService) CreateProduct(input CreateProductInput) (*models.Product, error) {
	if input.Price < models.MinProductPrice || input.Price > models.MaxProductPrice {
		return nil, ErrPriceOutOfRange
	}

	category, err := s.catalog.FindCategoryByID(input.CategoryID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        input.Name,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Thumbnail:   input.Thumbnail,
		Description: input.Description,
		CategoryID:  category.ID,
	}

	if err := s.catalog.SaveProduct(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct loads one product with category and images.
func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	return s.catalog.FindProductByID(id)
}

// ProductPatch carries optional product updates.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Thumbnail   *string  `json:"thumbnail"`
	Description *string  `json:"description"`
	CategoryID  *uint    `json:"category_id"`
}

// UpdateProduct applies a partial product update.
func (s *CatalogService) UpdateProduct(id uint, patch ProductPatch) (*models.Product, error) {
	product, err := s.catalog.FindProductByID(id)
	if err != nil {
		return nil, err
	}

	if patch.CategoryID != nil && *patch.CategoryID != 0 {
		category, err := s.catalog.FindCategoryByID(*patch.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = category.ID
		product.Category = nil
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		if *patch.Price < models.MinProductPrice || *patch.Price > models.MaxProductPrice {
			return nil, ErrPriceOutOfRange
		}
		product.Price = *patch.Price
	}
	if patch.Quantity != nil {
		product.Quantity = *patch.Quantity
	}
	if patch.Thumbnail != nil && strings.TrimSpace(*patch.Thumbnail) != "" {
		product.Thumbnail = strings.TrimSpace(*patch.Thumbnail)
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) != "" {
		product.Description = strings.TrimSpace(*patch.Description)
	}

	if err := s.catalog.SaveProduct(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product and its images.
func (s *CatalogService) DeleteProduct(id uint) error {
	product, err := s.catalog.FindProductByID(id)
	if err != nil {
		return err
	}
	return s.catalog.DeleteProduct(product)
}

// SearchProducts returns products matching keyword and optional category.
func (s *CatalogService) SearchProducts(keyword string, categoryID uint, pg utils.Pagination) ([]models.Product, int64, error) {
	return s.catalog.SearchProducts(keyword, categoryID, pg)
}

// AddProductImage appends a gallery image. Products hold at most
// MaxImagesPerProduct images, and the first uploaded image becomes the
// thumbnail when none is set.
func (s *CatalogService) AddProductImage(productID uint, imageURL string) (*models.ProductImage, error) {
	product, err := s.catalog.FindProductByID(productID)
	if err != nil {
		return nil, err
	}

	count, err := s.catalog.CountImages(productID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxImagesPerProduct {
		return nil, ErrTooManyImages
	}

	image := &models.ProductImage{
		ProductID: product.ID,
		ImageURL:  imageURL,
	}
	if err := s.catalog.SaveImage(image); err != nil {
		return nil, err
	}

	if product.Thumbnail == "" {
		product.Thumbnail = imageURL
		product.Images = nil
		if err := s.catalog.SaveProduct(product); err != nil {
			return nil, err
		}
	}

	return image, nil
}

// CreateCategory persists a new category.
func (s *CatalogService) CreateCategory(name string) (*models.Category, error) {
	category := &models.Category{Name: name}
	if err := s.catalog.SaveCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategory loads one category.
func (s *CatalogService) GetCategory(id uint) (*models.Category, error) {
	return s.catalog.FindCategoryByID(id)
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	return s.catalog.ListCategories()
}

// UpdateCategory renames a category.
func (s *CatalogService) UpdateCategory(id uint, name string) (*models.Category, error) {
	category, err := s.catalog.FindCategoryByID(id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	if err := s.catalog.SaveCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. The service refuses while products
// still reference it, independent of any database constraint.
func (s *CatalogService) DeleteCategory(id uint) error {
	category, err := s.catalog.FindCategoryByID(id)
	if err != nil {
		return err
	}

	count, err := s.catalog.CountProductsByCategory(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	return s.catalog.DeleteCategory(category)
}
