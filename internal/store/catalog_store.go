package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/example/shopapp/internal/models"
	"github.com/example/shopapp/internal/utils"
)

// CatalogStore performs product, category and image persistence.
type CatalogStore struct {
	db *gorm.DB
}

// NewCatalogStore constructs a CatalogStore.
func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// FindProductByID loads a product with its category and images.
func (s *CatalogStore) FindProductByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").Preload("Images").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindProductsByCategory returns all products of one category.
func (s *CatalogStore) FindProductsByCategory(categoryID uint) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("category_id = ?", categoryID).
		Order("id asc").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// SearchProducts returns products matching the keyword, optionally limited
// to one category, sorted by id ascending.
func (s *CatalogStore) SearchProducts(keyword string, categoryID uint, pg utils.Pagination) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := query.Preload("Category").
		Order("id asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// SaveProduct inserts or updates a product.
func (s *CatalogStore) SaveProduct(product *models.Product) error {
	return s.db.Save(product).Error
}

// DeleteProduct removes a product and its images.
func (s *CatalogStore) DeleteProduct(product *models.Product) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(product).Error
	})
}

// CountImages returns how many gallery images a product has.
func (s *CatalogStore) CountImages(productID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.ProductImage{}).
		Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveImage inserts a product image.
func (s *CatalogStore) SaveImage(image *models.ProductImage) error {
	return s.db.Save(image).Error
}

// FindCategoryByID loads a category.
func (s *CatalogStore) FindCategoryByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// ListCategories returns all categories, id ascending.
func (s *CatalogStore) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// SaveCategory inserts or updates a category.
func (s *CatalogStore) SaveCategory(category *models.Category) error {
	return s.db.Save(category).Error
}

// CountProductsByCategory returns how many products reference a category.
func (s *CatalogStore) CountProductsByCategory(categoryID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Product{}).
		Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteCategory removes a category row.
func (s *CatalogStore) DeleteCategory(category *models.Category) error {
	return s.db.Delete(category).Error
}
