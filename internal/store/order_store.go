package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/example/shopapp/internal/models"
	"github.com/example/shopapp/internal/utils"
)

// OrderStore performs order persistence. Orders own their detail rows:
// creation writes both inside one transaction.
type OrderStore struct {
	db *gorm.DB
}

// NewOrderStore constructs an OrderStore.
func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// FindByID loads an order with its detail rows.
func (s *OrderStore) FindByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Details").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByUserID returns all orders of one user, id ascending.
func (s *OrderStore) FindByUserID(userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Details").
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SearchByKeyword returns active orders whose contact fields match the
// keyword case-insensitively, with offset/limit paging on a stable id
// ascending sort.
func (s *OrderStore) SearchByKeyword(keyword string, pg utils.Pagination) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("active = ?", true)

	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where(
			"LOWER(full_name) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?) OR phone_number LIKE ? OR LOWER(email) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := query.Preload("Details").
		Order("id asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// Save updates an existing order row.
func (s *OrderStore) Save(order *models.Order) error {
	return s.db.Save(order).Error
}
