package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/example/shopapp/internal/models"
	"github.com/example/shopapp/internal/utils"
)

// UserStore performs user and role persistence.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore constructs a UserStore.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByID loads a user with its role.
func (s *UserStore) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Role").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByPhoneNumber loads a user by phone number.
func (s *UserStore) FindByPhoneNumber(phone string) (*models.User, error) {
	return s.findBy("phone_number = ?", phone)
}

// FindByEmail loads a user by email.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	return s.findBy("email = ?", email)
}

func (s *UserStore) findBy(query string, arg string) (*models.User, error) {
	if arg == "" {
		return nil, ErrUserNotFound
	}

	var user models.User
	if err := s.db.Preload("Role").Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ExistsByPhoneNumber reports whether a user with this phone number exists.
func (s *UserStore) ExistsByPhoneNumber(phone string) (bool, error) {
	return s.exists("phone_number = ?", phone)
}

// ExistsByEmail reports whether a user with this email exists.
func (s *UserStore) ExistsByEmail(email string) (bool, error) {
	return s.exists("email = ?", email)
}

func (s *UserStore) exists(query string, arg string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts or updates a user.
func (s *UserStore) Save(user *models.User) error {
	return s.db.Save(user).Error
}

// Search returns active USER-role accounts matching the keyword against
// full name, address or phone number, sorted by id ascending so page
// boundaries stay deterministic.
func (s *UserStore) Search(keyword string, pg utils.Pagination) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("users.active = ?", true).
		Where("roles.name = ?", models.RoleUser)

	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where(
			"users.full_name LIKE ? OR users.address LIKE ? OR users.phone_number LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Preload("Role").
		Order("users.id asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// FindRoleByID loads a role.
func (s *UserStore) FindRoleByID(id uint) (*models.Role, error) {
	var role models.Role
	if err := s.db.First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindRoleByName loads a role by its unique name.
func (s *UserStore) FindRoleByName(name string) (*models.Role, error) {
	var role models.Role
	if err := s.db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}
