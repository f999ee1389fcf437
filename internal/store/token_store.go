package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/example/shopapp/internal/models"
)

// TokenStore persists access/refresh token pairs.
type TokenStore struct {
	db *gorm.DB
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Save inserts or updates a token pair.
func (s *TokenStore) Save(token *models.Token) error {
	return s.db.Save(token).Error
}

// FindByUser returns all token pairs of a user, oldest first.
func (s *TokenStore) FindByUser(userID uint) ([]models.Token, error) {
	var tokens []models.Token
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// FindByAccessToken looks up a pair by its access token string.
func (s *TokenStore) FindByAccessToken(accessToken string) (*models.Token, error) {
	return s.findBy("access_token = ?", accessToken)
}

// FindByRefreshToken looks up a pair by its refresh token string.
func (s *TokenStore) FindByRefreshToken(refreshToken string) (*models.Token, error) {
	return s.findBy("refresh_token = ?", refreshToken)
}

func (s *TokenStore) findBy(query string, arg string) (*models.Token, error) {
	if arg == "" {
		return nil, ErrTokenNotFound
	}

	var token models.Token
	if err := s.db.Where(query, arg).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// CountByUser returns how many token pairs a user currently holds.
func (s *TokenStore) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Token{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes one token pair.
func (s *TokenStore) Delete(token *models.Token) error {
	return s.db.Delete(token).Error
}

// DeleteAllForUser removes every token pair of a user. Used by password
// reset to force re-authentication on all devices.
func (s *TokenStore) DeleteAllForUser(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.Token{}).Error
}
