package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/example/shopapp/internal/models"
	"github.com/example/shopapp/internal/store"
)

// MaxTokensPerUser caps how many device sessions a user may hold at once.
// When the cap is reached the oldest non-mobile session is evicted first.
const MaxTokensPerUser = 3

type accessClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService issues and validates access tokens, and manages persisted
// access/refresh token pairs.
type TokenService struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	tokens     *store.TokenStore
	users      *store.UserStore
}

// NewTokenService constructs a TokenService.
func NewTokenService(signingKey []byte, accessTTL, refreshTTL time.Duration, tokens *store.TokenStore, users *store.UserStore) *TokenService {
	return &TokenService{
		signingKey: signingKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		tokens:     tokens,
		users:      users,
	}
}

// IssueAccessToken creates a signed JWT for the user. Claims are the login
// subject (phone-else-email), the user id and the configured expiry.
func (s *TokenService) IssueAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &accessClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Subject(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenSigning, err)
	}
	return signed, nil
}

// DecodeSubject validates the token and returns the login subject embedded
// in its claims.
func (s *TokenService) DecodeSubject(tokenString string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsExpired is a non-throwing expiry check used before trusting a token.
func (s *TokenService) IsExpired(tokenString string) bool {
	_, err := s.parse(tokenString)
	return errors.Is(err, ErrExpiredToken)
}

func (s *TokenService) parse(tokenString string) (*accessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// AddToken persists a freshly issued access token together with a new
// refresh credential. The session cap is enforced per user.
func (s *TokenService) AddToken(user *models.User, accessToken string, mobile bool) (*models.Token, error) {
	existing, err := s.tokens.FindByUser(user.ID)
	if err != nil {
		return nil, err
	}

	if len(existing) >= MaxTokensPerUser {
		evict := existing[0]
		for _, t := range existing {
			if !t.Mobile {
				evict = t
				break
			}
		}
		if err := s.tokens.Delete(&evict); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	token := &models.Token{
		UserID:           user.ID,
		AccessToken:      accessToken,
		RefreshToken:     newRefreshToken(),
		TokenType:        "Bearer",
		ExpiresAt:        now.Add(s.accessTTL),
		RefreshExpiresAt: now.Add(s.refreshTTL),
		Mobile:           mobile,
	}

	if err := s.tokens.Save(token); err != nil {
		return nil, err
	}
	return token, nil
}

// Refresh rotates a token pair: the presented refresh credential is spent
// and replaced in place, invalidating the previous pairing for that device
// session. Returns the rotated pair and its owning user.
func (s *TokenService) Refresh(refreshToken string) (*models.Token, *models.User, error) {
	token, err := s.tokens.FindByRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	if time.Now().After(token.RefreshExpiresAt) {
		return nil, nil, ErrExpiredToken
	}

	user, err := s.users.FindByID(token.UserID)
	if err != nil {
		return nil, nil, err
	}

	accessToken, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	token.AccessToken = accessToken
	token.RefreshToken = newRefreshToken()
	token.ExpiresAt = now.Add(s.accessTTL)
	token.RefreshExpiresAt = now.Add(s.refreshTTL)

	if err := s.tokens.Save(token); err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

// FindPairByRefreshToken looks up a persisted pair by its refresh credential
// without rotating it.
func (s *TokenService) FindPairByRefreshToken(refreshToken string) (*models.Token, error) {
	return s.tokens.FindByRefreshToken(refreshToken)
}

// RevokeAll deletes every token pair of a user.
func (s *TokenService) RevokeAll(userID uint) error {
	return s.tokens.DeleteAllForUser(userID)
}

func newRefreshToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
