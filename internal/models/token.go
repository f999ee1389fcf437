package models

import "time"

// Token pairs a signed access token with its long-lived refresh credential.
// A user may hold several rows at once, one per device session.
type Token struct {
	BaseModel
	UserID           uint      `gorm:"index" json:"user_id"`
	User             *User     `json:"user,omitempty"`
	AccessToken      string    `gorm:"size:512;uniqueIndex" json:"access_token"`
	RefreshToken     string    `gorm:"size:255;uniqueIndex" json:"refresh_token"`
	TokenType        string    `gorm:"size:50" json:"token_type"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	Mobile           bool      `json:"mobile"`
}
