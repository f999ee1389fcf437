package models

import "time"

// Role names seeded at startup.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Role groups users by permission level.
type Role struct {
	BaseModel
	Name string `gorm:"size:100;uniqueIndex" json:"name"`
}

// User represents a customer or administrator account. At least one of
// PhoneNumber and Email must be present; either works as the login subject.
type User struct {
	BaseModel
	FullName          string     `gorm:"size:100" json:"full_name"`
	PhoneNumber       string     `gorm:"size:20;index" json:"phone_number"`
	Email             string     `gorm:"size:255;index" json:"email"`
	Address           string     `gorm:"size:200" json:"address"`
	PasswordHash      string     `gorm:"size:200" json:"-"`
	ProfileImage      string     `gorm:"size:255" json:"profile_image"`
	Active            bool       `json:"active"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
	FacebookAccountID string     `json:"facebook_account_id"`
	GoogleAccountID   string     `json:"google_account_id"`
	RoleID            uint       `json:"role_id"`
	Role              *Role      `json:"role,omitempty"`
}

// Subject returns the login identifier embedded in token claims:
// phone number first, email when no phone is set.
func (u *User) Subject() string {
	if u.PhoneNumber != "" {
		return u.PhoneNumber
	}
	return u.Email
}

// IsAdmin reports whether the user's resolved role is ADMIN.
func (u *User) IsAdmin() bool {
	return u.Role != nil && u.Role.Name == RoleAdmin
}
