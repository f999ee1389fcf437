package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/example/shopapp/internal/models"
	"github.com/example/shopapp/internal/store"
	"github.com/example/shopapp/internal/utils"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// UserService implements registration, login, the authorization gate and
// account administration.
type UserService struct {
	users  *store.UserStore
	tokens *TokenService
}

// NewUserService constructs a UserService.
func NewUserService(users *store.UserStore, tokens *TokenService) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// RegisterInput carries the public registration fields.
type RegisterInput struct {
	FullName          string
	PhoneNumber       string
	Email             string
	Address           string
	Password          string
	RetypePassword    string
	DateOfBirth       *time.Time
	FacebookAccountID string
	GoogleAccountID   string
	RoleID            uint
}

// Register creates a new account. The public endpoint never creates ADMIN
// accounts, and duplicate phone numbers or emails are rejected.
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	phone := strings.TrimSpace(input.PhoneNumber)
	email := strings.TrimSpace(input.Email)

	if phone == "" && email == "" {
		return nil, ErrLoginSubjectRequired
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhoneNumber
	}
	if email != "" && !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if input.Password != input.RetypePassword {
		return nil, ErrPasswordMismatch
	}

	if phone != "" {
		taken, err := s.users.ExistsByPhoneNumber(phone)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrPhoneTaken
		}
	}
	if email != "" {
		taken, err := s.users.ExistsByEmail(email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	role, err := s.resolveRole(input.RoleID)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(role.Name, models.RoleAdmin) {
		return nil, ErrAdminRegistration
	}

	passwordHash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:          input.FullName,
		PhoneNumber:       phone,
		Email:             email,
		Address:           input.Address,
		PasswordHash:      passwordHash,
		Active:            true,
		DateOfBirth:       input.DateOfBirth,
		FacebookAccountID: input.FacebookAccountID,
		GoogleAccountID:   input.GoogleAccountID,
		RoleID:            role.ID,
		Role:              role,
	}

	if err := s.users.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) resolveRole(roleID uint) (*models.Role, error) {
	if roleID == 0 {
		return s.users.FindRoleByName(models.RoleUser)
	}
	return s.users.FindRoleByID(roleID)
}

// Login resolves the subject (phone number first, then email), checks the
// password and issues a persisted token pair.
func (s *UserService) Login(phone, email, password string, mobile bool) (*models.Token, *models.User, error) {
	user, err := s.resolveSubject(phone, email)
	if err != nil {
		return nil, nil, err
	}

	if !user.Active {
		return nil, nil, ErrInactiveUser
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, nil, ErrBadCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.tokens.AddToken(user, accessToken, mobile)
	if err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

func (s *UserService) resolveSubject(phone, email string) (*models.User, error) {
	if phone != "" {
		user, err := s.users.FindByPhoneNumber(phone)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
	}
	if email != "" {
		return s.users.FindByEmail(email)
	}
	return nil, store.ErrUserNotFound
}

// UserFromToken is the authorization gate: it decodes the subject out of a
// bearer token and resolves the caller identity. An inactive user resolves
// to no principal even though the token itself is valid.
func (s *UserService) UserFromToken(tokenString string) (*models.User, error) {
	subject, err := s.tokens.DecodeSubject(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByPhoneNumber(subject)
	if errors.Is(err, store.ErrUserNotFound) && emailPattern.MatchString(subject) {
		user, err = s.users.FindByEmail(subject)
	}
	if err != nil {
		return nil, err
	}

	if !user.Active {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// UserFromRefreshToken resolves the owner of a persisted refresh credential
// and applies the same inactive-account gate as bearer authentication. The
// paired access token is typically expired by the time a client refreshes,
// so the owner is resolved from the pair itself.
func (s *UserService) UserFromRefreshToken(refreshToken string) (*models.User, error) {
	token, err := s.tokens.FindPairByRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(token.UserID)
	if err != nil {
		return nil, err
	}

	if !user.Active {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// ProfilePatch carries optional profile updates; nil fields stay untouched.
type ProfilePatch struct {
	FullName       *string
	Address        *string
	DateOfBirth    *time.Time
	Password       *string
	RetypePassword *string
}

// UpdateProfile applies a partial profile update.
func (s *UserService) UpdateProfile(userID uint, patch ProfilePatch) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil && strings.TrimSpace(*patch.FullName) != "" {
		user.FullName = strings.TrimSpace(*patch.FullName)
	}
	if patch.Address != nil && strings.TrimSpace(*patch.Address) != "" {
		user.Address = strings.TrimSpace(*patch.Address)
	}
	if patch.DateOfBirth != nil {
		user.DateOfBirth = patch.DateOfBirth
	}
	if patch.Password != nil && *patch.Password != "" {
		if patch.RetypePassword == nil || *patch.Password != *patch.RetypePassword {
			return nil, ErrPasswordMismatch
		}
		hash, err := utils.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResetPassword replaces the password and invalidates every token pair of
// the user, forcing re-authentication on all devices.
func (s *UserService) ResetPassword(userID uint, newPassword string) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.users.Save(user); err != nil {
		return err
	}
	return s.tokens.RevokeAll(user.ID)
}

// BlockOrEnable flips the active flag of an account.
func (s *UserService) BlockOrEnable(userID uint, active bool) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	user.Active = active
	return s.users.Save(user)
}

// GetByID loads one user.
func (s *UserService) GetByID(userID uint) (*models.User, error) {
	return s.users.FindByID(userID)
}

// List returns active customer accounts matching the keyword.
func (s *UserService) List(keyword string, pg utils.Pagination) ([]models.User, int64, error) {
	return s.users.Search(keyword, pg)
}
