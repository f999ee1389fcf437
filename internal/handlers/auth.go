package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/shopapp/internal/middleware"
	"github.com/example/shopapp/internal/models"
	"github.com/example/shopapp/internal/services"
	"github.com/example/shopapp/internal/utils"
)

// AuthHandler bundles dependencies for user and authentication endpoints.
type AuthHandler struct {
	users  *services.UserService
	tokens *services.TokenService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *services.UserService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type registerRequest struct {
	FullName          string `json:"fullname" validate:"required"`
	PhoneNumber       string `json:"phone_number"`
	Email             string `json:"email"`
	Address           string `json:"address"`
	Password          string `json:"password" validate:"required,min=6"`
	RetypePassword    string `json:"retype_password" validate:"required"`
	DateOfBirth       string `json:"date_of_birth"`
	FacebookAccountID string `json:"facebook_account_id"`
	GoogleAccountID   string `json:"google_account_id"`
	RoleID            uint   `json:"role_id"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	input := services.RegisterInput{
		FullName:          req.FullName,
		PhoneNumber:       req.PhoneNumber,
		Email:             req.Email,
		Address:           req.Address,
		Password:          req.Password,
		RetypePassword:    req.RetypePassword,
		FacebookAccountID: req.FacebookAccountID,
		GoogleAccountID:   req.GoogleAccountID,
		RoleID:            req.RoleID,
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date_of_birth, expected YYYY-MM-DD")
		}
		input.DateOfBirth = &dob
	}

	user, err := h.users.Register(input)
	if err != nil {
		return respondError(c, err)
	}

	return respondCreated(c, "Account registration successful", userResponse(user))
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Password    string `json:"password" validate:"required"`
}

// Login authenticates an existing user and returns a token pair.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	if req.PhoneNumber == "" && req.Email == "" {
		return respondError(c, services.ErrLoginSubjectRequired)
	}

	token, user, err := h.users.Login(req.PhoneNumber, req.Email, req.Password, isMobileDevice(c.Get("User-Agent")))
	if err != nil {
		return respondError(c, err)
	}

	return respondSuccess(c, "Login successfully", fiber.Map{
		"id":            user.ID,
		"username":      user.Subject(),
		"token":         token.AccessToken,
		"token_type":    token.TokenType,
		"refresh_token": token.RefreshToken,
		"expires_at":    token.ExpiresAt,
	})
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshToken rotates a token pair; the presented refresh credential is
// spent in the process. Blocked accounts cannot rotate.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req refreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	user, err := h.users.UserFromRefreshToken(req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}

	token, _, err := h.tokens.Refresh(req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}

	return respondSuccess(c, "Refresh token successfully", fiber.Map{
		"id":            user.ID,
		"username":      user.Subject(),
		"token":         token.AccessToken,
		"token_type":    token.TokenType,
		"refresh_token": token.RefreshToken,
		"expires_at":    token.ExpiresAt,
	})
}

// Details returns the authenticated caller's profile.
func (h *AuthHandler) Details(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return respondSuccess(c, "Get user's detail successfully", userResponse(user))
}

type updateProfileRequest struct {
	FullName       *string `json:"fullname"`
	Address        *string `json:"address"`
	DateOfBirth    *string `json:"date_of_birth"`
	Password       *string `json:"password"`
	RetypePassword *string `json:"retype_password"`
}

// UpdateDetails lets a user update their own profile.
func (h *AuthHandler) UpdateDetails(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if caller.ID != uint(userID) {
		return fiber.NewError(fiber.StatusForbidden, "cannot update another user")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	patch := services.ProfilePatch{
		FullName:       req.FullName,
		Address:        req.Address,
		Password:       req.Password,
		RetypePassword: req.RetypePassword,
	}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date_of_birth, expected YYYY-MM-DD")
		}
		patch.DateOfBirth = &dob
	}

	user, err := h.users.UpdateProfile(uint(userID), patch)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Update user detail successfully", userResponse(user))
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ResetPassword replaces a user's password and revokes all their sessions.
// Admin only.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	if err := h.users.ResetPassword(uint(userID), req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Reset password successfully", nil)
}

// BlockOrEnable flips a user's active flag. Admin only.
func (h *AuthHandler) BlockOrEnable(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	active, err := c.ParamsInt("active")
	if err != nil || (active != 0 && active != 1) {
		return fiber.NewError(fiber.StatusBadRequest, "active must be 0 or 1")
	}

	if err := h.users.BlockOrEnable(uint(userID), active == 1); err != nil {
		return respondError(c, err)
	}

	message := "Enable user successfully"
	if active == 0 {
		message = "Block user successfully"
	}
	return respondSuccess(c, message, nil)
}

// List returns active customer accounts matching a keyword. Admin only.
func (h *AuthHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	users, total, err := h.users.List(c.Query("keyword"), pg)
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]fiber.Map, 0, len(users))
	for i := range users {
		responses = append(responses, userResponse(&users[i]))
	}
	return respondList(c, "Get user list successfully", responses, pg.Page, pg.Limit, total)
}

func userResponse(user *models.User) fiber.Map {
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	return fiber.Map{
		"id":            user.ID,
		"fullname":      user.FullName,
		"phone_number":  user.PhoneNumber,
		"email":         user.Email,
		"address":       user.Address,
		"profile_image": user.ProfileImage,
		"active":        user.Active,
		"date_of_birth": user.DateOfBirth,
		"role":          roleName,
	}
}

func isMobileDevice(userAgent string) bool {
	return strings.Contains(strings.ToLower(userAgent), "mobile")
}
