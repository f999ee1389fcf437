package services

import "errors"

// Validation failures.
var (
	ErrLoginSubjectRequired = errors.New("at least a phone number or an email is required")
	ErrInvalidPhoneNumber   = errors.New("invalid phone number")
	ErrInvalidEmail         = errors.New("invalid email format")
	ErrPasswordMismatch     = errors.New("password and retype password do not match")
	ErrShippingDate         = errors.New("shipping date must be today or later")
	ErrPriceOutOfRange      = errors.New("product price is out of range")
	ErrTooManyImages        = errors.New("maximum number of images per product reached")
	ErrStatusTransition     = errors.New("order status transition not allowed")
	ErrCategoryInUse        = errors.New("category still has products")
)

// Permission failures.
var (
	ErrAdminRegistration = errors.New("registering admin accounts is not allowed")
	ErrNotOrderOwner     = errors.New("order belongs to another user")
)

// Conflicts at registration.
var (
	ErrPhoneTaken = errors.New("phone number already exists")
	ErrEmailTaken = errors.New("email already exists")
)

// Authentication failures.
var (
	ErrBadCredentials = errors.New("phone number or email is incorrect")
	ErrInactiveUser   = errors.New("account is locked")
	ErrExpiredToken   = errors.New("token is expired")
	ErrMalformedToken = errors.New("token is malformed")
	ErrTokenSigning   = errors.New("cannot sign token")
)
