package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/example/shopapp/internal/services"
	"github.com/example/shopapp/internal/store"
)

var validate = validator.New()

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func respondCreated(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func respondList(c *fiber.Ctx, message string, data interface{}, page, limit int, total int64) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
		"pagination": fiber.Map{
			"current_page":   page,
			"items_per_page": limit,
			"total_items":    total,
		},
	})
}

// respondError maps domain errors to a status code and a machine-readable
// error kind. Unexpected errors are logged and surface as 500.
func respondError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	if status == fiber.StatusInternalServerError {
		logrus.WithError(err).Error("unhandled error")
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error": errorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrRoleNotFound),
		errors.Is(err, store.ErrTokenNotFound),
		errors.Is(err, store.ErrOrderNotFound),
		errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrCategoryNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"

	case errors.Is(err, services.ErrExpiredToken):
		return fiber.StatusUnauthorized, "EXPIRED_TOKEN"

	case errors.Is(err, services.ErrMalformedToken),
		errors.Is(err, services.ErrBadCredentials),
		errors.Is(err, services.ErrInactiveUser):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"

	case errors.Is(err, services.ErrAdminRegistration),
		errors.Is(err, services.ErrNotOrderOwner):
		return fiber.StatusForbidden, "PERMISSION_DENIED"

	case errors.Is(err, services.ErrPhoneTaken),
		errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict, "CONFLICT"

	case errors.Is(err, services.ErrLoginSubjectRequired),
		errors.Is(err, services.ErrInvalidPhoneNumber),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrPasswordMismatch),
		errors.Is(err, services.ErrShippingDate),
		errors.Is(err, services.ErrPriceOutOfRange),
		errors.Is(err, services.ErrTooManyImages),
		errors.Is(err, services.ErrStatusTransition),
		errors.Is(err, services.ErrCategoryInUse):
		return fiber.StatusBadRequest, "VALIDATION_ERROR"
	}

	return fiber.StatusInternalServerError, "INTERNAL_ERROR"
}

func validationError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error": errorDetail{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		},
	})
}
