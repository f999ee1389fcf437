package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination carries normalized offset paging parameters.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePagination normalizes the page and limit query params. Missing or
// out-of-range values fall back to page 1 and a capped page size.
func ParsePagination(c *fiber.Ctx) Pagination {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}
