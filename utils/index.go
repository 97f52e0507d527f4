package utils

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const maxPageSize = 100

// ErrorResponse writes the error envelope. The optional field names the input
// that was rejected.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error, field ...string) error {
	body := fiber.Map{
		"status":  "error",
		"message": message,
		"error":   nil,
	}
	if err != nil {
		body["error"] = err.Error()
	}
	if len(field) > 0 && field[0] != "" {
		body["field"] = field[0]
	}
	return c.Status(status).JSON(body)
}

func SuccessResponse(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// pageWindow turns limit/page query values into LIMIT and OFFSET. A missing
// page means the first one; no limit means no paging at all.
func pageWindow(limit, page *int) (size, offset int, ok bool) {
	if limit == nil || *limit <= 0 {
		return 0, 0, false
	}
	size = min(*limit, maxPageSize)
	p := 1
	if page != nil && *page > 1 {
		p = *page
	}
	return size, size * (p - 1), true
}

func ApplyPagination(query *gorm.DB, limit, page *int) *gorm.DB {
	if size, offset, ok := pageWindow(limit, page); ok {
		return query.Limit(size).Offset(offset)
	}
	return query
}
