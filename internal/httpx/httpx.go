// Package httpx holds the request and response helpers shared by handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/placefinder/placefinder/internal/apperr"
	"github.com/placefinder/placefinder/internal/logging"
)

// DetailResponse is the body of most non-list responses.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// ItemsResponse wraps list results.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

// Detail writes {"detail": msg} with status.
func Detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(DetailResponse{Detail: msg})
}

// Items writes the list, or 204 when it is empty.
func Items[T any](c *fiber.Ctx, items []T) error {
	if len(items) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(fiber.StatusOK).JSON(ItemsResponse[T]{Items: items})
}

// ParseBody decodes JSON into dst. An empty body leaves dst zeroed so the
// required-field checks report it.
func ParseBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dst); err != nil {
		return apperr.New(apperr.CodeBadRequest, "Bad request: Malformed body.")
	}
	return nil
}

// ErrorHandler renders every error through the taxonomy table. Server-side
// failures are logged with their detail and answered generically.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return Detail(c, fe.Code, fe.Message)
		}

		status := apperr.Status(err)
		if status >= fiber.StatusInternalServerError && logger != nil {
			requestID, _ := c.Locals("X-Request-ID").(string)
			logging.LogError(logger, "request failed", err,
				"method", c.Method(),
				"path", c.Path(),
				"request_id", requestID,
			)
		}
		return Detail(c, status, apperr.Message(err))
	}
}

// Param reads a request parameter from the query string, falling back to a
// top-level string field of a JSON body for clients that send one on GET.
func Param(c *fiber.Ctx, name string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	if len(c.Body()) == 0 {
		return ""
	}
	var body map[string]any
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return ""
	}
	switch v := body[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
