package server

import (
	"errors"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"

	"github.com/sunil-gumatimath/wave-length/internal/models"
)

// errResponseWritten means a helper already committed the HTTP response.
// Handlers return nil when they see it so Fiber's ErrorHandler does not
// overwrite the body.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter as a positive uint. On failure it
// writes a 400 response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(param, "invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam turns "id" into "ID" and "categoryId" into "category ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	prefix, ok := strings.CutSuffix(param, "Id")
	if !ok {
		return param
	}
	var words []string
	start := 0
	for i, r := range prefix {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, prefix[start:i])
			start = i
		}
	}
	words = append(words, prefix[start:])
	return strings.ToLower(strings.Join(words, " ")) + " ID"
}

// parseBody decodes the JSON body into dst. On failure it writes a 400
// response and returns errResponseWritten.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("body", "invalid request body"))
		return errResponseWritten
	}
	return nil
}

// respond writes err with the status its code maps to.
func respond(c *fiber.Ctx, err error) error {
	return models.RespondWithAppError(c, err)
}
