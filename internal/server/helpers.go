package server

import (
	"errors"
	"fmt"

	"gazette/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds a resolved page window. The page size is fixed by
// configuration; clients choose the page number only.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// parsePage extracts the page query parameter. Pages are 1-based and the
// window size comes from POSTS_PER_PAGE.
func (s *Server) parsePage(c *fiber.Ctx) Pagination {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := s.config.PostsPerPage
	if limit <= 0 {
		limit = 10
	}
	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondServiceError maps the application error taxonomy onto HTTP status
// codes: missing or invisible resources are 404, ownership failures 403,
// bad input 400, anything else 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case models.IsNotFound(err):
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	case models.IsUnauthorized(err):
		return models.RespondWithError(c, fiber.StatusForbidden, err)
	case models.IsValidation(err):
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	default:
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
}

// seeOther issues a 303 redirect carrying a JSON body. The browser flows of
// the site redirect after successful mutations, and the post edit page also
// redirects non-owners to the detail view instead of refusing outright.
func seeOther(c *fiber.Ctx, location string, body any) error {
	c.Set(fiber.HeaderLocation, location)
	return c.Status(fiber.StatusSeeOther).JSON(body)
}

func postDetailPath(postID uint) string {
	return fmt.Sprintf("/api/posts/%d", postID)
}

func profilePath(username string) string {
	return "/api/profile/" + username
}
