package server

import (
	"gazette/internal/models"
	"gazette/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/posts
//
// The feed is the same for every viewer, authenticated or not. Authors do
// not see their own hidden posts here; that view lives on their profile.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	page := s.parsePage(c)

	posts, err := s.postService.ListFeed(ctx, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	total, err := s.postService.CountVisible(ctx)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":    posts,
		"page":     page.Page,
		"per_page": page.Limit,
		"total":    total,
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := s.optionalUserID(c)
	post, err := s.postService.Get(c.Context(), viewerID, id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var input service.PostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(ctx, userID, input)
	if err != nil {
		return respondServiceError(c, err)
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Successful creation lands on the author's profile, where the new post
	// is listed even if it is not publicly visible yet.
	return seeOther(c, profilePath(author.Username), post)
}

// UpdatePost handles PUT /api/posts/:id
//
// A non-owner is not refused: the request is answered with the same
// redirect to the post detail that a successful edit produces.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var input service.PostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Update(c.Context(), userID, id, input)
	if err != nil {
		if models.IsUnauthorized(err) {
			return seeOther(c, postDetailPath(id), fiber.Map{"id": id})
		}
		return respondServiceError(c, err)
	}
	return seeOther(c, postDetailPath(id), post)
}

// DeletePost handles DELETE /api/posts/:id
//
// Unlike edit, deletion by a non-owner is a hard denial.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	if err := s.postService.Delete(ctx, userID, id); err != nil {
		return respondServiceError(c, err)
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return seeOther(c, profilePath(author.Username), fiber.Map{"deleted": id})
}
