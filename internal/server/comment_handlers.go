package server

import (
	"gazette/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments
//
// Comments hang off the post detail page, so the same visibility gate
// applies: a post the viewer may not see has no comments to show either.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := s.optionalUserID(c)
	if _, err := s.postService.Get(c.Context(), viewerID, postID); err != nil {
		return respondServiceError(c, err)
	}

	comments, err := s.commentService.ListByPost(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/posts/:id/comments
//
// Commenting requires only that the post row exists; authors may collect
// comments on posts that are not publicly visible yet.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Create(c.Context(), userID, postID, req.Text)
	if err != nil {
		return respondServiceError(c, err)
	}
	return seeOther(c, postDetailPath(postID), comment)
}

// UpdateComment handles PUT /api/posts/:id/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.commentOnPost(c, commentID, postID); err != nil {
		return nil
	}

	comment, err := s.commentService.Update(c.Context(), userID, commentID, req.Text)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	if err := s.commentOnPost(c, commentID, postID); err != nil {
		return nil
	}

	if _, err := s.commentService.Delete(c.Context(), userID, commentID); err != nil {
		return respondServiceError(c, err)
	}
	return seeOther(c, postDetailPath(postID), fiber.Map{"deleted": commentID})
}

// commentOnPost verifies the comment actually belongs to the post in the
// URL. On failure it writes the response and returns errResponseWritten.
func (s *Server) commentOnPost(c *fiber.Ctx, commentID, postID uint) error {
	comment, err := s.commentRepo.GetByID(c.Context(), commentID)
	if err != nil {
		_ = respondServiceError(c, err)
		return errResponseWritten
	}
	if comment.PostID != postID {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Comment", commentID))
		return errResponseWritten
	}
	return nil
}
