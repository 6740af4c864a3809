package handlers

import (
	"log"

	"conduit/internal/middleware"
	"conduit/internal/models"
	"conduit/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CommentHandler handles HTTP requests for comments on articles.
type CommentHandler struct {
	commentService *services.CommentService
	validate       *validator.Validate
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the comment routes. Listing applies optional
// authentication: anonymous callers are allowed, a present credential is
// still validated.
func (h *CommentHandler) RegisterRoutes(router fiber.Router, authRequired, authOptional fiber.Handler) {
	router.Post("/articles/:slug/comments", authRequired, h.HandleAdd)
	router.Get("/articles/:slug/comments", authOptional, h.HandleList)
	router.Delete("/articles/:slug/comments/:id", authRequired, h.HandleDelete)
}

// AddCommentRequest represents the request body for adding a comment.
type AddCommentRequest struct {
	Body string `json:"body" validate:"required"`
}

// HandleAdd adds a comment to the article with the given slug, authored by
// the authenticated caller.
func (h *CommentHandler) HandleAdd(c *fiber.Ctx) error {
	var req AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add comment request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	comment, err := h.commentService.Add(c.Params("slug"), middleware.CallerID(c), req.Body)
	if err != nil {
		log.Printf("Error adding comment: %v", err)
		return respondError(c, err, "Could not add comment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"comment": models.NewCommentResponse(comment),
	})
}

// HandleList lists the comments on an article, oldest first.
func (h *CommentHandler) HandleList(c *fiber.Ctx) error {
	comments, err := h.commentService.List(c.Params("slug"))
	if err != nil {
		log.Printf("Error listing comments for %s: %v", c.Params("slug"), err)
		return respondError(c, err, "Could not list comments")
	}

	return c.JSON(fiber.Map{
		"comments": models.NewCommentListResponse(comments),
	})
}

// HandleDelete deletes a comment. Only the comment's own author may delete
// it; the article's author gets 403 like anyone else.
func (h *CommentHandler) HandleDelete(c *fiber.Ctx) error {
	slug := c.Params("slug")
	commentID := c.Params("id")

	if err := h.commentService.Delete(slug, commentID, middleware.CallerID(c)); err != nil {
		log.Printf("Error deleting comment %s: %v", commentID, err)
		return respondError(c, err, "Could not delete comment")
	}

	return c.JSON(fiber.Map{
		"message": "Comment deleted successfully",
	})
}
