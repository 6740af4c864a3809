package handlers

import (
	"log"

	"conduit/internal/middleware"
	"conduit/internal/models"
	"conduit/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ArticleHandler handles HTTP requests for articles.
type ArticleHandler struct {
	articleService *services.ArticleService
	validate       *validator.Validate
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(articleService *services.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the article routes. Authentication is explicit
// per route: creation, feed and deletion require it, reads do not.
func (h *ArticleHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/articles", authRequired, h.HandleCreate)
	router.Get("/articles/feed", authRequired, h.HandleFeed)
	router.Get("/articles", h.HandleList)
	router.Get("/articles/:slug", h.HandleGet)
	router.Delete("/articles/:slug", authRequired, h.HandleDelete)
}

// CreateArticleRequest represents the request body for article creation.
type CreateArticleRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=255"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Body        string   `json:"body" validate:"required"`
	TagList     []string `json:"tagList"`
}

// HandleCreate creates a new article. The author is always the
// authenticated caller, never client input.
func (h *ArticleHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create article request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	article, err := h.articleService.Create(middleware.CallerID(c), services.ArticleDraft{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		TagList:     req.TagList,
	})
	if err != nil {
		log.Printf("Error creating article: %v", err)
		return respondError(c, err, "Could not create article")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"article": models.NewArticleResponse(article),
	})
}

// HandleFeed lists all articles with authors for an authenticated caller.
func (h *ArticleHandler) HandleFeed(c *fiber.Ctx) error {
	articles, err := h.articleService.Feed()
	if err != nil {
		log.Printf("Error fetching feed: %v", err)
		return respondError(c, err, "Could not fetch feed")
	}

	return c.JSON(fiber.Map{
		"articles": models.NewArticleListResponse(articles),
	})
}

// HandleList lists articles, optionally filtered by the `tag` query
// parameter. Open to anonymous callers.
func (h *ArticleHandler) HandleList(c *fiber.Ctx) error {
	articles, err := h.articleService.List(c.Query("tag"))
	if err != nil {
		log.Printf("Error listing articles: %v", err)
		return respondError(c, err, "Could not list articles")
	}

	return c.JSON(fiber.Map{
		"articles": models.NewArticleListResponse(articles),
	})
}

// HandleGet fetches a single article by slug. Open to anonymous callers.
func (h *ArticleHandler) HandleGet(c *fiber.Ctx) error {
	article, err := h.articleService.GetBySlug(c.Params("slug"))
	if err != nil {
		log.Printf("Error fetching article %s: %v", c.Params("slug"), err)
		return respondError(c, err, "Could not fetch article")
	}

	return c.JSON(fiber.Map{
		"article": models.NewArticleResponse(article),
	})
}

// HandleDelete deletes an article and its comments. Owner-only; a
// different authenticated caller gets 403.
func (h *ArticleHandler) HandleDelete(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if err := h.articleService.Delete(slug, middleware.CallerID(c)); err != nil {
		log.Printf("Error deleting article %s: %v", slug, err)
		return respondError(c, err, "Could not delete article")
	}

	return c.JSON(fiber.Map{
		"message": "Article deleted successfully",
	})
}
