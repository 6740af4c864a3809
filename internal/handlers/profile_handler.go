package handlers

import (
	"log"

	"conduit/internal/models"
	"conduit/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles HTTP requests for public profiles.
type ProfileHandler struct {
	userService *services.UserService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(userService *services.UserService) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
	}
}

// RegisterRoutes registers the public profile routes.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/profiles/:username", h.HandleGetProfile)
}

// HandleGetProfile returns a user's public view together with their
// articles. Never includes email or token.
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	user, articles, err := h.userService.GetProfile(username)
	if err != nil {
		log.Printf("Error fetching profile %s: %v", username, err)
		return respondError(c, err, "Could not fetch profile")
	}

	return c.JSON(fiber.Map{
		"profile":  models.NewProfileResponse(user),
		"articles": models.NewArticleListResponse(articles),
	})
}
