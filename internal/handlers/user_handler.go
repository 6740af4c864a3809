package handlers

import (
	"log"

	"conduit/internal/middleware"
	"conduit/internal/models"
	"conduit/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for the authenticated user's own
// account.
type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// RegisterRoutes registers the self-account routes. Both require
// authentication.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/user", authRequired, h.HandleGetSelf)
	router.Put("/user", authRequired, h.HandleUpdateSelf)
}

// HandleGetSelf returns the owner's view of their account, reissuing a
// fresh token on every call.
func (h *UserHandler) HandleGetSelf(c *fiber.Ctx) error {
	user, err := h.userService.GetByID(middleware.CallerID(c))
	if err != nil {
		log.Printf("Error fetching current user: %v", err)
		return respondError(c, err, "Could not fetch user")
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		log.Printf("Error issuing token for user %s: %v", user.ID, err)
		return respondError(c, err, "Could not issue token")
	}

	return c.JSON(fiber.Map{
		"user": models.NewSelfResponse(user, token),
	})
}

// HandleUpdateSelf updates the caller's profile from a multipart form with
// optional fields username, bio, password and an optional image file. An
// avatar upload failure keeps the previous image and does not fail the
// request.
func (h *UserHandler) HandleUpdateSelf(c *fiber.Ctx) error {
	update := services.ProfileUpdate{
		Username: c.FormValue("username"),
		Bio:      c.FormValue("bio"),
		Password: c.FormValue("password"),
	}

	if fileHeader, err := c.FormFile("image"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			log.Printf("Error opening uploaded avatar: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Could not read uploaded image",
				"error":   err.Error(),
			})
		}
		defer file.Close()
		update.Avatar = file
		update.AvatarName = fileHeader.Filename
	}

	user, err := h.userService.UpdateProfile(middleware.CallerID(c), update)
	if err != nil {
		log.Printf("Error updating profile: %v", err)
		return respondError(c, err, "Could not update profile")
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		log.Printf("Error issuing token for user %s: %v", user.ID, err)
		return respondError(c, err, "Could not issue token")
	}

	return c.JSON(fiber.Map{
		"user": models.NewSelfResponse(user, token),
	})
}
